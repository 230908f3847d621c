package native

import (
	"bytes"
	"fmt"
	"reflect"

	"gonum.org/v1/hdf5"

	"github.com/robert-malhotra/go-simplnx/datastore"
	"github.com/robert-malhotra/go-simplnx/h5"
	"github.com/robert-malhotra/go-simplnx/internal/dtype"
)

type attrTarget interface {
	CreateAttribute(name string, dtype *hdf5.Datatype, dspace *hdf5.Dataspace) (*hdf5.Attribute, error)
	OpenAttribute(name string) (*hdf5.Attribute, error)
}

func nativeType(dt datastore.DataType) *hdf5.Datatype {
	switch dt {
	case datastore.Int8:
		return hdf5.T_NATIVE_INT8
	case datastore.UInt8, datastore.Bool:
		return hdf5.T_NATIVE_UINT8
	case datastore.Int16:
		return hdf5.T_NATIVE_INT16
	case datastore.UInt16:
		return hdf5.T_NATIVE_UINT16
	case datastore.Int32:
		return hdf5.T_NATIVE_INT32
	case datastore.UInt32:
		return hdf5.T_NATIVE_UINT32
	case datastore.Int64:
		return hdf5.T_NATIVE_INT64
	case datastore.UInt64:
		return hdf5.T_NATIVE_UINT64
	case datastore.Float32:
		return hdf5.T_NATIVE_FLOAT
	default:
		return hdf5.T_NATIVE_DOUBLE
	}
}

func kindDataType(k reflect.Kind) (datastore.DataType, bool) {
	switch k {
	case reflect.Int8:
		return datastore.Int8, true
	case reflect.Uint8:
		return datastore.UInt8, true
	case reflect.Int16:
		return datastore.Int16, true
	case reflect.Uint16:
		return datastore.UInt16, true
	case reflect.Int32:
		return datastore.Int32, true
	case reflect.Uint32:
		return datastore.UInt32, true
	case reflect.Int64:
		return datastore.Int64, true
	case reflect.Uint64:
		return datastore.UInt64, true
	case reflect.Float32:
		return datastore.Float32, true
	case reflect.Float64:
		return datastore.Float64, true
	}
	return 0, false
}

func writeAttr(t attrTarget, objPath, name string, value any) error {
	if err := h5.CheckAttrValue(value); err != nil {
		return fmt.Errorf("%s: %w", h5.JoinAttrPath(objPath, name), err)
	}
	var (
		dt   datastore.DataType
		raw  []byte
		n    int
		dims []uint64
		err  error
	)
	if s, ok := value.(string); ok {
		dt, raw, n = datastore.UInt8, append([]byte(s), 0), len(s)+1
		dims = []uint64{uint64(n)}
	} else {
		if dt, raw, n, err = h5.EncodeValues(value); err != nil {
			return fmt.Errorf("%s: %w", h5.JoinAttrPath(objPath, name), err)
		}
		if reflect.ValueOf(value).Kind() == reflect.Slice {
			dims = []uint64{uint64(n)}
		}
	}
	space, err := createSpace(dims)
	if err != nil {
		return fmt.Errorf("%s: %w", h5.JoinAttrPath(objPath, name), err)
	}
	defer space.Close()
	a, err := t.CreateAttribute(name, nativeType(dt), space)
	if err != nil {
		return fmt.Errorf("create attribute %s: %w", h5.JoinAttrPath(objPath, name), err)
	}
	defer a.Close()
	if n == 0 {
		return nil
	}
	if err := a.Write(&raw[0], nativeType(dt)); err != nil {
		return fmt.Errorf("write attribute %s: %w", h5.JoinAttrPath(objPath, name), err)
	}
	return nil
}

func readAttr(t attrTarget, objPath, name string, dest any) error {
	p := h5.JoinAttrPath(objPath, name)
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("%s: %w: destination %T", p, h5.ErrUnsupportedType, dest)
	}
	elem := dv.Elem().Type()
	isString := elem.Kind() == reflect.String
	dt := datastore.UInt8
	if !isString {
		k := elem.Kind()
		if k == reflect.Slice {
			k = elem.Elem().Kind()
		}
		var ok bool
		if dt, ok = kindDataType(k); !ok {
			return fmt.Errorf("%s: %w: destination %T", p, h5.ErrUnsupportedType, dest)
		}
	}

	a, err := t.OpenAttribute(name)
	if err != nil {
		return fmt.Errorf("%w: %s", h5.ErrAttrNotFound, p)
	}
	defer a.Close()
	space := a.Space()
	n := space.SimpleExtentNPoints()
	space.Close()

	buf := make([]byte, n*dt.Size())
	if n > 0 {
		if err := a.Read(&buf[0], nativeType(dt)); err != nil {
			return fmt.Errorf("read attribute %s: %w", p, err)
		}
	}
	if isString {
		if len(buf) == 0 || buf[len(buf)-1] != 0 {
			return fmt.Errorf("%s: %w: not a string attribute", p, h5.ErrTypeMismatch)
		}
		dv.Elem().SetString(string(buf[:bytes.IndexByte(buf, 0)]))
		return nil
	}
	vals, err := h5.DecodeValues(dt, buf, dtype.NativeOrder())
	if err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	if err := h5.ConvertAttr(dest, vals); err != nil {
		return fmt.Errorf("%s: %w", p, err)
	}
	return nil
}

func hasAttr(t attrTarget, name string) bool {
	a, err := t.OpenAttribute(name)
	if err != nil {
		return false
	}
	a.Close()
	return true
}
