package h5

import (
	"fmt"
	"reflect"
)

// ReadAttrAs reads the attribute into a new T.
func ReadAttrAs[T any](h AttrHolder, name string) (T, error) {
	var v T
	err := h.ReadAttr(name, &v)
	return v, err
}

// ReadAttrOr reads the attribute, returning def when it is absent.
func ReadAttrOr[T any](h AttrHolder, name string, def T) (T, error) {
	if !h.HasAttr(name) {
		return def, nil
	}
	return ReadAttrAs[T](h, name)
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// CheckAttrValue reports whether value can be stored as an attribute.
func CheckAttrValue(value any) error {
	v := reflect.ValueOf(value)
	switch {
	case !v.IsValid():
		return fmt.Errorf("%w: nil attribute value", ErrUnsupportedType)
	case v.Kind() == reflect.String, isNumericKind(v.Kind()):
		return nil
	case v.Kind() == reflect.Slice && isNumericKind(v.Type().Elem().Kind()):
		return nil
	}
	return fmt.Errorf("%w: attribute of type %T", ErrUnsupportedType, value)
}

// CopyAttrValue returns value with any slice copied.
func CopyAttrValue(value any) any {
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Slice {
		return value
	}
	out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(out, v)
	return out.Interface()
}

// ConvertAttr stores value into dest, converting between numeric types the
// way HDF5 converts on read. A one-element slice can be read as a scalar and
// a scalar as a one-element slice.
func ConvertAttr(dest, value any) error {
	dp := reflect.ValueOf(dest)
	if dp.Kind() != reflect.Pointer || dp.IsNil() {
		return fmt.Errorf("%w: destination must be a non-nil pointer, got %T", ErrUnsupportedType, dest)
	}
	dv := dp.Elem()
	sv := reflect.ValueOf(value)
	if !sv.IsValid() {
		return fmt.Errorf("%w: nil attribute value", ErrTypeMismatch)
	}
	switch {
	case dv.Kind() == reflect.String:
		if sv.Kind() != reflect.String {
			return fmt.Errorf("%w: cannot read %T as string", ErrTypeMismatch, value)
		}
		dv.SetString(sv.String())
		return nil

	case isNumericKind(dv.Kind()):
		if sv.Kind() == reflect.Slice && sv.Len() == 1 {
			sv = sv.Index(0)
		}
		if !isNumericKind(sv.Kind()) {
			return fmt.Errorf("%w: cannot read %T as %s", ErrTypeMismatch, value, dv.Type())
		}
		dv.Set(sv.Convert(dv.Type()))
		return nil

	case dv.Kind() == reflect.Slice && isNumericKind(dv.Type().Elem().Kind()):
		et := dv.Type().Elem()
		if isNumericKind(sv.Kind()) {
			out := reflect.MakeSlice(dv.Type(), 1, 1)
			out.Index(0).Set(sv.Convert(et))
			dv.Set(out)
			return nil
		}
		if sv.Kind() != reflect.Slice || !isNumericKind(sv.Type().Elem().Kind()) {
			return fmt.Errorf("%w: cannot read %T as %s", ErrTypeMismatch, value, dv.Type())
		}
		out := reflect.MakeSlice(dv.Type(), sv.Len(), sv.Len())
		for i := 0; i < sv.Len(); i++ {
			out.Index(i).Set(sv.Index(i).Convert(et))
		}
		dv.Set(out)
		return nil
	}
	return fmt.Errorf("%w: destination %T", ErrUnsupportedType, dest)
}
