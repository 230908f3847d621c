package h5

import (
	"fmt"

	"github.com/robert-malhotra/go-simplnx/datastore"
	"github.com/robert-malhotra/go-simplnx/internal/dtype"
)

// WriteValues writes vals as a native-order dataset of dims.
func WriteValues[T datastore.Value](g Group, name string, dims []uint64, vals []T) (Dataset, error) {
	return g.WriteDataset(name, TypeOf(datastore.DataTypeOf[T]()), dims, dtype.Encode(vals))
}

// ReadValues reads every element of ds as T, swapping bytes when the
// dataset's byte order differs from the host's.
func ReadValues[T datastore.Value](ds Dataset) ([]T, error) {
	want := datastore.DataTypeOf[T]()
	t := ds.Type()
	if !t.Compatible(want) {
		return nil, fmt.Errorf("%w: %s is %s, want %s", ErrTypeMismatch, ds.Path(), t, want)
	}
	raw, err := ds.ReadRaw()
	if err != nil {
		return nil, err
	}
	return dtype.Decode[T](raw, t.Order)
}

// ReadValuesInto fills dst from ds; len(dst) must equal the element count.
func ReadValuesInto[T datastore.Value](ds Dataset, dst []T) error {
	want := datastore.DataTypeOf[T]()
	t := ds.Type()
	if !t.Compatible(want) {
		return fmt.Errorf("%w: %s is %s, want %s", ErrTypeMismatch, ds.Path(), t, want)
	}
	raw, err := ds.ReadRaw()
	if err != nil {
		return err
	}
	return dtype.DecodeInto(dst, raw, t.Order)
}

// ReadConverted reads every element of ds and converts it to T the way
// HDF5 converts between numeric types on read.
func ReadConverted[T datastore.Value](ds Dataset) ([]T, error) {
	t := ds.Type()
	if t.Compatible(datastore.DataTypeOf[T]()) {
		return ReadValues[T](ds)
	}
	dt, err := t.DataType()
	if err != nil {
		return nil, err
	}
	raw, err := ds.ReadRaw()
	if err != nil {
		return nil, err
	}
	vals, err := DecodeValues(dt, raw, t.Order)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := ConvertAttr(&out, vals); err != nil {
		return nil, fmt.Errorf("%s: %w", ds.Path(), err)
	}
	return out, nil
}

// NumElements returns the product of dims; a rank-0 dataset holds one.
func NumElements(dims []uint64) uint64 {
	n := uint64(1)
	for _, d := range dims {
		n *= d
	}
	return n
}

// DecodeValues decodes raw into a []T chosen by dt, returned as any.
func DecodeValues(dt datastore.DataType, raw []byte, order dtype.ByteOrder) (any, error) {
	switch dt {
	case datastore.Int8:
		return dtype.Decode[int8](raw, order)
	case datastore.UInt8:
		return dtype.Decode[uint8](raw, order)
	case datastore.Int16:
		return dtype.Decode[int16](raw, order)
	case datastore.UInt16:
		return dtype.Decode[uint16](raw, order)
	case datastore.Int32:
		return dtype.Decode[int32](raw, order)
	case datastore.UInt32:
		return dtype.Decode[uint32](raw, order)
	case datastore.Int64:
		return dtype.Decode[int64](raw, order)
	case datastore.UInt64:
		return dtype.Decode[uint64](raw, order)
	case datastore.Float32:
		return dtype.Decode[float32](raw, order)
	case datastore.Float64:
		return dtype.Decode[float64](raw, order)
	case datastore.Bool:
		return dtype.Decode[bool](raw, order)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, dt)
}

// EncodeValues encodes a numeric scalar or slice in native order and
// reports its element type and count.
func EncodeValues(value any) (datastore.DataType, []byte, int, error) {
	switch v := value.(type) {
	case int8:
		return datastore.Int8, dtype.Encode([]int8{v}), 1, nil
	case uint8:
		return datastore.UInt8, dtype.Encode([]uint8{v}), 1, nil
	case int16:
		return datastore.Int16, dtype.Encode([]int16{v}), 1, nil
	case uint16:
		return datastore.UInt16, dtype.Encode([]uint16{v}), 1, nil
	case int32:
		return datastore.Int32, dtype.Encode([]int32{v}), 1, nil
	case uint32:
		return datastore.UInt32, dtype.Encode([]uint32{v}), 1, nil
	case int64:
		return datastore.Int64, dtype.Encode([]int64{v}), 1, nil
	case uint64:
		return datastore.UInt64, dtype.Encode([]uint64{v}), 1, nil
	case float32:
		return datastore.Float32, dtype.Encode([]float32{v}), 1, nil
	case float64:
		return datastore.Float64, dtype.Encode([]float64{v}), 1, nil
	case []int8:
		return datastore.Int8, dtype.Encode(v), len(v), nil
	case []uint8:
		return datastore.UInt8, dtype.Encode(v), len(v), nil
	case []int16:
		return datastore.Int16, dtype.Encode(v), len(v), nil
	case []uint16:
		return datastore.UInt16, dtype.Encode(v), len(v), nil
	case []int32:
		return datastore.Int32, dtype.Encode(v), len(v), nil
	case []uint32:
		return datastore.UInt32, dtype.Encode(v), len(v), nil
	case []int64:
		return datastore.Int64, dtype.Encode(v), len(v), nil
	case []uint64:
		return datastore.UInt64, dtype.Encode(v), len(v), nil
	case []float32:
		return datastore.Float32, dtype.Encode(v), len(v), nil
	case []float64:
		return datastore.Float64, dtype.Encode(v), len(v), nil
	}
	return 0, nil, 0, fmt.Errorf("%w: %T", ErrUnsupportedType, value)
}
