package h5

import (
	"fmt"

	"github.com/robert-malhotra/go-simplnx/datastore"
	"github.com/robert-malhotra/go-simplnx/internal/dtype"
)

// Class is the HDF5 datatype class of a dataset.
type Class uint8

const (
	ClassInteger Class = iota + 1
	ClassFloat
)

func (c Class) String() string {
	switch c {
	case ClassInteger:
		return "integer"
	case ClassFloat:
		return "float"
	default:
		return fmt.Sprintf("Class(%d)", uint8(c))
	}
}

// TypeInfo describes the element type of a dataset as stored in the file.
type TypeInfo struct {
	Class  Class
	Size   int
	Signed bool
	Order  dtype.ByteOrder
}

// TypeOf returns the native-order TypeInfo used to store dt. Booleans are
// stored as unsigned 8-bit integers.
func TypeOf(dt datastore.DataType) TypeInfo {
	t := TypeInfo{Class: ClassInteger, Size: dt.Size(), Signed: dt.IsSigned(), Order: dtype.NativeOrder()}
	if dt.IsFloat() {
		t.Class = ClassFloat
		t.Signed = true
	}
	return t
}

// WithOrder returns t with the byte order replaced.
func (t TypeInfo) WithOrder(o dtype.ByteOrder) TypeInfo {
	t.Order = o
	return t
}

// DataType maps t back to a DataType. Booleans cannot be told apart from
// uint8 and map to UInt8.
func (t TypeInfo) DataType() (datastore.DataType, error) {
	switch t.Class {
	case ClassFloat:
		switch t.Size {
		case 4:
			return datastore.Float32, nil
		case 8:
			return datastore.Float64, nil
		}
	case ClassInteger:
		switch {
		case t.Size == 1 && t.Signed:
			return datastore.Int8, nil
		case t.Size == 1:
			return datastore.UInt8, nil
		case t.Size == 2 && t.Signed:
			return datastore.Int16, nil
		case t.Size == 2:
			return datastore.UInt16, nil
		case t.Size == 4 && t.Signed:
			return datastore.Int32, nil
		case t.Size == 4:
			return datastore.UInt32, nil
		case t.Size == 8 && t.Signed:
			return datastore.Int64, nil
		case t.Size == 8:
			return datastore.UInt64, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

// Compatible reports whether a dataset of type t can be read as dt.
func (t TypeInfo) Compatible(dt datastore.DataType) bool {
	if dt == datastore.Bool {
		return t.Class == ClassInteger && t.Size == 1
	}
	got, err := t.DataType()
	return err == nil && got == dt
}

func (t TypeInfo) String() string {
	sign := "u"
	if t.Signed {
		sign = "s"
	}
	if t.Class == ClassFloat {
		sign = "f"
	}
	return fmt.Sprintf("%s%d %s", sign, t.Size*8, t.Order)
}
