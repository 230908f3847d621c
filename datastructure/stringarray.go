package datastructure

import (
	"fmt"

	"github.com/robert-malhotra/go-simplnx/datastore"
)

// StringArray holds one string per tuple.
type StringArray struct {
	objectHeader
	values []string
}

// CreateStringArray creates a StringArray holding a copy of values.
func CreateStringArray(ds *DataStructure, name string, values []string, parent ID) (*StringArray, error) {
	sa := &StringArray{objectHeader: ds.newHeader(name), values: append([]string{}, values...)}
	if err := ds.insert(sa, parent); err != nil {
		return nil, err
	}
	return sa, nil
}

func (*StringArray) Kind() Kind                      { return KindStringArray }
func (*StringArray) TypeName() string                { return KindStringArray.String() }
func (sa *StringArray) TupleShape() datastore.Shape  { return datastore.Shape{uint64(len(sa.values))} }
func (*StringArray) ComponentShape() datastore.Shape { return datastore.Shape{1} }
func (sa *StringArray) NumberOfTuples() uint64       { return uint64(len(sa.values)) }
func (*StringArray) NumberOfComponents() uint64      { return 1 }

// Values returns a copy of the strings.
func (sa *StringArray) Values() []string { return append([]string{}, sa.values...) }

// Value returns string i.
func (sa *StringArray) Value(i uint64) (string, error) {
	if i >= uint64(len(sa.values)) {
		return "", fmt.Errorf("%w: %d of %d", datastore.ErrOutOfRange, i, len(sa.values))
	}
	return sa.values[i], nil
}

// SetValue replaces string i.
func (sa *StringArray) SetValue(i uint64, v string) error {
	if i >= uint64(len(sa.values)) {
		return fmt.Errorf("%w: %d of %d", datastore.ErrOutOfRange, i, len(sa.values))
	}
	sa.values[i] = v
	return nil
}

// Fingerprint hashes the strings as a NUL-separated byte sequence.
func (sa *StringArray) Fingerprint() (uint64, error) {
	var buf []byte
	for _, v := range sa.values {
		buf = append(buf, v...)
		buf = append(buf, 0)
	}
	s, err := datastore.NewFromSlice(datastore.Shape{uint64(len(buf))}, nil, buf)
	if err != nil {
		return 0, err
	}
	return datastore.Fingerprint[uint8](s)
}

func (sa *StringArray) checkResize() error { return nil }

func (sa *StringArray) resizeTuples(shape datastore.Shape) error {
	vals := make([]string, shape.Product())
	copy(vals, sa.values)
	sa.values = vals
	return nil
}

func (sa *StringArray) cloneInto(ds *DataStructure) (Object, error) {
	return &StringArray{objectHeader: sa.cloneHeader(ds), values: sa.Values()}, nil
}
