package datastructure

import (
	"fmt"

	"github.com/robert-malhotra/go-simplnx/datastore"
)

// IArray is implemented by objects with a tuple/component layout. Only
// IArray objects may live in an AttributeMatrix.
type IArray interface {
	Object
	TupleShape() datastore.Shape
	ComponentShape() datastore.Shape
	NumberOfTuples() uint64
	NumberOfComponents() uint64

	// checkResize reports why resizeTuples would fail without changing anything.
	checkResize() error
	resizeTuples(shape datastore.Shape) error
}

// IDataArray is the type-erased view of a DataArray.
type IDataArray interface {
	IArray
	DataType() datastore.DataType
	Store() datastore.Store
	// DataFormat is empty for in-memory data.
	DataFormat() string
	IsLoaded() bool
	Fingerprint() (uint64, error)
	// ReplaceStore swaps the backing store. The new store must have the
	// same element type and shapes.
	ReplaceStore(s datastore.Store) error
}

// DataArray is a typed N-dimensional array backed by a store.
type DataArray[T datastore.Value] struct {
	objectHeader
	store datastore.AbstractStore[T]
}

// CreateDataArray creates a DataArray over store under parent.
func CreateDataArray[T datastore.Value](ds *DataStructure, name string, store datastore.AbstractStore[T], parent ID) (*DataArray[T], error) {
	if store == nil {
		return nil, fmt.Errorf("create %q: %w", name, ErrNilObject)
	}
	a := &DataArray[T]{objectHeader: ds.newHeader(name), store: store}
	if err := ds.insert(a, parent); err != nil {
		return nil, err
	}
	return a, nil
}

// CreateArray creates a zero-filled in-memory DataArray.
func CreateArray[T datastore.Value](ds *DataStructure, name string, tupleShape, componentShape datastore.Shape, parent ID) (*DataArray[T], error) {
	return CreateDataArray[T](ds, name, datastore.New[T](tupleShape, componentShape), parent)
}

func (*DataArray[T]) Kind() Kind { return KindDataArray }

func (a *DataArray[T]) TypeName() string {
	return DataArrayTypeName(datastore.DataTypeOf[T]())
}

// DataArrayTypeName returns the TypeName of a DataArray of element type t.
func DataArrayTypeName(t datastore.DataType) string {
	return fmt.Sprintf("%s<%s>", KindDataArray, t)
}

func (a *DataArray[T]) DataType() datastore.DataType           { return datastore.DataTypeOf[T]() }
func (a *DataArray[T]) Store() datastore.Store                 { return a.store }
func (a *DataArray[T]) TypedStore() datastore.AbstractStore[T] { return a.store }
func (a *DataArray[T]) TupleShape() datastore.Shape            { return a.store.TupleShape() }
func (a *DataArray[T]) ComponentShape() datastore.Shape        { return a.store.ComponentShape() }
func (a *DataArray[T]) NumberOfTuples() uint64                 { return a.store.NumberOfTuples() }
func (a *DataArray[T]) NumberOfComponents() uint64             { return a.store.NumberOfComponents() }
func (a *DataArray[T]) Size() uint64                           { return a.store.Size() }
func (a *DataArray[T]) DataFormat() string                     { return a.store.DataFormat() }
func (a *DataArray[T]) IsLoaded() bool                         { return a.store.IsLoaded() }

// InMemory returns the backing store when it is a loaded in-memory store.
func (a *DataArray[T]) InMemory() (*datastore.DataStore[T], bool) {
	s, ok := a.store.(*datastore.DataStore[T])
	return s, ok
}

// Value returns element i of the flat value sequence.
func (a *DataArray[T]) Value(i uint64) (T, error) { return a.store.GetValue(i) }

// SetValue stores v at element i.
func (a *DataArray[T]) SetValue(i uint64, v T) error { return a.store.SetValue(i, v) }

// Values returns a copy of every element.
func (a *DataArray[T]) Values() ([]T, error) { return a.store.Values() }

// SetStore swaps the backing store for one with identical shapes.
func (a *DataArray[T]) SetStore(s datastore.AbstractStore[T]) error {
	if s == nil {
		return ErrNilObject
	}
	if !s.TupleShape().Equal(a.store.TupleShape()) || !s.ComponentShape().Equal(a.store.ComponentShape()) {
		return fmt.Errorf("%w: %q has shape %v x %v, store has %v x %v", datastore.ErrShapeMismatch, a.name,
			a.store.TupleShape(), a.store.ComponentShape(), s.TupleShape(), s.ComponentShape())
	}
	old := a.store
	a.store = s
	if _, ok := old.(datastore.Dropper); ok && any(old) != any(s) {
		a.ds.dropStore(a.name, old)
	}
	return nil
}

func (a *DataArray[T]) ReplaceStore(s datastore.Store) error {
	typed, ok := s.(datastore.AbstractStore[T])
	if !ok {
		return fmt.Errorf("%w: %q holds %s, store holds %s", datastore.ErrTypeMismatch, a.name, a.DataType(), s.DataType())
	}
	return a.SetStore(typed)
}

func (a *DataArray[T]) Fingerprint() (uint64, error) { return datastore.Fingerprint[T](a.store) }

func (a *DataArray[T]) checkResize() error {
	switch a.store.(type) {
	case *datastore.DataStore[T], *datastore.EmptyDataStore[T]:
		return nil
	}
	return fmt.Errorf("cannot resize %s store of %q", a.store.StoreType(), a.name)
}

func (a *DataArray[T]) resizeTuples(shape datastore.Shape) error {
	switch s := a.store.(type) {
	case *datastore.DataStore[T]:
		s.Resize(shape)
	case *datastore.EmptyDataStore[T]:
		a.store = datastore.NewEmpty[T](shape, s.ComponentShape(), s.DataFormat())
	default:
		return fmt.Errorf("cannot resize %s store of %q", a.store.StoreType(), a.name)
	}
	return nil
}

func (a *DataArray[T]) cloneInto(ds *DataStructure) (Object, error) {
	s, err := a.store.CloneStore()
	if err != nil {
		return nil, fmt.Errorf("clone %q: %w", a.name, err)
	}
	return &DataArray[T]{objectHeader: a.cloneHeader(ds), store: s}, nil
}

// ScalarData holds a single value.
type ScalarData[T datastore.Value] struct {
	objectHeader
	value T
}

// CreateScalarData creates a ScalarData under parent.
func CreateScalarData[T datastore.Value](ds *DataStructure, name string, value T, parent ID) (*ScalarData[T], error) {
	s := &ScalarData[T]{objectHeader: ds.newHeader(name), value: value}
	if err := ds.insert(s, parent); err != nil {
		return nil, err
	}
	return s, nil
}

func (*ScalarData[T]) Kind() Kind { return KindScalarData }

func (*ScalarData[T]) TypeName() string {
	return fmt.Sprintf("%s<%s>", KindScalarData, datastore.DataTypeOf[T]())
}

func (*ScalarData[T]) DataType() datastore.DataType { return datastore.DataTypeOf[T]() }
func (s *ScalarData[T]) Value() T                   { return s.value }
func (s *ScalarData[T]) SetValue(v T)               { s.value = v }

// Any returns the value as an untyped interface.
func (s *ScalarData[T]) Any() any { return s.value }

func (s *ScalarData[T]) cloneInto(ds *DataStructure) (Object, error) {
	return &ScalarData[T]{objectHeader: s.cloneHeader(ds), value: s.value}, nil
}
