package datastore

import "fmt"

// DataStore is a loaded, contiguous in-memory buffer of T.
type DataStore[T Value] struct {
	tupleShape     Shape
	componentShape Shape
	data           []T
}

// New allocates a zeroed store with the given shapes.
func New[T Value](tupleShape, componentShape Shape) *DataStore[T] {
	size := tupleCount(tupleShape) * componentCount(componentShape)
	return &DataStore[T]{
		tupleShape:     tupleShape.Clone(),
		componentShape: normalizeComponents(componentShape),
		data:           make([]T, size),
	}
}

// NewFilled allocates a store with every element set to init.
func NewFilled[T Value](tupleShape, componentShape Shape, init T) *DataStore[T] {
	s := New[T](tupleShape, componentShape)
	s.Fill(init)
	return s
}

// NewFromSlice wraps vals without copying. len(vals) must match the shapes.
func NewFromSlice[T Value](tupleShape, componentShape Shape, vals []T) (*DataStore[T], error) {
	size := tupleCount(tupleShape) * componentCount(componentShape)
	if uint64(len(vals)) != size {
		return nil, fmt.Errorf("%w: %d values for %d elements", ErrShapeMismatch, len(vals), size)
	}
	return &DataStore[T]{
		tupleShape:     tupleShape.Clone(),
		componentShape: normalizeComponents(componentShape),
		data:           vals,
	}, nil
}

func normalizeComponents(s Shape) Shape {
	if len(s) == 0 {
		return Shape{1}
	}
	return s.Clone()
}

func (s *DataStore[T]) DataType() DataType         { return DataTypeOf[T]() }
func (s *DataStore[T]) TupleShape() Shape          { return s.tupleShape.Clone() }
func (s *DataStore[T]) ComponentShape() Shape      { return s.componentShape.Clone() }
func (s *DataStore[T]) NumberOfTuples() uint64     { return tupleCount(s.tupleShape) }
func (s *DataStore[T]) NumberOfComponents() uint64 { return componentCount(s.componentShape) }
func (s *DataStore[T]) Size() uint64               { return uint64(len(s.data)) }
func (s *DataStore[T]) DataFormat() string         { return "" }
func (s *DataStore[T]) StoreType() StoreType       { return InMemory }
func (s *DataStore[T]) IsLoaded() bool             { return true }

// At returns element i. It panics if i is out of range.
func (s *DataStore[T]) At(i uint64) T {
	return s.data[i]
}

// Set assigns element i. It panics if i is out of range.
func (s *DataStore[T]) Set(i uint64, v T) {
	s.data[i] = v
}

// Slice exposes the backing buffer. Writes through it are visible to the store.
func (s *DataStore[T]) Slice() []T {
	return s.data
}

// Tuple returns a copy of the components of tuple t.
func (s *DataStore[T]) Tuple(t uint64) []T {
	n := s.NumberOfComponents()
	out := make([]T, n)
	copy(out, s.data[t*n:(t+1)*n])
	return out
}

// SetTuple copies vals into tuple t.
func (s *DataStore[T]) SetTuple(t uint64, vals []T) error {
	n := s.NumberOfComponents()
	if uint64(len(vals)) != n {
		return fmt.Errorf("%w: tuple has %d components, got %d", ErrShapeMismatch, n, len(vals))
	}
	if t >= s.NumberOfTuples() {
		return fmt.Errorf("%w: tuple %d of %d", ErrOutOfRange, t, s.NumberOfTuples())
	}
	copy(s.data[t*n:], vals)
	return nil
}

// Fill sets every element to v.
func (s *DataStore[T]) Fill(v T) {
	for i := range s.data {
		s.data[i] = v
	}
}

// Resize changes the tuple shape. Existing values are kept up to the smaller
// of the old and new sizes; new elements are zero.
func (s *DataStore[T]) Resize(tupleShape Shape) {
	size := tupleCount(tupleShape) * s.NumberOfComponents()
	if size != uint64(len(s.data)) {
		data := make([]T, size)
		copy(data, s.data)
		s.data = data
	}
	s.tupleShape = tupleShape.Clone()
}

func (s *DataStore[T]) GetValue(i uint64) (T, error) {
	if i >= uint64(len(s.data)) {
		var zero T
		return zero, fmt.Errorf("%w: %d of %d", ErrOutOfRange, i, len(s.data))
	}
	return s.data[i], nil
}

func (s *DataStore[T]) SetValue(i uint64, v T) error {
	if i >= uint64(len(s.data)) {
		return fmt.Errorf("%w: %d of %d", ErrOutOfRange, i, len(s.data))
	}
	s.data[i] = v
	return nil
}

func (s *DataStore[T]) Values() ([]T, error) {
	out := make([]T, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *DataStore[T]) SetValues(vals []T) error {
	if len(vals) != len(s.data) {
		return fmt.Errorf("%w: %d values for %d elements", ErrShapeMismatch, len(vals), len(s.data))
	}
	copy(s.data, vals)
	return nil
}

func (s *DataStore[T]) CloneStore() (AbstractStore[T], error) {
	return s.Clone(), nil
}

// Clone returns a deep copy of s.
func (s *DataStore[T]) Clone() *DataStore[T] {
	data := make([]T, len(s.data))
	copy(data, s.data)
	return &DataStore[T]{
		tupleShape:     s.tupleShape.Clone(),
		componentShape: s.componentShape.Clone(),
		data:           data,
	}
}
