package datastore

// EmptyDataStore carries the shape of an array whose payload has not been
// loaded. Element access always fails with ErrNotLoaded.
type EmptyDataStore[T Value] struct {
	tupleShape     Shape
	componentShape Shape
	dataFormat     string
}

// NewEmpty returns a placeholder. dataFormat is the format the array will be
// loaded as; empty means in memory.
func NewEmpty[T Value](tupleShape, componentShape Shape, dataFormat string) *EmptyDataStore[T] {
	return &EmptyDataStore[T]{
		tupleShape:     tupleShape.Clone(),
		componentShape: normalizeComponents(componentShape),
		dataFormat:     dataFormat,
	}
}

func (s *EmptyDataStore[T]) DataType() DataType         { return DataTypeOf[T]() }
func (s *EmptyDataStore[T]) TupleShape() Shape          { return s.tupleShape.Clone() }
func (s *EmptyDataStore[T]) ComponentShape() Shape      { return s.componentShape.Clone() }
func (s *EmptyDataStore[T]) NumberOfTuples() uint64     { return tupleCount(s.tupleShape) }
func (s *EmptyDataStore[T]) NumberOfComponents() uint64 { return componentCount(s.componentShape) }
func (s *EmptyDataStore[T]) Size() uint64               { return s.NumberOfTuples() * s.NumberOfComponents() }
func (s *EmptyDataStore[T]) DataFormat() string         { return s.dataFormat }
func (s *EmptyDataStore[T]) StoreType() StoreType       { return Empty }
func (s *EmptyDataStore[T]) IsLoaded() bool             { return false }

func (s *EmptyDataStore[T]) GetValue(uint64) (T, error) {
	var zero T
	return zero, ErrNotLoaded
}

func (s *EmptyDataStore[T]) SetValue(uint64, T) error { return ErrNotLoaded }
func (s *EmptyDataStore[T]) Values() ([]T, error)     { return nil, ErrNotLoaded }
func (s *EmptyDataStore[T]) SetValues([]T) error      { return ErrNotLoaded }

func (s *EmptyDataStore[T]) CloneStore() (AbstractStore[T], error) {
	return NewEmpty[T](s.tupleShape, s.componentShape, s.dataFormat), nil
}
