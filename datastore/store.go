package datastore

// StoreType distinguishes the loaded, placeholder and out-of-core variants.
type StoreType uint8

const (
	InMemory StoreType = iota
	Empty
	OutOfCore
)

func (t StoreType) String() string {
	switch t {
	case InMemory:
		return "in-memory"
	case Empty:
		return "empty"
	case OutOfCore:
		return "out-of-core"
	default:
		return "unknown"
	}
}

// Dropper is implemented by stores that hold their payload outside the Go
// heap. Drop releases it; the store must not be used afterwards.
type Dropper interface {
	Drop() error
}

// Store is the type-erased view of a value buffer.
type Store interface {
	DataType() DataType
	TupleShape() Shape
	ComponentShape() Shape
	NumberOfTuples() uint64
	NumberOfComponents() uint64
	// Size is NumberOfTuples() * NumberOfComponents().
	Size() uint64
	// DataFormat names the storage format. It is empty for in-memory data;
	// any other value means the payload lives outside process memory and must
	// not be accessed concurrently.
	DataFormat() string
	StoreType() StoreType
	IsLoaded() bool
}

// AbstractStore is a Store of T with error-returning element access.
type AbstractStore[T Value] interface {
	Store
	GetValue(i uint64) (T, error)
	SetValue(i uint64, v T) error
	// Values returns a copy of every element.
	Values() ([]T, error)
	// SetValues replaces every element; len(vals) must equal Size().
	SetValues(vals []T) error
	CloneStore() (AbstractStore[T], error)
}

func tupleCount(tupleShape Shape) uint64 {
	return tupleShape.Product()
}

func componentCount(componentShape Shape) uint64 {
	if len(componentShape) == 0 {
		return 1
	}
	return componentShape.Product()
}
