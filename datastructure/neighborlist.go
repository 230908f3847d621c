package datastructure

import (
	"fmt"
	"math/bits"

	"github.com/robert-malhotra/go-simplnx/datastore"
)

// INeighborList is the type-erased view of a NeighborList.
type INeighborList interface {
	IArray
	DataType() datastore.DataType
	IsLoaded() bool
	// NumNeighbors returns the length of every tuple's list.
	NumNeighbors() ([]int32, error)
	TotalValues() uint64
	Fingerprint() (uint64, error)
}

// NeighborList holds a variable-length list of values per tuple. A list
// created as a placeholder knows its tuple count but holds no lists until
// SetLists is called.
type NeighborList[T datastore.Value] struct {
	objectHeader
	numTuples uint64
	lists     [][]T
	loaded    bool
}

// CreateNeighborList creates a loaded NeighborList with numTuples empty
// lists.
func CreateNeighborList[T datastore.Value](ds *DataStructure, name string, numTuples uint64, parent ID) (*NeighborList[T], error) {
	nl := &NeighborList[T]{objectHeader: ds.newHeader(name), numTuples: numTuples, lists: make([][]T, numTuples), loaded: true}
	if err := ds.insert(nl, parent); err != nil {
		return nil, err
	}
	return nl, nil
}

// CreateNeighborListPlaceholder creates an unloaded NeighborList.
func CreateNeighborListPlaceholder[T datastore.Value](ds *DataStructure, name string, numTuples uint64, parent ID) (*NeighborList[T], error) {
	nl := &NeighborList[T]{objectHeader: ds.newHeader(name), numTuples: numTuples}
	if err := ds.insert(nl, parent); err != nil {
		return nil, err
	}
	return nl, nil
}

func (*NeighborList[T]) Kind() Kind { return KindNeighborList }

func (*NeighborList[T]) TypeName() string {
	return NeighborListTypeName(datastore.DataTypeOf[T]())
}

// NeighborListTypeName returns the TypeName of a NeighborList of element
// type t.
func NeighborListTypeName(t datastore.DataType) string {
	return fmt.Sprintf("%s<%s>", KindNeighborList, t)
}

func (*NeighborList[T]) DataType() datastore.DataType    { return datastore.DataTypeOf[T]() }
func (nl *NeighborList[T]) TupleShape() datastore.Shape  { return datastore.Shape{nl.numTuples} }
func (*NeighborList[T]) ComponentShape() datastore.Shape { return datastore.Shape{1} }
func (nl *NeighborList[T]) NumberOfTuples() uint64       { return nl.numTuples }
func (*NeighborList[T]) NumberOfComponents() uint64      { return 1 }
func (nl *NeighborList[T]) IsLoaded() bool               { return nl.loaded }

// List returns the list of tuple i. The returned slice is shared.
func (nl *NeighborList[T]) List(i uint64) ([]T, error) {
	if err := nl.checkTuple(i); err != nil {
		return nil, err
	}
	return nl.lists[i], nil
}

// SetList replaces the list of tuple i with a copy of vals.
func (nl *NeighborList[T]) SetList(i uint64, vals []T) error {
	if err := nl.checkTuple(i); err != nil {
		return err
	}
	nl.lists[i] = append([]T(nil), vals...)
	return nil
}

// AddEntry appends v to the list of tuple i.
func (nl *NeighborList[T]) AddEntry(i uint64, v T) error {
	if err := nl.checkTuple(i); err != nil {
		return err
	}
	nl.lists[i] = append(nl.lists[i], v)
	return nil
}

// SetLists replaces every list and marks the neighbor list loaded.
func (nl *NeighborList[T]) SetLists(lists [][]T) error {
	if uint64(len(lists)) != nl.numTuples {
		return fmt.Errorf("%w: %q has %d tuples, got %d lists", datastore.ErrShapeMismatch, nl.name, nl.numTuples, len(lists))
	}
	nl.lists = make([][]T, len(lists))
	for i, l := range lists {
		nl.lists[i] = append([]T(nil), l...)
	}
	nl.loaded = true
	return nil
}

// SetFlattened loads the lists from a flat value sequence split by counts.
func (nl *NeighborList[T]) SetFlattened(counts []int32, values []T) error {
	if uint64(len(counts)) != nl.numTuples {
		return fmt.Errorf("%w: %q has %d tuples, got %d counts", datastore.ErrShapeMismatch, nl.name, nl.numTuples, len(counts))
	}
	lists := make([][]T, len(counts))
	var off uint64
	for i, c := range counts {
		if c < 0 || off+uint64(c) > uint64(len(values)) {
			return fmt.Errorf("%w: %q list %d overruns %d values", datastore.ErrShapeMismatch, nl.name, i, len(values))
		}
		lists[i] = values[off : off+uint64(c) : off+uint64(c)]
		off += uint64(c)
	}
	if off != uint64(len(values)) {
		return fmt.Errorf("%w: %q counts sum to %d, got %d values", datastore.ErrShapeMismatch, nl.name, off, len(values))
	}
	return nl.SetLists(lists)
}

func (nl *NeighborList[T]) NumNeighbors() ([]int32, error) {
	if !nl.loaded {
		return nil, datastore.ErrNotLoaded
	}
	out := make([]int32, len(nl.lists))
	for i, l := range nl.lists {
		out[i] = int32(len(l))
	}
	return out, nil
}

// TotalValues returns the number of values across all lists.
func (nl *NeighborList[T]) TotalValues() uint64 {
	var n uint64
	for _, l := range nl.lists {
		n += uint64(len(l))
	}
	return n
}

// Flatten concatenates every list in tuple order.
func (nl *NeighborList[T]) Flatten() ([]T, error) {
	if !nl.loaded {
		return nil, datastore.ErrNotLoaded
	}
	out := make([]T, 0, nl.TotalValues())
	for _, l := range nl.lists {
		out = append(out, l...)
	}
	return out, nil
}

func (nl *NeighborList[T]) Fingerprint() (uint64, error) {
	counts, err := nl.NumNeighbors()
	if err != nil {
		return 0, err
	}
	flat, err := nl.Flatten()
	if err != nil {
		return 0, err
	}
	cs, err := datastore.NewFromSlice(datastore.Shape{uint64(len(counts))}, nil, counts)
	if err != nil {
		return 0, err
	}
	vs, err := datastore.NewFromSlice(datastore.Shape{uint64(len(flat))}, nil, flat)
	if err != nil {
		return 0, err
	}
	a, err := datastore.Fingerprint[int32](cs)
	if err != nil {
		return 0, err
	}
	b, err := datastore.Fingerprint[T](vs)
	if err != nil {
		return 0, err
	}
	return bits.RotateLeft64(a, 17) ^ b, nil
}

func (nl *NeighborList[T]) checkTuple(i uint64) error {
	if !nl.loaded {
		return datastore.ErrNotLoaded
	}
	if i >= nl.numTuples {
		return fmt.Errorf("%w: tuple %d of %d", datastore.ErrOutOfRange, i, nl.numTuples)
	}
	return nil
}

func (nl *NeighborList[T]) checkResize() error { return nil }

func (nl *NeighborList[T]) resizeTuples(shape datastore.Shape) error {
	n := shape.Product()
	if nl.loaded {
		lists := make([][]T, n)
		copy(lists, nl.lists)
		nl.lists = lists
	}
	nl.numTuples = n
	return nil
}

func (nl *NeighborList[T]) cloneInto(ds *DataStructure) (Object, error) {
	c := &NeighborList[T]{objectHeader: nl.cloneHeader(ds), numTuples: nl.numTuples, loaded: nl.loaded}
	if nl.loaded {
		c.lists = make([][]T, len(nl.lists))
		for i, l := range nl.lists {
			c.lists[i] = append([]T(nil), l...)
		}
	}
	return c, nil
}
