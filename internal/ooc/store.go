package ooc

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"

	"github.com/robert-malhotra/go-simplnx/datastore"
	"github.com/robert-malhotra/go-simplnx/internal/dtype"
	"github.com/robert-malhotra/go-simplnx/internal/filter"
)

// Store is a chunked out-of-core datastore.AbstractStore.
type Store[T datastore.Value] struct {
	db             *DB
	pipe           *filter.Pipeline
	ns             uuid.UUID
	tupleShape     datastore.Shape
	componentShape datastore.Shape

	chunk    []T
	chunkIdx uint64
	cached   bool
	dirty    bool
}

var (
	_ datastore.AbstractStore[float32] = (*Store[float32])(nil)
	_ datastore.Dropper                = (*Store[float32])(nil)
)

// NewStore returns a zero-filled store in db.
func NewStore[T datastore.Value](db *DB, tupleShape, componentShape datastore.Shape) (*Store[T], error) {
	if err := db.open(); err != nil {
		return nil, err
	}
	cs := componentShape.Clone()
	if len(cs) == 0 {
		cs = datastore.Shape{1}
	}
	return &Store[T]{
		db:             db,
		pipe:           db.pipeline(datastore.DataTypeOf[T]().Size()),
		ns:             uuid.New(),
		tupleShape:     tupleShape.Clone(),
		componentShape: cs,
	}, nil
}

func (s *Store[T]) DataType() datastore.DataType    { return datastore.DataTypeOf[T]() }
func (s *Store[T]) TupleShape() datastore.Shape     { return s.tupleShape.Clone() }
func (s *Store[T]) ComponentShape() datastore.Shape { return s.componentShape.Clone() }
func (s *Store[T]) NumberOfTuples() uint64          { return s.tupleShape.Product() }
func (s *Store[T]) NumberOfComponents() uint64      { return s.componentShape.Product() }
func (s *Store[T]) Size() uint64                    { return s.NumberOfTuples() * s.NumberOfComponents() }
func (s *Store[T]) DataFormat() string              { return Format }
func (s *Store[T]) StoreType() datastore.StoreType  { return datastore.OutOfCore }
func (s *Store[T]) IsLoaded() bool                  { return true }

// Namespace identifies the store's chunks in the database.
func (s *Store[T]) Namespace() uuid.UUID { return s.ns }

func (s *Store[T]) key(idx uint64) []byte {
	k := make([]byte, 0, len(s.ns)+8)
	k = append(k, s.ns[:]...)
	return binary.BigEndian.AppendUint64(k, idx)
}

func (s *Store[T]) numChunks() uint64 {
	cs := s.db.chunkSize
	return (s.Size() + cs - 1) / cs
}

// chunkLen is the element count of chunk idx; the last chunk may be short.
func (s *Store[T]) chunkLen(idx uint64) uint64 {
	start := idx * s.db.chunkSize
	return min(s.db.chunkSize, s.Size()-start)
}

func (s *Store[T]) readChunk(idx uint64) ([]T, error) {
	raw, err := s.db.get(s.key(idx), s.pipe)
	if err != nil {
		return nil, fmt.Errorf("ooc: read chunk %d: %w", idx, err)
	}
	n := s.chunkLen(idx)
	if raw == nil {
		return make([]T, n), nil
	}
	vals, err := dtype.Decode[T](raw, dtype.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("ooc: decode chunk %d: %w", idx, err)
	}
	if uint64(len(vals)) != n {
		return nil, fmt.Errorf("ooc: chunk %d holds %d values, want %d", idx, len(vals), n)
	}
	return vals, nil
}

func (s *Store[T]) load(idx uint64) error {
	if s.cached && s.chunkIdx == idx {
		return nil
	}
	if err := s.Flush(); err != nil {
		return err
	}
	vals, err := s.readChunk(idx)
	if err != nil {
		return err
	}
	s.chunk, s.chunkIdx, s.cached = vals, idx, true
	return nil
}

// Flush writes the cached chunk back if it was modified.
func (s *Store[T]) Flush() error {
	if !s.dirty {
		return nil
	}
	err := s.db.put(map[string][]byte{string(s.key(s.chunkIdx)): dtype.EncodeOrder(s.chunk, dtype.LittleEndian)}, s.pipe)
	if err != nil {
		return fmt.Errorf("ooc: write chunk %d: %w", s.chunkIdx, err)
	}
	s.dirty = false
	return nil
}

func (s *Store[T]) GetValue(i uint64) (T, error) {
	var zero T
	if i >= s.Size() {
		return zero, fmt.Errorf("%w: %d of %d", datastore.ErrOutOfRange, i, s.Size())
	}
	if err := s.load(i / s.db.chunkSize); err != nil {
		return zero, err
	}
	return s.chunk[i%s.db.chunkSize], nil
}

func (s *Store[T]) SetValue(i uint64, v T) error {
	if i >= s.Size() {
		return fmt.Errorf("%w: %d of %d", datastore.ErrOutOfRange, i, s.Size())
	}
	if err := s.load(i / s.db.chunkSize); err != nil {
		return err
	}
	s.chunk[i%s.db.chunkSize] = v
	s.dirty = true
	return nil
}

func (s *Store[T]) Values() ([]T, error) {
	if err := s.Flush(); err != nil {
		return nil, err
	}
	out := make([]T, 0, s.Size())
	for idx := uint64(0); idx < s.numChunks(); idx++ {
		vals, err := s.readChunk(idx)
		if err != nil {
			return nil, err
		}
		out = append(out, vals...)
	}
	return out, nil
}

func (s *Store[T]) SetValues(vals []T) error {
	if uint64(len(vals)) != s.Size() {
		return fmt.Errorf("%w: %d values for size %d", datastore.ErrShapeMismatch, len(vals), s.Size())
	}
	entries := make(map[string][]byte, s.numChunks())
	for idx := uint64(0); idx < s.numChunks(); idx++ {
		start := idx * s.db.chunkSize
		entries[string(s.key(idx))] = dtype.EncodeOrder(vals[start:start+s.chunkLen(idx)], dtype.LittleEndian)
	}
	if err := s.db.put(entries, s.pipe); err != nil {
		return fmt.Errorf("ooc: write values: %w", err)
	}
	s.cached, s.dirty, s.chunk = false, false, nil
	return nil
}

// CloneStore copies every chunk into a new namespace.
func (s *Store[T]) CloneStore() (datastore.AbstractStore[T], error) {
	if err := s.Flush(); err != nil {
		return nil, err
	}
	c, err := NewStore[T](s.db, s.tupleShape, s.componentShape)
	if err != nil {
		return nil, err
	}
	vals, err := s.Values()
	if err != nil {
		return nil, err
	}
	if err := c.SetValues(vals); err != nil {
		return nil, err
	}
	return c, nil
}

// Drop deletes the store's chunks. The store must not be used afterwards.
func (s *Store[T]) Drop() error {
	s.cached, s.dirty, s.chunk = false, false, nil
	return s.db.drop(s.ns[:])
}
