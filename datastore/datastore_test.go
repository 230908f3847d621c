package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataStoreShape(t *testing.T) {
	tests := []struct {
		name       string
		tuples     Shape
		components Shape
		wantTuples uint64
		wantComps  uint64
	}{
		{"scalar per tuple", Shape{10}, Shape{1}, 10, 1},
		{"no component shape", Shape{4}, nil, 4, 1},
		{"vector", Shape{2, 3}, Shape{3}, 6, 3},
		{"matrix components", Shape{5}, Shape{2, 2}, 5, 4},
		{"no tuples", Shape{}, Shape{3}, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New[float32](tt.tuples, tt.components)
			assert.Equal(t, tt.wantTuples, s.NumberOfTuples())
			assert.Equal(t, tt.wantComps, s.NumberOfComponents())
			assert.Equal(t, s.NumberOfTuples()*s.NumberOfComponents(), s.Size())
			assert.Equal(t, Float32, s.DataType())
			assert.Empty(t, s.DataFormat())
			assert.True(t, s.IsLoaded())
		})
	}
}

func TestDataStoreAccess(t *testing.T) {
	s := New[int32](Shape{10}, Shape{1})
	s.Set(5, 42)
	assert.Equal(t, int32(42), s.At(5))

	v, err := s.GetValue(5)
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)

	_, err = s.GetValue(10)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.ErrorIs(t, s.SetValue(99, 1), ErrOutOfRange)
	assert.Panics(t, func() { s.At(10) })
}

func TestDataStoreTuples(t *testing.T) {
	s := New[uint8](Shape{3}, Shape{3})
	require.NoError(t, s.SetTuple(1, []uint8{1, 2, 3}))
	assert.Equal(t, []uint8{1, 2, 3}, s.Tuple(1))
	assert.Equal(t, []uint8{0, 0, 0, 1, 2, 3, 0, 0, 0}, s.Slice())

	assert.ErrorIs(t, s.SetTuple(1, []uint8{1}), ErrShapeMismatch)
	assert.ErrorIs(t, s.SetTuple(3, []uint8{1, 2, 3}), ErrOutOfRange)
}

func TestDataStoreResize(t *testing.T) {
	s := NewFilled[int64](Shape{4}, Shape{2}, 7)

	s.Resize(Shape{2})
	assert.Equal(t, Shape{2}, s.TupleShape())
	assert.Equal(t, []int64{7, 7, 7, 7}, s.Slice())

	s.Resize(Shape{3})
	assert.Equal(t, []int64{7, 7, 7, 7, 0, 0}, s.Slice())
}

func TestDataStoreClone(t *testing.T) {
	s := NewFilled[float64](Shape{2}, nil, 1.5)
	c := s.Clone()
	c.Set(0, 3)

	assert.Equal(t, 1.5, s.At(0))
	assert.Equal(t, 3.0, c.At(0))
}

func TestNewFromSlice(t *testing.T) {
	s, err := NewFromSlice(Shape{2}, Shape{2}, []uint16{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, uint16(4), s.At(3))

	_, err = NewFromSlice(Shape{2}, Shape{2}, []uint16{1})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestEmptyDataStore(t *testing.T) {
	s := NewEmpty[int32](Shape{100, 2}, Shape{3}, "")
	assert.Equal(t, uint64(200), s.NumberOfTuples())
	assert.Equal(t, uint64(600), s.Size())
	assert.Equal(t, Empty, s.StoreType())
	assert.False(t, s.IsLoaded())

	_, err := s.GetValue(0)
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.ErrorIs(t, s.SetValue(0, 1), ErrNotLoaded)
	_, err = s.Values()
	assert.ErrorIs(t, err, ErrNotLoaded)

	_, err = Fingerprint[int32](s)
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestEmptyDataStoreKeepsFormat(t *testing.T) {
	s := NewEmpty[float32](Shape{8}, nil, "badger-ooc")
	assert.Equal(t, "badger-ooc", s.DataFormat())

	c, err := s.CloneStore()
	require.NoError(t, err)
	assert.Equal(t, "badger-ooc", c.DataFormat())
}

func TestFingerprint(t *testing.T) {
	a, _ := NewFromSlice(Shape{3}, nil, []int32{1, 2, 3})
	b, _ := NewFromSlice(Shape{3}, nil, []int32{1, 2, 3})
	c, _ := NewFromSlice(Shape{3}, nil, []int32{1, 2, 4})
	d, _ := NewFromSlice(Shape{1}, Shape{3}, []int32{1, 2, 3})

	fa, err := Fingerprint[int32](a)
	require.NoError(t, err)
	fb, _ := Fingerprint[int32](b)
	fc, _ := Fingerprint[int32](c)
	fd, _ := Fingerprint[int32](d)

	assert.Equal(t, fa, fb)
	assert.NotEqual(t, fa, fc)
	assert.NotEqual(t, fa, fd)
}

func TestParseDataType(t *testing.T) {
	for _, dt := range DataTypes() {
		got, err := ParseDataType(dt.String())
		require.NoError(t, err)
		assert.Equal(t, dt, got)
	}
	_, err := ParseDataType("complex64")
	assert.Error(t, err)
}

func TestDataTypeOf(t *testing.T) {
	assert.Equal(t, Int8, DataTypeOf[int8]())
	assert.Equal(t, UInt64, DataTypeOf[uint64]())
	assert.Equal(t, Float64, DataTypeOf[float64]())
	assert.Equal(t, Bool, DataTypeOf[bool]())
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 1, Bool.Size())
}
