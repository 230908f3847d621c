package datastructure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-simplnx/datastore"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		in      string
		want    DataPath
		wantErr bool
	}{
		{"A/B/C", DataPath{"A", "B", "C"}, false},
		{"/A/B/", DataPath{"A", "B"}, false},
		{"", DataPath{}, false},
		{"A//B", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePath(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v", got)
		})
	}
}

func TestDataPathHelpers(t *testing.T) {
	p := NewPath("A", "B")
	c := p.Child("C")
	assert.Equal(t, "A/B/C", c.String())
	assert.Equal(t, "C", c.TargetName())
	assert.True(t, c.Parent().Equal(p))
	assert.True(t, c.HasPrefix(p))
	assert.False(t, p.HasPrefix(c))

	// Child must not alias the receiver's backing array.
	d := p.Child("D")
	assert.Equal(t, "C", c.TargetName())
	assert.Equal(t, "D", d.TargetName())
}

func buildABC(t *testing.T) (*DataStructure, *DataGroup, *DataGroup, *DataArray[int32]) {
	t.Helper()
	ds := New()
	a, err := CreateDataGroup(ds, "A", InvalidID)
	require.NoError(t, err)
	b, err := CreateDataGroup(ds, "B", a.ID())
	require.NoError(t, err)
	c, err := CreateArray[int32](ds, "C", datastore.Shape{4}, datastore.Shape{1}, b.ID())
	require.NoError(t, err)
	return ds, a, b, c
}

func TestPathResolution(t *testing.T) {
	ds, a, b, c := buildABC(t)

	assert.Same(t, c, ds.Data(MustParsePath("A/B/C")))
	assert.Same(t, b, ds.Find("A/B"))
	assert.Nil(t, ds.Find("A/X"))
	assert.Nil(t, ds.Find("A/B/C/D"), "arrays cannot hold children")

	p, ok := ds.PathOf(c.ID())
	require.True(t, ok)
	assert.Equal(t, "A/B/C", p.String())

	assert.Equal(t, a.ID(), b.ParentID())
	assert.Equal(t, InvalidID, a.ParentID())
	assert.Equal(t, 3, ds.Len())
}

func TestIDsAreUniqueAndNeverReused(t *testing.T) {
	ds, _, b, c := buildABC(t)
	seen := map[ID]bool{}
	for _, obj := range ds.Objects() {
		assert.NotEqual(t, InvalidID, obj.ID())
		assert.False(t, seen[obj.ID()])
		seen[obj.ID()] = true
	}

	old := c.ID()
	require.True(t, ds.RemoveByID(old))
	d, err := CreateArray[int32](ds, "C", datastore.Shape{1}, nil, b.ID())
	require.NoError(t, err)
	assert.NotEqual(t, old, d.ID())
	assert.Greater(t, d.ID(), old)
}

func TestNameUniqueness(t *testing.T) {
	ds, a, _, _ := buildABC(t)

	_, err := CreateDataGroup(ds, "B", a.ID())
	require.ErrorIs(t, err, ErrNameCollision)

	// Same name in another parent is fine.
	_, err = CreateDataGroup(ds, "B", InvalidID)
	require.NoError(t, err)

	for _, name := range []string{"", "x/y"} {
		_, err = CreateDataGroup(ds, name, InvalidID)
		require.ErrorIs(t, err, ErrInvalidName, "name %q", name)
	}
}

func TestCreateUnderInvalidParent(t *testing.T) {
	ds, _, _, c := buildABC(t)

	_, err := CreateDataGroup(ds, "X", 9999)
	require.ErrorIs(t, err, ErrParentNotFound)

	_, err = CreateDataGroup(ds, "X", c.ID())
	require.ErrorIs(t, err, ErrParentNotGroup)
}

func TestDataMapInsertRejects(t *testing.T) {
	ds, a, b, c := buildABC(t)
	other := New()

	assert.False(t, ds.Root().Insert(nil))
	assert.False(t, ds.Root().Insert(c), "already owned by B")
	assert.False(t, a.DataMap().Insert(b), "already owned by A")

	g, err := CreateDataGroup(other, "G", InvalidID)
	require.NoError(t, err)
	assert.False(t, ds.Root().Insert(g), "foreign object")
}

func TestRemoveCascades(t *testing.T) {
	ds, a, b, c := buildABC(t)

	var removed []ID
	ds.Signal().Connect(func(msg Message) {
		if msg.Type() == ObjectRemoved {
			removed = append(removed, msg.ObjectID())
		}
	})

	require.True(t, ds.Remove(MustParsePath("A")))
	assert.Equal(t, []ID{c.ID(), b.ID(), a.ID()}, removed, "children before parents")
	assert.Equal(t, 0, ds.Len())
	assert.Nil(t, ds.Object(c.ID()))
	assert.False(t, ds.Remove(MustParsePath("A")))
	assert.False(t, ds.RemoveByID(a.ID()))

	// Removed objects cannot be reinserted.
	assert.False(t, ds.Root().Insert(a))
}

func TestRename(t *testing.T) {
	ds, a, b, _ := buildABC(t)
	_, err := CreateDataGroup(ds, "Other", a.ID())
	require.NoError(t, err)

	var msgs []*ObjectRenamedMessage
	ds.Signal().Connect(func(msg Message) {
		if m, ok := msg.(*ObjectRenamedMessage); ok {
			msgs = append(msgs, m)
		}
	})

	assert.False(t, ds.Rename(b.ID(), "Other"))
	assert.False(t, ds.Rename(b.ID(), "a/b"))
	assert.True(t, ds.Rename(b.ID(), "B2"))
	assert.True(t, ds.Rename(b.ID(), "B2"))

	assert.Same(t, b, ds.Find("A/B2"))
	assert.Nil(t, ds.Find("A/B"))
	assert.NotNil(t, ds.Find("A/B2/C"))
	require.Len(t, msgs, 1)
	assert.Equal(t, "B", msgs[0].OldName())
	assert.Equal(t, "B2", msgs[0].NewName())
}

func TestMove(t *testing.T) {
	ds, a, b, c := buildABC(t)

	require.ErrorIs(t, ds.Move(a.ID(), b.ID()), ErrCycle)
	require.ErrorIs(t, ds.Move(a.ID(), a.ID()), ErrCycle)

	require.NoError(t, ds.Move(c.ID(), a.ID()))
	assert.Same(t, c, ds.Find("A/C"))
	assert.Equal(t, a.ID(), c.ParentID())
	assert.Equal(t, 0, b.DataMap().Len())

	require.NoError(t, ds.Move(b.ID(), InvalidID))
	assert.Same(t, b, ds.Find("B"))

	_, err := CreateDataGroup(ds, "B", a.ID())
	require.NoError(t, err)
	err = ds.Move(b.ID(), a.ID())
	require.ErrorIs(t, err, ErrNameCollision)
	assert.Same(t, b, ds.Find("B"), "failed move leaves the object in place")
}

func TestAttributeMatrixRejectsMismatchedTuples(t *testing.T) {
	ds := New()
	am, err := CreateAttributeMatrix(ds, "Cells", datastore.Shape{2, 3}, InvalidID)
	require.NoError(t, err)

	_, err = CreateArray[float32](ds, "Ok", datastore.Shape{2, 3}, datastore.Shape{3}, am.ID())
	require.NoError(t, err)

	_, err = CreateArray[float32](ds, "Bad", datastore.Shape{6}, nil, am.ID())
	require.ErrorIs(t, err, ErrInsertRejected)

	_, err = CreateDataGroup(ds, "Group", am.ID())
	require.ErrorIs(t, err, ErrInsertRejected)

	_, err = CreateStringArray(ds, "Names", make([]string, 5), am.ID())
	require.ErrorIs(t, err, ErrInsertRejected)

	// Flat arrays match on tuple count.
	_, err = CreateStringArray(ds, "Labels", make([]string, 6), am.ID())
	require.NoError(t, err)
	_, err = CreateNeighborList[int32](ds, "Neighbors", 6, am.ID())
	require.NoError(t, err)
}

func TestAttributeMatrixResizeTuples(t *testing.T) {
	ds := New()
	am, err := CreateAttributeMatrix(ds, "Cells", datastore.Shape{3}, InvalidID)
	require.NoError(t, err)
	arr, err := CreateDataArray[int32](ds, "Phase", datastore.NewFilled[int32](datastore.Shape{3}, nil, 7), am.ID())
	require.NoError(t, err)
	nl, err := CreateNeighborList[int32](ds, "Neighbors", 3, am.ID())
	require.NoError(t, err)
	require.NoError(t, nl.AddEntry(2, 5))

	require.NoError(t, am.ResizeTuples(datastore.Shape{5}))
	assert.Equal(t, datastore.Shape{5}, am.TupleShape())
	assert.Equal(t, uint64(5), arr.NumberOfTuples())
	vals, err := arr.Values()
	require.NoError(t, err)
	assert.Equal(t, []int32{7, 7, 7, 0, 0}, vals)
	l, err := nl.List(2)
	require.NoError(t, err)
	assert.Equal(t, []int32{5}, l)
	assert.Equal(t, uint64(5), nl.NumberOfTuples())
}

// droppingStore is an in-memory store reporting itself as out of core and
// counting Drop calls.
type droppingStore struct {
	*datastore.DataStore[int32]
	drops int
}

func (s *droppingStore) DataFormat() string             { return "chunked" }
func (s *droppingStore) StoreType() datastore.StoreType { return datastore.OutOfCore }

func (s *droppingStore) Drop() error {
	s.drops++
	return nil
}

func TestAttributeMatrixResizeIsAllOrNothing(t *testing.T) {
	ds := New()
	am, err := CreateAttributeMatrix(ds, "Cells", datastore.Shape{4}, InvalidID)
	require.NoError(t, err)
	mem, err := CreateArray[int32](ds, "A", datastore.Shape{4}, nil, am.ID())
	require.NoError(t, err)
	_, err = CreateDataArray[int32](ds, "B", &droppingStore{DataStore: datastore.New[int32](datastore.Shape{4}, nil)}, am.ID())
	require.NoError(t, err)
	labels, err := CreateStringArray(ds, "C", make([]string, 4), am.ID())
	require.NoError(t, err)

	err = am.ResizeTuples(datastore.Shape{8})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"B"`)
	assert.Equal(t, datastore.Shape{4}, am.TupleShape())
	assert.Equal(t, datastore.Shape{4}, mem.TupleShape())
	assert.Equal(t, uint64(4), labels.NumberOfTuples())
}

func TestDiscardedStoresAreDropped(t *testing.T) {
	ds := New()
	g, err := CreateDataGroup(ds, "G", InvalidID)
	require.NoError(t, err)
	removed := &droppingStore{DataStore: datastore.New[int32](datastore.Shape{2}, nil)}
	_, err = CreateDataArray[int32](ds, "Removed", removed, g.ID())
	require.NoError(t, err)
	replaced := &droppingStore{DataStore: datastore.New[int32](datastore.Shape{2}, nil)}
	kept, err := CreateDataArray[int32](ds, "Kept", replaced, InvalidID)
	require.NoError(t, err)

	require.NoError(t, kept.SetStore(replaced))
	assert.Equal(t, 0, replaced.drops)
	require.NoError(t, kept.SetStore(datastore.New[int32](datastore.Shape{2}, nil)))
	assert.Equal(t, 1, replaced.drops)

	require.True(t, ds.Remove(MustParsePath("G")))
	assert.Equal(t, 1, removed.drops)
}

func TestGetDataAs(t *testing.T) {
	ds, _, b, c := buildABC(t)

	got, err := GetDataAs[*DataArray[int32]](ds, c.ID())
	require.NoError(t, err)
	assert.Same(t, c, got)

	_, err = GetDataAs[*DataArray[float32]](ds, c.ID())
	require.ErrorIs(t, err, ErrWrongType)

	_, err = GetDataAs[*DataGroup](ds, 12345)
	require.ErrorIs(t, err, ErrNotFound)

	g, err := GetDataAtPath[BaseGroup](ds, MustParsePath("A/B"))
	require.NoError(t, err)
	assert.Equal(t, b.ID(), g.ID())

	arr, ok := As[IDataArray](ds.Find("A/B/C"))
	require.True(t, ok)
	assert.Equal(t, datastore.Int32, arr.DataType())
	assert.Equal(t, "DataArray<int32>", arr.TypeName())
}

func TestPreferNextID(t *testing.T) {
	ds := New()
	ds.PreferNextID(10)
	a, err := CreateDataGroup(ds, "A", InvalidID)
	require.NoError(t, err)
	assert.Equal(t, ID(10), a.ID())

	ds.PreferNextID(3)
	b, err := CreateDataGroup(ds, "B", InvalidID)
	require.NoError(t, err)
	assert.Equal(t, ID(3), b.ID())

	ds.PreferNextID(10)
	c, err := CreateDataGroup(ds, "C", InvalidID)
	require.NoError(t, err)
	assert.Equal(t, ID(11), c.ID(), "issued ids are never reassigned")

	d, err := CreateDataGroup(ds, "D", InvalidID)
	require.NoError(t, err)
	assert.Equal(t, ID(12), d.ID())
}

func TestWithNextID(t *testing.T) {
	ds := New(WithNextID(50))
	a, err := CreateDataGroup(ds, "A", InvalidID)
	require.NoError(t, err)
	assert.Equal(t, ID(50), a.ID())

	ds.PreferNextID(4)
	b, err := CreateDataGroup(ds, "B", InvalidID)
	require.NoError(t, err)
	assert.Equal(t, ID(4), b.ID())
	assert.Equal(t, ID(51), ds.NextID())
}

func TestWalk(t *testing.T) {
	ds, _, _, _ := buildABC(t)
	_, err := CreateDataGroup(ds, "Z", InvalidID)
	require.NoError(t, err)

	var paths []string
	require.NoError(t, ds.Walk(func(p DataPath, _ Object) error {
		paths = append(paths, p.String())
		return nil
	}))
	assert.Equal(t, []string{"A", "A/B", "A/B/C", "Z"}, paths)

	paths = nil
	require.NoError(t, ds.Walk(func(p DataPath, _ Object) error {
		paths = append(paths, p.String())
		if p.String() == "A/B" {
			return ErrSkipChildren
		}
		return nil
	}))
	assert.Equal(t, []string{"A", "A/B", "Z"}, paths)

	paths = nil
	require.NoError(t, ds.Walk(func(p DataPath, _ Object) error {
		paths = append(paths, p.String())
		return ErrStopWalk
	}))
	assert.Equal(t, []string{"A"}, paths)

	boom := errors.New("boom")
	require.ErrorIs(t, ds.Walk(func(DataPath, Object) error { return boom }), boom)
}

func TestNeighborList(t *testing.T) {
	ds := New()
	nl, err := CreateNeighborList[int32](ds, "NL", 3, InvalidID)
	require.NoError(t, err)
	require.NoError(t, nl.SetFlattened([]int32{2, 0, 1}, []int32{4, 5, 6}))

	counts, err := nl.NumNeighbors()
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 0, 1}, counts)
	flat, err := nl.Flatten()
	require.NoError(t, err)
	assert.Equal(t, []int32{4, 5, 6}, flat)

	require.ErrorIs(t, nl.SetFlattened([]int32{2, 0, 2}, []int32{4, 5, 6}), datastore.ErrShapeMismatch)
	require.ErrorIs(t, nl.SetList(3, nil), datastore.ErrOutOfRange)

	ph, err := CreateNeighborListPlaceholder[float32](ds, "Lazy", 2, InvalidID)
	require.NoError(t, err)
	assert.False(t, ph.IsLoaded())
	_, err = ph.List(0)
	require.ErrorIs(t, err, datastore.ErrNotLoaded)
	require.NoError(t, ph.SetLists([][]float32{{1}, {2, 3}}))
	assert.True(t, ph.IsLoaded())
}

func TestScalarAndStringArray(t *testing.T) {
	ds := New()
	s, err := CreateScalarData[float64](ds, "Pi", 3.14, InvalidID)
	require.NoError(t, err)
	assert.Equal(t, "ScalarData<float64>", s.TypeName())
	s.SetValue(2.5)
	assert.Equal(t, 2.5, s.Value())

	sa, err := CreateStringArray(ds, "Names", []string{"a", "b"}, InvalidID)
	require.NoError(t, err)
	require.NoError(t, sa.SetValue(1, "c"))
	assert.Equal(t, []string{"a", "c"}, sa.Values())
	_, err = sa.Value(2)
	require.ErrorIs(t, err, datastore.ErrOutOfRange)
}

func TestDataArraySetStore(t *testing.T) {
	ds := New()
	arr, err := CreateDataArray[uint16](ds, "A", datastore.NewEmpty[uint16](datastore.Shape{2}, datastore.Shape{3}, ""), InvalidID)
	require.NoError(t, err)
	assert.False(t, arr.IsLoaded())

	require.ErrorIs(t, arr.SetStore(datastore.New[uint16](datastore.Shape{3}, datastore.Shape{2})), datastore.ErrShapeMismatch)
	require.ErrorIs(t, arr.ReplaceStore(datastore.New[int16](datastore.Shape{2}, datastore.Shape{3})), datastore.ErrTypeMismatch)
	require.NoError(t, arr.ReplaceStore(datastore.New[uint16](datastore.Shape{2}, datastore.Shape{3})))
	assert.True(t, arr.IsLoaded())
}

func TestDataMapQueries(t *testing.T) {
	ds, a, b, c := buildABC(t)
	m := b.DataMap()

	assert.True(t, m.ContainsID(c.ID()))
	assert.True(t, m.ContainsName("C"))
	assert.Equal(t, []string{"C"}, m.Names())
	assert.Same(t, c, m.Find(func(o Object) bool { return o.Kind() == KindDataArray }))
	assert.Nil(t, m.Find(func(o Object) bool { return o.Kind() == KindDataGroup }))

	assert.False(t, a.DataMap().RemoveObject(c), "not a direct child")
	assert.True(t, m.RemoveObject(c))
	assert.Equal(t, 2, ds.Len())
}
