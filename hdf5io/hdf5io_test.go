package hdf5io

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-simplnx/dataio"
	"github.com/robert-malhotra/go-simplnx/datastore"
	"github.com/robert-malhotra/go-simplnx/datastructure"
	"github.com/robert-malhotra/go-simplnx/h5"
	"github.com/robert-malhotra/go-simplnx/h5/memfile"
	"github.com/robert-malhotra/go-simplnx/internal/dtype"
)

func quietLogger() *logrus.Logger {
	l, _ := test.NewNullLogger()
	return l
}

func buildStructure(t *testing.T) *datastructure.DataStructure {
	t.Helper()
	ds := datastructure.New()

	root, err := datastructure.CreateDataGroup(ds, "Root", datastructure.InvalidID)
	require.NoError(t, err)
	vals, err := datastructure.CreateArray[int32](ds, "Values", datastore.Shape{2, 3}, datastore.Shape{1}, root.ID())
	require.NoError(t, err)
	require.NoError(t, vals.SetValue(5, 42))
	_, err = datastructure.CreateStringArray(ds, "Labels", []string{"alpha", "", "gamma"}, root.ID())
	require.NoError(t, err)
	_, err = datastructure.CreateScalarData[float64](ds, "Threshold", 0.25, root.ID())
	require.NoError(t, err)
	flags, err := datastructure.CreateArray[bool](ds, "Flags", datastore.Shape{2}, nil, root.ID())
	require.NoError(t, err)
	require.NoError(t, flags.SetValue(1, true))

	img, err := datastructure.CreateImageGeom(ds, "Image", datastructure.InvalidID)
	require.NoError(t, err)
	img.SetDimensions([3]uint64{3, 2, 1})
	img.SetOrigin([3]float32{1, 2, 3})
	img.SetSpacing([3]float32{0.5, 0.5, 1})
	cells, err := datastructure.CreateAttributeMatrix(ds, "Cells", img.CellTupleShape(), img.ID())
	require.NoError(t, err)
	require.NoError(t, img.SetCellData(cells))
	phases, err := datastructure.CreateArray[uint8](ds, "Phases", img.CellTupleShape(), datastore.Shape{1}, cells.ID())
	require.NoError(t, err)
	require.NoError(t, phases.SetValue(3, 2))
	nl, err := datastructure.CreateNeighborList[int64](ds, "Neighbors", 6, cells.ID())
	require.NoError(t, err)
	require.NoError(t, nl.SetList(0, []int64{1, 3}))
	require.NoError(t, nl.SetList(4, []int64{5}))

	tri, err := datastructure.CreateNodeGeom(ds, "Mesh", datastructure.KindTriangleGeom, datastructure.InvalidID)
	require.NoError(t, err)
	verts, err := datastructure.CreateArray[float32](ds, "Vertices", datastore.Shape{3}, datastore.Shape{3}, tri.ID())
	require.NoError(t, err)
	require.NoError(t, tri.SetVertices(verts))
	conn, err := datastructure.CreateArray[uint64](ds, "Faces", datastore.Shape{1}, datastore.Shape{3}, tri.ID())
	require.NoError(t, err)
	for i, v := range []uint64{0, 1, 2} {
		require.NoError(t, conn.SetValue(uint64(i), v))
	}
	require.NoError(t, tri.SetConnectivity(conn))

	grid, err := datastructure.CreateRectGridGeom(ds, "Grid", datastructure.InvalidID)
	require.NoError(t, err)
	var bounds [3]*datastructure.DataArray[float32]
	for i, name := range []string{"X", "Y", "Z"} {
		bounds[i], err = datastructure.CreateArray[float32](ds, name, datastore.Shape{uint64(i + 2)}, nil, grid.ID())
		require.NoError(t, err)
	}
	require.NoError(t, grid.SetBounds(bounds[0], bounds[1], bounds[2]))

	m, err := datastructure.CreateGridMontage(ds, "Montage", 1, 2, 1, datastructure.InvalidID)
	require.NoError(t, err)
	require.True(t, m.SetGeometry(datastructure.TileCoord{Col: 1}, img))
	return ds
}

func write(t *testing.T, ds *datastructure.DataStructure) *memfile.Group {
	t.Helper()
	root := memfile.New()
	res := NewWriter(NewDataIOManager(), WithLogger(quietLogger())).WriteToGroup(context.Background(), ds, root)
	require.NoError(t, res.Err())
	return root
}

func read(t *testing.T, root h5.Group, useEmpty bool, opts ...Option) (*datastructure.DataStructure, dataio.Result[*datastructure.DataStructure]) {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	res := NewReader(NewDataIOManager(), opts...).ReadFromGroup(context.Background(), root, useEmpty)
	require.NotNil(t, res.Value)
	return res.Value, res
}

func TestRoundTrip(t *testing.T) {
	ds := buildStructure(t)
	file := write(t, ds)

	version, err := h5.ReadAttrAs[string](file, AttrFileVersion)
	require.NoError(t, err)
	assert.Equal(t, FileVersion, version)

	got, res := read(t, file, false)
	require.NoError(t, res.Err())
	assert.Empty(t, res.Warnings)

	diff, err := datastructure.Diff(ds, got)
	require.NoError(t, err)
	assert.Empty(t, diff)

	vals, err := datastructure.GetDataAtPath[*datastructure.DataArray[int32]](got, datastructure.MustParsePath("Root/Values"))
	require.NoError(t, err)
	v, err := vals.Value(5)
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)

	for _, obj := range ds.Objects() {
		other := got.Object(obj.ID())
		require.NotNil(t, other, "id %d (%s) was not preserved", obj.ID(), obj.Name())
		assert.Equal(t, obj.Name(), other.Name())
	}
	assert.Equal(t, ds.NextID(), got.NextID())

	img, err := datastructure.GetDataAtPath[*datastructure.ImageGeom](got, datastructure.MustParsePath("Image"))
	require.NoError(t, err)
	require.NotNil(t, img.CellData())
	assert.Equal(t, "Cells", img.CellData().Name())

	m, err := datastructure.GetDataAtPath[*datastructure.GridMontage](got, datastructure.MustParsePath("Montage"))
	require.NoError(t, err)
	assert.Same(t, img, m.Tile(0, 1, 0).Geometry())
	assert.Nil(t, m.Tile(0, 0, 0).Geometry())

	mesh, err := datastructure.GetDataAtPath[*datastructure.NodeGeom](got, datastructure.MustParsePath("Mesh"))
	require.NoError(t, err)
	require.NoError(t, mesh.Validate())
	assert.Equal(t, uint64(1), mesh.NumberOfElements())
}

func TestNeighborListLayout(t *testing.T) {
	file := write(t, buildStructure(t))
	obj, err := h5.Open(file, "/DataStructure/Image/Cells/Neighbors_NumNeighbors")
	require.NoError(t, err)
	counts, ok := obj.(h5.Dataset)
	require.True(t, ok)
	imp, err := h5.ReadAttrAs[int32](counts, AttrImportable)
	require.NoError(t, err)
	assert.Zero(t, imp)
	vals, err := h5.ReadValues[int32](counts)
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 0, 0, 0, 1, 0}, vals)

	obj, err = h5.Open(file, "/DataStructure/Image/Cells/Neighbors")
	require.NoError(t, err)
	linked, err := h5.ReadAttrAs[string](obj, AttrLinkedNumNeighbors)
	require.NoError(t, err)
	assert.Equal(t, "Neighbors"+NumNeighborsSuffix, linked)
}

// newFile returns a root group laid out as a current file with an empty
// DataStructure group.
func newFile(t *testing.T) (*memfile.Group, h5.Group) {
	t.Helper()
	root := memfile.New()
	require.NoError(t, root.WriteAttr(AttrFileVersion, FileVersion))
	g, err := root.CreateGroup(GroupDataStructure)
	require.NoError(t, err)
	return root, g
}

func tag(t *testing.T, h h5.AttrHolder, typeName string, id uint64) {
	t.Helper()
	require.NoError(t, h.WriteAttr(AttrObjectType, typeName))
	require.NoError(t, h.WriteAttr(AttrObjectID, id))
	require.NoError(t, h.WriteAttr(AttrImportable, int32(1)))
}

func TestBigEndianDataset(t *testing.T) {
	root, g := newFile(t)
	want := []float64{1.5, -2.25, 1e10, 0}
	raw := dtype.EncodeOrder(want, dtype.BigEndian)
	d, err := g.WriteDataset("BE", h5.TypeOf(datastore.Float64).WithOrder(dtype.BigEndian), []uint64{4, 1}, raw)
	require.NoError(t, err)
	tag(t, d, "DataArray<float64>", 3)

	ds, res := read(t, root, false)
	require.NoError(t, res.Err())
	arr, err := datastructure.GetDataAs[*datastructure.DataArray[float64]](ds, 3)
	require.NoError(t, err)
	assert.Equal(t, datastore.Shape{4}, arr.TupleShape())
	got, err := arr.Values()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUnregisteredTypeIsWarning(t *testing.T) {
	root, g := newFile(t)
	sub, err := g.CreateGroup("Mystery")
	require.NoError(t, err)
	tag(t, sub, "QuantumGeom", 1)
	d, err := h5.WriteValues(g, "Good", []uint64{2}, []int32{7, 8})
	require.NoError(t, err)
	tag(t, d, "DataArray<int32>", 2)
	_, err = h5.WriteValues(g, "Untagged", []uint64{1}, []int32{0})
	require.NoError(t, err)

	ds, res := read(t, root, false)
	assert.True(t, res.Valid())
	require.Len(t, res.Warnings, 2)
	codes := []dataio.Code{res.Warnings[0].Code, res.Warnings[1].Code}
	assert.ElementsMatch(t, []dataio.Code{dataio.CodeUnregisteredType, dataio.CodeMissingAttribute}, codes)
	assert.Equal(t, 1, ds.Len())
	assert.NotNil(t, ds.Find("Good"))
}

func TestFailedObjectKeepsSiblings(t *testing.T) {
	root, g := newFile(t)
	bad, err := h5.WriteValues(g, "Bad", []uint64{2}, []float32{1, 2})
	require.NoError(t, err)
	tag(t, bad, "DataArray<int32>", 1)
	good, err := h5.WriteValues(g, "Good", []uint64{2}, []int32{1, 2})
	require.NoError(t, err)
	tag(t, good, "DataArray<int32>", 2)

	ds, res := read(t, root, false)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "/DataStructure/Bad", res.Errors[0].Path)
	assert.Equal(t, dataio.CodeReadFailed, res.Errors[0].Code)
	assert.Nil(t, ds.Find("Bad"))
	assert.NotNil(t, ds.Find("Good"))
}

func TestDuplicateFileIDsAreRenumbered(t *testing.T) {
	root, g := newFile(t)
	a, err := g.CreateGroup("A")
	require.NoError(t, err)
	tag(t, a, "DataGroup", 4)
	b, err := g.CreateGroup("B")
	require.NoError(t, err)
	tag(t, b, "DataGroup", 4)

	ds, res := read(t, root, false)
	require.NoError(t, res.Err())
	ga, gb := ds.Find("A"), ds.Find("B")
	require.NotNil(t, ga)
	require.NotNil(t, gb)
	assert.Equal(t, datastructure.ID(4), ga.ID())
	assert.NotEqual(t, ga.ID(), gb.ID())
}

func TestVersionAndHandleErrors(t *testing.T) {
	rd := NewReader(NewDataIOManager(), WithLogger(quietLogger()))

	res := rd.ReadFromGroup(context.Background(), "not a group", false)
	require.Len(t, res.Errors, 1)
	assert.NotNil(t, res.Value)

	root := memfile.New()
	require.NoError(t, root.WriteAttr(AttrFileVersion, "9.9"))
	res = rd.ReadFromGroup(context.Background(), root, false)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, dataio.CodeUnsupportedVersion, res.Errors[0].Code)

	wr := NewWriter(NewDataIOManager())
	wres := wr.WriteToGroup(context.Background(), datastructure.New(), 42)
	assert.False(t, wres.Valid())
}

func TestUnreadableNextIDIsWarning(t *testing.T) {
	ds := buildStructure(t)
	file := write(t, ds)
	g, err := file.OpenGroup(GroupDataStructure)
	require.NoError(t, err)
	require.NoError(t, g.WriteAttr(AttrNextObjectID, "many"))

	got, res := read(t, file, false)
	require.NoError(t, res.Err())
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, dataio.CodeMissingAttribute, res.Warnings[0].Code)
	assert.Contains(t, res.Warnings[0].Path, AttrNextObjectID)

	diff, err := datastructure.Diff(ds, got)
	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestCancelledRead(t *testing.T) {
	file := write(t, buildStructure(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := NewReader(NewDataIOManager(), WithLogger(quietLogger())).ReadFromGroup(ctx, file, false)
	require.NotEmpty(t, res.Errors)
	assert.Equal(t, dataio.CodeCancelled, res.Errors[len(res.Errors)-1].Code)
}

func TestWriteUnloadedFails(t *testing.T) {
	ds := datastructure.New()
	_, err := datastructure.CreateDataArray[int32](ds, "Lazy", datastore.NewEmpty[int32](datastore.Shape{2}, nil, ""), datastructure.InvalidID)
	require.NoError(t, err)
	_, err = datastructure.CreateArray[int32](ds, "Loaded", datastore.Shape{2}, nil, datastructure.InvalidID)
	require.NoError(t, err)

	root := memfile.New()
	res := NewWriter(NewDataIOManager(), WithLogger(quietLogger())).WriteToGroup(context.Background(), ds, root)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "/DataStructure/Lazy", res.Errors[0].Path)
	_, err = h5.Open(root, "/DataStructure/Loaded")
	assert.NoError(t, err)
}

func TestUnencodableObjectsFailAlone(t *testing.T) {
	ds := datastructure.New()
	_, err := datastructure.CreateStringArray(ds, "S", []string{"a\x00b", "c"}, datastructure.InvalidID)
	require.NoError(t, err)
	_, err = datastructure.CreateStringArray(ds, "Plain", []string{"a", "b"}, datastructure.InvalidID)
	require.NoError(t, err)
	nl, err := datastructure.CreateNeighborList[int32](ds, "X", 2, datastructure.InvalidID)
	require.NoError(t, err)
	require.NoError(t, nl.SetList(0, []int32{1}))
	_, err = datastructure.CreateArray[int32](ds, "X"+NumNeighborsSuffix, datastore.Shape{2}, nil, datastructure.InvalidID)
	require.NoError(t, err)

	root := memfile.New()
	res := NewWriter(NewDataIOManager(), WithLogger(quietLogger())).WriteToGroup(context.Background(), ds, root)
	require.Len(t, res.Errors, 2)
	byPath := map[string]dataio.Error{}
	for _, e := range res.Errors {
		byPath[e.Path] = e
	}
	require.Contains(t, byPath, "/DataStructure/S")
	assert.ErrorIs(t, byPath["/DataStructure/S"], ErrEmbeddedNUL)
	assert.Equal(t, dataio.CodeWriteFailed, byPath["/DataStructure/S"].Code)
	require.Contains(t, byPath, "/DataStructure/X")
	assert.ErrorIs(t, byPath["/DataStructure/X"], ErrNameCollision)

	// Whatever was written reads back cleanly.
	got, rres := read(t, root, false)
	require.NoError(t, rres.Err())
	plain, err := datastructure.GetDataAtPath[*datastructure.StringArray](got, datastructure.MustParsePath("Plain"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, plain.Values())
	assert.Nil(t, got.Find("S"))
	assert.NotNil(t, got.Find("X"+NumNeighborsSuffix))
}

func TestPlaceholdersLoadOnDemand(t *testing.T) {
	src := buildStructure(t)
	file := write(t, src)

	ds, res := read(t, file, true)
	require.NoError(t, res.Err())

	vals, err := datastructure.GetDataAtPath[*datastructure.DataArray[int32]](ds, datastructure.MustParsePath("Root/Values"))
	require.NoError(t, err)
	assert.False(t, vals.IsLoaded())
	assert.Equal(t, datastore.Shape{2, 3}, vals.TupleShape())
	_, err = vals.Value(5)
	assert.ErrorIs(t, err, datastore.ErrNotLoaded)

	nl, err := datastructure.GetDataAtPath[*datastructure.NeighborList[int64]](ds, datastructure.MustParsePath("Image/Cells/Neighbors"))
	require.NoError(t, err)
	assert.False(t, nl.IsLoaded())
	assert.Equal(t, uint64(6), nl.NumberOfTuples())

	lres := LoadPlaceholders(context.Background(), NewDataIOManager(), ds, file, WithLogger(quietLogger()))
	require.NoError(t, lres.Err())

	v, err := vals.Value(5)
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)
	list, err := nl.List(0)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, list)

	diff, err := datastructure.Diff(src, ds)
	require.NoError(t, err)
	assert.Empty(t, diff)
}

// tagStore is an in-memory store reporting a data format, standing in for
// an out-of-core backend.
type tagStore[T datastore.Value] struct {
	*datastore.DataStore[T]
	format string
}

func (s *tagStore[T]) DataFormat() string             { return s.format }
func (s *tagStore[T]) StoreType() datastore.StoreType { return datastore.OutOfCore }

type tagFactory struct{ format string }

func (f tagFactory) Format() string { return f.format }

func (f tagFactory) CreateStore(dt datastore.DataType, ts, cs datastore.Shape) (datastore.Store, error) {
	if dt != datastore.Int32 {
		return nil, datastore.ErrTypeMismatch
	}
	return &tagStore[int32]{DataStore: datastore.New[int32](ts, cs), format: f.format}, nil
}

func TestOutOfCorePolicy(t *testing.T) {
	ds := datastructure.New()
	_, err := datastructure.CreateArray[int32](ds, "Big", datastore.Shape{100}, nil, datastructure.InvalidID)
	require.NoError(t, err)
	_, err = datastructure.CreateArray[int32](ds, "Small", datastore.Shape{2}, nil, datastructure.InvalidID)
	require.NoError(t, err)
	file := write(t, ds)

	coll := dataio.NewCollection()
	require.NoError(t, coll.RegisterStoreFormat(tagFactory{format: "tagged"}))

	got, res := read(t, file, false, WithCollection(coll), WithOutOfCore("tagged", 64))
	require.NoError(t, res.Err())
	big := got.Find("Big").(datastructure.IDataArray)
	small := got.Find("Small").(datastructure.IDataArray)
	assert.Equal(t, "tagged", big.DataFormat())
	assert.Equal(t, "", small.DataFormat())

	forced, res := read(t, file, false, WithCollection(coll), WithForcedOutOfCore("tagged"))
	require.NoError(t, res.Err())
	assert.Equal(t, "tagged", forced.Find("Small").(datastructure.IDataArray).DataFormat())

	// The format is stored and honored on the next read without a threshold.
	file = write(t, got)
	again, res := read(t, file, true, WithCollection(coll))
	require.NoError(t, res.Err())
	assert.Equal(t, "tagged", again.Find("Big").(datastructure.IDataArray).DataFormat())
	assert.False(t, again.Find("Big").(datastructure.IDataArray).IsLoaded())

	// Without the factory the array loads in memory with a warning.
	plain, res := read(t, file, false)
	require.NoError(t, res.Err())
	assert.Len(t, res.Warnings, 1)
	assert.Equal(t, "", plain.Find("Big").(datastructure.IDataArray).DataFormat())
}

func TestManagerRegistry(t *testing.T) {
	m := NewDataIOManager()
	assert.Equal(t, FormatName, m.FormatName())
	for _, name := range []string{
		"DataArray<int8>", "DataArray<bool>", "NeighborList<float32>", "ScalarData<uint64>",
		"StringArray", "DataGroup", "AttributeMatrix", "ImageGeom", "RectGridGeom",
		"VertexGeom", "EdgeGeom", "TriangleGeom", "QuadGeom", "TetrahedralGeom", "HexahedralGeom",
		"GridMontage",
	} {
		assert.NotNil(t, m.IO(name), name)
	}
	assert.Nil(t, m.IO("DataArray<complex64>"))
	assert.ErrorIs(t, m.Add(dataGroupIO{}), dataio.ErrDuplicateFactory)

	coll := dataio.NewCollection()
	require.NoError(t, coll.Register(m))
	assert.Equal(t, []string{FormatName}, coll.Formats())
}
