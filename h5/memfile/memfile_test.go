package memfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-simplnx/datastore"
	"github.com/robert-malhotra/go-simplnx/h5"
	"github.com/robert-malhotra/go-simplnx/internal/dtype"
)

func TestGroupsAndDatasets(t *testing.T) {
	root := New()
	g, err := root.CreateGroup("A")
	require.NoError(t, err)
	assert.Equal(t, "/A", g.Path())
	sub, err := g.CreateGroup("B")
	require.NoError(t, err)
	assert.Equal(t, "/A/B", sub.Path())

	_, err = root.CreateGroup("A")
	require.ErrorIs(t, err, h5.ErrExists)
	_, err = root.CreateGroup("x/y")
	require.ErrorIs(t, err, h5.ErrInvalidPath)

	ds, err := h5.WriteValues(g, "Values", []uint64{2, 2}, []int32{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 2}, ds.Shape())

	_, err = g.WriteDataset("Bad", h5.TypeOf(datastore.Int32), []uint64{3}, []byte{1})
	require.Error(t, err)

	_, err = g.OpenGroup("Values")
	require.ErrorIs(t, err, h5.ErrNotGroup)
	_, err = g.OpenDataset("B")
	require.ErrorIs(t, err, h5.ErrNotDataset)
	_, err = g.OpenDataset("Missing")
	require.ErrorIs(t, err, h5.ErrNotFound)

	members, err := g.Members()
	require.NoError(t, err)
	assert.Equal(t, []h5.Member{{Name: "B", Kind: h5.MemberGroup}, {Name: "Values", Kind: h5.MemberDataset}}, members)

	require.NoError(t, root.Remove("A"))
	members, err = root.Members()
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestAttributes(t *testing.T) {
	root := New()
	require.NoError(t, root.WriteAttr("FileVersion", "8.0"))
	require.NoError(t, root.WriteAttr("Dims", []uint64{3, 4}))
	require.NoError(t, root.WriteAttr("Id", uint64(7)))
	require.Error(t, root.WriteAttr("Bad", map[string]int{}))

	v, err := h5.ReadAttrAs[string](root, "FileVersion")
	require.NoError(t, err)
	assert.Equal(t, "8.0", v)

	dims, err := h5.ReadAttrAs[[]int64](root, "Dims")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, dims)

	id, err := h5.ReadAttrAs[int32](root, "Id")
	require.NoError(t, err)
	assert.Equal(t, int32(7), id)

	_, err = h5.ReadAttrAs[string](root, "Id")
	require.ErrorIs(t, err, h5.ErrTypeMismatch)
	_, err = h5.ReadAttrAs[string](root, "Missing")
	require.ErrorIs(t, err, h5.ErrAttrNotFound)

	def, err := h5.ReadAttrOr(root, "Missing", uint8(1))
	require.NoError(t, err)
	assert.Equal(t, uint8(1), def)
	assert.Equal(t, []string{"Dims", "FileVersion", "Id"}, root.AttrNames())

	// Stored slices do not alias the caller's.
	src := []float32{1, 2}
	require.NoError(t, root.WriteAttr("Spacing", src))
	src[0] = 9
	got, err := h5.ReadAttrAs[[]float32](root, "Spacing")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, got)
}

func TestBigEndianDataset(t *testing.T) {
	root := New()
	vals := []float64{1.5, -2.25, 1e300}
	typ := h5.TypeOf(datastore.Float64).WithOrder(dtype.BigEndian)
	_, err := root.WriteDataset("BE", typ, []uint64{3}, dtype.EncodeOrder(vals, dtype.BigEndian))
	require.NoError(t, err)

	ds, err := root.OpenDataset("BE")
	require.NoError(t, err)
	assert.Equal(t, dtype.BigEndian, ds.Type().Order)
	got, err := h5.ReadValues[float64](ds)
	require.NoError(t, err)
	assert.Equal(t, vals, got)

	_, err = h5.ReadValues[int64](ds)
	require.ErrorIs(t, err, h5.ErrTypeMismatch)
}
