//go:build libhdf5

package native

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-simplnx/datastore"
	"github.com/robert-malhotra/go-simplnx/h5"
	"github.com/robert-malhotra/go-simplnx/internal/dtype"
)

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "round.h5")

	f, err := Create(path)
	require.NoError(t, err)
	root, err := f.Root()
	require.NoError(t, err)
	require.NoError(t, root.WriteAttr("FileVersion", "8.0"))

	g, err := root.CreateGroup("Root")
	require.NoError(t, err)
	require.NoError(t, g.WriteAttr("ObjectId", uint64(7)))
	require.NoError(t, g.WriteAttr("TupleDimensions", []uint64{2, 3}))

	vals := []int32{1, 2, 3, 4, 5, 42}
	ds, err := h5.WriteValues(g, "Values", []uint64{2, 3}, vals)
	require.NoError(t, err)
	require.NoError(t, ds.WriteAttr("ObjectType", "DataArray<int32>"))
	require.NoError(t, ds.Close())

	_, err = h5.WriteValues(g, "Empty", []uint64{0}, []float32{})
	require.NoError(t, err)

	require.NoError(t, g.Close())
	require.NoError(t, root.Close())
	require.NoError(t, f.Close())

	f, err = Open(path)
	require.NoError(t, err)
	defer f.Close()
	root, err = f.Root()
	require.NoError(t, err)
	defer root.Close()

	version, err := h5.ReadAttrAs[string](root, "FileVersion")
	require.NoError(t, err)
	assert.Equal(t, "8.0", version)

	obj, err := h5.Open(root, "/Root/Values")
	require.NoError(t, err)
	values, ok := obj.(h5.Dataset)
	require.True(t, ok)
	assert.Equal(t, []uint64{2, 3}, values.Shape())
	assert.Equal(t, h5.TypeOf(datastore.Int32).WithOrder(dtype.NativeOrder()), values.Type())

	got, err := h5.ReadValues[int32](values)
	require.NoError(t, err)
	assert.Equal(t, vals, got)

	typ, err := h5.ReadAttrAs[string](values, "ObjectType")
	require.NoError(t, err)
	assert.Equal(t, "DataArray<int32>", typ)

	g2, err := root.OpenGroup("Root")
	require.NoError(t, err)
	id, err := h5.ReadAttrAs[uint64](g2, "ObjectId")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	dims, err := h5.ReadAttrAs[[]uint64](g2, "TupleDimensions")
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3}, dims)
	assert.False(t, g2.HasAttr("Missing"))

	members, err := g2.Members()
	require.NoError(t, err)
	assert.Len(t, members, 2)

	_, err = g2.OpenGroup("Values")
	assert.ErrorIs(t, err, h5.ErrNotGroup)
	_, err = g2.OpenDataset("Nope")
	assert.ErrorIs(t, err, h5.ErrNotFound)
}

func TestBigEndianDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "be.h5")
	f, err := Create(path)
	require.NoError(t, err)
	root, err := f.Root()
	require.NoError(t, err)

	want := []float64{1.5, -2.25, 1e10}
	raw := dtype.EncodeOrder(want, dtype.BigEndian)
	_, err = root.WriteDataset("be", h5.TypeOf(datastore.Float64).WithOrder(dtype.BigEndian), []uint64{3}, raw)
	require.NoError(t, err)
	require.NoError(t, root.Close())
	require.NoError(t, f.Close())

	f, err = Open(path)
	require.NoError(t, err)
	defer f.Close()
	root, err = f.Root()
	require.NoError(t, err)
	defer root.Close()
	ds, err := root.OpenDataset("be")
	require.NoError(t, err)
	assert.Equal(t, dtype.BigEndian, ds.Type().Order)
	got, err := h5.ReadValues[float64](ds)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
