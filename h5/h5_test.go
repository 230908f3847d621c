package h5_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-simplnx/datastore"
	"github.com/robert-malhotra/go-simplnx/h5"
	"github.com/robert-malhotra/go-simplnx/h5/memfile"
	"github.com/robert-malhotra/go-simplnx/internal/dtype"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/", []string{}},
		{"", []string{}},
		{"/foo", []string{"foo"}},
		{"/foo/bar/", []string{"foo", "bar"}},
		{"foo/bar", []string{"foo", "bar"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, h5.SplitPath(tt.path))
		})
	}
}

func TestCleanAndJoinPath(t *testing.T) {
	assert.Equal(t, "/", h5.CleanPath(""))
	assert.Equal(t, "/a/b", h5.CleanPath("a/b/"))
	assert.Equal(t, "/a", h5.JoinPath("/", "a"))
	assert.Equal(t, "/a/b", h5.JoinPath("/a", "b"))
}

func TestParseAttrPath(t *testing.T) {
	tests := []struct {
		path    string
		obj     string
		attr    string
		wantErr bool
	}{
		{"/@FileVersion", "/", "FileVersion", false},
		{"/DataStructure@NextObjectId", "/DataStructure", "NextObjectId", false},
		{"DataStructure/A@ObjectType", "/DataStructure/A", "ObjectType", false},
		{"/A", "", "", true},
		{"/A@", "", "", true},
		{"", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			obj, attr, err := h5.ParseAttrPath(tt.path)
			if tt.wantErr {
				require.ErrorIs(t, err, h5.ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.obj, obj)
			assert.Equal(t, tt.attr, attr)
			obj2, attr2, err := h5.ParseAttrPath(h5.JoinAttrPath(obj, attr))
			require.NoError(t, err)
			assert.Equal(t, []string{obj, attr}, []string{obj2, attr2}, "round trip")
		})
	}
}

func buildTree(t *testing.T) *memfile.Group {
	t.Helper()
	root := memfile.New()
	a, err := root.CreateGroup("A")
	require.NoError(t, err)
	b, err := a.CreateGroup("B")
	require.NoError(t, err)
	_, err = h5.WriteValues(b, "x", []uint64{1}, []uint8{1})
	require.NoError(t, err)
	_, err = h5.WriteValues(root, "z", []uint64{2}, []float32{1, 2})
	require.NoError(t, err)
	return root
}

func TestWalk(t *testing.T) {
	root := buildTree(t)
	var paths []string
	err := h5.Walk(root, func(path string, obj h5.Object, err error) error {
		require.NoError(t, err)
		paths = append(paths, path)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/", "/A", "/A/B", "/A/B/x", "/z"}, paths)

	stop := errors.New("stop")
	err = h5.Walk(root, func(path string, _ h5.Object, _ error) error {
		if path == "/A/B" {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
}

func TestOpen(t *testing.T) {
	root := buildTree(t)

	obj, err := h5.Open(root, "/A/B/x")
	require.NoError(t, err)
	ds, ok := obj.(h5.Dataset)
	require.True(t, ok)
	assert.Equal(t, "/A/B/x", ds.Path())

	obj, err = h5.Open(root, "A/B")
	require.NoError(t, err)
	_, ok = obj.(h5.Group)
	assert.True(t, ok)

	obj, err = h5.Open(root, "/")
	require.NoError(t, err)
	assert.Equal(t, "/", obj.Path())

	_, err = h5.Open(root, "/A/missing/x")
	require.ErrorIs(t, err, h5.ErrNotFound)
	_, err = h5.Open(root, "/z/inner")
	require.Error(t, err)
}

func TestTypeInfo(t *testing.T) {
	for _, dt := range datastore.DataTypes() {
		ti := h5.TypeOf(dt)
		assert.Equal(t, dt.Size(), ti.Size, dt.String())
		assert.True(t, ti.Compatible(dt), dt.String())
		if dt == datastore.Bool {
			got, err := ti.DataType()
			require.NoError(t, err)
			assert.Equal(t, datastore.UInt8, got)
			continue
		}
		got, err := ti.DataType()
		require.NoError(t, err)
		assert.Equal(t, dt, got)
	}
	_, err := h5.TypeInfo{Class: h5.ClassFloat, Size: 2}.DataType()
	require.ErrorIs(t, err, h5.ErrUnsupportedType)
	assert.Equal(t, "s32 big-endian", h5.TypeOf(datastore.Int32).WithOrder(dtype.BigEndian).String())
}

func TestReadValuesSwapsForeignOrder(t *testing.T) {
	root := memfile.New()
	vals := []int32{1, -2, 0x01020304}
	typ := h5.TypeOf(datastore.Int32).WithOrder(dtype.BigEndian)
	_, err := root.WriteDataset("BE", typ, []uint64{3}, dtype.EncodeOrder(vals, dtype.BigEndian))
	require.NoError(t, err)
	ds, err := root.OpenDataset("BE")
	require.NoError(t, err)

	got := make([]int32, 3)
	require.NoError(t, h5.ReadValuesInto(ds, got))
	assert.Equal(t, vals, got)
}

func TestConvertAttr(t *testing.T) {
	var f float32
	require.NoError(t, h5.ConvertAttr(&f, []float64{2.5}))
	assert.Equal(t, float32(2.5), f)

	var s []uint64
	require.NoError(t, h5.ConvertAttr(&s, int32(4)))
	assert.Equal(t, []uint64{4}, s)

	var str string
	require.ErrorIs(t, h5.ConvertAttr(&str, 1), h5.ErrTypeMismatch)
	require.ErrorIs(t, h5.ConvertAttr(str, "x"), h5.ErrUnsupportedType)
	require.ErrorIs(t, h5.CheckAttrValue([]string{"a"}), h5.ErrUnsupportedType)
}
