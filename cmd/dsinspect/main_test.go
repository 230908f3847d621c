package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-simplnx/datastore"
	"github.com/robert-malhotra/go-simplnx/datastructure"
	"github.com/robert-malhotra/go-simplnx/h5"
	"github.com/robert-malhotra/go-simplnx/h5/memfile"
	"github.com/robert-malhotra/go-simplnx/hdf5io"
	"github.com/robert-malhotra/go-simplnx/internal/logging"
)

type memFile struct{ g *memfile.Group }

func (f memFile) Root() (h5.Group, error) { return f.g, nil }
func (f memFile) Close() error            { return nil }

// useMemFiles routes file access to in-memory containers keyed by path.
func useMemFiles(t *testing.T) map[string]*memfile.Group {
	t.Helper()
	files := make(map[string]*memfile.Group)
	origOpen, origCreate := openFile, createFile
	t.Cleanup(func() { openFile, createFile = origOpen, origCreate })
	openFile = func(path string) (file, error) {
		g, ok := files[path]
		if !ok {
			return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
		}
		return memFile{g}, nil
	}
	createFile = func(path string) (file, error) {
		g := memfile.New()
		files[path] = g
		return memFile{g}, nil
	}
	return files
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func sampleFile(t *testing.T, files map[string]*memfile.Group, path string, last int32) {
	t.Helper()
	ds := datastructure.New()
	g, err := datastructure.CreateDataGroup(ds, "Root", datastructure.InvalidID)
	require.NoError(t, err)
	vals, err := datastore.NewFromSlice(datastore.Shape{4}, nil, []int32{1, 2, 3, last})
	require.NoError(t, err)
	_, err = datastructure.CreateDataArray[int32](ds, "Values", vals, g.ID())
	require.NoError(t, err)
	_, err = datastructure.CreateStringArray(ds, "Labels", []string{"x", "y"}, g.ID())
	require.NoError(t, err)

	root := memfile.New()
	res := hdf5io.NewWriter(hdf5io.NewDataIOManager(), hdf5io.WithLogger(logging.Discard())).WriteToGroup(context.Background(), ds, root)
	require.NoError(t, res.Err())
	files[path] = root
}

func TestTree(t *testing.T) {
	files := useMemFiles(t)
	sampleFile(t, files, "a.h5", 4)

	out, _, err := run(t, "tree", "a.h5")
	require.NoError(t, err)
	assert.Contains(t, out, "Root [DataGroup]")
	assert.Contains(t, out, "  Values [DataArray<int32>]")
	assert.Contains(t, out, "16 B (not loaded)")
	assert.Contains(t, out, "Labels [StringArray]")

	out, _, err = run(t, "tree", "--raw", "a.h5")
	require.NoError(t, err)
	assert.Contains(t, out, `Group "DataStructure"`)
	assert.Contains(t, out, `Dataset "Values" [4]`)

	_, _, err = run(t, "tree", "missing.h5")
	require.ErrorIs(t, err, os.ErrNotExist)
	_, _, err = run(t, "tree")
	require.Error(t, err)
}

func TestVerifyCopyDiff(t *testing.T) {
	files := useMemFiles(t)
	sampleFile(t, files, "a.h5", 4)
	sampleFile(t, files, "c.h5", 5)

	out, _, err := run(t, "verify", "a.h5")
	require.NoError(t, err)
	assert.Contains(t, out, "ok: verified 3 object(s), 0 warning(s)")

	out, _, err = run(t, "copy", "a.h5", "b.h5")
	require.NoError(t, err)
	assert.Contains(t, out, "copied 3 object(s) to b.h5")
	require.Contains(t, files, "b.h5")

	out, _, err = run(t, "diff", "a.h5", "b.h5")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, _, err = run(t, "diff", "a.h5", "c.h5")
	require.EqualError(t, err, "1 difference(s)")
	assert.True(t, strings.HasPrefix(out, "~ Root/Values"), out)
}

func TestFingerprint(t *testing.T) {
	files := useMemFiles(t)
	sampleFile(t, files, "a.h5", 4)
	sampleFile(t, files, "b.h5", 4)

	all, _, err := run(t, "fingerprint", "a.h5")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(all), "\n")
	require.Len(t, lines, 2)

	again, _, err := run(t, "fingerprint", "b.h5")
	require.NoError(t, err)
	assert.Equal(t, all, again, "fingerprints depend on content only")

	one, _, err := run(t, "fingerprint", "a.h5", "Root/Values")
	require.NoError(t, err)
	assert.Contains(t, all, one)

	_, _, err = run(t, "fingerprint", "a.h5", "Root/Nope")
	require.ErrorIs(t, err, datastructure.ErrNotFound)
}

func TestAttr(t *testing.T) {
	files := useMemFiles(t)
	sampleFile(t, files, "a.h5", 4)

	out, _, err := run(t, "attr", "a.h5", "/@FileVersion")
	require.NoError(t, err)
	assert.Equal(t, "8.0\n", out)

	out, _, err = run(t, "attr", "a.h5", "/DataStructure/Root/Values@TupleDimensions")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)

	_, _, err = run(t, "attr", "a.h5", "/DataStructure@Missing")
	require.ErrorIs(t, err, h5.ErrAttrNotFound)
	_, _, err = run(t, "attr", "a.h5", "/DataStructure")
	require.ErrorIs(t, err, h5.ErrInvalidPath)
}

func TestConfigFlag(t *testing.T) {
	files := useMemFiles(t)
	sampleFile(t, files, "a.h5", 4)
	cfg := filepath.Join(t.TempDir(), "dsinspect.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("force_out_of_core = true\nlog_level = \"error\"\n"), 0o644))

	out, _, err := run(t, "tree", "--config", cfg, "a.h5")
	require.NoError(t, err)
	assert.Contains(t, out, "format=badger-ooc")

	_, _, err = run(t, "tree", "--log-level", "loud", "a.h5")
	require.Error(t, err)
}
