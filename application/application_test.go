package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-simplnx/datastore"
	"github.com/robert-malhotra/go-simplnx/datastructure"
	"github.com/robert-malhotra/go-simplnx/h5/memfile"
	"github.com/robert-malhotra/go-simplnx/hdf5io"
	"github.com/robert-malhotra/go-simplnx/internal/config"
	"github.com/robert-malhotra/go-simplnx/internal/logging"
	"github.com/robert-malhotra/go-simplnx/internal/ooc"
	"github.com/robert-malhotra/go-simplnx/parallel"
)

func newApp(t *testing.T, edit func(*config.Config)) *Application {
	t.Helper()
	cfg := config.Default()
	cfg.LargeDataThreshold = 64
	if edit != nil {
		edit(&cfg)
	}
	app, err := New(cfg, WithLogger(logging.Discard()))
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func sample(t *testing.T) *datastructure.DataStructure {
	t.Helper()
	ds := datastructure.New()
	vals := make([]float32, 32)
	for i := range vals {
		vals[i] = float32(i) / 2
	}
	store, err := datastore.NewFromSlice(datastore.Shape{32}, nil, vals)
	require.NoError(t, err)
	_, err = datastructure.CreateDataArray[float32](ds, "Big", store, datastructure.InvalidID)
	require.NoError(t, err)
	_, err = datastructure.CreateArray[uint8](ds, "Small", datastore.Shape{4}, nil, datastructure.InvalidID)
	require.NoError(t, err)
	return ds
}

func TestNew(t *testing.T) {
	app := newApp(t, nil)
	assert.Equal(t, []string{hdf5io.FormatName}, app.Collection().Formats())
	assert.True(t, app.Collection().HasStoreFormat(ooc.Format))
	assert.Same(t, app.IOManager(), app.Collection().Manager(hdf5io.FormatName))

	_, err := New(config.Config{}, WithLogger(logging.Discard()))
	require.Error(t, err, "zero chunk size is invalid")

	cfg := config.Default()
	cfg.LogLevel = "chatty"
	_, err = New(cfg)
	require.Error(t, err)
}

func TestThresholdPolicy(t *testing.T) {
	app := newApp(t, nil)
	root := memfile.New()
	ctx := context.Background()
	src := sample(t)
	wres := app.Write(ctx, src, root)
	require.NoError(t, wres.Err())

	res := app.Read(ctx, root, false)
	require.NoError(t, res.Err())
	got := res.Value
	assert.Equal(t, ooc.Format, got.Find("Big").(datastructure.IDataArray).DataFormat())
	assert.Equal(t, "", got.Find("Small").(datastructure.IDataArray).DataFormat())

	diff, err := datastructure.Diff(src, got)
	require.NoError(t, err)
	assert.Empty(t, diff)

	// Out-of-core arrays cannot run in parallel.
	alg := app.NewAlgorithm()
	assert.True(t, alg.ParallelizationEnabled())
	alg.RequireArraysInMemory(got.Find("Big").(datastructure.IDataArray))
	assert.False(t, alg.ParallelizationEnabled())
}

func TestForcedOutOfCoreAndPlaceholders(t *testing.T) {
	app := newApp(t, func(c *config.Config) { c.ForceOutOfCore = true })
	root := memfile.New()
	ctx := context.Background()
	src := sample(t)
	wres := app.Write(ctx, src, root)
	require.NoError(t, wres.Err())

	res := app.Read(ctx, root, true)
	require.NoError(t, res.Err())
	ds := res.Value
	small := ds.Find("Small").(datastructure.IDataArray)
	assert.False(t, small.IsLoaded())
	assert.Equal(t, ooc.Format, small.DataFormat())

	lres := app.LoadPlaceholders(ctx, ds, root)
	require.NoError(t, lres.Err())
	small = ds.Find("Small").(datastructure.IDataArray)
	assert.True(t, small.IsLoaded())
	assert.Equal(t, ooc.Format, small.DataFormat())
	diff, err := datastructure.Diff(src, ds)
	require.NoError(t, err)
	assert.Empty(t, diff)
}

func TestAlgorithmDefaults(t *testing.T) {
	app := newApp(t, func(c *config.Config) {
		c.ParallelEnabled = false
		c.MaxParallelTasks = 3
	})
	alg := app.NewAlgorithm()
	assert.False(t, alg.ParallelizationEnabled())
	assert.Equal(t, 3, alg.MaxTasks())

	alg = app.NewAlgorithm(parallel.WithParallelization(true), parallel.WithMaxTasks(2))
	assert.True(t, alg.ParallelizationEnabled())
	assert.Equal(t, 2, alg.MaxTasks())
}

func TestClose(t *testing.T) {
	app := newApp(t, nil)
	require.NoError(t, app.Close())
	require.NoError(t, app.Close())

	root := memfile.New()
	res := app.Read(context.Background(), root, false)
	require.ErrorIs(t, res.Err(), ErrClosed)
	wres := app.Write(context.Background(), datastructure.New(), root)
	require.ErrorIs(t, wres.Err(), ErrClosed)
}
