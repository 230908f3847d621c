// Package application holds the long-lived state shared by every operation
// of a process: configuration, logging, the IO collection and the
// out-of-core store.
package application

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-simplnx/dataio"
	"github.com/robert-malhotra/go-simplnx/datastructure"
	"github.com/robert-malhotra/go-simplnx/h5"
	"github.com/robert-malhotra/go-simplnx/hdf5io"
	"github.com/robert-malhotra/go-simplnx/internal/config"
	"github.com/robert-malhotra/go-simplnx/internal/logging"
	"github.com/robert-malhotra/go-simplnx/internal/ooc"
	"github.com/robert-malhotra/go-simplnx/parallel"
)

// Option configures an Application.
type Option func(*Application)

// WithLogger replaces the logger built from the configured level.
func WithLogger(l *logrus.Logger) Option {
	return func(a *Application) {
		if l != nil {
			a.log = l
		}
	}
}

// Application is created once per process and closed on exit.
type Application struct {
	cfg  config.Config
	log  *logrus.Logger
	coll *dataio.Collection
	hdf5 *hdf5io.DataIOManager
	ooc  *ooc.DB

	mu     sync.Mutex
	closed bool
}

// New builds an Application from cfg. It registers the HDF5 IO manager and
// opens the out-of-core store in cfg.OutOfCoreDir.
func New(cfg config.Config, opts ...Option) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &Application{cfg: cfg, coll: dataio.NewCollection(), hdf5: hdf5io.NewDataIOManager()}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		l, err := logging.New(cfg.LogLevel, os.Stderr)
		if err != nil {
			return nil, err
		}
		a.log = l
	}
	if err := a.coll.Register(a.hdf5); err != nil {
		return nil, err
	}

	compression, err := cfg.Compression()
	if err != nil {
		return nil, err
	}
	db, err := ooc.Open(cfg.OutOfCoreDir,
		ooc.WithChunkSize(cfg.OutOfCoreChunkSize),
		ooc.WithCompression(compression),
		ooc.WithLogger(a.log),
	)
	if err != nil {
		return nil, err
	}
	if err := a.coll.RegisterStoreFormat(db); err != nil {
		db.Close()
		return nil, err
	}
	a.ooc = db

	a.log.WithFields(logrus.Fields{
		"max_tasks":      cfg.MaxParallelTasks,
		"parallel":       cfg.ParallelEnabled,
		"threshold":      cfg.Threshold(),
		"force_ooc":      cfg.ForceOutOfCore,
		"ooc_dir":        cfg.OutOfCoreDir,
		"ooc_chunk_size": cfg.OutOfCoreChunkSize,
		"ooc_compress":   cfg.OutOfCoreCompression,
	}).Debug("application started")
	return a, nil
}

func (a *Application) Config() config.Config            { return a.cfg }
func (a *Application) Logger() *logrus.Logger           { return a.log }
func (a *Application) Collection() *dataio.Collection   { return a.coll }
func (a *Application) IOManager() *hdf5io.DataIOManager { return a.hdf5 }

// IOOptions returns the reader and writer options implied by the
// configuration.
func (a *Application) IOOptions() []hdf5io.Option {
	opts := []hdf5io.Option{hdf5io.WithCollection(a.coll), hdf5io.WithLogger(a.log)}
	if a.cfg.ForceOutOfCore {
		return append(opts, hdf5io.WithForcedOutOfCore(ooc.Format))
	}
	return append(opts, hdf5io.WithOutOfCore(ooc.Format, a.cfg.Threshold()))
}

func (a *Application) NewReader() *hdf5io.Reader { return hdf5io.NewReader(a.hdf5, a.IOOptions()...) }
func (a *Application) NewWriter() *hdf5io.Writer { return hdf5io.NewWriter(a.hdf5, a.IOOptions()...) }

// Read reads the structure stored in root.
func (a *Application) Read(ctx context.Context, root h5.Group, useEmptyDataStores bool) dataio.Result[*datastructure.DataStructure] {
	if err := a.check(); err != nil {
		return dataio.Fail[*datastructure.DataStructure](dataio.CodeReadFailed, root.Path(), err)
	}
	return a.NewReader().ReadFromGroup(ctx, root, useEmptyDataStores)
}

// Write stores ds in root.
func (a *Application) Write(ctx context.Context, ds *datastructure.DataStructure, root h5.Group) dataio.Void {
	if err := a.check(); err != nil {
		return dataio.Fail[struct{}](dataio.CodeWriteFailed, root.Path(), err)
	}
	return a.NewWriter().WriteToGroup(ctx, ds, root)
}

// LoadPlaceholders fills every unloaded array of ds from root.
func (a *Application) LoadPlaceholders(ctx context.Context, ds *datastructure.DataStructure, root h5.Group) dataio.Void {
	if err := a.check(); err != nil {
		return dataio.Fail[struct{}](dataio.CodeReadFailed, root.Path(), err)
	}
	return hdf5io.LoadPlaceholders(ctx, a.hdf5, ds, root, a.IOOptions()...)
}

// NewAlgorithm returns a parallel.Algorithm with the configured defaults.
// opts are applied after them.
func (a *Application) NewAlgorithm(opts ...parallel.Option) *parallel.Algorithm {
	base := []parallel.Option{
		parallel.WithParallelization(a.cfg.ParallelEnabled),
		parallel.WithLogger(a.log),
	}
	if a.cfg.MaxParallelTasks > 0 {
		base = append(base, parallel.WithMaxTasks(a.cfg.MaxParallelTasks))
	}
	return parallel.NewAlgorithm(append(base, opts...)...)
}

func (a *Application) check() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	return nil
}

// Close releases the out-of-core store. Arrays backed by it become
// unreadable.
func (a *Application) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	if err := a.ooc.Close(); err != nil {
		return fmt.Errorf("application: close: %w", err)
	}
	a.log.Debug("application closed")
	return nil
}
