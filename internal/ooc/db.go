package ooc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-simplnx/datastore"
	"github.com/robert-malhotra/go-simplnx/internal/filter"
)

// Format is the DataFormat reported by stores of this package.
const Format = "badger-ooc"

// DefaultChunkSize is the number of elements per chunk.
const DefaultChunkSize = 1 << 16

var ErrClosed = errors.New("ooc: database closed")

// Option configures a DB.
type Option func(*config)

type config struct {
	chunkSize   uint64
	compression uint16
	log         *logrus.Logger
}

// WithChunkSize sets the number of elements per chunk.
func WithChunkSize(n uint64) Option {
	return func(c *config) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithCompression selects the chunk compression filter: filter.IDZstd
// (the default), filter.IDDeflate, or 0 for none.
func WithCompression(id uint16) Option {
	return func(c *config) { c.compression = id }
}

// WithLogger routes badger and store diagnostics to l.
func WithLogger(l *logrus.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// DB is a chunk database shared by many stores.
type DB struct {
	db        *badger.DB
	compress  filter.Filter
	zstd      *filter.Zstd
	chunkSize uint64
	log       *logrus.Logger

	mu     sync.Mutex
	closed bool
}

// Open opens or creates a database in dir. An empty dir keeps the database
// in memory.
func Open(dir string, opts ...Option) (*DB, error) {
	cfg := config{chunkSize: DefaultChunkSize, compression: filter.IDZstd, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}

	bopts := badger.DefaultOptions(dir).
		WithLogger(badgerLogger{cfg.log.WithField("component", "badger")}).
		WithSyncWrites(false)
	if dir == "" {
		bopts = bopts.WithInMemory(true)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("ooc: open %q: %w", dir, err)
	}

	d := &DB{db: db, chunkSize: cfg.chunkSize, log: cfg.log}
	switch cfg.compression {
	case 0:
	case filter.IDZstd:
		if d.zstd, err = filter.NewZstd(); err != nil {
			db.Close()
			return nil, err
		}
		d.compress = d.zstd
	case filter.IDDeflate:
		d.compress = filter.NewDeflate(-1)
	default:
		db.Close()
		return nil, fmt.Errorf("ooc: unsupported compression %s", filter.Name(cfg.compression))
	}
	cfg.log.WithFields(logrus.Fields{
		"dir":         dir,
		"chunk_size":  cfg.chunkSize,
		"compression": filter.Name(cfg.compression),
	}).Debug("out-of-core database opened")
	return d, nil
}

// Close flushes nothing; callers flush their stores first.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	if d.zstd != nil {
		if err := d.zstd.Close(); err != nil {
			d.db.Close()
			return err
		}
	}
	return d.db.Close()
}

// ChunkSize returns the number of elements per chunk.
func (d *DB) ChunkSize() uint64 { return d.chunkSize }

// Format implements dataio.StoreFactory.
func (d *DB) Format() string { return Format }

// CreateStore implements dataio.StoreFactory.
func (d *DB) CreateStore(dt datastore.DataType, tupleShape, componentShape datastore.Shape) (datastore.Store, error) {
	switch dt {
	case datastore.Int8:
		return NewStore[int8](d, tupleShape, componentShape)
	case datastore.UInt8:
		return NewStore[uint8](d, tupleShape, componentShape)
	case datastore.Int16:
		return NewStore[int16](d, tupleShape, componentShape)
	case datastore.UInt16:
		return NewStore[uint16](d, tupleShape, componentShape)
	case datastore.Int32:
		return NewStore[int32](d, tupleShape, componentShape)
	case datastore.UInt32:
		return NewStore[uint32](d, tupleShape, componentShape)
	case datastore.Int64:
		return NewStore[int64](d, tupleShape, componentShape)
	case datastore.UInt64:
		return NewStore[uint64](d, tupleShape, componentShape)
	case datastore.Float32:
		return NewStore[float32](d, tupleShape, componentShape)
	case datastore.Float64:
		return NewStore[float64](d, tupleShape, componentShape)
	case datastore.Bool:
		return NewStore[bool](d, tupleShape, componentShape)
	}
	return nil, fmt.Errorf("%w: %v", datastore.ErrTypeMismatch, dt)
}

// pipeline returns the chunk filters for elements of elemSize bytes:
// shuffle, compression, then a Fletcher-32 checksum.
func (d *DB) pipeline(elemSize int) *filter.Pipeline {
	return filter.NewPipeline(filter.NewShuffle(elemSize), d.compress, filter.NewFletcher32())
}

func (d *DB) open() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	return nil
}

// Chunk values are a little-endian uint32 filter mask followed by the
// filtered bytes.
func (d *DB) get(key []byte, p *filter.Pipeline) ([]byte, error) {
	if err := d.open(); err != nil {
		return nil, err
	}
	var packed []byte
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		packed, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(packed) < 4 {
		return nil, fmt.Errorf("chunk value of %d bytes has no filter mask", len(packed))
	}
	return p.Decode(packed[4:], binary.LittleEndian.Uint32(packed))
}

func (d *DB) put(entries map[string][]byte, p *filter.Pipeline) error {
	if err := d.open(); err != nil {
		return err
	}
	wb := d.db.NewWriteBatch()
	defer wb.Cancel()
	for key, raw := range entries {
		enc, mask, err := p.Encode(raw)
		if err != nil {
			return err
		}
		val := binary.LittleEndian.AppendUint32(make([]byte, 0, 4+len(enc)), mask)
		if err := wb.Set([]byte(key), append(val, enc...)); err != nil {
			return err
		}
	}
	return wb.Flush()
}

func (d *DB) drop(prefix []byte) error {
	if err := d.open(); err != nil {
		return err
	}
	return d.db.DropPrefix(prefix)
}

// badgerLogger adapts a logrus entry to badger.Logger, demoting badger's
// informational chatter to debug.
type badgerLogger struct {
	*logrus.Entry
}

func (l badgerLogger) Infof(format string, args ...any) { l.Debugf(format, args...) }
