package dataio

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/robert-malhotra/go-simplnx/datastore"
)

var (
	ErrDuplicateFactory = errors.New("factory already registered")
	ErrDuplicateFormat  = errors.New("format already registered")
	ErrUnknownFormat    = errors.New("unknown data format")
)

// Factory (de)serializes one object type, identified by the TypeName of the
// objects it handles.
type Factory interface {
	TypeName() string
}

// FactoryManager maps type names to factories.
type FactoryManager struct {
	factories map[string]Factory
}

// NewFactoryManager returns an empty manager.
func NewFactoryManager() *FactoryManager {
	return &FactoryManager{factories: make(map[string]Factory)}
}

// Add registers f under f.TypeName().
func (m *FactoryManager) Add(f Factory) error {
	name := f.TypeName()
	if _, ok := m.factories[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFactory, name)
	}
	m.factories[name] = f
	return nil
}

// Factory returns the factory registered for name, or nil.
func (m *FactoryManager) Factory(name string) Factory { return m.factories[name] }

// TypeNames lists the registered names, sorted.
func (m *FactoryManager) TypeNames() []string {
	out := make([]string, 0, len(m.factories))
	for name := range m.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered factories.
func (m *FactoryManager) Len() int { return len(m.factories) }

// IOManager groups the factories of one file format.
type IOManager interface {
	FormatName() string
	Factories() *FactoryManager
}

// StoreFactory creates a store of the given element type and shapes for a
// data format that keeps its payload outside process memory.
type StoreFactory interface {
	Format() string
	CreateStore(dt datastore.DataType, tupleShape, componentShape datastore.Shape) (datastore.Store, error)
}

// Collection holds the registered IOManagers and store factories. It is
// safe for concurrent use.
type Collection struct {
	mu       sync.RWMutex
	managers map[string]IOManager
	stores   map[string]StoreFactory
}

// NewCollection returns an empty Collection.
func NewCollection() *Collection {
	return &Collection{
		managers: make(map[string]IOManager),
		stores:   make(map[string]StoreFactory),
	}
}

// Register adds an IOManager under its format name.
func (c *Collection) Register(m IOManager) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := m.FormatName()
	if _, ok := c.managers[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFormat, name)
	}
	c.managers[name] = m
	return nil
}

// Manager returns the IOManager for format, or nil.
func (c *Collection) Manager(format string) IOManager {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.managers[format]
}

// Formats lists the registered IOManager formats, sorted.
func (c *Collection) Formats() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.managers)
}

// RegisterStoreFormat adds a store factory under f.Format().
func (c *Collection) RegisterStoreFormat(f StoreFactory) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := f.Format()
	if name == "" {
		return fmt.Errorf("%w: empty format name", ErrUnknownFormat)
	}
	if _, ok := c.stores[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateFormat, name)
	}
	c.stores[name] = f
	return nil
}

// HasStoreFormat reports whether a store factory is registered for format.
func (c *Collection) HasStoreFormat(format string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.stores[format]
	return ok
}

// StoreFormats lists the registered store formats, sorted.
func (c *Collection) StoreFormats() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(c.stores)
}

// CreateStore creates a store through the factory registered for format.
// The empty format creates an in-memory store.
func (c *Collection) CreateStore(format string, dt datastore.DataType, tupleShape, componentShape datastore.Shape) (datastore.Store, error) {
	if format == "" {
		return NewMemoryStore(dt, tupleShape, componentShape)
	}
	c.mu.RLock()
	f, ok := c.stores[format]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return f.CreateStore(dt, tupleShape, componentShape)
}

// CreateTypedStore is CreateStore for a known element type.
func CreateTypedStore[T datastore.Value](c *Collection, format string, tupleShape, componentShape datastore.Shape) (datastore.AbstractStore[T], error) {
	s, err := c.CreateStore(format, datastore.DataTypeOf[T](), tupleShape, componentShape)
	if err != nil {
		return nil, err
	}
	typed, ok := s.(datastore.AbstractStore[T])
	if !ok {
		return nil, fmt.Errorf("%w: format %q returned %s store", datastore.ErrTypeMismatch, format, s.DataType())
	}
	return typed, nil
}

// NewMemoryStore allocates a zeroed in-memory store of element type dt.
func NewMemoryStore(dt datastore.DataType, tupleShape, componentShape datastore.Shape) (datastore.Store, error) {
	switch dt {
	case datastore.Int8:
		return datastore.New[int8](tupleShape, componentShape), nil
	case datastore.UInt8:
		return datastore.New[uint8](tupleShape, componentShape), nil
	case datastore.Int16:
		return datastore.New[int16](tupleShape, componentShape), nil
	case datastore.UInt16:
		return datastore.New[uint16](tupleShape, componentShape), nil
	case datastore.Int32:
		return datastore.New[int32](tupleShape, componentShape), nil
	case datastore.UInt32:
		return datastore.New[uint32](tupleShape, componentShape), nil
	case datastore.Int64:
		return datastore.New[int64](tupleShape, componentShape), nil
	case datastore.UInt64:
		return datastore.New[uint64](tupleShape, componentShape), nil
	case datastore.Float32:
		return datastore.New[float32](tupleShape, componentShape), nil
	case datastore.Float64:
		return datastore.New[float64](tupleShape, componentShape), nil
	case datastore.Bool:
		return datastore.New[bool](tupleShape, componentShape), nil
	}
	return nil, fmt.Errorf("%w: %s", datastore.ErrTypeMismatch, dt)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
