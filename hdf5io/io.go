package hdf5io

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/robert-malhotra/go-simplnx/dataio"
	"github.com/robert-malhotra/go-simplnx/datastore"
	"github.com/robert-malhotra/go-simplnx/datastructure"
	"github.com/robert-malhotra/go-simplnx/h5"
)

// FormatName is the IOManager format of this package.
const FormatName = "HDF5"

var (
	ErrNotContainer    = errors.New("group handle is not an h5.Group")
	ErrUnresolvedLink  = errors.New("referenced object was not read")
	ErrUnsupportedFile = errors.New("unsupported file version")
	ErrEmbeddedNUL     = errors.New("string contains a NUL byte")
	ErrNameCollision   = errors.New("dataset name already taken")
)

// IO reads and writes the objects of one TypeName.
type IO interface {
	dataio.Factory
	// ReadData reads the member name of parent and inserts the object under
	// parentID.
	ReadData(ctx context.Context, r *ReadContext, parent h5.Group, name string, parentID datastructure.ID) (datastructure.Object, error)
	// WriteData writes obj as a member of parent.
	WriteData(ctx context.Context, w *WriteContext, obj datastructure.Object, parent h5.Group) error
}

// placeholderLoader is implemented by IOs whose objects can be read as
// unloaded placeholders and filled in later.
type placeholderLoader interface {
	loadPlaceholder(r *ReadContext, parent h5.Group, obj datastructure.Object) error
}

// DataIOManager holds the IO of every object type.
type DataIOManager struct {
	factories *dataio.FactoryManager
}

// NewDataIOManager returns a manager with every built-in IO registered.
func NewDataIOManager() *DataIOManager {
	m := &DataIOManager{factories: dataio.NewFactoryManager()}
	for _, io := range builtinIOs() {
		if err := m.Add(io); err != nil {
			panic(err)
		}
	}
	return m
}

func builtinIOs() []IO {
	var ios []IO
	ios = append(ios, typedIOs[int8]()...)
	ios = append(ios, typedIOs[uint8]()...)
	ios = append(ios, typedIOs[int16]()...)
	ios = append(ios, typedIOs[uint16]()...)
	ios = append(ios, typedIOs[int32]()...)
	ios = append(ios, typedIOs[uint32]()...)
	ios = append(ios, typedIOs[int64]()...)
	ios = append(ios, typedIOs[uint64]()...)
	ios = append(ios, typedIOs[float32]()...)
	ios = append(ios, typedIOs[float64]()...)
	ios = append(ios, typedIOs[bool]()...)
	ios = append(ios,
		stringArrayIO{},
		dataGroupIO{},
		attributeMatrixIO{},
		imageGeomIO{},
		rectGridGeomIO{},
		gridMontageIO{},
	)
	for _, k := range []datastructure.Kind{
		datastructure.KindVertexGeom,
		datastructure.KindEdgeGeom,
		datastructure.KindTriangleGeom,
		datastructure.KindQuadGeom,
		datastructure.KindTetrahedralGeom,
		datastructure.KindHexahedralGeom,
	} {
		ios = append(ios, nodeGeomIO{kind: k})
	}
	return ios
}

func typedIOs[T datastore.Value]() []IO {
	return []IO{dataArrayIO[T]{}, neighborListIO[T]{}, scalarDataIO[T]{}}
}

func (m *DataIOManager) FormatName() string                { return FormatName }
func (m *DataIOManager) Factories() *dataio.FactoryManager { return m.factories }

// Add registers io under its TypeName.
func (m *DataIOManager) Add(io IO) error { return m.factories.Add(io) }

// IO returns the IO registered for typeName, or nil.
func (m *DataIOManager) IO(typeName string) IO {
	io, _ := m.factories.Factory(typeName).(IO)
	return io
}

type link struct {
	path string
	fn   func() error
}

// ReadContext carries the state of one read: the structure being built,
// the table from file IDs to assigned IDs and the references to resolve
// once every object exists.
type ReadContext struct {
	ds       *datastructure.DataStructure
	manager  *DataIOManager
	opts     *options
	useEmpty bool
	ids      map[datastructure.ID]datastructure.ID
	links    []link
	result   *dataio.Result[*datastructure.DataStructure]
}

func newReadContext(ds *datastructure.DataStructure, m *DataIOManager, opts *options, useEmpty bool) *ReadContext {
	return &ReadContext{
		ds:       ds,
		manager:  m,
		opts:     opts,
		useEmpty: useEmpty,
		ids:      make(map[datastructure.ID]datastructure.ID),
		result:   &dataio.Result[*datastructure.DataStructure]{Value: ds},
	}
}

// Structure returns the structure being read into.
func (r *ReadContext) Structure() *datastructure.DataStructure { return r.ds }

// UseEmptyDataStores reports whether array payloads are left unloaded.
func (r *ReadContext) UseEmptyDataStores() bool { return r.useEmpty }

// PreferFileID reads the ObjectId attribute of h and asks the structure to
// assign it to the next created object. It returns the file ID for Bind.
func (r *ReadContext) PreferFileID(h h5.AttrHolder) (datastructure.ID, error) {
	id, err := h5.ReadAttrOr[uint64](h, AttrObjectID, 0)
	if err != nil {
		return 0, err
	}
	r.ds.PreferNextID(datastructure.ID(id))
	return datastructure.ID(id), nil
}

// Bind records that the object stored with fileID was created as obj.
func (r *ReadContext) Bind(fileID datastructure.ID, obj datastructure.Object) {
	if fileID != datastructure.InvalidID {
		r.ids[fileID] = obj.ID()
		if obj.ID() != fileID {
			r.opts.log.WithFields(logrus.Fields{
				"name":    obj.Name(),
				"file_id": fileID,
				"id":      obj.ID(),
			}).Debug("object renumbered on read")
		}
	}
}

// Remap translates a file ID to the ID assigned on read.
func (r *ReadContext) Remap(fileID datastructure.ID) (datastructure.ID, bool) {
	id, ok := r.ids[fileID]
	return id, ok
}

// Link defers fn until every object has been read.
func (r *ReadContext) Link(path string, fn func() error) {
	r.links = append(r.links, link{path: path, fn: fn})
}

func (r *ReadContext) resolveLinks() {
	for _, l := range r.links {
		if err := l.fn(); err != nil {
			r.addError(dataio.CodeUnresolvedLink, l.path, err)
		}
	}
	r.links = nil
}

func (r *ReadContext) addError(code dataio.Code, path string, err error) {
	r.opts.log.WithFields(logrus.Fields{"path": path, "code": code}).WithError(err).Warn("read failed")
	r.result.AddError(code, path, err)
}

func (r *ReadContext) addWarning(code dataio.Code, path, format string, args ...any) {
	r.opts.log.WithFields(logrus.Fields{"path": path, "code": code}).Warnf(format, args...)
	r.result.AddWarningf(code, path, format, args...)
}

// linked resolves a stored reference to an object of type T. A zero file ID
// yields the zero T.
func linked[T datastructure.Object](r *ReadContext, fileID datastructure.ID) (T, error) {
	var zero T
	if fileID == datastructure.InvalidID {
		return zero, nil
	}
	id, ok := r.ids[fileID]
	if !ok {
		return zero, fmt.Errorf("%w: object %d", ErrUnresolvedLink, fileID)
	}
	return datastructure.GetDataAs[T](r.ds, id)
}

// storeFormat decides the data format an array of size bytes is loaded as.
func (r *ReadContext) storeFormat(path, fileFormat string, size uint64) string {
	c := r.opts.collection
	if fileFormat != "" {
		if c != nil && c.HasStoreFormat(fileFormat) {
			return fileFormat
		}
		r.addWarning(dataio.CodeUnknown, path, "data format %q is not registered, loading in memory", fileFormat)
	}
	large := r.opts.force || (r.opts.threshold > 0 && size > r.opts.threshold)
	if c != nil && large && c.HasStoreFormat(r.opts.oocFormat) {
		return r.opts.oocFormat
	}
	return ""
}

// newStore builds the store of an array read from path. With empty data
// stores the payload is not read.
func newStore[T datastore.Value](r *ReadContext, path, fileFormat string, ts, cs datastore.Shape, read func() ([]T, error)) (datastore.AbstractStore[T], error) {
	size := ts.Product() * cs.Product() * uint64(datastore.DataTypeOf[T]().Size())
	format := r.storeFormat(path, fileFormat, size)
	if r.useEmpty {
		return datastore.NewEmpty[T](ts, cs, format), nil
	}
	vals, err := read()
	if err != nil {
		return nil, err
	}
	return loadStore(r.opts.collection, format, ts, cs, vals)
}

func loadStore[T datastore.Value](c *dataio.Collection, format string, ts, cs datastore.Shape, vals []T) (datastore.AbstractStore[T], error) {
	if format == "" || c == nil || !c.HasStoreFormat(format) {
		return datastore.NewFromSlice(ts, cs, vals)
	}
	s, err := dataio.CreateTypedStore[T](c, format, ts, cs)
	if err != nil {
		return nil, err
	}
	if err := s.SetValues(vals); err != nil {
		return nil, err
	}
	return s, nil
}

// WriteContext carries the state of one write.
type WriteContext struct {
	manager *DataIOManager
	opts    *options
	result  *dataio.Void
}

func (w *WriteContext) addError(code dataio.Code, path string, err error) {
	w.opts.log.WithFields(logrus.Fields{"path": path, "code": code}).WithError(err).Warn("write failed")
	w.result.AddError(code, path, err)
}

func writeObjectAttrs(h h5.AttrHolder, obj datastructure.Object, importable bool) error {
	imp := int32(0)
	if importable {
		imp = 1
	}
	return multierr.Combine(
		h.WriteAttr(AttrObjectType, obj.TypeName()),
		h.WriteAttr(AttrObjectID, uint64(obj.ID())),
		h.WriteAttr(AttrImportable, imp),
	)
}

func wrongType(obj datastructure.Object, want string) error {
	return fmt.Errorf("%w: %q is %s, want %s", datastructure.ErrWrongType, obj.Name(), obj.TypeName(), want)
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
