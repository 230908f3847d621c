package datastructure

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-simplnx/datastore"
)

// DataStructure owns a forest of objects and the index used to resolve
// references between them.
type DataStructure struct {
	uuid      uuid.UUID
	root      *DataMap
	index     map[ID]Object
	nextID    ID
	preferred ID
	issued    map[ID]struct{}
	signal    *Signal
	log       *logrus.Logger
}

// Option configures a DataStructure.
type Option func(*DataStructure)

// WithLogger sets the logger used for structural debug output.
func WithLogger(l *logrus.Logger) Option {
	return func(ds *DataStructure) {
		if l != nil {
			ds.log = l
		}
	}
}

// WithNextID starts fresh ID assignment at id. Readers pass the counter
// stored in a file so that new objects cannot take an ID still to be read.
func WithNextID(id ID) Option {
	return func(ds *DataStructure) {
		if id > ds.nextID {
			ds.nextID = id
		}
	}
}

// New returns an empty DataStructure.
func New(opts ...Option) *DataStructure {
	ds := &DataStructure{
		uuid:   uuid.New(),
		index:  make(map[ID]Object),
		nextID: 1,
		issued: make(map[ID]struct{}),
		signal: &Signal{},
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(ds)
	}
	ds.root = newDataMap(ds, nil)
	return ds
}

// UUID identifies this structure instance. Clones get a fresh UUID.
func (ds *DataStructure) UUID() uuid.UUID { return ds.uuid }

// Root returns the top-level map.
func (ds *DataStructure) Root() *DataMap { return ds.root }

// Signal returns the notification signal for structural changes.
func (ds *DataStructure) Signal() *Signal { return ds.signal }

// Logger returns the structure's logger.
func (ds *DataStructure) Logger() *logrus.Logger { return ds.log }

// Len returns the number of live objects.
func (ds *DataStructure) Len() int { return len(ds.index) }

// NextID returns the ID the next created object will receive, absent a
// preference set by PreferNextID.
func (ds *DataStructure) NextID() ID { return ds.nextID }

// PreferNextID asks that the next created object receive id. The preference
// is honored only when id has never been issued by this structure;
// otherwise a fresh ID is assigned. Readers use it to keep file IDs stable.
func (ds *DataStructure) PreferNextID(id ID) { ds.preferred = id }

func (ds *DataStructure) generateID() ID {
	want := ds.preferred
	ds.preferred = InvalidID
	if want != InvalidID {
		if _, used := ds.issued[want]; !used {
			ds.issued[want] = struct{}{}
			if want >= ds.nextID {
				ds.nextID = want + 1
			}
			return want
		}
	}
	for {
		id := ds.nextID
		ds.nextID++
		if _, used := ds.issued[id]; !used {
			ds.issued[id] = struct{}{}
			return id
		}
	}
}

func (ds *DataStructure) newHeader(name string) objectHeader {
	return objectHeader{ds: ds, id: ds.generateID(), name: name}
}

// Object returns the live object with the given ID, or nil.
func (ds *DataStructure) Object(id ID) Object { return ds.index[id] }

// Objects returns all live objects in ascending ID order.
func (ds *DataStructure) Objects() []Object {
	out := make([]Object, 0, len(ds.index))
	for _, obj := range ds.index {
		out = append(out, obj)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// TopLevel returns the objects of the root map.
func (ds *DataStructure) TopLevel() []Object { return ds.root.Objects() }

// Data resolves path from the root map. It returns nil when any segment is
// missing or an intermediate object cannot hold children.
func (ds *DataStructure) Data(path DataPath) Object {
	if path.Empty() {
		return nil
	}
	m := ds.root
	var obj Object
	for i, name := range path {
		obj = m.Lookup(name)
		if obj == nil {
			return nil
		}
		if i == len(path)-1 {
			break
		}
		g, ok := obj.(BaseGroup)
		if !ok {
			return nil
		}
		m = g.DataMap()
	}
	return obj
}

// Find is Data on a slash-delimited path string.
func (ds *DataStructure) Find(path string) Object {
	p, err := ParsePath(path)
	if err != nil {
		return nil
	}
	return ds.Data(p)
}

// Contains reports whether path resolves.
func (ds *DataStructure) Contains(path DataPath) bool { return ds.Data(path) != nil }

// IDOf returns the ID at path.
func (ds *DataStructure) IDOf(path DataPath) (ID, bool) {
	obj := ds.Data(path)
	if obj == nil {
		return InvalidID, false
	}
	return obj.ID(), true
}

// PathOf returns the path of the live object with the given ID.
func (ds *DataStructure) PathOf(id ID) (DataPath, bool) {
	obj := ds.index[id]
	if obj == nil {
		return nil, false
	}
	var rev []string
	for obj != nil {
		rev = append(rev, obj.Name())
		parent := obj.ParentID()
		if parent == InvalidID {
			break
		}
		obj = ds.index[parent]
	}
	out := make(DataPath, len(rev))
	for i, name := range rev {
		out[len(rev)-1-i] = name
	}
	return out, true
}

// ChildMap returns the map that holds children of parent; InvalidID selects
// the root map.
func (ds *DataStructure) ChildMap(parent ID) (*DataMap, error) {
	if parent == InvalidID {
		return ds.root, nil
	}
	obj := ds.index[parent]
	if obj == nil {
		return nil, fmt.Errorf("%w: id %d", ErrParentNotFound, parent)
	}
	g, ok := obj.(BaseGroup)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s", ErrParentNotGroup, obj.Name(), obj.TypeName())
	}
	return g.DataMap(), nil
}

func (ds *DataStructure) insert(obj Object, parent ID) error {
	m, err := ds.ChildMap(parent)
	if err != nil {
		return err
	}
	return m.insert(obj)
}

// Remove destroys the object at path together with its subtree.
func (ds *DataStructure) Remove(path DataPath) bool {
	obj := ds.Data(path)
	if obj == nil {
		return false
	}
	return ds.RemoveByID(obj.ID())
}

// RemoveByID destroys the object with the given ID together with its
// subtree. Removed messages are emitted children first.
func (ds *DataStructure) RemoveByID(id ID) bool {
	obj := ds.index[id]
	if obj == nil {
		return false
	}
	m, err := ds.ChildMap(obj.ParentID())
	if err != nil {
		return false
	}
	return m.Remove(id)
}

// Rename changes the name of the object with the given ID. It fails when the
// name is invalid or already used by a sibling.
func (ds *DataStructure) Rename(id ID, name string) bool {
	obj := ds.index[id]
	if obj == nil || validateName(name) != nil {
		return false
	}
	old := obj.Name()
	if old == name {
		return true
	}
	m, err := ds.ChildMap(obj.ParentID())
	if err != nil || m.ContainsName(name) {
		return false
	}
	m.rename(obj, name)
	ds.emit(&ObjectRenamedMessage{base: base{ds: ds, id: id}, oldName: old, newName: name})
	return true
}

// Move reparents the object with the given ID under newParent, keeping its
// ID and subtree.
func (ds *DataStructure) Move(id, newParent ID) error {
	obj := ds.index[id]
	if obj == nil {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	oldParent := obj.ParentID()
	if oldParent == newParent {
		return nil
	}
	for p := newParent; p != InvalidID; {
		if p == id {
			return ErrCycle
		}
		po := ds.index[p]
		if po == nil {
			break
		}
		p = po.ParentID()
	}
	dst, err := ds.ChildMap(newParent)
	if err != nil {
		return err
	}
	src, err := ds.ChildMap(oldParent)
	if err != nil {
		return err
	}
	src.detach(id)
	if err := dst.check(obj); err != nil {
		src.link(obj)
		return err
	}
	dst.link(obj)
	ds.emit(&ObjectReparentedMessage{base: base{ds: ds, id: id}, oldParent: oldParent, newParent: newParent})
	return nil
}

func (ds *DataStructure) register(obj Object) {
	ds.index[obj.ID()] = obj
	if g, ok := obj.(BaseGroup); ok {
		for _, child := range g.DataMap().Objects() {
			ds.register(child)
		}
	}
}

// destroy unindexes obj and its subtree in post-order.
func (ds *DataStructure) destroy(obj Object) {
	if g, ok := obj.(BaseGroup); ok {
		m := g.DataMap()
		for _, child := range m.Objects() {
			ds.destroy(child)
		}
		m.clear()
	}
	delete(ds.index, obj.ID())
	h := obj.header()
	h.attached = false
	h.destroyed = true
	ds.log.WithFields(logrus.Fields{"id": h.id, "name": h.name}).Debug("removed object")
	ds.emit(&ObjectRemovedMessage{base: base{ds: ds, id: h.id}, name: h.name})
	if a, ok := obj.(IDataArray); ok {
		ds.dropStore(h.name, a.Store())
	}
}

// dropStore releases the payload of a store that no array holds anymore.
func (ds *DataStructure) dropStore(name string, s datastore.Store) {
	d, ok := s.(datastore.Dropper)
	if !ok {
		return
	}
	if err := d.Drop(); err != nil {
		ds.log.WithFields(logrus.Fields{"name": name, "format": s.DataFormat()}).WithError(err).Warn("release store")
	}
}

func (ds *DataStructure) emit(msg Message) { ds.signal.emit(msg) }
