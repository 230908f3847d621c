package datastructure

import (
	"fmt"
	"sort"
)

// DataMap is an ordered, name-unique collection of objects owned by the root
// of a DataStructure or by a group object. Iteration is in ascending ID
// order.
type DataMap struct {
	ds      *DataStructure
	owner   BaseGroup
	ids     []ID
	objects map[ID]Object
	names   map[string]ID
}

func newDataMap(ds *DataStructure, owner BaseGroup) *DataMap {
	return &DataMap{
		ds:      ds,
		owner:   owner,
		objects: make(map[ID]Object),
		names:   make(map[string]ID),
	}
}

// OwnerID returns the ID of the owning group, or InvalidID for the root map.
func (m *DataMap) OwnerID() ID {
	if m.owner == nil {
		return InvalidID
	}
	return m.owner.ID()
}

// Len returns the number of direct children.
func (m *DataMap) Len() int { return len(m.ids) }

// IDs returns the child IDs in ascending order.
func (m *DataMap) IDs() []ID {
	out := make([]ID, len(m.ids))
	copy(out, m.ids)
	return out
}

// Objects returns the children in ascending ID order.
func (m *DataMap) Objects() []Object {
	out := make([]Object, len(m.ids))
	for i, id := range m.ids {
		out[i] = m.objects[id]
	}
	return out
}

// Names returns the child names in ascending ID order.
func (m *DataMap) Names() []string {
	out := make([]string, len(m.ids))
	for i, id := range m.ids {
		out[i] = m.objects[id].Name()
	}
	return out
}

// Get returns the child with the given ID, or nil.
func (m *DataMap) Get(id ID) Object { return m.objects[id] }

// Lookup returns the child with the given name, or nil.
func (m *DataMap) Lookup(name string) Object {
	id, ok := m.names[name]
	if !ok {
		return nil
	}
	return m.objects[id]
}

// ContainsID reports whether a child with the given ID exists.
func (m *DataMap) ContainsID(id ID) bool {
	_, ok := m.objects[id]
	return ok
}

// ContainsName reports whether a child with the given name exists.
func (m *DataMap) ContainsName(name string) bool {
	_, ok := m.names[name]
	return ok
}

// Find returns the first child, in ID order, for which match is true.
func (m *DataMap) Find(match func(Object) bool) Object {
	for _, id := range m.ids {
		if obj := m.objects[id]; match(obj) {
			return obj
		}
	}
	return nil
}

// Insert adds obj to the map. It returns false when obj is nil, belongs to
// another structure, is already owned, collides by name or ID, or is refused
// by the owning group.
func (m *DataMap) Insert(obj Object) bool {
	return m.insert(obj) == nil
}

// Remove destroys the child with the given ID together with its subtree.
func (m *DataMap) Remove(id ID) bool {
	obj := m.detach(id)
	if obj == nil {
		return false
	}
	m.ds.destroy(obj)
	return true
}

// RemoveObject destroys obj when it is a child of m.
func (m *DataMap) RemoveObject(obj Object) bool {
	if obj == nil || m.objects[obj.ID()] != obj {
		return false
	}
	return m.Remove(obj.ID())
}

// RemoveName destroys the child with the given name.
func (m *DataMap) RemoveName(name string) bool {
	id, ok := m.names[name]
	if !ok {
		return false
	}
	return m.Remove(id)
}

func (m *DataMap) check(obj Object) error {
	if obj == nil {
		return ErrNilObject
	}
	h := obj.header()
	if h.destroyed {
		return fmt.Errorf("%w: %q", ErrDestroyed, h.name)
	}
	if h.ds != m.ds {
		return fmt.Errorf("%w: %q", ErrForeignObject, h.name)
	}
	if h.attached {
		return fmt.Errorf("%w: %q", ErrAlreadyOwned, h.name)
	}
	if err := validateName(h.name); err != nil {
		return err
	}
	if _, ok := m.names[h.name]; ok {
		return fmt.Errorf("%w: %q", ErrNameCollision, h.name)
	}
	if _, ok := m.objects[h.id]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateID, h.id)
	}
	if m.owner != nil {
		if err := m.owner.canInsert(obj); err != nil {
			return fmt.Errorf("%w: %v", ErrInsertRejected, err)
		}
	}
	return nil
}

func (m *DataMap) insert(obj Object) error {
	if err := m.check(obj); err != nil {
		return err
	}
	m.link(obj)
	m.ds.register(obj)
	m.ds.emit(&ObjectAddedMessage{base: base{ds: m.ds, id: obj.ID()}, parent: m.OwnerID()})
	return nil
}

// link adds obj without validation or notification.
func (m *DataMap) link(obj Object) {
	h := obj.header()
	i := sort.Search(len(m.ids), func(i int) bool { return m.ids[i] >= h.id })
	m.ids = append(m.ids, 0)
	copy(m.ids[i+1:], m.ids[i:])
	m.ids[i] = h.id
	m.objects[h.id] = obj
	m.names[h.name] = h.id
	h.parent = m.OwnerID()
	h.attached = true
}

// detach unlinks the child without destroying it.
func (m *DataMap) detach(id ID) Object {
	obj, ok := m.objects[id]
	if !ok {
		return nil
	}
	i := sort.Search(len(m.ids), func(i int) bool { return m.ids[i] >= id })
	m.ids = append(m.ids[:i], m.ids[i+1:]...)
	delete(m.objects, id)
	delete(m.names, obj.Name())
	h := obj.header()
	h.attached = false
	h.parent = InvalidID
	return obj
}

func (m *DataMap) rename(obj Object, name string) {
	delete(m.names, obj.Name())
	obj.header().name = name
	m.names[name] = obj.ID()
}

func (m *DataMap) clear() {
	m.ids = nil
	m.objects = make(map[ID]Object)
	m.names = make(map[string]ID)
}
