package datastructure

import "fmt"

// Object is implemented by every node of a DataStructure. The set of
// implementations is closed; see Kind.
type Object interface {
	ID() ID
	Name() string
	Kind() Kind
	// TypeName identifies the concrete type including its element type,
	// e.g. "DataArray<int32>". IO factories are keyed on it.
	TypeName() string
	// ParentID is InvalidID for objects held by the root map.
	ParentID() ID
	Structure() *DataStructure

	header() *objectHeader
	cloneInto(ds *DataStructure) (Object, error)
}

type objectHeader struct {
	ds        *DataStructure
	id        ID
	name      string
	parent    ID
	attached  bool
	destroyed bool
}

func (h *objectHeader) ID() ID                    { return h.id }
func (h *objectHeader) Name() string              { return h.name }
func (h *objectHeader) ParentID() ID              { return h.parent }
func (h *objectHeader) Structure() *DataStructure { return h.ds }
func (h *objectHeader) header() *objectHeader     { return h }

// Attached reports whether the object is currently owned by a map of its
// structure.
func (h *objectHeader) Attached() bool { return h.attached && !h.destroyed }

func (h *objectHeader) cloneHeader(ds *DataStructure) objectHeader {
	return objectHeader{ds: ds, id: h.id, name: h.name}
}

// As returns obj as a T when it has that dynamic type.
func As[T Object](obj Object) (T, bool) {
	t, ok := obj.(T)
	return t, ok
}

// GetDataAs resolves id in ds and returns it as a T.
func GetDataAs[T Object](ds *DataStructure, id ID) (T, error) {
	var zero T
	obj := ds.Object(id)
	if obj == nil {
		return zero, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	t, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %s", ErrWrongType, obj.Name(), obj.TypeName())
	}
	return t, nil
}

// GetDataAtPath resolves path in ds and returns it as a T.
func GetDataAtPath[T Object](ds *DataStructure, path DataPath) (T, error) {
	var zero T
	obj := ds.Data(path)
	if obj == nil {
		return zero, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	t, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %s", ErrWrongType, path, obj.TypeName())
	}
	return t, nil
}

// resolve looks up id and returns it as a T, or the zero T.
func resolve[T Object](ds *DataStructure, id ID) T {
	var zero T
	if ds == nil || id == InvalidID {
		return zero
	}
	t, _ := ds.Object(id).(T)
	return t
}

// Referrer is implemented by objects that hold non-owning references to
// other objects by ID.
type Referrer interface {
	Object
	// References lists the referenced IDs; InvalidID entries are unset.
	References() []ID
	// RemapReferences rewrites every reference through fn.
	RemapReferences(fn func(ID) ID)
}
