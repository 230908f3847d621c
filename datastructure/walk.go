package datastructure

import "errors"

// WalkFunc is called for each object visited by Walk. Returning
// ErrSkipChildren skips the children of a group; ErrStopWalk ends the walk
// without error; any other error aborts it.
type WalkFunc func(path DataPath, obj Object) error

// Walk visits every object depth-first, parents before children, siblings
// in ID order.
func (ds *DataStructure) Walk(fn WalkFunc) error {
	err := walkMap(ds.root, DataPath{}, fn)
	if errors.Is(err, ErrStopWalk) {
		return nil
	}
	return err
}

// WalkFrom visits the subtree rooted at the object at path, including it.
func (ds *DataStructure) WalkFrom(path DataPath, fn WalkFunc) error {
	obj := ds.Data(path)
	if obj == nil {
		return ErrNotFound
	}
	err := walkObject(path, obj, fn)
	if errors.Is(err, ErrStopWalk) {
		return nil
	}
	return err
}

func walkMap(m *DataMap, prefix DataPath, fn WalkFunc) error {
	for _, obj := range m.Objects() {
		if err := walkObject(prefix.Child(obj.Name()), obj, fn); err != nil {
			return err
		}
	}
	return nil
}

func walkObject(path DataPath, obj Object, fn WalkFunc) error {
	err := fn(path, obj)
	if errors.Is(err, ErrSkipChildren) {
		return nil
	}
	if err != nil {
		return err
	}
	if g, ok := obj.(BaseGroup); ok {
		return walkMap(g.DataMap(), path, fn)
	}
	return nil
}
