package datastructure

import (
	"fmt"

	"github.com/robert-malhotra/go-simplnx/datastore"
)

// BaseGroup is implemented by objects that own a child DataMap.
type BaseGroup interface {
	Object
	DataMap() *DataMap
	canInsert(obj Object) error
}

type groupBase struct {
	children *DataMap
}

// DataMap returns the group's children.
func (g *groupBase) DataMap() *DataMap { return g.children }

// Child returns the child with the given name, or nil.
func (g *groupBase) Child(name string) Object { return g.children.Lookup(name) }

// DataGroup is a plain container with no constraints on its children.
type DataGroup struct {
	objectHeader
	groupBase
}

// CreateDataGroup creates a DataGroup under parent (InvalidID for the root).
func CreateDataGroup(ds *DataStructure, name string, parent ID) (*DataGroup, error) {
	g := &DataGroup{objectHeader: ds.newHeader(name)}
	g.children = newDataMap(ds, g)
	if err := ds.insert(g, parent); err != nil {
		return nil, err
	}
	return g, nil
}

func (*DataGroup) Kind() Kind             { return KindDataGroup }
func (*DataGroup) TypeName() string       { return KindDataGroup.String() }
func (*DataGroup) canInsert(Object) error { return nil }

func (g *DataGroup) cloneInto(ds *DataStructure) (Object, error) {
	c := &DataGroup{objectHeader: g.cloneHeader(ds)}
	c.children = newDataMap(ds, c)
	return c, nil
}

// AttributeMatrix is a group whose array children all share its tuple
// shape. Non-array children are rejected.
type AttributeMatrix struct {
	objectHeader
	groupBase
	tupleShape datastore.Shape
}

// CreateAttributeMatrix creates an AttributeMatrix with the given tuple
// shape under parent.
func CreateAttributeMatrix(ds *DataStructure, name string, tupleShape datastore.Shape, parent ID) (*AttributeMatrix, error) {
	am := &AttributeMatrix{objectHeader: ds.newHeader(name), tupleShape: tupleShape.Clone()}
	am.children = newDataMap(ds, am)
	if err := ds.insert(am, parent); err != nil {
		return nil, err
	}
	return am, nil
}

func (*AttributeMatrix) Kind() Kind       { return KindAttributeMatrix }
func (*AttributeMatrix) TypeName() string { return KindAttributeMatrix.String() }

// TupleShape returns the shape every child data array must have. Neighbor
// lists and string arrays only need a matching tuple count.
func (am *AttributeMatrix) TupleShape() datastore.Shape { return am.tupleShape.Clone() }

// NumberOfTuples returns the product of the tuple shape.
func (am *AttributeMatrix) NumberOfTuples() uint64 { return am.tupleShape.Product() }

func (am *AttributeMatrix) canInsert(obj Object) error {
	arr, ok := obj.(IArray)
	if !ok {
		return fmt.Errorf("attribute matrix %q only holds arrays, got %s", am.name, obj.TypeName())
	}
	ts := arr.TupleShape()
	if ts.Equal(am.tupleShape) {
		return nil
	}
	// Lists and strings are flat; only their tuple count must agree.
	if _, shaped := obj.(IDataArray); !shaped && ts.Product() == am.tupleShape.Product() {
		return nil
	}
	return fmt.Errorf("tuple shape %v does not match attribute matrix %q shape %v", ts, am.name, am.tupleShape)
}

// ResizeTuples changes the tuple shape and resizes every child array to
// match. In-memory values are kept where the old and new extents overlap.
func (am *AttributeMatrix) ResizeTuples(shape datastore.Shape) error {
	children := am.children.Objects()
	for _, child := range children {
		if err := child.(IArray).checkResize(); err != nil {
			return fmt.Errorf("resize %q: %w", child.Name(), err)
		}
	}
	for _, child := range children {
		if err := child.(IArray).resizeTuples(shape); err != nil {
			return fmt.Errorf("resize %q: %w", child.Name(), err)
		}
	}
	am.tupleShape = shape.Clone()
	return nil
}

func (am *AttributeMatrix) cloneInto(ds *DataStructure) (Object, error) {
	c := &AttributeMatrix{objectHeader: am.cloneHeader(ds), tupleShape: am.tupleShape.Clone()}
	c.children = newDataMap(ds, c)
	return c, nil
}
