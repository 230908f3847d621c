package datastructure

import (
	"fmt"

	"github.com/robert-malhotra/go-simplnx/datastore"
)

// Geometry is implemented by ImageGeom, RectGridGeom and NodeGeom. A
// geometry owns its children like any group and additionally refers to
// topology arrays and attribute matrices by ID.
type Geometry interface {
	BaseGroup
	Referrer
	isGeometry()
}

type geometryBase struct {
	objectHeader
	groupBase
}

func (*geometryBase) isGeometry()            {}
func (*geometryBase) canInsert(Object) error { return nil }

func (g *geometryBase) setRef(dst *ID, obj Object) error {
	if obj == nil {
		*dst = InvalidID
		return nil
	}
	if obj.Structure() != g.ds {
		return fmt.Errorf("%w: %q", ErrForeignObject, obj.Name())
	}
	*dst = obj.ID()
	return nil
}

func remapAll(fn func(ID) ID, ids ...*ID) {
	for _, id := range ids {
		if *id != InvalidID {
			*id = fn(*id)
		}
	}
}

// ImageGeom is a regular grid described by dimensions, origin and spacing.
// Dimensions, origin and spacing are ordered X, Y, Z.
type ImageGeom struct {
	geometryBase
	dims     [3]uint64
	origin   [3]float32
	spacing  [3]float32
	cellData ID
}

// CreateImageGeom creates an ImageGeom with zero dimensions and unit
// spacing.
func CreateImageGeom(ds *DataStructure, name string, parent ID) (*ImageGeom, error) {
	g := &ImageGeom{spacing: [3]float32{1, 1, 1}}
	g.objectHeader = ds.newHeader(name)
	g.children = newDataMap(ds, g)
	if err := ds.insert(g, parent); err != nil {
		return nil, err
	}
	return g, nil
}

func (*ImageGeom) Kind() Kind       { return KindImageGeom }
func (*ImageGeom) TypeName() string { return KindImageGeom.String() }

func (g *ImageGeom) Dimensions() [3]uint64      { return g.dims }
func (g *ImageGeom) SetDimensions(d [3]uint64)  { g.dims = d }
func (g *ImageGeom) Origin() [3]float32         { return g.origin }
func (g *ImageGeom) SetOrigin(o [3]float32)     { g.origin = o }
func (g *ImageGeom) Spacing() [3]float32        { return g.spacing }
func (g *ImageGeom) SetSpacing(s [3]float32)    { g.spacing = s }
func (g *ImageGeom) CellDataID() ID             { return g.cellData }
func (g *ImageGeom) CellData() *AttributeMatrix { return resolve[*AttributeMatrix](g.ds, g.cellData) }

// NumberOfCells returns X*Y*Z.
func (g *ImageGeom) NumberOfCells() uint64 { return g.dims[0] * g.dims[1] * g.dims[2] }

// CellTupleShape returns the tuple shape of cell data, slowest first (Z, Y, X).
func (g *ImageGeom) CellTupleShape() datastore.Shape {
	return datastore.Shape{g.dims[2], g.dims[1], g.dims[0]}
}

// SetCellData references am as the cell attribute matrix. Its tuple shape
// must equal CellTupleShape.
func (g *ImageGeom) SetCellData(am *AttributeMatrix) error {
	if am != nil && !am.TupleShape().Equal(g.CellTupleShape()) {
		return fmt.Errorf("%w: cell data shape %v, geometry needs %v", ErrTopology, am.TupleShape(), g.CellTupleShape())
	}
	return g.setRef(&g.cellData, amObject(am))
}

// Bounds returns the minimum and maximum coordinates covered by the grid.
func (g *ImageGeom) Bounds() (lo, hi [3]float32) {
	for i := 0; i < 3; i++ {
		lo[i] = g.origin[i]
		hi[i] = g.origin[i] + float32(g.dims[i])*g.spacing[i]
	}
	return lo, hi
}

func (g *ImageGeom) References() []ID { return []ID{g.cellData} }

func (g *ImageGeom) RemapReferences(fn func(ID) ID) { remapAll(fn, &g.cellData) }

func (g *ImageGeom) cloneInto(ds *DataStructure) (Object, error) {
	c := &ImageGeom{dims: g.dims, origin: g.origin, spacing: g.spacing, cellData: g.cellData}
	c.objectHeader = g.cloneHeader(ds)
	c.children = newDataMap(ds, c)
	return c, nil
}

// RectGridGeom is a rectilinear grid whose cell boundaries along each axis
// come from three float32 bounds arrays.
type RectGridGeom struct {
	geometryBase
	dims     [3]uint64
	xBounds  ID
	yBounds  ID
	zBounds  ID
	cellData ID
}

// CreateRectGridGeom creates a RectGridGeom with no bounds.
func CreateRectGridGeom(ds *DataStructure, name string, parent ID) (*RectGridGeom, error) {
	g := &RectGridGeom{}
	g.objectHeader = ds.newHeader(name)
	g.children = newDataMap(ds, g)
	if err := ds.insert(g, parent); err != nil {
		return nil, err
	}
	return g, nil
}

func (*RectGridGeom) Kind() Kind       { return KindRectGridGeom }
func (*RectGridGeom) TypeName() string { return KindRectGridGeom.String() }

func (g *RectGridGeom) Dimensions() [3]uint64        { return g.dims }
func (g *RectGridGeom) SetDimensions(d [3]uint64)    { g.dims = d }
func (g *RectGridGeom) XBounds() *DataArray[float32] { return resolve[*DataArray[float32]](g.ds, g.xBounds) }
func (g *RectGridGeom) YBounds() *DataArray[float32] { return resolve[*DataArray[float32]](g.ds, g.yBounds) }
func (g *RectGridGeom) ZBounds() *DataArray[float32] { return resolve[*DataArray[float32]](g.ds, g.zBounds) }
func (g *RectGridGeom) BoundsIDs() (x, y, z ID)      { return g.xBounds, g.yBounds, g.zBounds }
func (g *RectGridGeom) CellDataID() ID               { return g.cellData }
func (g *RectGridGeom) CellData() *AttributeMatrix   { return resolve[*AttributeMatrix](g.ds, g.cellData) }
func (g *RectGridGeom) NumberOfCells() uint64        { return g.dims[0] * g.dims[1] * g.dims[2] }

// CellTupleShape returns the tuple shape of cell data, slowest first (Z, Y, X).
func (g *RectGridGeom) CellTupleShape() datastore.Shape {
	return datastore.Shape{g.dims[2], g.dims[1], g.dims[0]}
}

// SetBounds references the three bounds arrays and derives the dimensions
// from their lengths: an axis with n boundaries has n-1 cells.
func (g *RectGridGeom) SetBounds(x, y, z *DataArray[float32]) error {
	var dims [3]uint64
	for i, b := range []*DataArray[float32]{x, y, z} {
		if b == nil {
			return fmt.Errorf("%w: missing bounds for axis %d", ErrTopology, i)
		}
		if b.Structure() != g.ds {
			return fmt.Errorf("%w: %q", ErrForeignObject, b.Name())
		}
		n := b.Size()
		if n < 2 {
			return fmt.Errorf("%w: axis %d has %d boundaries", ErrTopology, i, n)
		}
		dims[i] = n - 1
	}
	g.xBounds, g.yBounds, g.zBounds = x.ID(), y.ID(), z.ID()
	g.dims = dims
	return nil
}

// SetCellData references am as the cell attribute matrix.
func (g *RectGridGeom) SetCellData(am *AttributeMatrix) error {
	if am != nil && !am.TupleShape().Equal(g.CellTupleShape()) {
		return fmt.Errorf("%w: cell data shape %v, geometry needs %v", ErrTopology, am.TupleShape(), g.CellTupleShape())
	}
	return g.setRef(&g.cellData, amObject(am))
}

func (g *RectGridGeom) References() []ID {
	return []ID{g.xBounds, g.yBounds, g.zBounds, g.cellData}
}

func (g *RectGridGeom) RemapReferences(fn func(ID) ID) {
	remapAll(fn, &g.xBounds, &g.yBounds, &g.zBounds, &g.cellData)
}

func (g *RectGridGeom) cloneInto(ds *DataStructure) (Object, error) {
	c := &RectGridGeom{dims: g.dims, xBounds: g.xBounds, yBounds: g.yBounds, zBounds: g.zBounds, cellData: g.cellData}
	c.objectHeader = g.cloneHeader(ds)
	c.children = newDataMap(ds, c)
	return c, nil
}

// NodeGeom is a vertex-based geometry: vertex clouds, edge networks and
// triangle, quad, tetrahedral or hexahedral meshes. Vertices are an Nx3
// float32 array; connectivity is an MxK uint64 array of vertex indices.
type NodeGeom struct {
	geometryBase
	kind         Kind
	vertices     ID
	connectivity ID
	vertexData   ID
	elementData  ID
}

// CreateNodeGeom creates a vertex-based geometry of the given kind.
func CreateNodeGeom(ds *DataStructure, name string, kind Kind, parent ID) (*NodeGeom, error) {
	if !kind.IsNodeGeometry() {
		return nil, fmt.Errorf("%w: %s is not a node geometry", ErrWrongType, kind)
	}
	g := &NodeGeom{kind: kind}
	g.objectHeader = ds.newHeader(name)
	g.children = newDataMap(ds, g)
	if err := ds.insert(g, parent); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *NodeGeom) Kind() Kind       { return g.kind }
func (g *NodeGeom) TypeName() string { return g.kind.String() }

// VerticesPerElement returns the number of vertex indices per element, or 0
// for vertex geometries.
func (g *NodeGeom) VerticesPerElement() uint64 {
	switch g.kind {
	case KindEdgeGeom:
		return 2
	case KindTriangleGeom:
		return 3
	case KindQuadGeom, KindTetrahedralGeom:
		return 4
	case KindHexahedralGeom:
		return 8
	default:
		return 0
	}
}

func (g *NodeGeom) VerticesID() ID                   { return g.vertices }
func (g *NodeGeom) ConnectivityID() ID               { return g.connectivity }
func (g *NodeGeom) VertexDataID() ID                 { return g.vertexData }
func (g *NodeGeom) ElementDataID() ID                { return g.elementData }
func (g *NodeGeom) Vertices() *DataArray[float32]    { return resolve[*DataArray[float32]](g.ds, g.vertices) }
func (g *NodeGeom) Connectivity() *DataArray[uint64] { return resolve[*DataArray[uint64]](g.ds, g.connectivity) }
func (g *NodeGeom) VertexData() *AttributeMatrix     { return resolve[*AttributeMatrix](g.ds, g.vertexData) }
func (g *NodeGeom) ElementData() *AttributeMatrix    { return resolve[*AttributeMatrix](g.ds, g.elementData) }

// NumberOfVertices returns the tuple count of the vertex array.
func (g *NodeGeom) NumberOfVertices() uint64 {
	if v := g.Vertices(); v != nil {
		return v.NumberOfTuples()
	}
	return 0
}

// NumberOfElements returns the tuple count of the connectivity array. For
// vertex geometries every vertex is an element.
func (g *NodeGeom) NumberOfElements() uint64 {
	if g.kind == KindVertexGeom {
		return g.NumberOfVertices()
	}
	if c := g.Connectivity(); c != nil {
		return c.NumberOfTuples()
	}
	return 0
}

// SetVertices references an Nx3 float32 array as the shared vertex list.
func (g *NodeGeom) SetVertices(v *DataArray[float32]) error {
	if v != nil && v.NumberOfComponents() != 3 {
		return fmt.Errorf("%w: vertex list has %d components, want 3", ErrTopology, v.NumberOfComponents())
	}
	return g.setRef(&g.vertices, daObject(v))
}

// SetConnectivity references the element list. Vertex geometries have none.
func (g *NodeGeom) SetConnectivity(c *DataArray[uint64]) error {
	if g.kind == KindVertexGeom {
		return fmt.Errorf("%w: vertex geometries have no connectivity", ErrTopology)
	}
	if c != nil && c.NumberOfComponents() != g.VerticesPerElement() {
		return fmt.Errorf("%w: %s elements have %d vertices, array has %d components",
			ErrTopology, g.kind, g.VerticesPerElement(), c.NumberOfComponents())
	}
	return g.setRef(&g.connectivity, daObject(c))
}

// SetVertexData references the per-vertex attribute matrix.
func (g *NodeGeom) SetVertexData(am *AttributeMatrix) error {
	return g.setRef(&g.vertexData, amObject(am))
}

// SetElementData references the per-element attribute matrix.
func (g *NodeGeom) SetElementData(am *AttributeMatrix) error {
	return g.setRef(&g.elementData, amObject(am))
}

// Validate checks that the referenced arrays resolve and that every
// connectivity entry indexes an existing vertex.
func (g *NodeGeom) Validate() error {
	v := g.Vertices()
	if v == nil {
		return fmt.Errorf("%w: %q has no vertex list", ErrTopology, g.name)
	}
	if g.kind == KindVertexGeom {
		return nil
	}
	c := g.Connectivity()
	if c == nil {
		return fmt.Errorf("%w: %q has no connectivity", ErrTopology, g.name)
	}
	idx, err := c.Values()
	if err != nil {
		return fmt.Errorf("read connectivity of %q: %w", g.name, err)
	}
	n := v.NumberOfTuples()
	for i, vi := range idx {
		if vi >= n {
			return fmt.Errorf("%w: %q element %d references vertex %d of %d", ErrTopology, g.name, uint64(i)/g.VerticesPerElement(), vi, n)
		}
	}
	return nil
}

func (g *NodeGeom) References() []ID {
	return []ID{g.vertices, g.connectivity, g.vertexData, g.elementData}
}

func (g *NodeGeom) RemapReferences(fn func(ID) ID) {
	remapAll(fn, &g.vertices, &g.connectivity, &g.vertexData, &g.elementData)
}

func (g *NodeGeom) cloneInto(ds *DataStructure) (Object, error) {
	c := &NodeGeom{kind: g.kind, vertices: g.vertices, connectivity: g.connectivity, vertexData: g.vertexData, elementData: g.elementData}
	c.objectHeader = g.cloneHeader(ds)
	c.children = newDataMap(ds, c)
	return c, nil
}

// amObject and daObject keep typed nil pointers from becoming non-nil
// interfaces.
func amObject(am *AttributeMatrix) Object {
	if am == nil {
		return nil
	}
	return am
}

func daObject[T datastore.Value](a *DataArray[T]) Object {
	if a == nil {
		return nil
	}
	return a
}
