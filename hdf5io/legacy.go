package hdf5io

import (
	"context"
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-simplnx/dataio"
	"github.com/robert-malhotra/go-simplnx/datastore"
	"github.com/robert-malhotra/go-simplnx/datastructure"
	"github.com/robert-malhotra/go-simplnx/h5"
)

const (
	legacyDataContainers = "DataContainers"
	legacyGeometryGroup  = "_SIMPL_GEOMETRY"
	legacyGeometryType   = "GeometryType"
	legacyAMType         = "AttributeMatrixType"
	legacyStringArray    = "StringDataArray"
	legacyVertexList     = "SharedVertexList"
)

// Geometry type codes of the DataContainers layout.
const (
	legacyImage uint32 = iota
	legacyRectGrid
	legacyVertex
	legacyEdge
	legacyTriangle
	legacyQuad
	legacyTetrahedral
	legacyHexahedral
)

// Attribute matrix type codes of the DataContainers layout.
const (
	legacyAMVertex uint32 = iota
	legacyAMEdge
	legacyAMFace
	legacyAMCell

	legacyAMGeneric uint32 = 11
)

var legacyNodeKinds = map[uint32]datastructure.Kind{
	legacyVertex:      datastructure.KindVertexGeom,
	legacyEdge:        datastructure.KindEdgeGeom,
	legacyTriangle:    datastructure.KindTriangleGeom,
	legacyQuad:        datastructure.KindQuadGeom,
	legacyTetrahedral: datastructure.KindTetrahedralGeom,
	legacyHexahedral:  datastructure.KindHexahedralGeom,
}

var legacyConnectivity = map[datastructure.Kind]string{
	datastructure.KindEdgeGeom:        "SharedEdgeList",
	datastructure.KindTriangleGeom:    "SharedTriList",
	datastructure.KindQuadGeom:        "SharedQuadList",
	datastructure.KindTetrahedralGeom: "SharedTetList",
	datastructure.KindHexahedralGeom:  "SharedHexList",
}

var legacyElementTypes = map[string]datastore.DataType{
	"int8_t":   datastore.Int8,
	"uint8_t":  datastore.UInt8,
	"int16_t":  datastore.Int16,
	"uint16_t": datastore.UInt16,
	"int32_t":  datastore.Int32,
	"uint32_t": datastore.UInt32,
	"int64_t":  datastore.Int64,
	"uint64_t": datastore.UInt64,
	"float":    datastore.Float32,
	"double":   datastore.Float64,
	"bool":     datastore.Bool,
}

// LegacyTypeName maps an ObjectType of the DataContainers layout, such as
// "DataArray<int32_t>", to the TypeName used by this package.
func LegacyTypeName(objectType string) (string, bool) {
	if objectType == legacyStringArray {
		return datastructure.KindStringArray.String(), true
	}
	for _, k := range []datastructure.Kind{datastructure.KindDataArray, datastructure.KindNeighborList} {
		inner, ok := strings.CutPrefix(objectType, k.String()+"<")
		if !ok {
			continue
		}
		inner, ok = strings.CutSuffix(inner, ">")
		if !ok {
			return "", false
		}
		dt, ok := legacyElementTypes[inner]
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%s<%s>", k, dt), true
	}
	return "", false
}

// legacyReader is implemented by IOs that can read an array dataset of the
// DataContainers layout.
type legacyReader interface {
	readLegacy(r *ReadContext, parent h5.Group, d h5.Dataset, name string, parentID datastructure.ID, ts, cs datastore.Shape) (datastructure.Object, error)
}

func (io dataArrayIO[T]) readLegacy(r *ReadContext, _ h5.Group, d h5.Dataset, name string, parentID datastructure.ID, ts, cs datastore.Shape) (datastructure.Object, error) {
	if want, got := ts.Product()*cs.Product(), h5.NumElements(d.Shape()); want != got {
		return nil, fmt.Errorf("%w: %v x %v for %d elements", datastore.ErrShapeMismatch, ts, cs, got)
	}
	return io.readDataset(r, d, name, parentID, ts, cs)
}

func (io neighborListIO[T]) readLegacy(r *ReadContext, parent h5.Group, d h5.Dataset, name string, parentID datastructure.ID, _, _ datastore.Shape) (datastructure.Object, error) {
	return io.readDataset(r, parent, d, name, parentID)
}

func (stringArrayIO) readLegacy(r *ReadContext, _ h5.Group, d h5.Dataset, name string, parentID datastructure.ID, _, _ datastore.Shape) (datastructure.Object, error) {
	return readStringDataset(r, d, name, parentID)
}

func (rd *Reader) readLegacy(ctx context.Context, root h5.Group, useEmpty bool) dataio.Result[*datastructure.DataStructure] {
	ds := datastructure.New(datastructure.WithLogger(rd.opts.log))
	r := newReadContext(ds, rd.manager, rd.opts, useEmpty)
	dcs, err := root.OpenGroup(legacyDataContainers)
	if err != nil {
		r.addError(dataio.CodeReadFailed, h5.JoinPath(root.Path(), legacyDataContainers), err)
		return *r.result
	}
	defer dcs.Close()
	members, err := dcs.Members()
	if err != nil {
		r.addError(dataio.CodeReadFailed, dcs.Path(), err)
		return *r.result
	}
	for _, m := range members {
		if err := ctx.Err(); err != nil {
			r.result.AddError(dataio.CodeCancelled, dcs.Path(), err)
			return *r.result
		}
		path := h5.JoinPath(dcs.Path(), m.Name)
		if m.Kind != h5.MemberGroup {
			r.addWarning(dataio.CodeUnregisteredType, path, "dataset outside a data container, skipped")
			continue
		}
		if err := readLegacyContainer(ctx, r, dcs, m.Name); err != nil {
			if isCancel(err) {
				r.result.AddError(dataio.CodeCancelled, path, err)
				return *r.result
			}
			r.addError(dataio.CodeReadFailed, path, err)
		}
	}
	r.resolveLinks()
	return *r.result
}

// attachFunc hands an attribute matrix of the given legacy type to the
// geometry of its container.
type attachFunc func(am *datastructure.AttributeMatrix, amType uint32) error

func readLegacyContainer(ctx context.Context, r *ReadContext, parent h5.Group, name string) error {
	g, err := parent.OpenGroup(name)
	if err != nil {
		return err
	}
	defer g.Close()
	members, err := g.Members()
	if err != nil {
		return err
	}

	var (
		owner  datastructure.Object
		attach attachFunc
	)
	for _, m := range members {
		if m.Name == legacyGeometryGroup && m.Kind == h5.MemberGroup {
			if owner, attach, err = readLegacyGeometry(r, g, name); err != nil {
				return err
			}
		}
	}
	if owner == nil {
		if owner, err = datastructure.CreateDataGroup(r.ds, name, datastructure.InvalidID); err != nil {
			return err
		}
	}

	for _, m := range members {
		if m.Name == legacyGeometryGroup {
			continue
		}
		path := h5.JoinPath(g.Path(), m.Name)
		if m.Kind != h5.MemberGroup {
			r.addWarning(dataio.CodeUnregisteredType, path, "dataset outside an attribute matrix, skipped")
			continue
		}
		am, amType, err := readLegacyAttributeMatrix(ctx, r, g, m.Name, owner.ID())
		if err != nil {
			if isCancel(err) {
				return err
			}
			r.addError(dataio.CodeReadFailed, path, err)
			continue
		}
		if attach != nil {
			if err := attach(am, amType); err != nil {
				r.addError(dataio.CodeShapeMismatch, path, err)
			}
		}
	}
	return nil
}

// readLegacyGeometry removes the geometry again when any of its parts fails
// to read.
func readLegacyGeometry(r *ReadContext, container h5.Group, name string) (_ datastructure.Object, _ attachFunc, err error) {
	created := datastructure.InvalidID
	defer func() {
		if err != nil && created != datastructure.InvalidID {
			r.ds.RemoveByID(created)
		}
	}()
	g, err := container.OpenGroup(legacyGeometryGroup)
	if err != nil {
		return nil, nil, err
	}
	defer g.Close()
	gt, err := h5.ReadAttrAs[uint32](g, legacyGeometryType)
	if err != nil {
		return nil, nil, err
	}

	switch gt {
	case legacyImage:
		geom, err := datastructure.CreateImageGeom(r.ds, name, datastructure.InvalidID)
		if err != nil {
			return nil, nil, err
		}
		created = geom.ID()
		dims, err := legacyVec3[uint64](g, "DIMENSIONS")
		if err != nil {
			return nil, nil, err
		}
		origin, err := legacyVec3[float32](g, "ORIGIN")
		if err != nil {
			return nil, nil, err
		}
		spacing, err := legacyVec3[float32](g, "SPACING")
		if err != nil {
			return nil, nil, err
		}
		geom.SetDimensions(dims)
		geom.SetOrigin(origin)
		geom.SetSpacing(spacing)
		return geom, func(am *datastructure.AttributeMatrix, t uint32) error {
			if t == legacyAMCell {
				return geom.SetCellData(am)
			}
			return nil
		}, nil

	case legacyRectGrid:
		geom, err := datastructure.CreateRectGridGeom(r.ds, name, datastructure.InvalidID)
		if err != nil {
			return nil, nil, err
		}
		created = geom.ID()
		var bounds [3]*datastructure.DataArray[float32]
		for i, axis := range []string{"xBounds", "yBounds", "zBounds"} {
			if bounds[i], err = legacyTopology[float32](r, g, axis, geom.ID(), 1); err != nil {
				return nil, nil, err
			}
		}
		if err := geom.SetBounds(bounds[0], bounds[1], bounds[2]); err != nil {
			return nil, nil, err
		}
		return geom, func(am *datastructure.AttributeMatrix, t uint32) error {
			if t == legacyAMCell {
				return geom.SetCellData(am)
			}
			return nil
		}, nil
	}

	kind, ok := legacyNodeKinds[gt]
	if !ok {
		return nil, nil, fmt.Errorf("%w: geometry type %d", ErrUnsupportedFile, gt)
	}
	geom, err := datastructure.CreateNodeGeom(r.ds, name, kind, datastructure.InvalidID)
	if err != nil {
		return nil, nil, err
	}
	created = geom.ID()
	v, err := legacyTopology[float32](r, g, legacyVertexList, geom.ID(), 3)
	if err != nil {
		return nil, nil, err
	}
	if err := geom.SetVertices(v); err != nil {
		return nil, nil, err
	}
	if conn, ok := legacyConnectivity[kind]; ok {
		c, err := legacyTopology[uint64](r, g, conn, geom.ID(), geom.VerticesPerElement())
		if err != nil {
			return nil, nil, err
		}
		if err := geom.SetConnectivity(c); err != nil {
			return nil, nil, err
		}
	}
	return geom, func(am *datastructure.AttributeMatrix, t uint32) error {
		switch t {
		case legacyAMVertex:
			return geom.SetVertexData(am)
		case legacyAMEdge, legacyAMFace, legacyAMCell:
			return geom.SetElementData(am)
		}
		return nil
	}, nil
}

func legacyVec3[T uint64 | float32](g h5.Group, name string) ([3]T, error) {
	d, err := g.OpenDataset(name)
	if err != nil {
		return [3]T{}, err
	}
	defer d.Close()
	v, err := h5.ReadConverted[T](d)
	if err != nil {
		return [3]T{}, err
	}
	if len(v) != 3 {
		return [3]T{}, fmt.Errorf("%w: %s has %d values, want 3", datastore.ErrShapeMismatch, d.Path(), len(v))
	}
	return [3]T{v[0], v[1], v[2]}, nil
}

// legacyTopology reads a geometry-owned array, converting its element type,
// and stores it as a child of the geometry.
func legacyTopology[T uint64 | float32](r *ReadContext, g h5.Group, name string, parentID datastructure.ID, comps uint64) (*datastructure.DataArray[T], error) {
	d, err := g.OpenDataset(name)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	vals, err := h5.ReadConverted[T](d)
	if err != nil {
		return nil, err
	}
	if uint64(len(vals))%comps != 0 {
		return nil, fmt.Errorf("%w: %s has %d values for %d components", datastore.ErrShapeMismatch, d.Path(), len(vals), comps)
	}
	store, err := datastore.NewFromSlice(datastore.Shape{uint64(len(vals)) / comps}, datastore.Shape{comps}, vals)
	if err != nil {
		return nil, err
	}
	return datastructure.CreateDataArray[T](r.ds, name, store, parentID)
}

func readLegacyAttributeMatrix(ctx context.Context, r *ReadContext, parent h5.Group, name string, ownerID datastructure.ID) (*datastructure.AttributeMatrix, uint32, error) {
	g, err := parent.OpenGroup(name)
	if err != nil {
		return nil, 0, err
	}
	defer g.Close()
	amType, err := h5.ReadAttrOr(g, legacyAMType, legacyAMGeneric)
	if err != nil {
		return nil, 0, err
	}
	td, ok, err := shapeAttr(g, AttrTupleDims)
	if err != nil {
		return nil, 0, err
	}
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", h5.ErrAttrNotFound, h5.JoinAttrPath(g.Path(), AttrTupleDims))
	}
	ts := td.Reversed()
	am, err := datastructure.CreateAttributeMatrix(r.ds, name, ts, ownerID)
	if err != nil {
		return nil, 0, err
	}

	members, err := g.Members()
	if err != nil {
		return nil, 0, err
	}
	for _, m := range members {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		path := h5.JoinPath(g.Path(), m.Name)
		if m.Kind != h5.MemberDataset {
			r.addWarning(dataio.CodeUnregisteredType, path, "group inside an attribute matrix, skipped")
			continue
		}
		if err := readLegacyArray(r, g, m.Name, am.ID(), ts); err != nil {
			r.addError(dataio.CodeReadFailed, path, err)
		}
	}
	return am, amType, nil
}

func readLegacyArray(r *ReadContext, g h5.Group, name string, parentID datastructure.ID, ts datastore.Shape) error {
	d, err := g.OpenDataset(name)
	if err != nil {
		return err
	}
	defer d.Close()
	path := d.Path()
	objType, err := h5.ReadAttrOr(d, AttrObjectType, "")
	if err != nil {
		return err
	}
	typeName, ok := LegacyTypeName(objType)
	if !ok {
		r.addWarning(dataio.CodeUnregisteredType, path, "legacy type %q is not supported, skipped", objType)
		return nil
	}
	lr, ok := r.manager.IO(typeName).(legacyReader)
	if !ok {
		r.addWarning(dataio.CodeUnregisteredType, path, "no IO registered for %q, skipped", typeName)
		return nil
	}
	cs := datastore.Shape{1}
	if cd, ok, err := shapeAttr(d, AttrComponentDims); err != nil {
		return err
	} else if ok {
		cs = cd.Reversed()
	}
	_, err = lr.readLegacy(r, g, d, name, parentID, ts.Clone(), cs)
	return err
}
