package hdf5io

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/robert-malhotra/go-simplnx/dataio"
	"github.com/robert-malhotra/go-simplnx/datastore"
	"github.com/robert-malhotra/go-simplnx/datastructure"
	"github.com/robert-malhotra/go-simplnx/h5"
)

func readVec3[T uint64 | float32](h h5.AttrHolder, name string, def [3]T) ([3]T, error) {
	if !h.HasAttr(name) {
		return def, nil
	}
	v, err := h5.ReadAttrAs[[]T](h, name)
	if err != nil {
		return def, err
	}
	if len(v) != 3 {
		return def, fmt.Errorf("%w: %s has %d values, want 3", datastore.ErrShapeMismatch, name, len(v))
	}
	return [3]T{v[0], v[1], v[2]}, nil
}

func readRef(h h5.AttrHolder, name string) (datastructure.ID, error) {
	id, err := h5.ReadAttrOr[uint64](h, name, 0)
	return datastructure.ID(id), err
}

func writeRefs(g h5.Group, refs map[string]datastructure.ID) error {
	var err error
	for name, id := range refs {
		err = multierr.Append(err, g.WriteAttr(name, uint64(id)))
	}
	return err
}

type imageGeomIO struct{}

func (imageGeomIO) TypeName() string { return datastructure.KindImageGeom.String() }

func (imageGeomIO) ReadData(ctx context.Context, r *ReadContext, parent h5.Group, name string, parentID datastructure.ID) (datastructure.Object, error) {
	g, err := parent.OpenGroup(name)
	if err != nil {
		return nil, err
	}
	defer g.Close()
	dims, err := readVec3(g, AttrDimensions, [3]uint64{})
	if err != nil {
		return nil, err
	}
	origin, err := readVec3(g, AttrOrigin, [3]float32{})
	if err != nil {
		return nil, err
	}
	spacing, err := readVec3(g, AttrSpacing, [3]float32{1, 1, 1})
	if err != nil {
		return nil, err
	}
	cell, err := readRef(g, AttrCellDataID)
	if err != nil {
		return nil, err
	}
	fileID, err := r.PreferFileID(g)
	if err != nil {
		return nil, err
	}
	geom, err := datastructure.CreateImageGeom(r.ds, name, parentID)
	if err != nil {
		return nil, err
	}
	r.Bind(fileID, geom)
	geom.SetDimensions(dims)
	geom.SetOrigin(origin)
	geom.SetSpacing(spacing)
	r.Link(g.Path(), func() error {
		am, err := linked[*datastructure.AttributeMatrix](r, cell)
		if err != nil {
			return err
		}
		return geom.SetCellData(am)
	})
	return geom, ReadDataMap(ctx, r, g, geom.ID())
}

func (io imageGeomIO) WriteData(ctx context.Context, w *WriteContext, obj datastructure.Object, parent h5.Group) error {
	geom, ok := obj.(*datastructure.ImageGeom)
	if !ok {
		return wrongType(obj, io.TypeName())
	}
	return writeGroup(ctx, w, geom, parent, func(g h5.Group) error {
		dims, origin, spacing := geom.Dimensions(), geom.Origin(), geom.Spacing()
		return multierr.Combine(
			g.WriteAttr(AttrDimensions, dims[:]),
			g.WriteAttr(AttrOrigin, origin[:]),
			g.WriteAttr(AttrSpacing, spacing[:]),
			writeRefs(g, map[string]datastructure.ID{AttrCellDataID: geom.CellDataID()}),
		)
	})
}

type rectGridGeomIO struct{}

func (rectGridGeomIO) TypeName() string { return datastructure.KindRectGridGeom.String() }

func (rectGridGeomIO) ReadData(ctx context.Context, r *ReadContext, parent h5.Group, name string, parentID datastructure.ID) (datastructure.Object, error) {
	g, err := parent.OpenGroup(name)
	if err != nil {
		return nil, err
	}
	defer g.Close()
	dims, err := readVec3(g, AttrDimensions, [3]uint64{})
	if err != nil {
		return nil, err
	}
	var refs [4]datastructure.ID
	for i, attr := range []string{AttrXBoundsID, AttrYBoundsID, AttrZBoundsID, AttrCellDataID} {
		if refs[i], err = readRef(g, attr); err != nil {
			return nil, err
		}
	}
	fileID, err := r.PreferFileID(g)
	if err != nil {
		return nil, err
	}
	geom, err := datastructure.CreateRectGridGeom(r.ds, name, parentID)
	if err != nil {
		return nil, err
	}
	r.Bind(fileID, geom)
	geom.SetDimensions(dims)
	r.Link(g.Path(), func() error {
		if refs[0] != 0 || refs[1] != 0 || refs[2] != 0 {
			var bounds [3]*datastructure.DataArray[float32]
			for i := range bounds {
				var err error
				if bounds[i], err = linked[*datastructure.DataArray[float32]](r, refs[i]); err != nil {
					return err
				}
			}
			if err := geom.SetBounds(bounds[0], bounds[1], bounds[2]); err != nil {
				return err
			}
		}
		am, err := linked[*datastructure.AttributeMatrix](r, refs[3])
		if err != nil {
			return err
		}
		return geom.SetCellData(am)
	})
	return geom, ReadDataMap(ctx, r, g, geom.ID())
}

func (io rectGridGeomIO) WriteData(ctx context.Context, w *WriteContext, obj datastructure.Object, parent h5.Group) error {
	geom, ok := obj.(*datastructure.RectGridGeom)
	if !ok {
		return wrongType(obj, io.TypeName())
	}
	return writeGroup(ctx, w, geom, parent, func(g h5.Group) error {
		dims := geom.Dimensions()
		x, y, z := geom.BoundsIDs()
		return multierr.Combine(
			g.WriteAttr(AttrDimensions, dims[:]),
			writeRefs(g, map[string]datastructure.ID{
				AttrXBoundsID:  x,
				AttrYBoundsID:  y,
				AttrZBoundsID:  z,
				AttrCellDataID: geom.CellDataID(),
			}),
		)
	})
}

type nodeGeomIO struct {
	kind datastructure.Kind
}

func (io nodeGeomIO) TypeName() string { return io.kind.String() }

func (io nodeGeomIO) ReadData(ctx context.Context, r *ReadContext, parent h5.Group, name string, parentID datastructure.ID) (datastructure.Object, error) {
	g, err := parent.OpenGroup(name)
	if err != nil {
		return nil, err
	}
	defer g.Close()
	var refs [4]datastructure.ID
	for i, attr := range []string{AttrVertexListID, AttrConnectivityID, AttrVertexDataID, AttrElementDataID} {
		if refs[i], err = readRef(g, attr); err != nil {
			return nil, err
		}
	}
	fileID, err := r.PreferFileID(g)
	if err != nil {
		return nil, err
	}
	geom, err := datastructure.CreateNodeGeom(r.ds, name, io.kind, parentID)
	if err != nil {
		return nil, err
	}
	r.Bind(fileID, geom)
	r.Link(g.Path(), func() error { return linkNodeGeom(r, geom, refs) })
	return geom, ReadDataMap(ctx, r, g, geom.ID())
}

// linkNodeGeom resolves vertices, connectivity, vertex data and element
// data, in that order.
func linkNodeGeom(r *ReadContext, geom *datastructure.NodeGeom, refs [4]datastructure.ID) error {
	v, err := linked[*datastructure.DataArray[float32]](r, refs[0])
	if err != nil {
		return err
	}
	if err := geom.SetVertices(v); err != nil {
		return err
	}
	if geom.Kind() != datastructure.KindVertexGeom {
		c, err := linked[*datastructure.DataArray[uint64]](r, refs[1])
		if err != nil {
			return err
		}
		if err := geom.SetConnectivity(c); err != nil {
			return err
		}
	}
	vd, err := linked[*datastructure.AttributeMatrix](r, refs[2])
	if err != nil {
		return err
	}
	if err := geom.SetVertexData(vd); err != nil {
		return err
	}
	ed, err := linked[*datastructure.AttributeMatrix](r, refs[3])
	if err != nil {
		return err
	}
	return geom.SetElementData(ed)
}

func (io nodeGeomIO) WriteData(ctx context.Context, w *WriteContext, obj datastructure.Object, parent h5.Group) error {
	geom, ok := obj.(*datastructure.NodeGeom)
	if !ok || geom.Kind() != io.kind {
		return wrongType(obj, io.TypeName())
	}
	return writeGroup(ctx, w, geom, parent, func(g h5.Group) error {
		refs := map[string]datastructure.ID{
			AttrVertexListID:  geom.VerticesID(),
			AttrVertexDataID:  geom.VertexDataID(),
			AttrElementDataID: geom.ElementDataID(),
		}
		if io.kind != datastructure.KindVertexGeom {
			refs[AttrConnectivityID] = geom.ConnectivityID()
		}
		return writeRefs(g, refs)
	})
}

type gridMontageIO struct{}

func (gridMontageIO) TypeName() string { return datastructure.KindGridMontage.String() }

func (gridMontageIO) ReadData(ctx context.Context, r *ReadContext, parent h5.Group, name string, parentID datastructure.ID) (datastructure.Object, error) {
	g, err := parent.OpenGroup(name)
	if err != nil {
		return nil, err
	}
	defer g.Close()
	dims, err := readVec3(g, AttrTileDims, [3]uint64{})
	if err != nil {
		return nil, err
	}
	tiles, err := h5.ReadAttrOr(g, AttrTileGeometryIDs, []uint64{})
	if err != nil {
		return nil, err
	}
	if n := dims[0] * dims[1] * dims[2]; uint64(len(tiles)) != n {
		return nil, fmt.Errorf("%w: %d tile ids for %d tiles", datastore.ErrShapeMismatch, len(tiles), n)
	}
	fileID, err := r.PreferFileID(g)
	if err != nil {
		return nil, err
	}
	m, err := datastructure.CreateGridMontage(r.ds, name, dims[0], dims[1], dims[2], parentID)
	if err != nil {
		return nil, err
	}
	r.Bind(fileID, m)
	path := g.Path()
	r.Link(path, func() error {
		ids := make([]datastructure.ID, len(tiles))
		for i, t := range tiles {
			if t == 0 {
				continue
			}
			id, ok := r.Remap(datastructure.ID(t))
			if !ok {
				r.addWarning(dataio.CodeUnresolvedLink, path, "tile %d references object %d which was not read", i, t)
				continue
			}
			ids[i] = id
		}
		return m.SetTileIDs(ids)
	})
	return m, ReadDataMap(ctx, r, g, m.ID())
}

func (io gridMontageIO) WriteData(ctx context.Context, w *WriteContext, obj datastructure.Object, parent h5.Group) error {
	m, ok := obj.(*datastructure.GridMontage)
	if !ok {
		return wrongType(obj, io.TypeName())
	}
	return writeGroup(ctx, w, m, parent, func(g h5.Group) error {
		rows, cols, depth := m.TileDims()
		ids := m.TileIDs()
		tiles := make([]uint64, len(ids))
		for i, id := range ids {
			tiles[i] = uint64(id)
		}
		return multierr.Combine(
			g.WriteAttr(AttrTileDims, []uint64{rows, cols, depth}),
			g.WriteAttr(AttrTileGeometryIDs, tiles),
		)
	})
}
