package datastructure

import (
	"fmt"
	"math/bits"
)

// MaxTiles bounds the tile count of a GridMontage.
const MaxTiles = 1 << 24

// TileCoord addresses one tile of a GridMontage.
type TileCoord struct {
	Row, Col, Depth uint64
}

func (c TileCoord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.Row, c.Col, c.Depth)
}

type tileRef struct {
	ds *DataStructure
	id ID
}

// GridMontage arranges geometries in a rows x cols x depth grid. Tiles refer
// to geometries without owning them; a tile whose geometry was removed, or
// lives in a different structure, stops resolving.
type GridMontage struct {
	objectHeader
	groupBase
	rows, cols, depth uint64
	tiles             []tileRef
}

// CreateGridMontage creates a montage with the given tile dimensions.
func CreateGridMontage(ds *DataStructure, name string, rows, cols, depth uint64, parent ID) (*GridMontage, error) {
	m := &GridMontage{objectHeader: ds.newHeader(name)}
	m.children = newDataMap(ds, m)
	if err := m.ResizeTileDims(rows, cols, depth); err != nil {
		return nil, fmt.Errorf("create %q: %w", name, err)
	}
	if err := ds.insert(m, parent); err != nil {
		return nil, err
	}
	return m, nil
}

func (*GridMontage) Kind() Kind             { return KindGridMontage }
func (*GridMontage) TypeName() string       { return KindGridMontage.String() }
func (*GridMontage) canInsert(Object) error { return nil }

// TileDims returns rows, columns and depth.
func (m *GridMontage) TileDims() (rows, cols, depth uint64) { return m.rows, m.cols, m.depth }

// TileCount returns rows*cols*depth.
func (m *GridMontage) TileCount() uint64 { return uint64(len(m.tiles)) }

// ResizeTileDims changes the grid. Tiles inside both the old and new grid
// keep their geometry. The grid is left unchanged when it would exceed
// MaxTiles.
func (m *GridMontage) ResizeTileDims(rows, cols, depth uint64) error {
	n, err := tileCount(rows, cols, depth)
	if err != nil {
		return err
	}
	tiles := make([]tileRef, n)
	for d := uint64(0); d < min(depth, m.depth); d++ {
		for r := uint64(0); r < min(rows, m.rows); r++ {
			for c := uint64(0); c < min(cols, m.cols); c++ {
				tiles[(d*rows+r)*cols+c] = m.tiles[m.offset(TileCoord{r, c, d})]
			}
		}
	}
	m.rows, m.cols, m.depth = rows, cols, depth
	m.tiles = tiles
	return nil
}

func tileCount(rows, cols, depth uint64) (uint64, error) {
	if rows == 0 || cols == 0 || depth == 0 {
		return 0, nil
	}
	hi, n := bits.Mul64(rows, cols)
	if hi == 0 {
		hi, n = bits.Mul64(n, depth)
	}
	if hi != 0 || n > MaxTiles {
		return 0, fmt.Errorf("%w: %d x %d x %d tiles exceeds %d", ErrTooManyTiles, rows, cols, depth, MaxTiles)
	}
	return n, nil
}

// Contains reports whether coord lies inside the grid.
func (m *GridMontage) Contains(coord TileCoord) bool {
	return coord.Row < m.rows && coord.Col < m.cols && coord.Depth < m.depth
}

func (m *GridMontage) offset(c TileCoord) uint64 {
	return (c.Depth*m.rows+c.Row)*m.cols + c.Col
}

func (m *GridMontage) coordOf(off uint64) TileCoord {
	return TileCoord{Row: (off / m.cols) % m.rows, Col: off % m.cols, Depth: off / (m.cols * m.rows)}
}

// SetGeometry points the tile at coord to geom, or clears it when geom is
// nil. The geometry is not required to belong to the montage's structure.
func (m *GridMontage) SetGeometry(coord TileCoord, geom Geometry) bool {
	if !m.Contains(coord) {
		return false
	}
	if geom == nil {
		m.tiles[m.offset(coord)] = tileRef{}
		return true
	}
	m.tiles[m.offset(coord)] = tileRef{ds: geom.Structure(), id: geom.ID()}
	return true
}

// Geometry resolves the tile at coord. It returns nil for unassigned tiles,
// removed geometries and geometries of another structure.
func (m *GridMontage) Geometry(coord TileCoord) Geometry {
	if !m.Contains(coord) {
		return nil
	}
	return m.resolveTile(m.tiles[m.offset(coord)])
}

func (m *GridMontage) resolveTile(ref tileRef) Geometry {
	if ref.ds == nil || ref.ds != m.ds {
		return nil
	}
	return resolve[Geometry](ref.ds, ref.id)
}

// Tile returns a handle on the tile at (row, col, depth).
func (m *GridMontage) Tile(row, col, depth uint64) TileIndex {
	return TileIndex{ds: m.ds, montage: m.id, coord: TileCoord{row, col, depth}}
}

// Geometries returns the resolvable geometries of all tiles, without
// duplicates, in tile order.
func (m *GridMontage) Geometries() []Geometry {
	seen := make(map[ID]bool)
	var out []Geometry
	for _, ref := range m.tiles {
		g := m.resolveTile(ref)
		if g == nil || seen[g.ID()] {
			continue
		}
		seen[g.ID()] = true
		out = append(out, g)
	}
	return out
}

// FindTile returns the first tile that resolves to geom.
func (m *GridMontage) FindTile(geom Geometry) (TileIndex, bool) {
	if geom == nil {
		return TileIndex{}, false
	}
	for off, ref := range m.tiles {
		if g := m.resolveTile(ref); g != nil && g.ID() == geom.ID() {
			return TileIndex{ds: m.ds, montage: m.id, coord: m.coordOf(uint64(off))}, true
		}
	}
	return TileIndex{}, false
}

// TileIDs returns the referenced ID of every tile in storage order (depth,
// then row, then column); unassigned tiles are InvalidID.
func (m *GridMontage) TileIDs() []ID {
	out := make([]ID, len(m.tiles))
	for i, ref := range m.tiles {
		if ref.ds == m.ds {
			out[i] = ref.id
		}
	}
	return out
}

// SetTileIDs assigns tiles from IDs in storage order without resolving
// them.
func (m *GridMontage) SetTileIDs(ids []ID) error {
	if uint64(len(ids)) != m.TileCount() {
		return fmt.Errorf("%w: %d ids for %d tiles", ErrTopology, len(ids), m.TileCount())
	}
	for i, id := range ids {
		if id == InvalidID {
			m.tiles[i] = tileRef{}
			continue
		}
		m.tiles[i] = tileRef{ds: m.ds, id: id}
	}
	return nil
}

func (m *GridMontage) References() []ID { return m.TileIDs() }

func (m *GridMontage) RemapReferences(fn func(ID) ID) {
	for i, ref := range m.tiles {
		if ref.ds == m.ds && ref.id != InvalidID {
			m.tiles[i].id = fn(ref.id)
		}
	}
}

func (m *GridMontage) cloneInto(ds *DataStructure) (Object, error) {
	c := &GridMontage{objectHeader: m.cloneHeader(ds), rows: m.rows, cols: m.cols, depth: m.depth}
	c.children = newDataMap(ds, c)
	c.tiles = make([]tileRef, len(m.tiles))
	for i, ref := range m.tiles {
		if ref.ds == m.ds {
			ref.ds = ds
		}
		c.tiles[i] = ref
	}
	return c, nil
}

// TileIndex identifies a tile of a montage. It stays usable after the
// montage or the geometry are removed and then reports itself invalid.
type TileIndex struct {
	ds      *DataStructure
	montage ID
	coord   TileCoord
}

// Coord returns the tile coordinate.
func (t TileIndex) Coord() TileCoord { return t.coord }

// Montage resolves the owning montage, or nil.
func (t TileIndex) Montage() *GridMontage { return resolve[*GridMontage](t.ds, t.montage) }

// Geometry resolves the tile's geometry, or nil.
func (t TileIndex) Geometry() Geometry {
	m := t.Montage()
	if m == nil {
		return nil
	}
	return m.Geometry(t.coord)
}

// IsValid reports whether the tile currently resolves to a geometry.
func (t TileIndex) IsValid() bool { return t.Geometry() != nil }
