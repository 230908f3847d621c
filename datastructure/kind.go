package datastructure

import "fmt"

// ID identifies an object within one DataStructure. Zero is never assigned.
type ID uint64

// InvalidID is the zero ID. As a parent it designates the root map.
const InvalidID ID = 0

// Kind discriminates the concrete object types.
type Kind uint8

const (
	KindDataGroup Kind = iota
	KindAttributeMatrix
	KindDataArray
	KindNeighborList
	KindStringArray
	KindScalarData
	KindImageGeom
	KindRectGridGeom
	KindVertexGeom
	KindEdgeGeom
	KindTriangleGeom
	KindQuadGeom
	KindTetrahedralGeom
	KindHexahedralGeom
	KindGridMontage
)

var kindNames = [...]string{
	KindDataGroup:       "DataGroup",
	KindAttributeMatrix: "AttributeMatrix",
	KindDataArray:       "DataArray",
	KindNeighborList:    "NeighborList",
	KindStringArray:     "StringArray",
	KindScalarData:      "ScalarData",
	KindImageGeom:       "ImageGeom",
	KindRectGridGeom:    "RectGridGeom",
	KindVertexGeom:      "VertexGeom",
	KindEdgeGeom:        "EdgeGeom",
	KindTriangleGeom:    "TriangleGeom",
	KindQuadGeom:        "QuadGeom",
	KindTetrahedralGeom: "TetrahedralGeom",
	KindHexahedralGeom:  "HexahedralGeom",
	KindGridMontage:     "GridMontage",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsGeometry reports whether objects of kind k implement Geometry.
func (k Kind) IsGeometry() bool {
	return k >= KindImageGeom && k <= KindHexahedralGeom
}

// IsNodeGeometry reports whether k is a vertex-based geometry.
func (k Kind) IsNodeGeometry() bool {
	return k >= KindVertexGeom && k <= KindHexahedralGeom
}

// IsGroup reports whether objects of kind k own a child DataMap.
func (k Kind) IsGroup() bool {
	switch k {
	case KindDataGroup, KindAttributeMatrix, KindGridMontage:
		return true
	}
	return k.IsGeometry()
}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown object kind %q", s)
}
