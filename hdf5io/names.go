package hdf5io

const (
	// FileVersion is written to the file root.
	FileVersion = "8.0"
	// LegacyFileVersion marks files imported through the DataContainers
	// layout.
	LegacyFileVersion = "7.0"

	GroupDataStructure = "DataStructure"

	AttrFileVersion  = "FileVersion"
	AttrNextObjectID = "NextObjectId"
	AttrObjectType   = "ObjectType"
	AttrObjectID     = "ObjectId"
	AttrImportable   = "Importable"

	AttrTupleDims          = "TupleDimensions"
	AttrComponentDims      = "ComponentDimensions"
	AttrDataFormat         = "DataFormat"
	AttrLinkedNumNeighbors = "Linked NumNeighbors Dataset"

	AttrDimensions     = "Dimensions"
	AttrOrigin         = "Origin"
	AttrSpacing        = "Spacing"
	AttrCellDataID     = "CellDataId"
	AttrXBoundsID      = "XBoundsId"
	AttrYBoundsID      = "YBoundsId"
	AttrZBoundsID      = "ZBoundsId"
	AttrVertexListID   = "SharedVertexListId"
	AttrConnectivityID = "ConnectivityId"
	AttrVertexDataID   = "VertexDataId"
	AttrElementDataID  = "ElementDataId"

	AttrTileDims        = "TileDimensions"
	AttrTileGeometryIDs = "TileGeometryIds"

	// NumNeighborsSuffix names the counts dataset written next to a
	// neighbor list.
	NumNeighborsSuffix = "_NumNeighbors"
)
