// Package hdf5io persists a DataStructure into an HDF5 container.
//
// Every object becomes an HDF5 group (groups, attribute matrices, geometries,
// montages) or dataset (arrays, neighbor lists, string arrays, scalars)
// tagged with ObjectType, ObjectId and Importable attributes. The object
// graph lives under the DataStructure group of the file root:
//
//	/                      FileVersion = "8.0"
//	/DataStructure         NextObjectId
//	/DataStructure/Root    ObjectType = "DataGroup", ObjectId = 1
//	/DataStructure/Root/V  ObjectType = "DataArray<int32>", TupleDimensions, ...
//
// Files written by the previous generation (FileVersion "7.0") are imported
// from their DataContainers layout.
//
// The package works against the h5 container interfaces; pair it with
// h5/native for files on disk or h5/memfile for scratch use.
package hdf5io
