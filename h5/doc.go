// Package h5 is the narrow view of an HDF5 container used by the
// DataStructure reader and writer: groups, n-dimensional datasets of raw
// numeric bytes with a declared byte order, and attributes.
//
// Two implementations exist: h5/memfile keeps everything in memory and
// h5/native goes through libhdf5.
//
// Paths use "/" as separator. The root group has path "/".
package h5
