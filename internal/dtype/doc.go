// Package dtype converts between typed Go slices and the raw element bytes
// exchanged with an HDF5 container.
//
// Values are always held in native machine byte order in memory. Byte order
// only matters at the IO boundary: a dataset declares the order its elements
// were stored in, and [Decode] swaps each element when that order differs
// from [NativeOrder]. [Encode] always produces native-order bytes, and the
// writer declares the native order on the dataset it creates.
//
// # Fast Path
//
// When the stored order matches the host, decoding is a single memory copy
// into the destination slice. Otherwise every element is byte swapped with
// [Byteswap16], [Byteswap32] or [Byteswap64]; floating point values are
// swapped through their integer bit patterns ([BitCastInt], [BitCastFloat]).
//
// # Booleans
//
// bool elements are stored as one byte each, 0 for false and anything else
// for true.
package dtype
