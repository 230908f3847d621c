// Package dataio defines the format-independent side of DataStructure
// persistence: aggregated results, type factories keyed by TypeName, the
// per-format IOManager, store factories for non-memory data formats, and the
// Collection that holds them for the lifetime of an application.
//
// Readers and writers report problems per object instead of stopping at the
// first one, so a caller sees every broken object of a file in a single
// Result.
package dataio
