// Package datastructure implements the hierarchical, strongly typed object
// graph that filters read from and write to.
//
// A [DataStructure] is the aggregate root. It owns a root [DataMap]; group
// objects (DataGroup, AttributeMatrix, geometries, GridMontage) own a child
// DataMap of their own, so ownership forms a tree. Every object also carries
// an [ID] assigned by the structure, and all non-owning edges (parent links,
// geometry topology arrays, montage tiles) are stored as IDs and resolved
// through the structure's flat index. Removing an object therefore never
// leaves a dangling pointer: references to it simply stop resolving.
//
// Structural mutations (create, remove, rename, move) are not synchronized.
// They are expected to happen on a single goroutine; concurrent readers of
// array payloads must not overlap with them.
//
// Every mutation synchronously notifies the functions connected to
// [DataStructure.Signal], in connection order, before the mutating call
// returns.
package datastructure
