// Package datastore provides the typed, shaped value buffers that back every
// array-like object in a DataStructure.
//
// A store is described by a tuple shape and a component shape. The number of
// elements is always NumberOfTuples() * NumberOfComponents(), laid out
// contiguously with the components of one tuple adjacent.
//
// Three store kinds exist:
//
//   - [DataStore] holds its values in memory (the loaded state).
//   - [EmptyDataStore] holds only shape metadata. It is the placeholder
//     produced when a file is read without loading array payloads; every
//     data access fails with [ErrNotLoaded].
//   - Out-of-core stores (see the ooc backend) keep values outside of process
//     memory and report a non-empty [Store.DataFormat].
package datastore
