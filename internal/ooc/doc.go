// Package ooc keeps array payloads out of process memory.
//
// A DB wraps a badger key-value store. Every Store created from it owns a
// random namespace and keeps its elements in fixed-size chunks. Each chunk
// is encoded little-endian and run through a filter pipeline: byte shuffle by
// element size, compression (zstd by default), then a Fletcher-32 checksum.
//
//	key:   namespace (16 bytes) | chunk index (8 bytes, big-endian)
//	value: filter mask (uint32, little-endian) | filtered bytes
//
// Chunks never written read as zero. A Store caches one decoded chunk;
// Flush writes it back. Stores are not safe for concurrent use, which
// matches the contract of any datastore.Store with a non-empty DataFormat.
package ooc
