// Package filter implements the byte filters applied to out-of-core chunks.
//
// Filters are applied in order when encoding and in reverse order when
// decoding. Filter IDs follow the HDF5 filter registry.
//
// # Filters
//
//   - Shuffle (ID 2): groups byte k of every element together, which makes
//     numeric data compress better. See [Shuffle].
//   - Deflate (ID 1): zlib compression via klauspost/compress. See [Deflate].
//   - Zstandard (ID 32015): zstd compression via klauspost/compress. See [Zstd].
//   - Fletcher32 (ID 3): appends a Fletcher-32 checksum and verifies it on
//     decode. See [Fletcher32Filter].
//
// # Filter Mask
//
// Compression filters are optional: when their output is not smaller than
// the input, [Pipeline.Encode] skips them and sets bit i of the returned
// mask. [Pipeline.Decode] skips the same filters given that mask, exactly
// like the per-chunk filter mask of HDF5 chunked datasets.
//
//	p := filter.NewPipeline(filter.NewShuffle(4), zstd, filter.NewFletcher32())
//	encoded, mask, err := p.Encode(raw)
//	decoded, err := p.Decode(encoded, mask)
package filter
