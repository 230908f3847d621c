package filter

import (
	"errors"
	"fmt"
)

// Filter IDs.
const (
	IDDeflate    uint16 = 1
	IDShuffle    uint16 = 2
	IDFletcher32 uint16 = 3
	IDZstd       uint16 = 32015
)

var ErrChecksum = errors.New("filter: checksum mismatch")

// Filter transforms chunk bytes in both directions.
type Filter interface {
	ID() uint16
	Encode(input []byte) ([]byte, error)
	Decode(input []byte) ([]byte, error)
}

// optional filters may be skipped when encoding does not pay off.
type optional interface {
	Optional() bool
}

var filterNames = map[uint16]string{
	IDDeflate:    "deflate",
	IDShuffle:    "shuffle",
	IDFletcher32: "fletcher32",
	IDZstd:       "zstd",
}

// Name returns the name of a filter ID.
func Name(id uint16) string {
	if name, ok := filterNames[id]; ok {
		return name
	}
	return fmt.Sprintf("filter %d", id)
}

// ParseCompression maps a compression name to a filter ID. "" and "none"
// yield 0.
func ParseCompression(name string) (uint16, error) {
	switch name {
	case "", "none":
		return 0, nil
	case "zstd":
		return IDZstd, nil
	case "deflate", "zlib", "gzip":
		return IDDeflate, nil
	}
	return 0, fmt.Errorf("unsupported compression %q", name)
}
