package dtype

import (
	"encoding/binary"
	"math"
	"math/bits"
	"unsafe"
)

// ByteOrder is the byte order declared for stored elements.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

// Binary returns the encoding/binary order for o.
func (o ByteOrder) Binary() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

var nativeOrder = func() ByteOrder {
	x := uint16(1)
	if *(*byte)(unsafe.Pointer(&x)) == 1 {
		return LittleEndian
	}
	return BigEndian
}()

// NativeOrder returns the byte order of the running machine.
func NativeOrder() ByteOrder {
	return nativeOrder
}

// Byteswap16 reverses the bytes of v.
func Byteswap16(v uint16) uint16 { return bits.ReverseBytes16(v) }

// Byteswap32 reverses the bytes of v.
func Byteswap32(v uint32) uint32 { return bits.ReverseBytes32(v) }

// Byteswap64 reverses the bytes of v.
func Byteswap64(v uint64) uint64 { return bits.ReverseBytes64(v) }

// SwapInPlace reverses every size-byte element of data in place.
// size must be 1, 2, 4 or 8; size 1 is a no-op.
func SwapInPlace(data []byte, size int) {
	switch size {
	case 2:
		for i := 0; i+1 < len(data); i += 2 {
			data[i], data[i+1] = data[i+1], data[i]
		}
	case 4:
		for i := 0; i+3 < len(data); i += 4 {
			data[i], data[i+1], data[i+2], data[i+3] = data[i+3], data[i+2], data[i+1], data[i]
		}
	case 8:
		for i := 0; i+7 < len(data); i += 8 {
			for j := 0; j < 4; j++ {
				data[i+j], data[i+7-j] = data[i+7-j], data[i+j]
			}
		}
	}
}

// Float is the set of floating point element types.
type Float interface {
	~float32 | ~float64
}

// BitCastInt returns the IEEE 754 bit pattern of f as an unsigned integer
// of the same width.
func BitCastInt[F Float](f F) uint64 {
	if unsafe.Sizeof(f) == 4 {
		return uint64(math.Float32bits(float32(f)))
	}
	return math.Float64bits(float64(f))
}

// BitCastFloat is the inverse of BitCastInt.
func BitCastFloat[F Float](bits uint64) F {
	var zero F
	if unsafe.Sizeof(zero) == 4 {
		return F(math.Float32frombits(uint32(bits)))
	}
	return F(math.Float64frombits(bits))
}
