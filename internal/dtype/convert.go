package dtype

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Element is the set of Go types that can be exchanged as fixed-size
// array elements.
type Element interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 |
		~float32 | ~float64 | ~bool
}

// ElementSize returns the stored size in bytes of one T.
func ElementSize[T Element]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

func isBool[T Element]() bool {
	var zero T
	return reflect.TypeOf(zero).Kind() == reflect.Bool
}

// Decode converts raw element bytes stored in the given order into a new
// native-order slice.
func Decode[T Element](raw []byte, order ByteOrder) ([]T, error) {
	size := ElementSize[T]()
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("%d bytes is not a multiple of element size %d", len(raw), size)
	}
	out := make([]T, len(raw)/size)
	if err := DecodeInto(out, raw, order); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeInto fills dst from raw element bytes stored in the given order.
// raw must hold exactly len(dst) elements.
func DecodeInto[T Element](dst []T, raw []byte, order ByteOrder) error {
	size := ElementSize[T]()
	if len(raw) != len(dst)*size {
		return fmt.Errorf("not enough data: need %d bytes, have %d", len(dst)*size, len(raw))
	}
	if len(dst) == 0 {
		return nil
	}

	if isBool[T]() {
		for i, b := range raw {
			*(*bool)(unsafe.Pointer(&dst[i])) = b != 0
		}
		return nil
	}

	// Fast path: one copy, then swap in place if the orders differ
	view := unsafe.Slice((*byte)(unsafe.Pointer(&dst[0])), len(raw))
	copy(view, raw)
	if order != nativeOrder {
		SwapInPlace(view, size)
	}
	return nil
}

// Encode returns the native-order bytes of vals.
func Encode[T Element](vals []T) []byte {
	size := ElementSize[T]()
	out := make([]byte, len(vals)*size)
	if len(vals) == 0 {
		return out
	}
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(&vals[0])), len(out)))
	return out
}

// EncodeOrder returns the bytes of vals in the requested order.
func EncodeOrder[T Element](vals []T, order ByteOrder) []byte {
	out := Encode(vals)
	if order != nativeOrder {
		SwapInPlace(out, ElementSize[T]())
	}
	return out
}
