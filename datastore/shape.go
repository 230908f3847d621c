package datastore

import (
	"fmt"
	"strings"
)

// Shape is a list of dimensions, slowest varying first.
type Shape []uint64

// Product returns the number of elements described by s.
// An empty shape has a product of zero.
func (s Shape) Product() uint64 {
	if len(s) == 0 {
		return 0
	}
	p := uint64(1)
	for _, d := range s {
		p *= d
	}
	return p
}

// Equal reports whether s and o have the same dimensions.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of s.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// Reversed returns a copy of s with the dimension order reversed.
func (s Shape) Reversed() Shape {
	out := make(Shape, len(s))
	for i, d := range s {
		out[len(s)-1-i] = d
	}
	return out
}

func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = fmt.Sprint(d)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
