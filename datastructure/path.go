package datastructure

import (
	"fmt"
	"strings"
)

// DataPath is a sequence of object names from the root map down to a target.
type DataPath []string

// NewPath builds a path from its segments.
func NewPath(segments ...string) DataPath {
	p := make(DataPath, len(segments))
	copy(p, segments)
	return p
}

// ParsePath splits a slash-delimited path. Leading and trailing slashes are
// ignored; empty segments are rejected.
//
// Examples:
//   - "A/B/C"  -> {"A", "B", "C"}
//   - "/A/B/"  -> {"A", "B"}
//   - "A//B"   -> error
func ParsePath(s string) (DataPath, error) {
	s = strings.Trim(s, "/")
	if s == "" {
		return DataPath{}, nil
	}
	parts := strings.Split(s, "/")
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, s)
		}
	}
	return DataPath(parts), nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(s string) DataPath {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p DataPath) String() string {
	return strings.Join(p, "/")
}

// Len returns the number of segments.
func (p DataPath) Len() int { return len(p) }

// Empty reports whether p designates the root map.
func (p DataPath) Empty() bool { return len(p) == 0 }

// TargetName returns the last segment, or "" for the empty path.
func (p DataPath) TargetName() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Parent returns p without its last segment.
func (p DataPath) Parent() DataPath {
	if len(p) == 0 {
		return DataPath{}
	}
	return NewPath(p[:len(p)-1]...)
}

// Child returns a new path with name appended.
func (p DataPath) Child(name string) DataPath {
	out := make(DataPath, len(p)+1)
	copy(out, p)
	out[len(p)] = name
	return out
}

// Equal reports whether p and o have the same segments.
func (p DataPath) Equal(o DataPath) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is an ancestor of (or equal to) p.
func (p DataPath) HasPrefix(prefix DataPath) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

func validateName(name string) error {
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
