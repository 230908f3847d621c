package datastructure

import (
	"fmt"
	"sort"
	"strings"
)

// Diff compares two structures by path and content, ignoring IDs. It
// returns one line per difference, sorted; an empty result means the
// structures are equivalent.
func Diff(a, b *DataStructure) ([]string, error) {
	da, err := describeAll(a)
	if err != nil {
		return nil, err
	}
	db, err := describeAll(b)
	if err != nil {
		return nil, err
	}
	var out []string
	for path, desc := range da {
		other, ok := db[path]
		switch {
		case !ok:
			out = append(out, fmt.Sprintf("- %s", path))
		case other != desc:
			out = append(out, fmt.Sprintf("~ %s: %s != %s", path, desc, other))
		}
	}
	for path := range db {
		if _, ok := da[path]; !ok {
			out = append(out, fmt.Sprintf("+ %s", path))
		}
	}
	sort.Strings(out)
	return out, nil
}

func describeAll(ds *DataStructure) (map[string]string, error) {
	out := make(map[string]string, ds.Len())
	err := ds.Walk(func(path DataPath, obj Object) error {
		desc, err := Describe(obj)
		if err != nil {
			return fmt.Errorf("describe %s: %w", path, err)
		}
		out[path.String()] = desc
		return nil
	})
	return out, err
}

// Describe renders the ID-independent content of obj: its type, shapes,
// a fingerprint of loaded values, and the paths of referenced objects.
func Describe(obj Object) (string, error) {
	var b strings.Builder
	b.WriteString(obj.TypeName())
	switch o := obj.(type) {
	case IDataArray:
		fmt.Fprintf(&b, " %v x %v", o.TupleShape(), o.ComponentShape())
		if err := writeFingerprint(&b, o.IsLoaded(), o.Fingerprint); err != nil {
			return "", err
		}
	case INeighborList:
		fmt.Fprintf(&b, " %v", o.TupleShape())
		if err := writeFingerprint(&b, o.IsLoaded(), o.Fingerprint); err != nil {
			return "", err
		}
	case *StringArray:
		fmt.Fprintf(&b, " %v", o.TupleShape())
		if err := writeFingerprint(&b, true, o.Fingerprint); err != nil {
			return "", err
		}
	case interface{ Any() any }:
		fmt.Fprintf(&b, " = %v", o.Any())
	case *AttributeMatrix:
		fmt.Fprintf(&b, " %v", o.TupleShape())
	case *ImageGeom:
		fmt.Fprintf(&b, " dims=%v origin=%v spacing=%v", o.Dimensions(), o.Origin(), o.Spacing())
	case *RectGridGeom:
		fmt.Fprintf(&b, " dims=%v", o.Dimensions())
	case *GridMontage:
		r, c, d := o.TileDims()
		fmt.Fprintf(&b, " tiles=%dx%dx%d", r, c, d)
	}
	if r, ok := obj.(Referrer); ok {
		ds := obj.Structure()
		refs := r.References()
		names := make([]string, len(refs))
		for i, id := range refs {
			if p, ok := ds.PathOf(id); ok {
				names[i] = p.String()
			} else {
				names[i] = "-"
			}
		}
		fmt.Fprintf(&b, " refs=[%s]", strings.Join(names, ", "))
	}
	return b.String(), nil
}

func writeFingerprint(b *strings.Builder, loaded bool, fp func() (uint64, error)) error {
	if !loaded {
		b.WriteString(" unloaded")
		return nil
	}
	h, err := fp()
	if err != nil {
		return err
	}
	fmt.Fprintf(b, " #%016x", h)
	return nil
}
