package native

import (
	"fmt"

	"gonum.org/v1/hdf5"

	"github.com/robert-malhotra/go-simplnx/h5"
)

// Group is an open HDF5 group.
type Group struct {
	g    *hdf5.Group
	name string
	path string
}

func (g *Group) Name() string { return g.name }
func (g *Group) Path() string { return g.path }
func (g *Group) Close() error { return g.g.Close() }

func (g *Group) WriteAttr(name string, value any) error { return writeAttr(g.g, g.path, name, value) }
func (g *Group) ReadAttr(name string, dest any) error   { return readAttr(g.g, g.path, name, dest) }
func (g *Group) HasAttr(name string) bool               { return hasAttr(g.g, name) }

func (g *Group) CreateGroup(name string) (h5.Group, error) {
	p := h5.JoinPath(g.path, name)
	if g.g.LinkExists(name) {
		return nil, fmt.Errorf("%w: %s", h5.ErrExists, p)
	}
	sub, err := g.g.CreateGroup(name)
	if err != nil {
		return nil, fmt.Errorf("create group %s: %w", p, err)
	}
	return &Group{g: sub, name: name, path: p}, nil
}

func (g *Group) OpenGroup(name string) (h5.Group, error) {
	p := h5.JoinPath(g.path, name)
	kind, err := g.memberKind(name)
	if err != nil {
		return nil, err
	}
	if kind != h5.MemberGroup {
		return nil, fmt.Errorf("%w: %s", h5.ErrNotGroup, p)
	}
	sub, err := g.g.OpenGroup(name)
	if err != nil {
		return nil, fmt.Errorf("open group %s: %w", p, err)
	}
	return &Group{g: sub, name: name, path: p}, nil
}

func (g *Group) WriteDataset(name string, t h5.TypeInfo, dims []uint64, raw []byte) (h5.Dataset, error) {
	p := h5.JoinPath(g.path, name)
	if want := h5.NumElements(dims) * uint64(t.Size); uint64(len(raw)) != want {
		return nil, fmt.Errorf("%s: %d bytes for %d expected", p, len(raw), want)
	}
	if g.g.LinkExists(name) {
		return nil, fmt.Errorf("%w: %s", h5.ErrExists, p)
	}
	ft, err := fileType(t)
	if err != nil {
		return nil, err
	}
	space, err := createSpace(dims)
	if err != nil {
		return nil, fmt.Errorf("dataspace for %s: %w", p, err)
	}
	defer space.Close()
	d, err := g.g.CreateDataset(name, ft, space)
	if err != nil {
		return nil, fmt.Errorf("create dataset %s: %w", p, err)
	}
	// A zero-sized selection has no buffer to hand to H5Dwrite.
	if len(raw) > 0 {
		if err := d.Write(&raw); err != nil {
			d.Close()
			return nil, fmt.Errorf("write %s: %w", p, err)
		}
	}
	return &Dataset{d: d, name: name, path: p, typ: t, dims: append([]uint64{}, dims...)}, nil
}

func (g *Group) OpenDataset(name string) (h5.Dataset, error) {
	p := h5.JoinPath(g.path, name)
	kind, err := g.memberKind(name)
	if err != nil {
		return nil, err
	}
	if kind != h5.MemberDataset {
		return nil, fmt.Errorf("%w: %s", h5.ErrNotDataset, p)
	}
	d, err := g.g.OpenDataset(name)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", p, err)
	}
	ft, err := d.Datatype()
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("datatype of %s: %w", p, err)
	}
	typ, err := typeInfo(ft)
	ft.Close()
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	space := d.Space()
	dims, _, err := space.SimpleExtentDims()
	space.Close()
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("dataspace of %s: %w", p, err)
	}
	return &Dataset{d: d, name: name, path: p, typ: typ, dims: toUint64(dims)}, nil
}

func (g *Group) Members() ([]h5.Member, error) {
	n, err := g.g.NumObjects()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", g.path, err)
	}
	out := make([]h5.Member, 0, n)
	for i := uint(0); i < n; i++ {
		name, err := g.g.ObjectNameByIndex(i)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", g.path, err)
		}
		typ, err := g.g.ObjectTypeByIndex(i)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", g.path, err)
		}
		switch typ {
		case hdf5.H5G_GROUP:
			out = append(out, h5.Member{Name: name, Kind: h5.MemberGroup})
		case hdf5.H5G_DATASET:
			out = append(out, h5.Member{Name: name, Kind: h5.MemberDataset})
		}
	}
	return out, nil
}

func (g *Group) memberKind(name string) (h5.MemberKind, error) {
	if !g.g.LinkExists(name) {
		return 0, fmt.Errorf("%w: %s", h5.ErrNotFound, h5.JoinPath(g.path, name))
	}
	members, err := g.Members()
	if err != nil {
		return 0, err
	}
	for _, m := range members {
		if m.Name == name {
			return m.Kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", h5.ErrNotFound, h5.JoinPath(g.path, name))
}

// Dataset is an open HDF5 dataset.
type Dataset struct {
	d    *hdf5.Dataset
	name string
	path string
	typ  h5.TypeInfo
	dims []uint64
}

func (d *Dataset) Name() string      { return d.name }
func (d *Dataset) Path() string      { return d.path }
func (d *Dataset) Close() error      { return d.d.Close() }
func (d *Dataset) Shape() []uint64   { return append([]uint64{}, d.dims...) }
func (d *Dataset) Type() h5.TypeInfo { return d.typ }

func (d *Dataset) WriteAttr(name string, value any) error { return writeAttr(d.d, d.path, name, value) }
func (d *Dataset) ReadAttr(name string, dest any) error   { return readAttr(d.d, d.path, name, dest) }
func (d *Dataset) HasAttr(name string) bool               { return hasAttr(d.d, name) }

func (d *Dataset) ReadRaw() ([]byte, error) {
	buf := make([]byte, h5.NumElements(d.dims)*uint64(d.typ.Size))
	if len(buf) == 0 {
		return buf, nil
	}
	if err := d.d.Read(&buf); err != nil {
		return nil, fmt.Errorf("read %s: %w", d.path, err)
	}
	return buf, nil
}
