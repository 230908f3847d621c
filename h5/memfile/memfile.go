// Package memfile is an in-memory h5 container. It keeps raw dataset bytes
// with their declared byte order, so files with foreign-endian datasets can
// be built without libhdf5.
package memfile

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/robert-malhotra/go-simplnx/h5"
)

type attrs struct {
	values map[string]any
}

func (a *attrs) WriteAttr(name string, value any) error {
	if err := h5.CheckAttrValue(value); err != nil {
		return fmt.Errorf("attribute %q: %w", name, err)
	}
	if a.values == nil {
		a.values = make(map[string]any)
	}
	a.values[name] = h5.CopyAttrValue(value)
	return nil
}

func (a *attrs) ReadAttr(name string, dest any) error {
	v, ok := a.values[name]
	if !ok {
		return fmt.Errorf("%w: %s", h5.ErrAttrNotFound, name)
	}
	if err := h5.ConvertAttr(dest, v); err != nil {
		return fmt.Errorf("attribute %q: %w", name, err)
	}
	return nil
}

func (a *attrs) HasAttr(name string) bool {
	_, ok := a.values[name]
	return ok
}

// AttrNames lists the attribute names, sorted.
func (a *attrs) AttrNames() []string {
	out := make([]string, 0, len(a.values))
	for k := range a.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Group is an in-memory group. Handles returned by OpenGroup share state
// with the group they were opened from.
type Group struct {
	attrs
	mu       *sync.Mutex
	name     string
	path     string
	groups   map[string]*Group
	datasets map[string]*Dataset
}

// New returns an empty root group.
func New() *Group {
	return newGroup(&sync.Mutex{}, "/", "/")
}

func newGroup(mu *sync.Mutex, name, path string) *Group {
	return &Group{
		mu:       mu,
		name:     name,
		path:     path,
		groups:   make(map[string]*Group),
		datasets: make(map[string]*Dataset),
	}
}

func (g *Group) Name() string { return g.name }
func (g *Group) Path() string { return g.path }
func (g *Group) Close() error { return nil }

func (g *Group) exists(name string) bool {
	_, isGroup := g.groups[name]
	_, isDataset := g.datasets[name]
	return isGroup || isDataset
}

func checkName(name string) error {
	if name == "" || name == "." || strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q", h5.ErrInvalidPath, name)
	}
	return nil
}

func (g *Group) CreateGroup(name string) (h5.Group, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.exists(name) {
		return nil, fmt.Errorf("%w: %s", h5.ErrExists, h5.JoinPath(g.path, name))
	}
	child := newGroup(g.mu, name, h5.JoinPath(g.path, name))
	g.groups[name] = child
	return child, nil
}

func (g *Group) OpenGroup(name string) (h5.Group, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if child, ok := g.groups[name]; ok {
		return child, nil
	}
	if _, ok := g.datasets[name]; ok {
		return nil, fmt.Errorf("%w: %s", h5.ErrNotGroup, h5.JoinPath(g.path, name))
	}
	return nil, fmt.Errorf("%w: %s", h5.ErrNotFound, h5.JoinPath(g.path, name))
}

func (g *Group) WriteDataset(name string, t h5.TypeInfo, dims []uint64, raw []byte) (h5.Dataset, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if _, err := t.DataType(); err != nil {
		return nil, err
	}
	if want := h5.NumElements(dims) * uint64(t.Size); uint64(len(raw)) != want {
		return nil, fmt.Errorf("%s: %d bytes for %d expected", h5.JoinPath(g.path, name), len(raw), want)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.exists(name) {
		return nil, fmt.Errorf("%w: %s", h5.ErrExists, h5.JoinPath(g.path, name))
	}
	ds := &Dataset{
		name: name,
		path: h5.JoinPath(g.path, name),
		typ:  t,
		dims: append([]uint64{}, dims...),
		raw:  append([]byte{}, raw...),
	}
	g.datasets[name] = ds
	return ds, nil
}

func (g *Group) OpenDataset(name string) (h5.Dataset, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ds, ok := g.datasets[name]; ok {
		return ds, nil
	}
	if _, ok := g.groups[name]; ok {
		return nil, fmt.Errorf("%w: %s", h5.ErrNotDataset, h5.JoinPath(g.path, name))
	}
	return nil, fmt.Errorf("%w: %s", h5.ErrNotFound, h5.JoinPath(g.path, name))
}

func (g *Group) Members() ([]h5.Member, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]h5.Member, 0, len(g.groups)+len(g.datasets))
	for name := range g.groups {
		out = append(out, h5.Member{Name: name, Kind: h5.MemberGroup})
	}
	for name := range g.datasets {
		out = append(out, h5.Member{Name: name, Kind: h5.MemberDataset})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Remove deletes a child group or dataset.
func (g *Group) Remove(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.exists(name) {
		return fmt.Errorf("%w: %s", h5.ErrNotFound, h5.JoinPath(g.path, name))
	}
	delete(g.groups, name)
	delete(g.datasets, name)
	return nil
}

// Dataset is an in-memory dataset.
type Dataset struct {
	attrs
	name string
	path string
	typ  h5.TypeInfo
	dims []uint64
	raw  []byte
}

func (d *Dataset) Name() string      { return d.name }
func (d *Dataset) Path() string      { return d.path }
func (d *Dataset) Close() error      { return nil }
func (d *Dataset) Shape() []uint64   { return append([]uint64{}, d.dims...) }
func (d *Dataset) Type() h5.TypeInfo { return d.typ }

func (d *Dataset) ReadRaw() ([]byte, error) {
	return append([]byte{}, d.raw...), nil
}
