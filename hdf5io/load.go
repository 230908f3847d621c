package hdf5io

import (
	"context"
	"fmt"

	"github.com/robert-malhotra/go-simplnx/dataio"
	"github.com/robert-malhotra/go-simplnx/datastructure"
	"github.com/robert-malhotra/go-simplnx/h5"
)

// LoadPlaceholders reads the payload of every unloaded array and neighbor
// list of ds from the file whose root group is root. Arrays are loaded into
// the data format their placeholder carries when the collection set with
// WithCollection provides it, and into memory otherwise.
func LoadPlaceholders(ctx context.Context, m *DataIOManager, ds *datastructure.DataStructure, root h5.Group, opts ...Option) dataio.Void {
	var res dataio.Void
	version, err := h5.ReadAttrOr(root, AttrFileVersion, "")
	if err != nil {
		res.AddError(dataio.CodeMissingAttribute, root.Path(), err)
		return res
	}
	// Objects of a DataContainers file sit at the same relative paths.
	base := GroupDataStructure
	if version == LegacyFileVersion {
		base = legacyDataContainers
	}
	g, err := root.OpenGroup(base)
	if err != nil {
		res.AddError(dataio.CodeReadFailed, h5.JoinPath(root.Path(), base), err)
		return res
	}
	defer g.Close()

	r := newReadContext(ds, m, newOptions(opts), false)
	err = ds.Walk(func(path datastructure.DataPath, obj datastructure.Object) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !isPlaceholder(obj) {
			return nil
		}
		l, ok := m.IO(obj.TypeName()).(placeholderLoader)
		if !ok {
			return nil
		}
		parent, err := openParent(g, path)
		if err != nil {
			res.AddError(dataio.CodeReadFailed, path.String(), err)
			return nil
		}
		if parent != g {
			defer parent.Close()
		}
		if err := l.loadPlaceholder(r, parent, obj); err != nil {
			res.AddError(dataio.CodeReadFailed, path.String(), err)
		}
		return nil
	})
	if err != nil {
		res.AddError(dataio.CodeCancelled, "", err)
	}
	dataio.Merge(&res, *r.result)
	return res
}

func isPlaceholder(obj datastructure.Object) bool {
	switch o := obj.(type) {
	case datastructure.IDataArray:
		return !o.IsLoaded()
	case datastructure.INeighborList:
		return !o.IsLoaded()
	}
	return false
}

func openParent(g h5.Group, path datastructure.DataPath) (h5.Group, error) {
	parent := path.Parent()
	if parent.Empty() {
		return g, nil
	}
	obj, err := h5.Open(g, parent.String())
	if err != nil {
		return nil, err
	}
	pg, ok := obj.(h5.Group)
	if !ok {
		obj.Close()
		return nil, fmt.Errorf("%w: %s", h5.ErrNotGroup, parent)
	}
	return pg, nil
}
