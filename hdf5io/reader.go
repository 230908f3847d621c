package hdf5io

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-simplnx/dataio"
	"github.com/robert-malhotra/go-simplnx/datastructure"
	"github.com/robert-malhotra/go-simplnx/h5"
)

// Reader builds a DataStructure from the root group of a file.
type Reader struct {
	manager *DataIOManager
	opts    *options
}

// NewReader returns a Reader using the IOs of m.
func NewReader(m *DataIOManager, opts ...Option) *Reader {
	return &Reader{manager: m, opts: newOptions(opts)}
}

var _ dataio.StructureReader = (*Reader)(nil)

// ReadFromGroup reads the structure stored under group, which must be the
// h5.Group of the file root. The returned result always holds a structure;
// objects that failed to read are missing from it and reported as errors.
func (rd *Reader) ReadFromGroup(ctx context.Context, group any, useEmptyDataStores bool) dataio.Result[*datastructure.DataStructure] {
	root, ok := group.(h5.Group)
	if !ok {
		res := dataio.Fail[*datastructure.DataStructure](dataio.CodeReadFailed, "", fmt.Errorf("%w: %T", ErrNotContainer, group))
		res.Value = datastructure.New(datastructure.WithLogger(rd.opts.log))
		return res
	}
	version, err := h5.ReadAttrOr(root, AttrFileVersion, "")
	if err != nil {
		res := dataio.Fail[*datastructure.DataStructure](dataio.CodeMissingAttribute, root.Path(), err)
		res.Value = datastructure.New(datastructure.WithLogger(rd.opts.log))
		return res
	}
	rd.opts.log.WithFields(logrus.Fields{"version": version, "empty_stores": useEmptyDataStores}).Debug("reading data structure")
	switch version {
	case FileVersion:
		return rd.read(ctx, root, useEmptyDataStores)
	case LegacyFileVersion:
		return rd.readLegacy(ctx, root, useEmptyDataStores)
	}
	res := dataio.Fail[*datastructure.DataStructure](dataio.CodeUnsupportedVersion, root.Path(),
		fmt.Errorf("%w: %q", ErrUnsupportedFile, version))
	res.Value = datastructure.New(datastructure.WithLogger(rd.opts.log))
	return res
}

func (rd *Reader) read(ctx context.Context, root h5.Group, useEmpty bool) dataio.Result[*datastructure.DataStructure] {
	g, err := root.OpenGroup(GroupDataStructure)
	if err != nil {
		res := dataio.Fail[*datastructure.DataStructure](dataio.CodeReadFailed, h5.JoinPath(root.Path(), GroupDataStructure), err)
		res.Value = datastructure.New(datastructure.WithLogger(rd.opts.log))
		return res
	}
	defer g.Close()
	next, nextErr := h5.ReadAttrOr[uint64](g, AttrNextObjectID, 0)
	if nextErr != nil {
		next = 0
	}
	ds := datastructure.New(datastructure.WithLogger(rd.opts.log), datastructure.WithNextID(datastructure.ID(next)))
	r := newReadContext(ds, rd.manager, rd.opts, useEmpty)
	if nextErr != nil {
		r.addWarning(dataio.CodeMissingAttribute, h5.JoinAttrPath(g.Path(), AttrNextObjectID), "ignored unreadable object id counter: %v", nextErr)
	}
	if err := ReadDataMap(ctx, r, g, datastructure.InvalidID); err != nil {
		r.result.AddError(dataio.CodeCancelled, g.Path(), err)
		return *r.result
	}
	r.resolveLinks()
	return *r.result
}
