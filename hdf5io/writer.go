package hdf5io

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-simplnx/dataio"
	"github.com/robert-malhotra/go-simplnx/datastructure"
	"github.com/robert-malhotra/go-simplnx/h5"
)

// Writer stores a DataStructure into the root group of a file.
type Writer struct {
	manager *DataIOManager
	opts    *options
}

// NewWriter returns a Writer using the IOs of m.
func NewWriter(m *DataIOManager, opts ...Option) *Writer {
	return &Writer{manager: m, opts: newOptions(opts)}
}

var _ dataio.StructureWriter = (*Writer)(nil)

// WriteToGroup writes ds under group, which must be the h5.Group of the
// file root. Objects that fail to write are reported and skipped.
func (wr *Writer) WriteToGroup(ctx context.Context, ds *datastructure.DataStructure, group any) dataio.Void {
	root, ok := group.(h5.Group)
	if !ok {
		return dataio.Fail[struct{}](dataio.CodeWriteFailed, "", fmt.Errorf("%w: %T", ErrNotContainer, group))
	}
	if err := root.WriteAttr(AttrFileVersion, FileVersion); err != nil {
		return dataio.Fail[struct{}](dataio.CodeWriteFailed, root.Path(), err)
	}
	g, err := root.CreateGroup(GroupDataStructure)
	if err != nil {
		return dataio.Fail[struct{}](dataio.CodeCreateFailed, h5.JoinPath(root.Path(), GroupDataStructure), err)
	}
	defer g.Close()
	if err := g.WriteAttr(AttrNextObjectID, uint64(ds.NextID())); err != nil {
		return dataio.Fail[struct{}](dataio.CodeWriteFailed, g.Path(), err)
	}

	var res dataio.Void
	w := &WriteContext{manager: wr.manager, opts: wr.opts, result: &res}
	wr.opts.log.WithFields(logrus.Fields{"objects": ds.Len()}).Debug("writing data structure")
	if err := WriteDataMap(ctx, w, ds.Root(), g); err != nil {
		res.AddError(dataio.CodeCancelled, g.Path(), err)
	}
	return res
}
