package hdf5io

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-simplnx/dataio"
	"github.com/robert-malhotra/go-simplnx/datastore"
	"github.com/robert-malhotra/go-simplnx/datastructure"
	"github.com/robert-malhotra/go-simplnx/h5"
)

// WriteDataMap writes every object of m into g. Failures of individual
// objects are recorded in the write result and their siblings are still
// written; only cancellation is returned.
func WriteDataMap(ctx context.Context, w *WriteContext, m *datastructure.DataMap, g h5.Group) error {
	for _, obj := range m.Objects() {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := h5.JoinPath(g.Path(), obj.Name())
		io := w.manager.IO(obj.TypeName())
		if io == nil {
			w.addError(dataio.CodeUnregisteredType, path, fmt.Errorf("no IO registered for %q", obj.TypeName()))
			continue
		}
		if err := io.WriteData(ctx, w, obj, g); err != nil {
			if isCancel(err) {
				return err
			}
			w.addError(dataio.CodeWriteFailed, path, err)
			continue
		}
		w.opts.log.WithFields(logrus.Fields{"path": path, "type": obj.TypeName()}).Debug("wrote object")
	}
	return nil
}

// ReadDataMap reads every importable member of g into the map of parentID.
// Unregistered types become warnings and failed members become errors
// carrying their path; only cancellation is returned.
func ReadDataMap(ctx context.Context, r *ReadContext, g h5.Group, parentID datastructure.ID) error {
	members, err := g.Members()
	if err != nil {
		r.addError(dataio.CodeReadFailed, g.Path(), err)
		return nil
	}
	for _, m := range members {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := readMember(ctx, r, g, m, parentID); err != nil {
			return err
		}
	}
	return nil
}

func readMember(ctx context.Context, r *ReadContext, g h5.Group, m h5.Member, parentID datastructure.ID) error {
	path := h5.JoinPath(g.Path(), m.Name)
	typeName, importable, err := memberInfo(g, m)
	if err != nil {
		r.addError(dataio.CodeReadFailed, path, err)
		return nil
	}
	if !importable {
		return nil
	}
	if typeName == "" {
		r.addWarning(dataio.CodeMissingAttribute, path, "no %s attribute, skipped", AttrObjectType)
		return nil
	}
	io := r.manager.IO(typeName)
	if io == nil {
		r.addWarning(dataio.CodeUnregisteredType, path, "no IO registered for %q, skipped", typeName)
		return nil
	}
	if _, err := io.ReadData(ctx, r, g, m.Name, parentID); err != nil {
		if isCancel(err) {
			return err
		}
		r.addError(dataio.CodeReadFailed, path, err)
		return nil
	}
	r.opts.log.WithFields(logrus.Fields{"path": path, "type": typeName}).Debug("read object")
	return nil
}

func memberInfo(g h5.Group, m h5.Member) (typeName string, importable bool, err error) {
	var obj h5.Object
	if m.Kind == h5.MemberGroup {
		obj, err = g.OpenGroup(m.Name)
	} else {
		obj, err = g.OpenDataset(m.Name)
	}
	if err != nil {
		return "", false, err
	}
	defer obj.Close()
	imp, err := h5.ReadAttrOr[int32](obj, AttrImportable, 1)
	if err != nil {
		return "", false, err
	}
	typeName, err = h5.ReadAttrOr(obj, AttrObjectType, "")
	return typeName, imp != 0, err
}

func shapeAttr(h h5.AttrHolder, name string) (datastore.Shape, bool, error) {
	if !h.HasAttr(name) {
		return nil, false, nil
	}
	dims, err := h5.ReadAttrAs[[]uint64](h, name)
	if err != nil {
		return nil, false, err
	}
	return datastore.Shape(dims), true, nil
}

// ReadTupleShape returns the tuple shape of an array dataset: the
// TupleDimensions attribute, or every dataset dimension but the last.
func ReadTupleShape(d h5.Dataset) (datastore.Shape, error) {
	s, ok, err := shapeAttr(d, AttrTupleDims)
	if err != nil || ok {
		return s, err
	}
	dims := d.Shape()
	if len(dims) <= 1 {
		return datastore.Shape(dims), nil
	}
	return datastore.Shape(dims[:len(dims)-1]), nil
}

// ReadComponentShape returns the component shape of an array dataset: the
// ComponentDimensions attribute, or the last dataset dimension of a
// multi-dimensional dataset, or {1}.
func ReadComponentShape(d h5.Dataset) (datastore.Shape, error) {
	s, ok, err := shapeAttr(d, AttrComponentDims)
	if err != nil || ok {
		return s, err
	}
	dims := d.Shape()
	if len(dims) <= 1 {
		return datastore.Shape{1}, nil
	}
	return datastore.Shape{dims[len(dims)-1]}, nil
}

func readShapes(d h5.Dataset) (ts, cs datastore.Shape, err error) {
	if ts, err = ReadTupleShape(d); err != nil {
		return nil, nil, err
	}
	if cs, err = ReadComponentShape(d); err != nil {
		return nil, nil, err
	}
	if want, got := ts.Product()*cs.Product(), h5.NumElements(d.Shape()); want != got {
		return nil, nil, fmt.Errorf("%w: %v x %v for %d elements", datastore.ErrShapeMismatch, ts, cs, got)
	}
	return ts, cs, nil
}

type dataGroupIO struct{}

func (dataGroupIO) TypeName() string { return datastructure.KindDataGroup.String() }

func (dataGroupIO) ReadData(ctx context.Context, r *ReadContext, parent h5.Group, name string, parentID datastructure.ID) (datastructure.Object, error) {
	g, err := parent.OpenGroup(name)
	if err != nil {
		return nil, err
	}
	defer g.Close()
	fileID, err := r.PreferFileID(g)
	if err != nil {
		return nil, err
	}
	obj, err := datastructure.CreateDataGroup(r.ds, name, parentID)
	if err != nil {
		return nil, err
	}
	r.Bind(fileID, obj)
	return obj, ReadDataMap(ctx, r, g, obj.ID())
}

func (dataGroupIO) WriteData(ctx context.Context, w *WriteContext, obj datastructure.Object, parent h5.Group) error {
	grp, ok := obj.(*datastructure.DataGroup)
	if !ok {
		return wrongType(obj, "DataGroup")
	}
	return writeGroup(ctx, w, grp, parent, nil)
}

// writeGroup creates the HDF5 group of a BaseGroup, tags it, runs extra for
// kind-specific attributes and then writes the children.
func writeGroup(ctx context.Context, w *WriteContext, obj datastructure.BaseGroup, parent h5.Group, extra func(h5.Group) error) error {
	g, err := parent.CreateGroup(obj.Name())
	if err != nil {
		return err
	}
	defer g.Close()
	if err := writeObjectAttrs(g, obj, true); err != nil {
		return err
	}
	if extra != nil {
		if err := extra(g); err != nil {
			return err
		}
	}
	return WriteDataMap(ctx, w, obj.DataMap(), g)
}

type attributeMatrixIO struct{}

func (attributeMatrixIO) TypeName() string { return datastructure.KindAttributeMatrix.String() }

func (attributeMatrixIO) ReadData(ctx context.Context, r *ReadContext, parent h5.Group, name string, parentID datastructure.ID) (datastructure.Object, error) {
	g, err := parent.OpenGroup(name)
	if err != nil {
		return nil, err
	}
	defer g.Close()
	ts, ok, err := shapeAttr(g, AttrTupleDims)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", h5.ErrAttrNotFound, h5.JoinAttrPath(g.Path(), AttrTupleDims))
	}
	fileID, err := r.PreferFileID(g)
	if err != nil {
		return nil, err
	}
	am, err := datastructure.CreateAttributeMatrix(r.ds, name, ts, parentID)
	if err != nil {
		return nil, err
	}
	r.Bind(fileID, am)
	return am, ReadDataMap(ctx, r, g, am.ID())
}

func (attributeMatrixIO) WriteData(ctx context.Context, w *WriteContext, obj datastructure.Object, parent h5.Group) error {
	am, ok := obj.(*datastructure.AttributeMatrix)
	if !ok {
		return wrongType(obj, "AttributeMatrix")
	}
	return writeGroup(ctx, w, am, parent, func(g h5.Group) error {
		return g.WriteAttr(AttrTupleDims, []uint64(am.TupleShape()))
	})
}
