package hdf5io

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/robert-malhotra/go-simplnx/datastore"
	"github.com/robert-malhotra/go-simplnx/datastructure"
	"github.com/robert-malhotra/go-simplnx/h5"
)

type dataArrayIO[T datastore.Value] struct{}

func (dataArrayIO[T]) TypeName() string {
	return datastructure.DataArrayTypeName(datastore.DataTypeOf[T]())
}

func (io dataArrayIO[T]) ReadData(_ context.Context, r *ReadContext, parent h5.Group, name string, parentID datastructure.ID) (datastructure.Object, error) {
	d, err := parent.OpenDataset(name)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	ts, cs, err := readShapes(d)
	if err != nil {
		return nil, err
	}
	return io.readDataset(r, d, name, parentID, ts, cs)
}

// readDataset creates the array from an open dataset with known shapes.
func (dataArrayIO[T]) readDataset(r *ReadContext, d h5.Dataset, name string, parentID datastructure.ID, ts, cs datastore.Shape) (datastructure.Object, error) {
	if dt := datastore.DataTypeOf[T](); !d.Type().Compatible(dt) {
		return nil, fmt.Errorf("%w: dataset is %s, array is %s", h5.ErrTypeMismatch, d.Type(), dt)
	}
	format, err := h5.ReadAttrOr(d, AttrDataFormat, "")
	if err != nil {
		return nil, err
	}
	store, err := newStore(r, d.Path(), format, ts, cs, func() ([]T, error) { return h5.ReadValues[T](d) })
	if err != nil {
		return nil, err
	}
	fileID, err := r.PreferFileID(d)
	if err != nil {
		return nil, err
	}
	arr, err := datastructure.CreateDataArray(r.ds, name, store, parentID)
	if err != nil {
		return nil, err
	}
	r.Bind(fileID, arr)
	return arr, nil
}

func (io dataArrayIO[T]) WriteData(_ context.Context, _ *WriteContext, obj datastructure.Object, parent h5.Group) error {
	arr, ok := obj.(*datastructure.DataArray[T])
	if !ok {
		return wrongType(obj, io.TypeName())
	}
	vals, err := arr.Values()
	if err != nil {
		return fmt.Errorf("read values of %q: %w", arr.Name(), err)
	}
	ts, cs := arr.TupleShape(), arr.ComponentShape()
	dims := append([]uint64(ts.Clone()), cs...)
	d, err := h5.WriteValues(parent, arr.Name(), dims, vals)
	if err != nil {
		return err
	}
	defer d.Close()
	if err := writeArrayAttrs(d, arr, ts, cs); err != nil {
		return err
	}
	if f := arr.DataFormat(); f != "" {
		return d.WriteAttr(AttrDataFormat, f)
	}
	return nil
}

func (dataArrayIO[T]) loadPlaceholder(r *ReadContext, parent h5.Group, obj datastructure.Object) error {
	arr, ok := obj.(*datastructure.DataArray[T])
	if !ok || arr.IsLoaded() {
		return nil
	}
	d, err := parent.OpenDataset(arr.Name())
	if err != nil {
		return err
	}
	defer d.Close()
	vals, err := h5.ReadValues[T](d)
	if err != nil {
		return err
	}
	store, err := loadStore(r.opts.collection, arr.DataFormat(), arr.TupleShape(), arr.ComponentShape(), vals)
	if err != nil {
		return err
	}
	return arr.SetStore(store)
}

func writeArrayAttrs(d h5.Dataset, obj datastructure.Object, ts, cs datastore.Shape) error {
	if err := writeObjectAttrs(d, obj, true); err != nil {
		return err
	}
	if err := d.WriteAttr(AttrTupleDims, []uint64(ts)); err != nil {
		return err
	}
	return d.WriteAttr(AttrComponentDims, []uint64(cs))
}

type scalarDataIO[T datastore.Value] struct{}

func (scalarDataIO[T]) TypeName() string {
	return fmt.Sprintf("%s<%s>", datastructure.KindScalarData, datastore.DataTypeOf[T]())
}

func (scalarDataIO[T]) ReadData(_ context.Context, r *ReadContext, parent h5.Group, name string, parentID datastructure.ID) (datastructure.Object, error) {
	d, err := parent.OpenDataset(name)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	vals, err := h5.ReadValues[T](d)
	if err != nil {
		return nil, err
	}
	if len(vals) != 1 {
		return nil, fmt.Errorf("%w: scalar dataset holds %d values", datastore.ErrShapeMismatch, len(vals))
	}
	fileID, err := r.PreferFileID(d)
	if err != nil {
		return nil, err
	}
	s, err := datastructure.CreateScalarData(r.ds, name, vals[0], parentID)
	if err != nil {
		return nil, err
	}
	r.Bind(fileID, s)
	return s, nil
}

func (io scalarDataIO[T]) WriteData(_ context.Context, _ *WriteContext, obj datastructure.Object, parent h5.Group) error {
	s, ok := obj.(*datastructure.ScalarData[T])
	if !ok {
		return wrongType(obj, io.TypeName())
	}
	d, err := h5.WriteValues(parent, s.Name(), []uint64{1}, []T{s.Value()})
	if err != nil {
		return err
	}
	defer d.Close()
	return writeObjectAttrs(d, s, true)
}

type neighborListIO[T datastore.Value] struct{}

func (neighborListIO[T]) TypeName() string {
	return datastructure.NeighborListTypeName(datastore.DataTypeOf[T]())
}

func (io neighborListIO[T]) ReadData(_ context.Context, r *ReadContext, parent h5.Group, name string, parentID datastructure.ID) (datastructure.Object, error) {
	d, err := parent.OpenDataset(name)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	return io.readDataset(r, parent, d, name, parentID)
}

func countsName(d h5.Dataset, name string) (string, error) {
	return h5.ReadAttrOr(d, AttrLinkedNumNeighbors, name+NumNeighborsSuffix)
}

func readCounts(parent h5.Group, d h5.Dataset, name string) ([]int32, error) {
	linked, err := countsName(d, name)
	if err != nil {
		return nil, err
	}
	cd, err := parent.OpenDataset(linked)
	if err != nil {
		return nil, fmt.Errorf("neighbor counts: %w", err)
	}
	defer cd.Close()
	return h5.ReadConverted[int32](cd)
}

func (neighborListIO[T]) readDataset(r *ReadContext, parent h5.Group, d h5.Dataset, name string, parentID datastructure.ID) (datastructure.Object, error) {
	counts, err := readCounts(parent, d, name)
	if err != nil {
		return nil, err
	}
	var vals []T
	if !r.useEmpty {
		if vals, err = h5.ReadValues[T](d); err != nil {
			return nil, err
		}
	}
	fileID, err := r.PreferFileID(d)
	if err != nil {
		return nil, err
	}
	if r.useEmpty {
		nl, err := datastructure.CreateNeighborListPlaceholder[T](r.ds, name, uint64(len(counts)), parentID)
		if err != nil {
			return nil, err
		}
		r.Bind(fileID, nl)
		return nl, nil
	}
	nl, err := datastructure.CreateNeighborList[T](r.ds, name, uint64(len(counts)), parentID)
	if err != nil {
		return nil, err
	}
	if err := nl.SetFlattened(counts, vals); err != nil {
		r.ds.RemoveByID(nl.ID())
		return nil, err
	}
	r.Bind(fileID, nl)
	return nl, nil
}

func (io neighborListIO[T]) WriteData(_ context.Context, _ *WriteContext, obj datastructure.Object, parent h5.Group) error {
	nl, ok := obj.(*datastructure.NeighborList[T])
	if !ok {
		return wrongType(obj, io.TypeName())
	}
	linked := nl.Name() + NumNeighborsSuffix
	if siblings, err := nl.Structure().ChildMap(nl.ParentID()); err == nil && siblings.ContainsName(linked) {
		return fmt.Errorf("neighbor list %q: %w: counts dataset %q clashes with a sibling", nl.Name(), ErrNameCollision, linked)
	}
	counts, err := nl.NumNeighbors()
	if err != nil {
		return fmt.Errorf("neighbor list %q: %w", nl.Name(), err)
	}
	flat, err := nl.Flatten()
	if err != nil {
		return fmt.Errorf("neighbor list %q: %w", nl.Name(), err)
	}
	ts := datastore.Shape{nl.NumberOfTuples()}

	d, err := h5.WriteValues(parent, nl.Name(), []uint64{uint64(len(flat))}, flat)
	if err != nil {
		return err
	}
	defer d.Close()
	if err := writeObjectAttrs(d, nl, true); err != nil {
		return err
	}
	if err := d.WriteAttr(AttrTupleDims, []uint64(ts)); err != nil {
		return err
	}
	if err := d.WriteAttr(AttrLinkedNumNeighbors, linked); err != nil {
		return err
	}

	cd, err := h5.WriteValues(parent, linked, []uint64(ts), counts)
	if err != nil {
		return err
	}
	defer cd.Close()
	return multierr.Combine(
		cd.WriteAttr(AttrObjectType, datastructure.DataArrayTypeName(datastore.Int32)),
		cd.WriteAttr(AttrImportable, int32(0)),
		cd.WriteAttr(AttrTupleDims, []uint64(ts)),
		cd.WriteAttr(AttrComponentDims, []uint64{1}),
	)
}

func (io neighborListIO[T]) loadPlaceholder(_ *ReadContext, parent h5.Group, obj datastructure.Object) error {
	nl, ok := obj.(*datastructure.NeighborList[T])
	if !ok || nl.IsLoaded() {
		return nil
	}
	d, err := parent.OpenDataset(nl.Name())
	if err != nil {
		return err
	}
	defer d.Close()
	counts, err := readCounts(parent, d, nl.Name())
	if err != nil {
		return err
	}
	vals, err := h5.ReadValues[T](d)
	if err != nil {
		return err
	}
	return nl.SetFlattened(counts, vals)
}

type stringArrayIO struct{}

func (stringArrayIO) TypeName() string { return datastructure.KindStringArray.String() }

// Strings are stored back to back, each terminated by a NUL byte.
func encodeStrings(vals []string) ([]uint8, error) {
	var n int
	for i, s := range vals {
		if strings.IndexByte(s, 0) >= 0 {
			return nil, fmt.Errorf("%w: tuple %d", ErrEmbeddedNUL, i)
		}
		n += len(s) + 1
	}
	out := make([]uint8, 0, n)
	for _, s := range vals {
		out = append(out, s...)
		out = append(out, 0)
	}
	return out, nil
}

func decodeStrings(raw []uint8) ([]string, error) {
	if len(raw) > 0 && raw[len(raw)-1] != 0 {
		return nil, fmt.Errorf("%w: string data is not NUL-terminated", datastore.ErrShapeMismatch)
	}
	var out []string
	start := 0
	for i, b := range raw {
		if b == 0 {
			out = append(out, string(raw[start:i]))
			start = i + 1
		}
	}
	return out, nil
}

func (stringArrayIO) ReadData(_ context.Context, r *ReadContext, parent h5.Group, name string, parentID datastructure.ID) (datastructure.Object, error) {
	d, err := parent.OpenDataset(name)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	return readStringDataset(r, d, name, parentID)
}

func readStringDataset(r *ReadContext, d h5.Dataset, name string, parentID datastructure.ID) (datastructure.Object, error) {
	raw, err := h5.ReadValues[uint8](d)
	if err != nil {
		return nil, err
	}
	vals, err := decodeStrings(raw)
	if err != nil {
		return nil, err
	}
	if ts, ok, err := shapeAttr(d, AttrTupleDims); err != nil {
		return nil, err
	} else if ok && ts.Product() != uint64(len(vals)) {
		return nil, fmt.Errorf("%w: %d strings for tuple shape %v", datastore.ErrShapeMismatch, len(vals), ts)
	}
	fileID, err := r.PreferFileID(d)
	if err != nil {
		return nil, err
	}
	sa, err := datastructure.CreateStringArray(r.ds, name, vals, parentID)
	if err != nil {
		return nil, err
	}
	r.Bind(fileID, sa)
	return sa, nil
}

func (io stringArrayIO) WriteData(_ context.Context, _ *WriteContext, obj datastructure.Object, parent h5.Group) error {
	sa, ok := obj.(*datastructure.StringArray)
	if !ok {
		return wrongType(obj, io.TypeName())
	}
	raw, err := encodeStrings(sa.Values())
	if err != nil {
		return fmt.Errorf("string array %q: %w", sa.Name(), err)
	}
	d, err := h5.WriteValues(parent, sa.Name(), []uint64{uint64(len(raw))}, raw)
	if err != nil {
		return err
	}
	defer d.Close()
	if err := writeObjectAttrs(d, sa, true); err != nil {
		return err
	}
	return d.WriteAttr(AttrTupleDims, []uint64(sa.TupleShape()))
}
