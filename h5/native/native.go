// Package native implements the h5 container over libhdf5 through
// gonum.org/v1/hdf5. Building it requires cgo and the HDF5 C library.
//
// Datasets are read and written as raw bytes in their file datatype, so the
// byte order stored in the file is reported through h5.TypeInfo and
// conversion happens in the caller. String attributes are stored as
// NUL-terminated uint8 vectors.
package native

import (
	"fmt"

	"gonum.org/v1/hdf5"

	"github.com/robert-malhotra/go-simplnx/h5"
	"github.com/robert-malhotra/go-simplnx/internal/dtype"
)

// File is an open HDF5 file.
type File struct {
	f    *hdf5.File
	path string
}

// Create creates or truncates the file at path.
func Create(path string) (*File, error) {
	f, err := hdf5.CreateFile(path, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &File{f: f, path: path}, nil
}

// Open opens the file at path read-only.
func Open(path string) (*File, error) {
	f, err := hdf5.OpenFile(path, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &File{f: f, path: path}, nil
}

// Path returns the file name.
func (f *File) Path() string { return f.path }

// Root opens the root group. The caller closes it before closing the file.
func (f *File) Root() (h5.Group, error) {
	g, err := f.f.OpenGroup("/")
	if err != nil {
		return nil, fmt.Errorf("%s: open root: %w", f.path, err)
	}
	return &Group{g: g, name: "/", path: "/"}, nil
}

func (f *File) Close() error { return f.f.Close() }

type typeEntry struct {
	h5t  *hdf5.Datatype
	info h5.TypeInfo
}

var fileTypes = []typeEntry{
	{hdf5.T_STD_I8LE, h5.TypeInfo{Class: h5.ClassInteger, Size: 1, Signed: true, Order: dtype.LittleEndian}},
	{hdf5.T_STD_I8BE, h5.TypeInfo{Class: h5.ClassInteger, Size: 1, Signed: true, Order: dtype.BigEndian}},
	{hdf5.T_STD_U8LE, h5.TypeInfo{Class: h5.ClassInteger, Size: 1, Order: dtype.LittleEndian}},
	{hdf5.T_STD_U8BE, h5.TypeInfo{Class: h5.ClassInteger, Size: 1, Order: dtype.BigEndian}},
	{hdf5.T_STD_I16LE, h5.TypeInfo{Class: h5.ClassInteger, Size: 2, Signed: true, Order: dtype.LittleEndian}},
	{hdf5.T_STD_I16BE, h5.TypeInfo{Class: h5.ClassInteger, Size: 2, Signed: true, Order: dtype.BigEndian}},
	{hdf5.T_STD_U16LE, h5.TypeInfo{Class: h5.ClassInteger, Size: 2, Order: dtype.LittleEndian}},
	{hdf5.T_STD_U16BE, h5.TypeInfo{Class: h5.ClassInteger, Size: 2, Order: dtype.BigEndian}},
	{hdf5.T_STD_I32LE, h5.TypeInfo{Class: h5.ClassInteger, Size: 4, Signed: true, Order: dtype.LittleEndian}},
	{hdf5.T_STD_I32BE, h5.TypeInfo{Class: h5.ClassInteger, Size: 4, Signed: true, Order: dtype.BigEndian}},
	{hdf5.T_STD_U32LE, h5.TypeInfo{Class: h5.ClassInteger, Size: 4, Order: dtype.LittleEndian}},
	{hdf5.T_STD_U32BE, h5.TypeInfo{Class: h5.ClassInteger, Size: 4, Order: dtype.BigEndian}},
	{hdf5.T_STD_I64LE, h5.TypeInfo{Class: h5.ClassInteger, Size: 8, Signed: true, Order: dtype.LittleEndian}},
	{hdf5.T_STD_I64BE, h5.TypeInfo{Class: h5.ClassInteger, Size: 8, Signed: true, Order: dtype.BigEndian}},
	{hdf5.T_STD_U64LE, h5.TypeInfo{Class: h5.ClassInteger, Size: 8, Order: dtype.LittleEndian}},
	{hdf5.T_STD_U64BE, h5.TypeInfo{Class: h5.ClassInteger, Size: 8, Order: dtype.BigEndian}},
	{hdf5.T_IEEE_F32LE, h5.TypeInfo{Class: h5.ClassFloat, Size: 4, Signed: true, Order: dtype.LittleEndian}},
	{hdf5.T_IEEE_F32BE, h5.TypeInfo{Class: h5.ClassFloat, Size: 4, Signed: true, Order: dtype.BigEndian}},
	{hdf5.T_IEEE_F64LE, h5.TypeInfo{Class: h5.ClassFloat, Size: 8, Signed: true, Order: dtype.LittleEndian}},
	{hdf5.T_IEEE_F64BE, h5.TypeInfo{Class: h5.ClassFloat, Size: 8, Signed: true, Order: dtype.BigEndian}},
}

func fileType(t h5.TypeInfo) (*hdf5.Datatype, error) {
	for _, e := range fileTypes {
		if e.info == t {
			return e.h5t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", h5.ErrUnsupportedType, t)
}

func typeInfo(t *hdf5.Datatype) (h5.TypeInfo, error) {
	for _, e := range fileTypes {
		if t.Equal(e.h5t) {
			return e.info, nil
		}
	}
	return h5.TypeInfo{}, fmt.Errorf("%w: HDF5 datatype of size %d", h5.ErrUnsupportedType, t.Size())
}

func toUint(dims []uint64) []uint {
	out := make([]uint, len(dims))
	for i, d := range dims {
		out[i] = uint(d)
	}
	return out
}

func toUint64(dims []uint) []uint64 {
	out := make([]uint64, len(dims))
	for i, d := range dims {
		out[i] = uint64(d)
	}
	return out
}

func createSpace(dims []uint64) (*hdf5.Dataspace, error) {
	if len(dims) == 0 {
		return hdf5.CreateDataspace(hdf5.S_SCALAR)
	}
	return hdf5.CreateSimpleDataspace(toUint(dims), nil)
}
