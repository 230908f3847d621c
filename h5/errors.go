package h5

import "errors"

var (
	ErrNotFound        = errors.New("object not found")
	ErrNotGroup        = errors.New("object is not a group")
	ErrNotDataset      = errors.New("object is not a dataset")
	ErrExists          = errors.New("object already exists")
	ErrAttrNotFound    = errors.New("attribute not found")
	ErrUnsupportedType = errors.New("unsupported type")
	ErrTypeMismatch    = errors.New("datatype mismatch")
	ErrInvalidPath     = errors.New("invalid path")
	ErrClosed          = errors.New("file is closed")
)
