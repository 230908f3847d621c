package datastore

import "errors"

var (
	ErrNotLoaded     = errors.New("array not loaded")
	ErrOutOfRange    = errors.New("index out of range")
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrTypeMismatch  = errors.New("data type mismatch")
)
