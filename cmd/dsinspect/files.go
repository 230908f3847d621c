package main

import (
	"errors"

	"github.com/robert-malhotra/go-simplnx/h5"
)

var errNoHDF5 = errors.New("dsinspect was built without HDF5 support")

// file is an open container.
type file interface {
	Root() (h5.Group, error)
	Close() error
}

// Set by the build-specific file; tests replace them with in-memory files.
var (
	openFile   func(path string) (file, error)
	createFile func(path string) (file, error)
)

// withRoot opens path and calls fn with its root group.
func withRoot(path string, open func(string) (file, error), fn func(root h5.Group) error) error {
	f, err := open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	root, err := f.Root()
	if err != nil {
		return err
	}
	defer root.Close()
	return fn(root)
}
