//go:build nohdf5

package main

func init() {
	openFile = func(string) (file, error) { return nil, errNoHDF5 }
	createFile = openFile
}
