//go:build !nohdf5

package main

import "github.com/robert-malhotra/go-simplnx/h5/native"

func init() {
	openFile = func(path string) (file, error) { return native.Open(path) }
	createFile = func(path string) (file, error) { return native.Create(path) }
}
