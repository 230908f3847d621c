package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-simplnx/h5"
)

func newAttrCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attr <file> <path@name>",
		Short: "Print one HDF5 attribute, e.g. /DataStructure@NextObjectId",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			objPath, name, err := h5.ParseAttrPath(args[1])
			if err != nil {
				return err
			}
			return withRoot(args[0], openFile, func(root h5.Group) error {
				obj, err := h5.Open(root, objPath)
				if err != nil {
					return err
				}
				if obj != root {
					defer obj.Close()
				}
				v, err := readAnyAttr(obj, name)
				if err != nil {
					return fmt.Errorf("%s: %w", args[1], err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			})
		},
	}
}

// readAnyAttr reads a string attribute, or a numeric one as float64 values.
func readAnyAttr(h h5.AttrHolder, name string) (any, error) {
	var s string
	err := h.ReadAttr(name, &s)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, h5.ErrTypeMismatch) {
		return nil, err
	}
	var vals []float64
	if err := h.ReadAttr(name, &vals); err != nil {
		return nil, err
	}
	if len(vals) == 1 {
		return vals[0], nil
	}
	return vals, nil
}
