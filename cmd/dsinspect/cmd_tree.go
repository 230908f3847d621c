package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-simplnx/datastructure"
	"github.com/robert-malhotra/go-simplnx/h5"
	"github.com/robert-malhotra/go-simplnx/hdf5io"
)

func newTreeCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the object tree without loading array payloads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRoot(args[0], openFile, func(root h5.Group) error {
				out := cmd.OutOrStdout()
				if raw {
					return printRaw(out, root)
				}
				app, err := newApp(cmd)
				if err != nil {
					return err
				}
				defer app.Close()

				res := app.Read(cmd.Context(), root, true)
				printDiagnostics(cmd.ErrOrStderr(), res.Warnings, res.Errors)
				if err := printTree(out, res.Value); err != nil {
					return err
				}
				return res.Err()
			})
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "list HDF5 groups and datasets instead of objects")
	return cmd
}

func printTree(out io.Writer, ds *datastructure.DataStructure) error {
	return ds.Walk(func(path datastructure.DataPath, obj datastructure.Object) error {
		indent := strings.Repeat("  ", len(path)-1)
		fmt.Fprintf(out, "%s%s [%s] id=%d%s\n", indent, obj.Name(), obj.TypeName(), obj.ID(), summary(obj))
		return nil
	})
}

// summary describes shapes and payload sizes of arrays.
func summary(obj datastructure.Object) string {
	switch o := obj.(type) {
	case datastructure.IDataArray:
		size := o.Store().Size() * uint64(o.DataType().Size())
		s := fmt.Sprintf(" %v x %v %s", o.TupleShape(), o.ComponentShape(), humanize.IBytes(size))
		if f := o.DataFormat(); f != "" {
			s += " format=" + f
		}
		if !o.IsLoaded() {
			s += " (not loaded)"
		}
		return s
	case datastructure.INeighborList:
		return fmt.Sprintf(" %v lists", o.TupleShape())
	case *datastructure.StringArray:
		return fmt.Sprintf(" %v strings", o.TupleShape())
	case *datastructure.AttributeMatrix:
		return fmt.Sprintf(" tuples=%v", o.TupleShape())
	case *datastructure.ImageGeom:
		return fmt.Sprintf(" dims=%v", o.Dimensions())
	}
	return ""
}

// printRaw lists every group and dataset of the container with the
// attributes that identify stored objects.
func printRaw(out io.Writer, root h5.Group) error {
	return h5.Walk(root, func(path string, obj h5.Object, err error) error {
		depth := len(h5.SplitPath(path))
		indent := strings.Repeat("  ", depth)
		if err != nil {
			fmt.Fprintf(out, "%s%s: ERROR %v\n", indent, path, err)
			return nil
		}
		typeName, _ := h5.ReadAttrOr(obj, hdf5io.AttrObjectType, "")
		if typeName != "" {
			typeName = " " + typeName
		}
		switch o := obj.(type) {
		case h5.Dataset:
			fmt.Fprintf(out, "%sDataset %q %v %s%s\n", indent, o.Name(), o.Shape(), o.Type(), typeName)
		case h5.Group:
			fmt.Fprintf(out, "%sGroup %q%s\n", indent, o.Name(), typeName)
		}
		return nil
	})
}

func printDiagnostics[W fmt.Stringer, E error](out io.Writer, warnings []W, errs []E) {
	for _, w := range warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	for _, e := range errs {
		fmt.Fprintf(out, "error: %s\n", e)
	}
}
