package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-simplnx/datastructure"
)

type fingerprinter interface {
	Fingerprint() (uint64, error)
}

func newFingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint <file> [path...]",
		Short: "Print content hashes of arrays, optionally below the given paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			ds, err := readFile(cmd, app, args[0])
			if err != nil {
				return err
			}
			visit := func(path datastructure.DataPath, obj datastructure.Object) error {
				f, ok := obj.(fingerprinter)
				if !ok {
					return nil
				}
				h, err := f.Fingerprint()
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%016x  %s\n", h, path)
				return nil
			}
			if len(args) == 1 {
				return ds.Walk(visit)
			}
			for _, p := range args[1:] {
				path, err := datastructure.ParsePath(p)
				if err != nil {
					return err
				}
				if err := ds.WalkFrom(path, visit); err != nil {
					return fmt.Errorf("%s: %w", p, err)
				}
			}
			return nil
		},
	}
}
