package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-simplnx/h5"
)

func newCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <src> <dst>",
		Short: "Read a file (any supported version) and write it in the current layout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			return withRoot(args[0], openFile, func(src h5.Group) error {
				res := app.Read(cmd.Context(), src, false)
				printDiagnostics(cmd.ErrOrStderr(), res.Warnings, res.Errors)
				if err := res.Err(); err != nil {
					return err
				}
				return withRoot(args[1], createFile, func(dst h5.Group) error {
					wres := app.Write(cmd.Context(), res.Value, dst)
					printDiagnostics(cmd.ErrOrStderr(), wres.Warnings, wres.Errors)
					if err := wres.Err(); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "copied %d object(s) to %s\n", res.Value.Len(), args[1])
					return nil
				})
			})
		},
	}
}
