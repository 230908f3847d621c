package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-simplnx/datastructure"
	"github.com/robert-malhotra/go-simplnx/h5"
)

type validator interface {
	Validate() error
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>",
		Short: "Read every object and check geometry topology",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRoot(args[0], openFile, func(root h5.Group) error {
				app, err := newApp(cmd)
				if err != nil {
					return err
				}
				defer app.Close()

				res := app.Read(cmd.Context(), root, false)
				printDiagnostics(cmd.ErrOrStderr(), res.Warnings, res.Errors)
				if err := res.Err(); err != nil {
					return err
				}

				var invalid int
				err = res.Value.Walk(func(path datastructure.DataPath, obj datastructure.Object) error {
					if v, ok := obj.(validator); ok {
						if err := v.Validate(); err != nil {
							fmt.Fprintf(cmd.ErrOrStderr(), "invalid: %s: %v\n", path, err)
							invalid++
						}
					}
					return nil
				})
				if err != nil {
					return err
				}
				if invalid > 0 {
					return fmt.Errorf("%d invalid object(s)", invalid)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok: verified %d object(s), %d warning(s)\n", res.Value.Len(), len(res.Warnings))
				return nil
			})
		},
	}
}
