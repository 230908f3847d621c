package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-simplnx/application"
	"github.com/robert-malhotra/go-simplnx/datastructure"
	"github.com/robert-malhotra/go-simplnx/h5"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <a> <b>",
		Short: "Compare two files by object path and content, ignoring IDs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			a, err := readFile(cmd, app, args[0])
			if err != nil {
				return err
			}
			b, err := readFile(cmd, app, args[1])
			if err != nil {
				return err
			}
			lines, err := datastructure.Diff(a, b)
			if err != nil {
				return err
			}
			for _, l := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), l)
			}
			if len(lines) > 0 {
				return fmt.Errorf("%d difference(s)", len(lines))
			}
			return nil
		},
	}
}

func readFile(cmd *cobra.Command, app *application.Application, path string) (*datastructure.DataStructure, error) {
	var ds *datastructure.DataStructure
	err := withRoot(path, openFile, func(root h5.Group) error {
		res := app.Read(cmd.Context(), root, false)
		printDiagnostics(cmd.ErrOrStderr(), res.Warnings, res.Errors)
		if err := res.Err(); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		ds = res.Value
		return nil
	})
	return ds, err
}
