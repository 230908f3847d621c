// Command dsinspect inspects, verifies and copies DataStructure files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-simplnx/application"
	"github.com/robert-malhotra/go-simplnx/internal/config"
	"github.com/robert-malhotra/go-simplnx/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dsinspect",
		Short:         "Inspect DataStructure HDF5 files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "YAML or TOML configuration file")
	root.PersistentFlags().String("log-level", "", "log level (overrides the configuration)")

	root.AddCommand(newTreeCmd())
	root.AddCommand(newVerifyCmd())
	root.AddCommand(newCopyCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newFingerprintCmd())
	root.AddCommand(newAttrCmd())
	return root
}

// newApp builds the application from the --config and --log-level flags.
// Logs go to the command's error stream.
func newApp(cmd *cobra.Command) (*application.Application, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	log, err := logging.New(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return application.New(cfg, application.WithLogger(log))
}
