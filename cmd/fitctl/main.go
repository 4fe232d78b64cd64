// Package main is the fitcoach ops CLI: password hashing, status summary,
// data export, manual backup and one rep max estimates.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	env        string
	configPath string
	dataPath   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "fitctl",
		Short:         "fitcoach ops tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.env, "env", "development", "environment [prod | production | dev | development]")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "./config.toml", "path for the TOML config file")
	root.PersistentFlags().StringVar(&opts.dataPath, "data", "", "data file path, overrides the config")

	root.AddCommand(newHashPasswordCmd())
	root.AddCommand(newStatusCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newBackupCmd(opts))
	root.AddCommand(newOneRepMaxCmd())
	return root
}
