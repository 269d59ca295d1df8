// Package root holds questctl's commands for inspecting and repairing saved
// quest progress.
package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const Version = "0.1.0"

type options struct {
	configPath string
	dbPath     string
}

// NewRootCmd builds the questctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "questctl",
		Short:         "Inspect and repair Questable Tractor quest saves",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "data/tractorquests.yaml", "Path to config YAML file")
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides the configured store)")

	rootCmd.AddCommand(
		newStatusCmd(opts),
		newSetCmd(opts),
		newResetCmd(opts),
		newMigrateCmd(opts),
		newHashTokenCmd(),
	)
	return rootCmd
}

// Execute runs questctl and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}
