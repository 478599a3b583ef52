// Command sqlinterp renders statement jobs described in YAML.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/sqlinterp/cmd/sqlinterp/commands"
)

var (
	// Version information (set by build)
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:           "sqlinterp",
		Short:         "Render parameterized SQL templates",
		Long:          "sqlinterp assembles SQL statements from templates and prints the SQL with its parameters",
		Version:       fmt.Sprintf("%s (commit: %s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var opts commands.GlobalOptions
	rootCmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Log debug output to stderr")

	rootCmd.AddCommand(commands.NewRenderCommand(&opts))

	return rootCmd.Execute()
}
