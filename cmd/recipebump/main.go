package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/recipebump/internal/cli"
	"github.com/example/recipebump/internal/version"
	"github.com/example/recipebump/internal/wire"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "recipebump",
		Short:   "recipebump - version bumper for recipe declarations",
		Version: version.String(),
		Long: `recipebump rewrites a recipe declaration for a new upstream version and
opens a change proposal against the upstream recipes repository.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			wire.SetVerbose(verbose)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.BumpCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
