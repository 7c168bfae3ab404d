package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lilac-ui/validity/cli"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "validity",
	Short: "Validity rule file CLI",
	Long:  "Validity — a CLI for linting declarative validation rule files and checking values against them.",
	// SilenceUsage prevents printing usage on every error
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("validity version %s\n", version))

	rootCmd.AddCommand(cli.NewCheckCmd())
	rootCmd.AddCommand(cli.NewLintCmd())
}
