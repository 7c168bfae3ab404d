package cli

import (
	"github.com/spf13/cobra"

	"github.com/lilac-ui/validity/ruleset"
)

// NewLintCmd creates the "lint" subcommand, which validates a rule file
// without checking any values against it.
func NewLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <rules-file>",
		Short: "Validate a rule file without checking values",
		Args:  cobra.ExactArgs(1),
		RunE:  runLint,
	}

	cmd.Flags().String("format", "text", "Output format: text | json")
	cmd.Flags().Bool("strict", false, "Treat warnings as errors")

	return cmd
}

func runLint(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	strict, _ := cmd.Flags().GetBool("strict")
	out := cmd.OutOrStdout()

	def, err := loadRules(args[0])
	if err != nil {
		return err
	}

	diags := def.Validate()
	printResult(out, checkResult{
		Valid:       !ruleset.HasErrors(diags),
		Messages:    []string{},
		Diagnostics: diags,
	}, format)

	if ruleset.HasErrors(diags) || (strict && len(diags) > 0) {
		return exitError(exitValidation, "rule file is invalid")
	}
	return nil
}
