// Package cli implements the validity command line interface.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lilac-ui/validity/observe"
	"github.com/lilac-ui/validity/ruleset"
)

// NewCheckCmd creates the "check" subcommand.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a values file against a rule file",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}

	cmd.Flags().String("rules", "", "Rule file (YAML)")
	cmd.Flags().String("values", "", "Values file (YAML map of property path to value)")
	cmd.Flags().String("format", "text", "Output format: text | json")
	cmd.Flags().Bool("strict", false, "Treat warnings as errors")
	_ = cmd.MarkFlagRequired("rules")
	_ = cmd.MarkFlagRequired("values")

	return cmd
}

// checkResult is the JSON output shape of the check command.
type checkResult struct {
	Valid       bool                 `json:"valid"`
	Messages    []string             `json:"messages"`
	Diagnostics []ruleset.Diagnostic `json:"diagnostics"`
}

func runCheck(cmd *cobra.Command, _ []string) error {
	rulesPath, _ := cmd.Flags().GetString("rules")
	valuesPath, _ := cmd.Flags().GetString("values")
	format, _ := cmd.Flags().GetString("format")
	strict, _ := cmd.Flags().GetBool("strict")
	out := cmd.OutOrStdout()

	def, err := loadRules(rulesPath)
	if err != nil {
		return err
	}
	values, err := loadValues(valuesPath)
	if err != nil {
		return err
	}

	props := make(map[string]*observe.Property[string], len(values))
	for path, value := range values {
		props[path] = observe.NewProperty(path, value)
	}

	vc, diags := def.Compile(props)
	if vc == nil {
		printResult(out, checkResult{Messages: []string{}, Diagnostics: diags}, format)
		return exitError(exitValidation, "rule file is invalid")
	}
	defer vc.Close()

	result := checkResult{
		Valid:       vc.IsValid(),
		Messages:    vc.Text().Messages(),
		Diagnostics: diags,
	}
	printResult(out, result, format)

	hasWarns := len(diags) > 0
	if !result.Valid || (strict && hasWarns) {
		return exitError(exitValidation, "validation failed")
	}
	return nil
}

func loadRules(path string) (*ruleset.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, exitError(exitFileNotFound, "file not found: %s", path)
		}
		return nil, fmt.Errorf("reading rule file: %w", err)
	}
	return ruleset.Load(data)
}

// loadValues parses a flat YAML map of property path to value. Scalar values
// of any YAML type are accepted and rendered as strings, so `Age: 36` works
// without quoting.
func loadValues(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, exitError(exitFileNotFound, "file not found: %s", path)
		}
		return nil, fmt.Errorf("reading values file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing values file: %w", err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
			values[k] = ""
		case string:
			values[k] = v
		case bool, int, int64, uint64, float64:
			values[k] = fmt.Sprintf("%v", v)
		default:
			return nil, fmt.Errorf("values file: %s: expected a scalar, got %T", k, v)
		}
	}
	return values, nil
}

// printResult writes the check outcome in the requested format.
func printResult(w io.Writer, result checkResult, format string) {
	if format == "json" {
		printResultJSON(w, result)
		return
	}
	printResultText(w, result)
}

func printResultText(w io.Writer, result checkResult) {
	for _, d := range result.Diagnostics {
		sev := strings.ToUpper(d.Severity)
		if d.Path != "" {
			fmt.Fprintf(w, "%s [%s]: %s (at %s)\n", sev, d.Code, d.Message, d.Path)
		} else {
			fmt.Fprintf(w, "%s [%s]: %s\n", sev, d.Code, d.Message)
		}
	}

	if ruleset.HasErrors(result.Diagnostics) {
		fmt.Fprintf(w, "\n%d rule file %s\n",
			len(result.Diagnostics), pluralize("problem", len(result.Diagnostics)))
		return
	}

	msgs := append([]string(nil), result.Messages...)
	sort.Strings(msgs)
	for _, m := range msgs {
		fmt.Fprintf(w, "INVALID: %s\n", m)
	}

	if result.Valid {
		fmt.Fprintln(w, "Valid!")
	} else {
		fmt.Fprintf(w, "\n%d %s\n", len(msgs), pluralize("failure", len(msgs)))
	}
}

func printResultJSON(w io.Writer, result checkResult) {
	if result.Messages == nil {
		result.Messages = []string{}
	}
	if result.Diagnostics == nil {
		result.Diagnostics = []ruleset.Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
}

// pluralize returns the singular or plural form of a word based on count.
func pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
