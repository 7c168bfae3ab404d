// Package ruleset loads declarative validation rule files and compiles them
// into validation components against observable string properties. A rule
// file maps property paths to ordered rule lists:
//
//	rules:
//	  Name:
//	    - kind: required
//	    - kind: min_length
//	      min: 5
//	      message: Minimum length is 5
//	  Age:
//	    - kind: range
//	      min: 0
//	      max: 130
package ruleset

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Rule kinds understood by the compiler.
const (
	KindRequired  = "required"
	KindMinLength = "min_length"
	KindMaxLength = "max_length"
	KindPattern   = "pattern"
	KindRange     = "range"
)

// RuleDef is one declarative rule for a property.
type RuleDef struct {
	Kind    string   `yaml:"kind"`
	Min     *float64 `yaml:"min,omitempty"`
	Max     *float64 `yaml:"max,omitempty"`
	Pattern string   `yaml:"pattern,omitempty"`
	Message string   `yaml:"message,omitempty"`
}

// Definition is a parsed rule file.
type Definition struct {
	Rules map[string][]RuleDef `yaml:"rules"`
}

// Diagnostic reports a problem in a rule file.
type Diagnostic struct {
	Code     string `json:"code"`           // e.g. "RS-001"
	Severity string `json:"severity"`       // "error" or "warning"
	Message  string `json:"message"`        // human-readable description
	Path     string `json:"path,omitempty"` // rule path, e.g. "rules.Name[1]"
}

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Load parses a YAML rule file.
func Load(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("ruleset: parse: %w", err)
	}
	return &def, nil
}

// Validate checks the definition for structural errors: unknown rule kinds,
// missing bounds, and invalid patterns.
func (d *Definition) Validate() []Diagnostic {
	diags := make([]Diagnostic, 0)

	if len(d.Rules) == 0 {
		diags = append(diags, Diagnostic{
			Code:     "RS-000",
			Severity: SeverityWarning,
			Message:  "rule file defines no rules",
		})
		return diags
	}

	for _, path := range sortedPaths(d.Rules) {
		for i, rule := range d.Rules[path] {
			rulePath := fmt.Sprintf("rules.%s[%d]", path, i)
			diags = append(diags, validateRule(rule, rulePath)...)
		}
	}
	return diags
}

func validateRule(rule RuleDef, rulePath string) []Diagnostic {
	diags := make([]Diagnostic, 0)

	switch rule.Kind {
	case KindRequired:
		// No parameters.
	case KindMinLength:
		if rule.Min == nil {
			diags = append(diags, errDiag("RS-002",
				"min_length rule requires \"min\"", rulePath))
		}
	case KindMaxLength:
		if rule.Max == nil {
			diags = append(diags, errDiag("RS-002",
				"max_length rule requires \"max\"", rulePath))
		}
	case KindPattern:
		if rule.Pattern == "" {
			diags = append(diags, errDiag("RS-002",
				"pattern rule requires \"pattern\"", rulePath))
		} else if _, err := regexp.Compile(rule.Pattern); err != nil {
			diags = append(diags, errDiag("RS-003",
				fmt.Sprintf("invalid pattern: %v", err), rulePath))
		}
	case KindRange:
		if rule.Min == nil && rule.Max == nil {
			diags = append(diags, errDiag("RS-002",
				"range rule requires \"min\" or \"max\"", rulePath))
		}
	case "":
		diags = append(diags, errDiag("RS-001",
			"rule is missing required field \"kind\"", rulePath))
	default:
		diags = append(diags, errDiag("RS-001",
			fmt.Sprintf("unknown rule kind %q", rule.Kind), rulePath))
	}

	if rule.Min != nil && rule.Max != nil && *rule.Min > *rule.Max {
		diags = append(diags, errDiag("RS-004",
			fmt.Sprintf("min %v exceeds max %v", *rule.Min, *rule.Max), rulePath))
	}

	return diags
}

func errDiag(code, message, path string) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: SeverityError,
		Message:  message,
		Path:     path,
	}
}
