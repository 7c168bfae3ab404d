package ruleset

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lilac-ui/validity"
	"github.com/lilac-ui/validity/observe"
)

// Compile registers one validation component per rule on a fresh context.
// Properties are looked up by path in props; rules that reference an unknown
// property produce a diagnostic and are skipped. Properties are processed in
// lexical path order so component registration order is deterministic; rules
// within a property keep their file order.
//
// Compile refuses to build when the definition has structural errors: the
// returned context is nil and the diagnostics describe the problems.
func (d *Definition) Compile(props map[string]*observe.Property[string]) (*validity.Context, []Diagnostic) {
	diags := d.Validate()
	if HasErrors(diags) {
		return nil, diags
	}

	vc := validity.NewContext()
	for _, path := range sortedPaths(d.Rules) {
		prop, ok := props[path]
		if !ok {
			diags = append(diags, errDiag("RS-005",
				fmt.Sprintf("no property registered for path %q", path),
				"rules."+path))
			continue
		}
		for _, rule := range d.Rules[path] {
			comp := buildRule(rule, prop)
			if _, err := vc.Rule(comp); err != nil {
				// Only possible on a closed context, which a fresh one is not.
				diags = append(diags, errDiag("RS-006", err.Error(), "rules."+path))
			}
		}
	}

	if HasErrors(diags) {
		_ = vc.Close()
		return nil, diags
	}
	return vc, diags
}

func buildRule(rule RuleDef, prop *observe.Property[string]) validity.Component {
	msg := func(fallback string) string {
		if rule.Message != "" {
			return rule.Message
		}
		return fallback
	}

	name := leafName(prop.Path())
	switch rule.Kind {
	case KindRequired:
		return validity.NewRule(prop, func(v string) bool {
			return strings.TrimSpace(v) != ""
		}, msg(name+" is required"))
	case KindMinLength:
		min := int(*rule.Min)
		return validity.NewRule(prop, func(v string) bool {
			return utf8.RuneCountInString(v) >= min
		}, msg(fmt.Sprintf("%s must be at least %d characters", name, min)))
	case KindMaxLength:
		max := int(*rule.Max)
		return validity.NewRule(prop, func(v string) bool {
			return utf8.RuneCountInString(v) <= max
		}, msg(fmt.Sprintf("%s must be at most %d characters", name, max)))
	case KindPattern:
		// Validate has already rejected invalid patterns.
		re := regexp.MustCompile(rule.Pattern)
		return validity.NewRule(prop, re.MatchString,
			msg(fmt.Sprintf("%s must match %s", name, rule.Pattern)))
	case KindRange:
		min, max := rule.Min, rule.Max
		return validity.NewRuleFunc(prop, func(v string) bool {
			n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return false
			}
			if min != nil && n < *min {
				return false
			}
			if max != nil && n > *max {
				return false
			}
			return true
		}, func(v string) string {
			if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
				return msg(name + " must be a number")
			}
			return msg(rangeMessage(name, min, max))
		})
	default:
		// Unreachable after Validate, kept for safety.
		panic(fmt.Sprintf("ruleset: unknown rule kind %q", rule.Kind))
	}
}

func rangeMessage(name string, min, max *float64) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("%s must be between %v and %v", name, *min, *max)
	case min != nil:
		return fmt.Sprintf("%s must be at least %v", name, *min)
	default:
		return fmt.Sprintf("%s must be at most %v", name, *max)
	}
}

func leafName(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}

func sortedPaths(rules map[string][]RuleDef) []string {
	paths := make([]string, 0, len(rules))
	for p := range rules {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
