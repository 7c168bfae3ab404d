package ruleset

import (
	"strings"
	"testing"

	"github.com/lilac-ui/validity/observe"
)

const sampleRules = `
rules:
  Name:
    - kind: required
    - kind: min_length
      min: 5
      message: Minimum length is 5
  Email:
    - kind: pattern
      pattern: "^[^@]+@[^@]+$"
  Age:
    - kind: range
      min: 0
      max: 130
`

func TestLoadParsesRuleFile(t *testing.T) {
	def, err := Load([]byte(sampleRules))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := len(def.Rules); got != 3 {
		t.Fatalf("len(Rules) = %d, want 3", got)
	}
	name := def.Rules["Name"]
	if len(name) != 2 {
		t.Fatalf("len(Rules[Name]) = %d, want 2", len(name))
	}
	if name[0].Kind != KindRequired {
		t.Errorf("Rules[Name][0].Kind = %q, want %q", name[0].Kind, KindRequired)
	}
	if name[1].Min == nil || *name[1].Min != 5 {
		t.Errorf("Rules[Name][1].Min = %v, want 5", name[1].Min)
	}
	if name[1].Message != "Minimum length is 5" {
		t.Errorf("Rules[Name][1].Message = %q", name[1].Message)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	if _, err := Load([]byte("rules: [not a map")); err == nil {
		t.Fatal("Load() with malformed YAML did not fail")
	}
}

func TestValidateAcceptsWellFormedRules(t *testing.T) {
	def, err := Load([]byte(sampleRules))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diags := def.Validate(); HasErrors(diags) {
		t.Fatalf("Validate() reported errors: %v", diags)
	}
}

func TestValidateDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		wantCode string
		wantPath string
	}{
		{
			name: "unknown kind",
			yaml: `
rules:
  Name:
    - kind: shouty
`,
			wantCode: "RS-001",
			wantPath: "rules.Name[0]",
		},
		{
			name: "missing kind",
			yaml: `
rules:
  Name:
    - min: 3
`,
			wantCode: "RS-001",
			wantPath: "rules.Name[0]",
		},
		{
			name: "min_length without min",
			yaml: `
rules:
  Name:
    - kind: min_length
`,
			wantCode: "RS-002",
			wantPath: "rules.Name[0]",
		},
		{
			name: "invalid pattern",
			yaml: `
rules:
  Email:
    - kind: pattern
      pattern: "(["
`,
			wantCode: "RS-003",
			wantPath: "rules.Email[0]",
		},
		{
			name: "inverted range",
			yaml: `
rules:
  Age:
    - kind: range
      min: 10
      max: 1
`,
			wantCode: "RS-004",
			wantPath: "rules.Age[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Load([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			diags := def.Validate()
			if !HasErrors(diags) {
				t.Fatalf("Validate() reported no errors, want code %s", tt.wantCode)
			}
			found := false
			for _, d := range diags {
				if d.Code == tt.wantCode && d.Path == tt.wantPath {
					found = true
				}
			}
			if !found {
				t.Errorf("diagnostics %v missing code %s at %s", diags, tt.wantCode, tt.wantPath)
			}
		})
	}
}

func TestValidateWarnsOnEmptyFile(t *testing.T) {
	def, err := Load([]byte("rules: {}"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	diags := def.Validate()
	if HasErrors(diags) {
		t.Fatalf("Validate() reported errors: %v", diags)
	}
	if len(diags) != 1 || diags[0].Severity != SeverityWarning {
		t.Fatalf("Validate() = %v, want single warning", diags)
	}
}

func TestCompileEnforcesRules(t *testing.T) {
	def, err := Load([]byte(sampleRules))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	name := observe.NewProperty("Name", "")
	email := observe.NewProperty("Email", "ada@example.com")
	age := observe.NewProperty("Age", "36")
	vc, diags := def.Compile(map[string]*observe.Property[string]{
		"Name":  name,
		"Email": email,
		"Age":   age,
	})
	if HasErrors(diags) {
		t.Fatalf("Compile() reported errors: %v", diags)
	}
	defer vc.Close()

	if vc.IsValid() {
		t.Fatal("context valid with empty required Name")
	}

	name.Set("som")
	line := vc.Text().SingleLine(" ")
	if !strings.Contains(line, "Minimum length is 5") {
		t.Errorf("Text() = %q, want custom min_length message", line)
	}

	name.Set("something")
	if !vc.IsValid() {
		t.Fatalf("context invalid after satisfying Name rules: %v", vc.Text().Messages())
	}

	age.Set("240")
	if vc.IsValid() {
		t.Fatal("context valid with Age out of range")
	}
	if got := vc.Text().SingleLine(" "); !strings.Contains(got, "between 0 and 130") {
		t.Errorf("Text() = %q, want range message", got)
	}

	age.Set("not-a-number")
	if got := vc.Text().SingleLine(" "); !strings.Contains(got, "must be a number") {
		t.Errorf("Text() = %q, want numeric parse message", got)
	}
}

func TestCompileLengthRulesCountCharactersNotBytes(t *testing.T) {
	def, err := Load([]byte(`
rules:
  Name:
    - kind: min_length
      min: 5
    - kind: max_length
      max: 6
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	name := observe.NewProperty("Name", "héllo") // 5 characters, 6 bytes
	vc, diags := def.Compile(map[string]*observe.Property[string]{"Name": name})
	if HasErrors(diags) {
		t.Fatalf("Compile() reported errors: %v", diags)
	}
	defer vc.Close()

	if !vc.IsValid() {
		t.Fatalf("5-character name failed length rules: %v", vc.Text().Messages())
	}

	name.Set("héll") // 4 characters but 5 bytes
	if vc.IsValid() {
		t.Error("4-character name passed min_length 5")
	}

	name.Set("héllöö") // 6 characters but 8 bytes
	if !vc.IsValid() {
		t.Errorf("6-character name failed length rules: %v", vc.Text().Messages())
	}

	name.Set("héllooo") // 7 characters
	if vc.IsValid() {
		t.Error("7-character name passed max_length 6")
	}
}

func TestCompileReportsUnknownProperty(t *testing.T) {
	def, err := Load([]byte(sampleRules))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	vc, diags := def.Compile(map[string]*observe.Property[string]{
		"Name": observe.NewProperty("Name", "ok name"),
	})
	if vc != nil {
		t.Fatal("Compile() returned a context despite missing properties")
	}
	codes := make([]string, 0, len(diags))
	for _, d := range diags {
		codes = append(codes, d.Code)
	}
	want := 0
	for _, c := range codes {
		if c == "RS-005" {
			want++
		}
	}
	if want != 2 {
		t.Fatalf("diagnostics %v, want RS-005 for Email and Age", diags)
	}
}

func TestCompileRefusesInvalidDefinition(t *testing.T) {
	def := &Definition{Rules: map[string][]RuleDef{
		"Name": {{Kind: "shouty"}},
	}}
	vc, diags := def.Compile(nil)
	if vc != nil {
		t.Fatal("Compile() returned a context for an invalid definition")
	}
	if !HasErrors(diags) {
		t.Fatal("Compile() returned no error diagnostics")
	}
}
