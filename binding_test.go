package validity

import (
	"errors"
	"strings"
	"testing"

	"github.com/lilac-ui/validity/observe"
)

// label is a minimal UI sink recording the last written text.
type label struct {
	text   string
	writes int
}

func (l *label) SetText(s string) {
	l.text = s
	l.writes++
}

func TestBindText_WritesAggregateOnChange(t *testing.T) {
	vc := NewContext()
	defer vc.Close()
	name := observe.NewProperty("Name", "")
	mustAdd(t, vc, NewRule(name, func(v string) bool { return v != "" }, "Name is required"))

	b := NewBinder()
	out := &label{}
	binding, err := b.BindText(vc, "ErrorLabel", out)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	defer binding.Close()

	if out.text != "Name is required" {
		t.Errorf("initial write = %q, want the failure message", out.text)
	}

	name.Set("petal")
	if out.text != "" {
		t.Errorf("after fix, write = %q, want empty", out.text)
	}
}

func TestBindText_CustomFormatter(t *testing.T) {
	vc := NewContext()
	defer vc.Close()
	name := observe.NewProperty("Name", "")
	mustAdd(t, vc, NewRule(name, func(v string) bool { return v != "" }, "required"))
	mustAdd(t, vc, NewRule(name, func(v string) bool { return len(v) >= 5 }, "too short"))

	b := NewBinder()
	out := &label{}
	prefixing := FormatterFunc(func(text *ValidationText) string {
		if text.Count() == 0 {
			return ""
		}
		return "Error: " + text.SingleLine("; ")
	})
	binding, err := b.BindText(vc, "ErrorLabel", out, WithFormatter(prefixing))
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	defer binding.Close()

	if out.text != "Error: required; too short" {
		t.Errorf("got %q", out.text)
	}
}

func TestBindIsValid_WritesFlag(t *testing.T) {
	vc := NewContext()
	defer vc.Close()
	name := observe.NewProperty("Name", "ok")
	mustAdd(t, vc, NewRule(name, func(v string) bool { return v != "" }, "required"))

	var got []bool
	b := NewBinder()
	binding, err := b.BindIsValid(vc, "SubmitEnabled", BoolSinkFunc(func(v bool) {
		got = append(got, v)
	}))
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	defer binding.Close()

	name.Set("")
	name.Set("back")

	want := []bool{true, false, true}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBinder_RejectsSecondBindingForSameTarget(t *testing.T) {
	vc := NewContext()
	defer vc.Close()

	b := NewBinder()
	out := &label{}
	binding, err := b.BindText(vc, "ErrorLabel", out)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	if _, err := b.BindText(vc, "ErrorLabel", &label{}); !errors.Is(err, ErrTargetAlreadyBound) {
		t.Fatalf("got %v, want ErrTargetAlreadyBound", err)
	}

	// Closing frees the target for rebinding.
	if err := binding.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	rebound, err := b.BindText(vc, "ErrorLabel", out)
	if err != nil {
		t.Fatalf("rebind after close: %v", err)
	}
	defer rebound.Close()
}

func TestBindProperty_StrictRejectsMultipleComponents(t *testing.T) {
	vc := NewContext()
	defer vc.Close()
	name := observe.NewProperty("Name", "")
	mustAdd(t, vc, NewRule(name, func(v string) bool { return v != "" }, "required"))
	mustAdd(t, vc, NewRule(name, func(v string) bool { return len(v) >= 5 }, "too short"))

	b := NewBinder()
	_, err := b.BindProperty(vc, "Name", "NameError", &label{})
	if !errors.Is(err, ErrMultipleValidationNotSupported) {
		t.Fatalf("got %v, want ErrMultipleValidationNotSupported", err)
	}
	if !strings.Contains(err.Error(), "Name") {
		t.Errorf("error %q should name the offending property", err)
	}
	if !strings.Contains(err.Error(), "BindPropertyAll") {
		t.Errorf("error %q should point at the multi-rule entry point", err)
	}
}

func TestBindPropertyAll_AggregatesScopedRulesInOrder(t *testing.T) {
	vc := NewContext()
	defer vc.Close()
	name := observe.NewProperty("Name", "")
	mustAdd(t, vc, NewRule(name, func(v string) bool { return v != "" }, "Name must not be empty."))
	mustAdd(t, vc, NewRule(name, func(v string) bool { return len(v) >= 5 }, "Minimum length is 5"))

	b := NewBinder()
	out := &label{}
	binding, err := b.BindPropertyAll(vc, "Name", "NameError", out)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	defer binding.Close()

	if out.text != "Name must not be empty. Minimum length is 5" {
		t.Errorf("got %q, want both messages", out.text)
	}

	// Length 3 passes the first rule; only the second contributes.
	name.Set("som")
	if out.text != "Minimum length is 5" {
		t.Errorf("got %q, want only the second rule's message", out.text)
	}
}

func TestBindProperty_PathEqualityDoesNotLeakAcrossBranches(t *testing.T) {
	vc := NewContext()
	defer vc.Close()

	sourceName := observe.NewProperty(observe.Path("Source", "Name"), "")
	destName := observe.NewProperty(observe.Path("Destination", "Name"), "")
	mustAdd(t, vc, NewRule(sourceName, func(v string) bool { return v != "" }, "Source text"))
	mustAdd(t, vc, NewRule(destName, func(v string) bool { return v != "" }, "Destination text"))

	b := NewBinder()
	srcOut := &label{}
	dstOut := &label{}
	srcBind, err := b.BindProperty(vc, "Source.Name", "SourceError", srcOut)
	if err != nil {
		t.Fatalf("bind source: %v", err)
	}
	defer srcBind.Close()
	dstBind, err := b.BindProperty(vc, "Destination.Name", "DestinationError", dstOut)
	if err != nil {
		t.Fatalf("bind destination: %v", err)
	}
	defer dstBind.Close()

	if srcOut.text != "Source text" {
		t.Errorf("source label = %q, want %q", srcOut.text, "Source text")
	}
	if dstOut.text != "Destination text" {
		t.Errorf("destination label = %q, want %q", dstOut.text, "Destination text")
	}
}

func TestBindProperty_EmptyPathIsError(t *testing.T) {
	vc := NewContext()
	defer vc.Close()

	b := NewBinder()
	if _, err := b.BindProperty(vc, "", "X", &label{}); !errors.Is(err, ErrEmptyPropertyPath) {
		t.Errorf("got %v, want ErrEmptyPropertyPath", err)
	}
}

func TestBind_ArgumentErrors(t *testing.T) {
	vc := NewContext()
	defer vc.Close()
	b := NewBinder()

	if _, err := b.BindText(nil, "X", &label{}); !errors.Is(err, ErrNilContext) {
		t.Errorf("nil context: got %v", err)
	}
	if _, err := b.BindText(vc, "", &label{}); !errors.Is(err, ErrEmptyTarget) {
		t.Errorf("empty target: got %v", err)
	}
	if _, err := b.BindText(vc, "X", nil); !errors.Is(err, ErrNilSink) {
		t.Errorf("nil sink: got %v", err)
	}
}

func TestBinding_CloseStopsWrites(t *testing.T) {
	vc := NewContext()
	defer vc.Close()
	name := observe.NewProperty("Name", "ok")
	mustAdd(t, vc, NewRule(name, func(v string) bool { return v != "" }, "required"))

	b := NewBinder()
	out := &label{}
	binding, err := b.BindText(vc, "ErrorLabel", out)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	writes := out.writes
	if err := binding.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	name.Set("")

	if out.writes != writes {
		t.Errorf("sink written after binding close: %d -> %d", writes, out.writes)
	}
}
