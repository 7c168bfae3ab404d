package validity

import (
	"strings"
	"testing"
)

func TestNewText_CanonicalShapes(t *testing.T) {
	if NewText() != TextNone {
		t.Error("NewText() should return the interned TextNone")
	}
	if NewText("") != TextEmpty {
		t.Error("NewText(\"\") should return the interned TextEmpty")
	}
	single := NewText("broken")
	if single.Count() != 1 || single.At(0) != "broken" {
		t.Errorf("got count=%d, want single message", single.Count())
	}
	many := NewText("a", "b")
	if many.Count() != 2 {
		t.Errorf("got count=%d, want 2", many.Count())
	}
}

func TestValidationText_SingleLineMatchesJoin(t *testing.T) {
	msgs := []string{"first", "second", "third"}
	text := NewText(msgs...)

	for _, sep := range []string{" ", "; ", "\n"} {
		if got, want := text.SingleLine(sep), strings.Join(msgs, sep); got != want {
			t.Errorf("SingleLine(%q) = %q, want %q", sep, got, want)
		}
	}
	if TextNone.SingleLine(" ") != "" {
		t.Error("TextNone.SingleLine should be empty")
	}
}

func TestCombine_NoneIsIdentity(t *testing.T) {
	if Combine(TextNone, TextNone) != TextNone {
		t.Error("combining two none texts should be the interned TextNone")
	}
	if Combine(TextNone, TextEmpty) != TextEmpty {
		t.Error("none combined with empty should be the interned TextEmpty")
	}
	if Combine() != TextNone {
		t.Error("empty combine should be the interned TextNone")
	}
}

func TestCombine_TwoEmptiesAreNotInterned(t *testing.T) {
	got := Combine(TextEmpty, TextEmpty)
	if got.Count() != 2 {
		t.Fatalf("got count=%d, want 2", got.Count())
	}
	if got == TextEmpty {
		t.Error("two-empty combine must not be identity-equal to TextEmpty")
	}
}

func TestCombine_PreservesOrderAndDropsNil(t *testing.T) {
	got := Combine(NewText("a"), nil, TextNone, NewText("b", "c"))
	want := []string{"a", "b", "c"}
	if got.Count() != len(want) {
		t.Fatalf("got count=%d, want %d", got.Count(), len(want))
	}
	for i, m := range want {
		if got.At(i) != m {
			t.Errorf("At(%d) = %q, want %q", i, got.At(i), m)
		}
	}
}

func TestValidationText_StructuralEquality(t *testing.T) {
	a := NewText("x", "y")
	b := NewText("x", "y")
	if a == b {
		t.Fatal("independently constructed texts should be distinct instances")
	}
	if !a.Equal(b) {
		t.Error("texts with identical contents must compare equal")
	}
	if a.Equal(NewText("x")) {
		t.Error("texts with different contents must not compare equal")
	}
	if a.Equal(nil) {
		t.Error("nil comparison must be false")
	}
}

func TestValidationText_AtPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range index")
		}
	}()
	NewText("only").At(1)
}

func TestNewState_RequiresText(t *testing.T) {
	if _, err := NewState(true, nil); err != ErrNilText {
		t.Errorf("got %v, want ErrNilText", err)
	}
	s, err := NewState(false, NewText("bad"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.IsValid() || s.Text().At(0) != "bad" {
		t.Errorf("state did not carry constructor values: %v %q", s.IsValid(), s.Text().SingleLine(" "))
	}
}

func TestValidationState_Equality(t *testing.T) {
	a := NewStateMessage(false, "nope")
	b := NewStateMessage(false, "nope")
	if !a.Equal(b) {
		t.Error("structurally identical states must compare equal")
	}
	if a.Equal(NewStateMessage(true, "nope")) {
		t.Error("differing validity must not compare equal")
	}
	if a.Equal(NewStateMessage(false, "other")) {
		t.Error("differing text must not compare equal")
	}
	if !StateValid.Equal(StateValid) {
		t.Error("StateValid must equal itself")
	}
	if StateValid.Text() != TextEmpty {
		t.Error("StateValid must carry the canonical empty text")
	}
}
