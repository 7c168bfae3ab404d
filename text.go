package validity

import "strings"

// ValidationText is an immutable, ordered collection of human-readable
// validation messages. Message order is rule evaluation order, which makes
// aggregate text deterministic enough to assert on character-for-character.
//
// Two interned singletons mark the canonical shapes:
//
//   - TextNone: no rule produced a message (the identity for Combine).
//   - TextEmpty: a rule is present but silent (a single empty message).
//
// Construction functions return the singletons for those shapes, so identity
// comparison against TextNone and TextEmpty is a valid shortcut; Equal remains
// the general comparison.
type ValidationText struct {
	messages []string
}

// TextNone is the canonical "no message" text.
var TextNone = &ValidationText{}

// TextEmpty is the canonical "valid and silent" text: one empty message.
var TextEmpty = &ValidationText{messages: []string{""}}

// NewText builds a ValidationText from messages, preserving order.
// No messages yields TextNone; a single empty message yields TextEmpty.
func NewText(messages ...string) *ValidationText {
	return canonical(messages)
}

// Combine flattens texts in order, dropping nil entries and TextNone (the
// identity element). The collapsed result follows the same canonical rules
// as NewText.
func Combine(texts ...*ValidationText) *ValidationText {
	var merged []string
	for _, t := range texts {
		if t == nil || t == TextNone {
			continue
		}
		merged = append(merged, t.messages...)
	}
	return canonical(merged)
}

func canonical(messages []string) *ValidationText {
	switch {
	case len(messages) == 0:
		return TextNone
	case len(messages) == 1 && messages[0] == "":
		return TextEmpty
	default:
		out := make([]string, len(messages))
		copy(out, messages)
		return &ValidationText{messages: out}
	}
}

// Count returns the number of messages.
func (t *ValidationText) Count() int {
	return len(t.messages)
}

// At returns the message at position i. Like slice indexing, it panics when
// i is outside [0, Count).
func (t *ValidationText) At(i int) string {
	return t.messages[i]
}

// Messages returns a copy of the message slice.
func (t *ValidationText) Messages() []string {
	out := make([]string, len(t.messages))
	copy(out, t.messages)
	return out
}

// SingleLine joins all messages with the separator. TextNone yields "".
func (t *ValidationText) SingleLine(separator string) string {
	return strings.Join(t.messages, separator)
}

// Equal reports whether both texts carry the same messages in the same order.
func (t *ValidationText) Equal(other *ValidationText) bool {
	if t == other {
		return true
	}
	if other == nil {
		return false
	}
	if len(t.messages) != len(other.messages) {
		return false
	}
	for i, m := range t.messages {
		if other.messages[i] != m {
			return false
		}
	}
	return true
}
