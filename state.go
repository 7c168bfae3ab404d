package validity

// ValidationState is an immutable (valid, text) pair carried through live
// streams. Consecutive equal states are deduplicated by the component engine,
// which is why equality is structural over both fields.
type ValidationState struct {
	valid bool
	text  *ValidationText
}

// StateValid is the canonical valid-and-silent state.
var StateValid = ValidationState{valid: true, text: TextEmpty}

// NewState creates a state from a validity flag and a text.
// A nil text is a usage error: every state must carry a (possibly canonical)
// text so downstream aggregation never has to special-case absence.
func NewState(valid bool, text *ValidationText) (ValidationState, error) {
	if text == nil {
		return ValidationState{}, ErrNilText
	}
	return ValidationState{valid: valid, text: text}, nil
}

// NewStateMessage creates a state from a validity flag and a single message.
func NewStateMessage(valid bool, message string) ValidationState {
	return ValidationState{valid: valid, text: NewText(message)}
}

// newState is the internal infallible constructor; callers guarantee a
// non-nil text.
func newState(valid bool, text *ValidationText) ValidationState {
	if text == nil {
		text = TextNone
	}
	return ValidationState{valid: valid, text: text}
}

// IsValid reports the validity flag.
func (s ValidationState) IsValid() bool {
	return s.valid
}

// Text returns the state's text. A zero-value state reports TextNone.
func (s ValidationState) Text() *ValidationText {
	if s.text == nil {
		return TextNone
	}
	return s.text
}

// Equal reports structural equality over both fields.
func (s ValidationState) Equal(other ValidationState) bool {
	return s.valid == other.valid && s.Text().Equal(other.Text())
}
