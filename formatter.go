package validity

// Formatter turns an aggregate ValidationText into the string written to a
// UI-facing sink.
type Formatter interface {
	Format(t *ValidationText) string
}

// SingleLineFormatter joins all messages with a separator. The zero value
// joins with a single space. The value is immutable; construct one fresh per
// call site rather than sharing mutable configuration.
type SingleLineFormatter struct {
	Separator string
}

// Format joins the text's messages into one line.
func (f SingleLineFormatter) Format(t *ValidationText) string {
	sep := f.Separator
	if sep == "" {
		sep = " "
	}
	return t.SingleLine(sep)
}

// FormatterFunc adapts a function to the Formatter interface, e.g. for
// prefixing formatters.
type FormatterFunc func(t *ValidationText) string

// Format invokes the function.
func (f FormatterFunc) Format(t *ValidationText) string {
	return f(t)
}
