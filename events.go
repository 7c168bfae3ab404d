package validity

import "time"

// EventKind identifies the type of event emitted by a validation context.
type EventKind string

const (
	// EventRuleAdded is emitted when a component joins a context.
	EventRuleAdded EventKind = "rule_added"

	// EventRuleRemoved is emitted when a component leaves a context.
	EventRuleRemoved EventKind = "rule_removed"

	// EventStateChanged is emitted when the context's combined state changes.
	EventStateChanged EventKind = "state_changed"

	// EventContextClosed is emitted once, when the context is closed.
	EventContextClosed EventKind = "context_closed"
)

// String returns the string representation of the EventKind.
func (k EventKind) String() string {
	return string(k)
}

// Event is a structured record of what happened inside a validation context.
// Observers (journals, metrics, traces) subscribe to the context's event feed
// rather than reaching into its member list.
type Event struct {
	// Kind identifies the event type.
	Kind EventKind

	// ContextID is the unique identifier of the emitting context.
	ContextID string

	// Seq is a per-context monotonically increasing sequence number,
	// starting at 1. It is assigned by the context at emit time.
	Seq uint64

	// Paths lists the property paths of the component involved
	// (empty for state-change and close events, and for unscoped rules).
	Paths []string

	// Valid is the combined validity after the event.
	Valid bool

	// Text is the combined message text after the event, single-line joined.
	Text string

	// Time is when the event occurred.
	Time time.Time
}

// NewEvent creates an event with the current timestamp.
func NewEvent(kind EventKind, contextID string) Event {
	return Event{
		Kind:      kind,
		ContextID: contextID,
		Time:      time.Now(),
	}
}

// WithPaths sets the involved property paths on the event.
func (e Event) WithPaths(paths []string) Event {
	e.Paths = paths
	return e
}

// WithState sets the combined validity and text on the event.
func (e Event) WithState(valid bool, text string) Event {
	e.Valid = valid
	e.Text = text
	return e
}
