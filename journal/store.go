// Package journal persists validation context events for audit and replay.
// It is an optional adjunct: contexts work without a journal, and a journal
// observes a context purely through its public event feed.
package journal

import (
	"context"

	"github.com/lilac-ui/validity"
)

// Store persists validation events.
type Store interface {
	// Append stores an event.
	Append(ctx context.Context, event validity.Event) error

	// List returns events for a validation context, optionally filtered.
	// afterSeq: return events with Seq > afterSeq (0 means all)
	// limit: max events to return (0 means no limit)
	List(ctx context.Context, contextID string, afterSeq uint64, limit int) ([]validity.Event, error)

	// LatestSeq returns the highest Seq for a validation context (0 if none).
	LatestSeq(ctx context.Context, contextID string) (uint64, error)
}
