package journal

import (
	"context"
	"sync"

	"github.com/lilac-ui/validity"
)

// MemStore is a thread-safe in-memory event store.
type MemStore struct {
	mu     sync.RWMutex
	events map[string][]validity.Event // contextID -> events
}

// NewMemStore creates a new in-memory event store.
func NewMemStore() *MemStore {
	return &MemStore{
		events: make(map[string][]validity.Event),
	}
}

func (s *MemStore) Append(_ context.Context, event validity.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ContextID] = append(s.events[event.ContextID], event)
	return nil
}

func (s *MemStore) List(_ context.Context, contextID string, afterSeq uint64, limit int) ([]validity.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.events[contextID]
	var result []validity.Event

	for _, e := range all {
		if afterSeq > 0 && e.Seq <= afterSeq {
			continue
		}
		result = append(result, e)
		if limit > 0 && len(result) >= limit {
			break
		}
	}

	return result, nil
}

func (s *MemStore) LatestSeq(_ context.Context, contextID string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := s.events[contextID]
	if len(events) == 0 {
		return 0, nil
	}

	var maxSeq uint64
	for _, e := range events {
		if e.Seq > maxSeq {
			maxSeq = e.Seq
		}
	}
	return maxSeq, nil
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)
