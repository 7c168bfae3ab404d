package journal

import (
	"context"
	"log/slog"

	"github.com/lilac-ui/validity"
	"github.com/lilac-ui/validity/observe"
)

// Observer writes a validation context's events to a Store. Append failures
// are logged, not propagated: persistence must never break the validation
// feed it observes.
type Observer struct {
	store  Store
	logger *slog.Logger
}

// NewObserver creates an Observer writing to store.
func NewObserver(store Store, logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer{
		store:  store,
		logger: logger,
	}
}

// Handle persists a single event to the store.
func (o *Observer) Handle(event validity.Event) {
	if err := o.store.Append(context.Background(), event); err != nil {
		o.logger.Error("failed to persist validation event",
			"context_id", event.ContextID,
			"kind", event.Kind,
			"seq", event.Seq,
			"error", err,
		)
	}
}

// Watch subscribes the observer to a validation context's event feed.
// Close the returned subscription to stop persisting.
func (o *Observer) Watch(vc *validity.Context) observe.Subscription {
	return vc.SubscribeEvents(o.Handle)
}
