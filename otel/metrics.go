// Package otel provides OpenTelemetry integration for validation context
// events.
package otel

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/lilac-ui/validity"
	"github.com/lilac-ui/validity/observe"
)

// MetricsHandler translates validation events into OpenTelemetry metrics:
// counters for state changes and failures, an up/down counter for active
// rules, and a histogram for how long a context stayed invalid.
type MetricsHandler struct {
	stateChanges    metric.Int64Counter
	failures        metric.Int64Counter
	activeRules     metric.Int64UpDownCounter
	invalidDuration metric.Float64Histogram

	mu           sync.Mutex
	invalidSince map[string]time.Time // contextID -> start of current invalid episode
}

// NewMetricsHandler creates a MetricsHandler that uses the given meter to
// create its instruments.
func NewMetricsHandler(meter metric.Meter) (*MetricsHandler, error) {
	stateChanges, err := meter.Int64Counter("validity.state.changes",
		metric.WithDescription("Number of combined validation state changes"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter("validity.failures",
		metric.WithDescription("Number of transitions into an invalid state"),
	)
	if err != nil {
		return nil, err
	}

	activeRules, err := meter.Int64UpDownCounter("validity.rules.active",
		metric.WithDescription("Number of registered validation rules"),
	)
	if err != nil {
		return nil, err
	}

	invalidDuration, err := meter.Float64Histogram("validity.invalid.duration",
		metric.WithDescription("Duration a context stayed invalid in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &MetricsHandler{
		stateChanges:    stateChanges,
		failures:        failures,
		activeRules:     activeRules,
		invalidDuration: invalidDuration,
		invalidSince:    make(map[string]time.Time),
	}, nil
}

// Handle processes a validation event and records the appropriate metrics.
func (h *MetricsHandler) Handle(e validity.Event) {
	switch e.Kind {
	case validity.EventRuleAdded:
		h.activeRules.Add(context.Background(), 1, contextAttrs(e))
	case validity.EventRuleRemoved:
		h.activeRules.Add(context.Background(), -1, contextAttrs(e))
	case validity.EventStateChanged:
		h.handleStateChanged(e)
	case validity.EventContextClosed:
		h.endEpisode(e, e.Time)
	}
}

// Watch subscribes the handler to a validation context's event feed.
func (h *MetricsHandler) Watch(vc *validity.Context) observe.Subscription {
	return vc.SubscribeEvents(h.Handle)
}

func (h *MetricsHandler) handleStateChanged(e validity.Event) {
	ctx := context.Background()
	h.stateChanges.Add(ctx, 1, metric.WithAttributes(
		attribute.String("context_id", e.ContextID),
		attribute.Bool("valid", e.Valid),
	))

	if e.Valid {
		h.endEpisode(e, e.Time)
		return
	}

	h.failures.Add(ctx, 1, contextAttrs(e))
	h.mu.Lock()
	if _, active := h.invalidSince[e.ContextID]; !active {
		h.invalidSince[e.ContextID] = e.Time
	}
	h.mu.Unlock()
}

// endEpisode records the invalid-episode duration if one was running.
func (h *MetricsHandler) endEpisode(e validity.Event, end time.Time) {
	h.mu.Lock()
	start, active := h.invalidSince[e.ContextID]
	if active {
		delete(h.invalidSince, e.ContextID)
	}
	h.mu.Unlock()

	if active {
		h.invalidDuration.Record(context.Background(), end.Sub(start).Seconds(), contextAttrs(e))
	}
}

func contextAttrs(e validity.Event) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("context_id", e.ContextID),
	)
}
