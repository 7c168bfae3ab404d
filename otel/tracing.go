package otel

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lilac-ui/validity"
	"github.com/lilac-ui/validity/observe"
)

// TracingHandler translates validation events into OpenTelemetry spans. Each
// invalid episode of a context (the stretch from the aggregate flipping
// invalid until it is valid again or the context closes) becomes one span
// carrying the aggregate message text.
type TracingHandler struct {
	tracer trace.Tracer

	mu    sync.RWMutex
	spans map[string]trace.Span // contextID -> active invalid-episode span
}

// NewTracingHandler creates a TracingHandler that uses the given tracer.
func NewTracingHandler(tracer trace.Tracer) *TracingHandler {
	return &TracingHandler{
		tracer: tracer,
		spans:  make(map[string]trace.Span),
	}
}

// Handle processes a validation event and starts or ends spans accordingly.
func (h *TracingHandler) Handle(e validity.Event) {
	switch e.Kind {
	case validity.EventStateChanged:
		if e.Valid {
			h.endEpisode(e.ContextID, codes.Ok, "")
		} else {
			h.startEpisode(e)
		}
	case validity.EventContextClosed:
		// A context closed while invalid ends its episode unresolved.
		h.endEpisode(e.ContextID, codes.Error, "context closed while invalid")
	}
}

// Watch subscribes the handler to a validation context's event feed.
func (h *TracingHandler) Watch(vc *validity.Context) observe.Subscription {
	return vc.SubscribeEvents(h.Handle)
}

// ActiveSpanContext returns the span context of the context's running
// invalid-episode span, or an invalid SpanContext when none is active.
func (h *TracingHandler) ActiveSpanContext(contextID string) trace.SpanContext {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if span, ok := h.spans[contextID]; ok {
		return span.SpanContext()
	}
	return trace.SpanContext{}
}

func (h *TracingHandler) startEpisode(e validity.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, running := h.spans[e.ContextID]; running {
		return
	}

	_, span := h.tracer.Start(context.Background(), "validation.invalid",
		trace.WithTimestamp(e.Time),
		trace.WithAttributes(
			attribute.String("context_id", e.ContextID),
			attribute.String("validation.text", e.Text),
		),
	)
	h.spans[e.ContextID] = span
}

func (h *TracingHandler) endEpisode(contextID string, code codes.Code, description string) {
	h.mu.Lock()
	span, ok := h.spans[contextID]
	if ok {
		delete(h.spans, contextID)
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	span.SetStatus(code, description)
	span.End()
}
