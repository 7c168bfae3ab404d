// Package validity is a reactive property-validation engine for view-models.
//
// View-models declare rules over observable properties; each rule becomes a
// validation component exposing a live, deduplicated stream of
// (valid, messages) states. A Context aggregates many components into one
// combined validity and a deterministically ordered message text, and the
// binding layer multiplexes that aggregate onto UI-facing sinks with
// one-live-binding-per-target enforcement and disposal-driven teardown.
//
// The engine owns no scheduler: delivery is synchronous and push-based on
// the mutating goroutine, and activation is a lazy, idempotent
// subscribe-once transition performed on first read or first subscriber.
//
// Subpackages:
//
//	observe — observable property primitives (hot, replay-on-subscribe)
//	journal — validation event persistence (in-memory and SQLite)
//	otel    — OpenTelemetry metrics and tracing over context events
//	ruleset — declarative YAML rule files compiled into components
//	cli     — the validity command line interface (see cmd/validity)
package validity
