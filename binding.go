package validity

import (
	"fmt"
	"sync"

	"github.com/lilac-ui/validity/observe"
)

// TextSink is a UI-facing write target for formatted validation text. The
// engine only ever assigns; there is no acknowledgement or backpressure.
type TextSink interface {
	SetText(s string)
}

// TextSinkFunc adapts a function to TextSink.
type TextSinkFunc func(s string)

// SetText invokes the function.
func (f TextSinkFunc) SetText(s string) { f(s) }

// BoolSink is a UI-facing write target for the combined validity flag.
type BoolSink interface {
	SetValid(valid bool)
}

// BoolSinkFunc adapts a function to BoolSink.
type BoolSinkFunc func(valid bool)

// SetValid invokes the function.
func (f BoolSinkFunc) SetValid(valid bool) { f(valid) }

// BindOption configures a binding.
type BindOption func(*bindConfig)

type bindConfig struct {
	formatter Formatter
}

// WithFormatter overrides the default single-line formatter for a binding.
func WithFormatter(f Formatter) BindOption {
	return func(c *bindConfig) {
		c.formatter = f
	}
}

// Binder connects validation contexts to UI-facing sinks and enforces the
// one-live-binding-per-target rule: a target key (typically the view
// property's name) can be served by at most one binding at a time; the key is
// freed when the binding is closed.
type Binder struct {
	mu    sync.Mutex
	bound map[string]*Binding
}

// NewBinder creates an empty binder. A view typically owns one binder for
// its lifetime.
func NewBinder() *Binder {
	return &Binder{bound: make(map[string]*Binding)}
}

// Binding is a live connection from aggregated validation state to one sink.
// Closing it stops future writes and frees the target key. Terminal: a closed
// binding cannot be reused.
type Binding struct {
	target string
	once   sync.Once
	sub    observe.Subscription
	free   func()
}

// Target returns the bound target key.
func (b *Binding) Target() string {
	return b.target
}

// Close unsubscribes from the context and releases the target key.
// Idempotent.
func (b *Binding) Close() error {
	b.once.Do(func() {
		_ = b.sub.Close()
		b.free()
	})
	return nil
}

// BindText subscribes the whole-context aggregate text to sink, formatted by
// the configured formatter (default: single-line join with a space).
func (b *Binder) BindText(vc *Context, target string, sink TextSink, opts ...BindOption) (*Binding, error) {
	cfg := newBindConfig(opts)
	if err := b.checkArgs(vc, target, sink == nil); err != nil {
		return nil, err
	}
	return b.start(target, func() observe.Subscription {
		last, first := "", true
		return vc.Subscribe(func(s ValidationState) {
			text := cfg.formatter.Format(s.Text())
			if !first && text == last {
				return
			}
			first, last = false, text
			sink.SetText(text)
		})
	})
}

// BindIsValid subscribes the combined validity flag to sink.
func (b *Binder) BindIsValid(vc *Context, target string, sink BoolSink) (*Binding, error) {
	if err := b.checkArgs(vc, target, sink == nil); err != nil {
		return nil, err
	}
	return b.start(target, func() observe.Subscription {
		last, first := false, true
		return vc.Subscribe(func(s ValidationState) {
			if !first && s.IsValid() == last {
				return
			}
			first, last = false, s.IsValid()
			sink.SetValid(s.IsValid())
		})
	})
}

// BindProperty is the strict single-rule entry point: it subscribes the text
// of the one component scoped to the given property path. When more than one
// component targets the path it fails with ErrMultipleValidationNotSupported
// naming the path; use BindPropertyAll to aggregate several rules onto one
// target.
func (b *Binder) BindProperty(vc *Context, path, target string, sink TextSink, opts ...BindOption) (*Binding, error) {
	if path == "" {
		return nil, ErrEmptyPropertyPath
	}
	if n := countScoped(vc, path); n > 1 {
		return nil, fmt.Errorf("%w: property %q has %d components", ErrMultipleValidationNotSupported, path, n)
	}
	return b.bindScoped(vc, path, target, sink, opts)
}

// BindPropertyAll is the multi-rule-aware entry point: every component scoped
// to the path contributes its text, pre-aggregated with the same ordered
// concatenation the context itself uses.
func (b *Binder) BindPropertyAll(vc *Context, path, target string, sink TextSink, opts ...BindOption) (*Binding, error) {
	if path == "" {
		return nil, ErrEmptyPropertyPath
	}
	return b.bindScoped(vc, path, target, sink, opts)
}

func (b *Binder) bindScoped(vc *Context, path, target string, sink TextSink, opts []BindOption) (*Binding, error) {
	cfg := newBindConfig(opts)
	if err := b.checkArgs(vc, target, sink == nil); err != nil {
		return nil, err
	}
	return b.start(target, func() observe.Subscription {
		last, first := "", true
		return vc.Subscribe(func(ValidationState) {
			// Re-filter the member set on every tick so the binding follows
			// rule removal and re-registration instead of holding a stale
			// component reference.
			text := cfg.formatter.Format(scopedText(vc, path))
			if !first && text == last {
				return
			}
			first, last = false, text
			sink.SetText(text)
		})
	})
}

// scopedText folds the texts of the currently-invalid components scoped to
// path, in insertion order.
func scopedText(vc *Context, path string) *ValidationText {
	var texts []*ValidationText
	for _, c := range vc.Components() {
		if !c.ContainsProperty(path, false) {
			continue
		}
		if c.IsValid() {
			texts = append(texts, TextNone)
			continue
		}
		texts = append(texts, c.Text())
	}
	return Combine(texts...)
}

func countScoped(vc *Context, path string) int {
	n := 0
	for _, c := range vc.Components() {
		if c.ContainsProperty(path, false) {
			n++
		}
	}
	return n
}

func newBindConfig(opts []BindOption) *bindConfig {
	cfg := &bindConfig{formatter: SingleLineFormatter{}}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (b *Binder) checkArgs(vc *Context, target string, nilSink bool) error {
	if vc == nil {
		return ErrNilContext
	}
	if target == "" {
		return ErrEmptyTarget
	}
	if nilSink {
		return ErrNilSink
	}
	return nil
}

// start reserves the target key, then activates the subscription. The key is
// reserved before subscribing so a reentrant bind from a sink callback cannot
// race the reservation.
func (b *Binder) start(target string, subscribe func() observe.Subscription) (*Binding, error) {
	b.mu.Lock()
	if _, exists := b.bound[target]; exists {
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrTargetAlreadyBound, target)
	}
	binding := &Binding{target: target}
	binding.free = func() {
		b.mu.Lock()
		delete(b.bound, target)
		b.mu.Unlock()
	}
	b.bound[target] = binding
	b.mu.Unlock()

	binding.sub = subscribe()
	return binding, nil
}
