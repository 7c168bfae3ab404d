package validity

import (
	"sync"

	"github.com/lilac-ui/validity/observe"
)

// Scope identifies which properties a component's failures are attributable
// to. It is an explicit tagged variant: a component is either unscoped (a
// whole-view-model or free-floating rule) or scoped to one or more property
// paths. The zero value is unscoped.
type Scope struct {
	scoped bool
	paths  []string
}

// Unscoped returns the scope for rules not attributable to any property.
func Unscoped() Scope {
	return Scope{}
}

// ScopedTo returns a scope covering the given property paths, in order.
// Empty paths are dropped.
func ScopedTo(paths ...string) Scope {
	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return Scope{}
	}
	return Scope{scoped: true, paths: kept}
}

// IsScoped reports whether the scope names any property.
func (s Scope) IsScoped() bool {
	return s.scoped
}

// Paths returns a copy of the scoped property paths (empty when unscoped).
func (s Scope) Paths() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// Contains reports whether path is one of the scoped paths. With exclusive
// set, it reports true only when path is the sole scoped path. Matching is
// whole-path equality: "Source.Name" never matches "Destination.Name".
func (s Scope) Contains(path string, exclusive bool) bool {
	if !s.scoped || path == "" {
		return false
	}
	if exclusive {
		return len(s.paths) == 1 && s.paths[0] == path
	}
	for _, p := range s.paths {
		if p == path {
			return true
		}
	}
	return false
}

// Component is one validation rule bound to a live value source. It exposes
// synchronous snapshot accessors plus a hot, deduplicated state stream.
//
// Reads and Subscribe lazily activate the component (connect its upstream
// sources) on first use. After Close, reads keep returning the frozen last
// state and subscriptions receive no further values.
type Component interface {
	// IsValid returns the latest computed validity.
	IsValid() bool

	// Text returns the latest computed message text.
	Text() *ValidationText

	// Subscribe registers fn on the state stream. The current state is
	// replayed synchronously before Subscribe returns.
	Subscribe(fn func(ValidationState)) observe.Subscription

	// Properties returns the ordered property paths this component is scoped
	// to (empty for unscoped components).
	Properties() []string

	// ContainsProperty reports whether the component is scoped to path; with
	// exclusive set, whether path is its sole scoped property.
	ContainsProperty(path string, exclusive bool) bool

	// Close tears down the upstream subscriptions. Idempotent.
	Close() error
}

// trigger subscribes a change callback to one upstream source. The engine
// stays generic over source value types by treating every source as a bare
// tick feed; state is recomputed from synchronous accessors on each tick.
type trigger func(onTick func()) observe.Subscription

// watch adapts any observable into a trigger.
func watch[T any](obs observe.Observable[T]) trigger {
	return func(onTick func()) observe.Subscription {
		return obs.Subscribe(func(T) { onTick() })
	}
}

// BasicComponent is the engine behind every construction variant: a pure
// compute function over the sources' current values plus the set of triggers
// that invalidate it.
//
// Activation is a two-state machine (idle, connected) with one idempotent
// transition. connect subscribes each trigger exactly once; the multicast
// subscriber list then fans out deduplicated states without re-evaluating the
// sources per subscriber.
type BasicComponent struct {
	scope   Scope
	compute func() ValidationState

	mu        sync.Mutex
	triggers  []trigger
	connected bool
	closed    bool
	current   ValidationState
	upstream  []observe.Subscription
	subs      map[int]func(ValidationState)
	nextSub   int
}

// newComponent builds the engine and eagerly computes the initial state, so
// IsValid is correct immediately after construction even before activation.
func newComponent(scope Scope, compute func() ValidationState, triggers ...trigger) *BasicComponent {
	c := &BasicComponent{
		scope:    scope,
		compute:  compute,
		triggers: triggers,
		subs:     make(map[int]func(ValidationState)),
	}
	c.current = compute()
	return c
}

// connect performs the idle -> connected transition. It never reconnects.
func (c *BasicComponent) connect() {
	c.mu.Lock()
	if c.connected || c.closed {
		c.mu.Unlock()
		return
	}
	c.connected = true
	c.current = c.compute()
	triggers := c.triggers
	c.mu.Unlock()

	// Subscribing replays each source's current value, which re-enters
	// refresh; the dedup check makes that a no-op.
	for _, t := range triggers {
		sub := t(c.refresh)
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = sub.Close()
			continue
		}
		c.upstream = append(c.upstream, sub)
		c.mu.Unlock()
	}
}

// refresh recomputes the state and fans it out when it actually changed.
func (c *BasicComponent) refresh() {
	c.mu.Lock()
	if c.closed || !c.connected {
		c.mu.Unlock()
		return
	}
	next := c.compute()
	if next.Equal(c.current) {
		c.mu.Unlock()
		return
	}
	c.current = next
	fns := make([]func(ValidationState), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}

// IsValid returns the latest computed validity, activating the component if
// needed.
func (c *BasicComponent) IsValid() bool {
	c.connect()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.IsValid()
}

// Text returns the latest computed message text, activating the component if
// needed.
func (c *BasicComponent) Text() *ValidationText {
	c.connect()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Text()
}

// Value returns the latest ValidationState, satisfying
// observe.Observable[ValidationState].
func (c *BasicComponent) Value() ValidationState {
	c.connect()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Subscribe registers fn on the deduplicated state stream and replays the
// current state synchronously. After Close, fn still receives the frozen
// state once but never again.
func (c *BasicComponent) Subscribe(fn func(ValidationState)) observe.Subscription {
	c.connect()
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	if !c.closed {
		c.subs[id] = fn
	}
	cur := c.current
	c.mu.Unlock()

	fn(cur)

	return observe.NewSubscription(func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	})
}

// Properties returns the ordered property paths this component is scoped to.
func (c *BasicComponent) Properties() []string {
	return c.scope.Paths()
}

// ContainsProperty reports whether the component is scoped to path.
func (c *BasicComponent) ContainsProperty(path string, exclusive bool) bool {
	return c.scope.Contains(path, exclusive)
}

// Close tears down upstream subscriptions and freezes the state. Idempotent;
// reads after Close keep returning the last computed state.
func (c *BasicComponent) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	upstream := c.upstream
	c.upstream = nil
	c.subs = make(map[int]func(ValidationState))
	c.mu.Unlock()

	for _, sub := range upstream {
		_ = sub.Close()
	}
	return nil
}

// Compile-time interface checks.
var (
	_ Component                           = (*BasicComponent)(nil)
	_ observe.Observable[ValidationState] = (*BasicComponent)(nil)
)
