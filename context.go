package validity

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/lilac-ui/validity/observe"
)

// Context aggregates a dynamic, insertion-ordered set of validation
// components into one combined validity and one combined text. It republishes
// on any member's change, always recomputing the full snapshot from every
// member's synchronous accessors so near-simultaneous member changes can
// never produce a torn aggregate.
//
// A context follows the same lazy activation discipline as a component: it
// subscribes to its members on first read or first subscriber, exactly once.
// Mutating a closed context fails with ErrContextClosed; Close and the
// ClearRules operations are idempotent.
type Context struct {
	id string

	mu         sync.Mutex
	components []Component
	owned      map[Component]bool
	upstream   map[Component]observe.Subscription
	connected  bool
	closed     bool
	current    ValidationState
	subs       map[int]func(ValidationState)
	nextSub    int
	eventSubs  map[int]func(Event)
	nextEvt    int
	seq        uint64
}

// NewContext creates an empty validation context. An empty context is
// vacuously valid.
func NewContext() *Context {
	return &Context{
		id:        uuid.NewString(),
		owned:     make(map[Component]bool),
		upstream:  make(map[Component]observe.Subscription),
		current:   newState(true, TextNone),
		subs:      make(map[int]func(ValidationState)),
		eventSubs: make(map[int]func(Event)),
	}
}

// ID returns the context's unique identifier, used to correlate journal
// entries and telemetry.
func (vc *Context) ID() string {
	return vc.id
}

// Add appends a component to the context. The component's state joins the
// combined aggregate immediately; its stream is subscribed only once the
// context itself is activated.
func (vc *Context) Add(c Component) error {
	if c == nil {
		return ErrComponentRequired
	}
	vc.mu.Lock()
	if vc.closed {
		vc.mu.Unlock()
		return fmt.Errorf("%w: cannot add component", ErrContextClosed)
	}
	vc.components = append(vc.components, c)
	connected := vc.connected
	vc.mu.Unlock()

	vc.emit(NewEvent(EventRuleAdded, vc.id).WithPaths(c.Properties()))
	if connected {
		vc.hook(c)
		vc.recompute()
	}
	return nil
}

// Remove detaches a component by reference. Removing a component that is not
// present is a no-op. Remove does not close the component; ownership stays
// with whoever constructed it (rule helpers close theirs on token disposal).
func (vc *Context) Remove(c Component) error {
	vc.mu.Lock()
	if vc.closed {
		vc.mu.Unlock()
		return fmt.Errorf("%w: cannot remove component", ErrContextClosed)
	}
	found := vc.detachLocked(c)
	vc.mu.Unlock()

	if found {
		vc.emit(NewEvent(EventRuleRemoved, vc.id).WithPaths(c.Properties()))
		vc.recompute()
	}
	return nil
}

// detachLocked removes c from the member list and closes its upstream
// subscription. Caller holds vc.mu.
func (vc *Context) detachLocked(c Component) bool {
	for i, member := range vc.components {
		if member == c {
			vc.components = append(vc.components[:i], vc.components[i+1:]...)
			if sub, ok := vc.upstream[c]; ok {
				delete(vc.upstream, c)
				_ = sub.Close()
			}
			delete(vc.owned, c)
			return true
		}
	}
	return false
}

// ClearRules removes every component. Components registered through Rule are
// closed; externally constructed components are only detached. ClearRules is
// idempotent and, unlike Add/Remove, safe to call on a closed context.
func (vc *Context) ClearRules() {
	vc.clearWhere(func(Component) bool { return true })
}

// ClearRulesFor removes the components exclusively scoped to the given
// property path. Idempotent, and safe on a closed context.
func (vc *Context) ClearRulesFor(path string) {
	vc.clearWhere(func(c Component) bool {
		return c.ContainsProperty(path, true)
	})
}

func (vc *Context) clearWhere(match func(Component) bool) {
	vc.mu.Lock()
	if vc.closed {
		vc.mu.Unlock()
		return
	}
	var removed []Component
	var toClose []Component
	kept := vc.components[:0]
	for _, c := range vc.components {
		if !match(c) {
			kept = append(kept, c)
			continue
		}
		if sub, ok := vc.upstream[c]; ok {
			delete(vc.upstream, c)
			_ = sub.Close()
		}
		if vc.owned[c] {
			toClose = append(toClose, c)
			delete(vc.owned, c)
		}
		removed = append(removed, c)
	}
	vc.components = kept
	vc.mu.Unlock()

	for _, c := range toClose {
		_ = c.Close()
	}
	for _, c := range removed {
		vc.emit(NewEvent(EventRuleRemoved, vc.id).WithPaths(c.Properties()))
	}
	if len(removed) > 0 {
		vc.recompute()
	}
}

// Components returns a snapshot of the member list in insertion order.
func (vc *Context) Components() []Component {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	out := make([]Component, len(vc.components))
	copy(out, vc.components)
	return out
}

// IsValid returns the combined validity: true iff every member is valid
// (vacuously true for an empty context). Activates the context on first use.
func (vc *Context) IsValid() bool {
	vc.connect()
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.current.IsValid()
}

// Text returns the combined text: the ordered concatenation of every
// currently-invalid member's text. Valid members contribute the canonical
// none text, which combining drops.
func (vc *Context) Text() *ValidationText {
	vc.connect()
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.current.Text()
}

// Value returns the combined ValidationState, satisfying
// observe.Observable[ValidationState].
func (vc *Context) Value() ValidationState {
	vc.connect()
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.current
}

// Subscribe registers fn on the combined state stream and synchronously
// replays the current combined state.
func (vc *Context) Subscribe(fn func(ValidationState)) observe.Subscription {
	vc.connect()
	vc.mu.Lock()
	id := vc.nextSub
	vc.nextSub++
	if !vc.closed {
		vc.subs[id] = fn
	}
	cur := vc.current
	vc.mu.Unlock()

	fn(cur)

	return observe.NewSubscription(func() {
		vc.mu.Lock()
		delete(vc.subs, id)
		vc.mu.Unlock()
	})
}

// IsValidObservable exposes the combined validity as a boolean observable for
// view-model consumers (e.g. command enablement).
func (vc *Context) IsValidObservable() observe.Observable[bool] {
	return observe.Map[ValidationState, bool](vc, func(s ValidationState) bool {
		return s.IsValid()
	})
}

// SubscribeEvents registers fn on the context's structured event feed
// (rule added/removed, state changed, context closed).
func (vc *Context) SubscribeEvents(fn func(Event)) observe.Subscription {
	vc.mu.Lock()
	id := vc.nextEvt
	vc.nextEvt++
	if !vc.closed {
		vc.eventSubs[id] = fn
	}
	vc.mu.Unlock()

	return observe.NewSubscription(func() {
		vc.mu.Lock()
		delete(vc.eventSubs, id)
		vc.mu.Unlock()
	})
}

// IsClosed reports whether Close has been called.
func (vc *Context) IsClosed() bool {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.closed
}

// Close tears down member subscriptions, closes every component registered
// through Rule, and freezes the combined state. Idempotent.
func (vc *Context) Close() error {
	vc.mu.Lock()
	if vc.closed {
		vc.mu.Unlock()
		return nil
	}
	vc.closed = true
	upstream := vc.upstream
	vc.upstream = make(map[Component]observe.Subscription)
	var toClose []Component
	for c := range vc.owned {
		toClose = append(toClose, c)
	}
	vc.owned = make(map[Component]bool)
	vc.subs = make(map[int]func(ValidationState))
	vc.mu.Unlock()

	for _, sub := range upstream {
		_ = sub.Close()
	}
	for _, c := range toClose {
		_ = c.Close()
	}
	vc.emit(NewEvent(EventContextClosed, vc.id))

	vc.mu.Lock()
	vc.eventSubs = make(map[int]func(Event))
	vc.mu.Unlock()
	return nil
}

// connect performs the idle -> connected transition: subscribe every current
// member exactly once, then compute the initial combined state.
func (vc *Context) connect() {
	vc.mu.Lock()
	if vc.connected || vc.closed {
		vc.mu.Unlock()
		return
	}
	vc.connected = true
	comps := make([]Component, len(vc.components))
	copy(comps, vc.components)
	vc.mu.Unlock()

	for _, c := range comps {
		vc.hook(c)
	}
	vc.recompute()
}

// hook subscribes the context to one member's state stream. The member's
// replayed initial value lands in recompute, where deduplication makes it a
// no-op unless the aggregate actually moved.
func (vc *Context) hook(c Component) {
	sub := c.Subscribe(func(ValidationState) {
		vc.recompute()
	})
	vc.mu.Lock()
	if vc.closed {
		vc.mu.Unlock()
		_ = sub.Close()
		return
	}
	vc.upstream[c] = sub
	vc.mu.Unlock()
}

// recompute re-reads every member's synchronous accessors, folds them into a
// combined state, and publishes when the result differs from the last one.
func (vc *Context) recompute() {
	vc.mu.Lock()
	if vc.closed || !vc.connected {
		vc.mu.Unlock()
		return
	}
	comps := make([]Component, len(vc.components))
	copy(comps, vc.components)
	vc.mu.Unlock()

	valid := true
	texts := make([]*ValidationText, 0, len(comps))
	for _, c := range comps {
		if c.IsValid() {
			texts = append(texts, TextNone)
			continue
		}
		valid = false
		texts = append(texts, c.Text())
	}
	next := newState(valid, Combine(texts...))

	vc.mu.Lock()
	if vc.closed || next.Equal(vc.current) {
		vc.mu.Unlock()
		return
	}
	vc.current = next
	fns := make([]func(ValidationState), 0, len(vc.subs))
	for _, fn := range vc.subs {
		fns = append(fns, fn)
	}
	vc.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
	vc.emit(NewEvent(EventStateChanged, vc.id))
}

// emit assigns the next sequence number, stamps the current combined state,
// and fans the event out to event subscribers.
func (vc *Context) emit(e Event) {
	vc.mu.Lock()
	vc.seq++
	e.Seq = vc.seq
	e = e.WithState(vc.current.IsValid(), vc.current.Text().SingleLine(" "))
	fns := make([]func(Event), 0, len(vc.eventSubs))
	for _, fn := range vc.eventSubs {
		fns = append(fns, fn)
	}
	vc.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Compile-time interface check.
var _ observe.Observable[ValidationState] = (*Context)(nil)
