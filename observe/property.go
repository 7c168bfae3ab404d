package observe

import "sync"

// Property is a hot, multicast observable value identified by a dotted path.
// New subscribers immediately receive the current value; subsequent values
// are delivered only when they differ from the previous one
// (distinct-until-changed).
//
// The mutex guards only the subscriber list and the stored value; callbacks
// run outside the lock on the caller's goroutine.
type Property[T comparable] struct {
	path string

	mu    sync.Mutex
	value T
	subs  map[int]func(T)
	next  int
}

// NewProperty creates a property with the given dotted path and initial value.
// It panics on an empty path; use NewValue for a free-floating observable that
// is not attributable to any property.
func NewProperty[T comparable](path string, initial T) *Property[T] {
	if path == "" {
		panic("observe: property path must not be empty")
	}
	return &Property[T]{
		path:  path,
		value: initial,
		subs:  make(map[int]func(T)),
	}
}

// NewValue creates an unnamed observable value. It behaves exactly like a
// property but has no path and therefore cannot be matched by property-scoped
// bindings.
func NewValue[T comparable](initial T) *Property[T] {
	return &Property[T]{
		value: initial,
		subs:  make(map[int]func(T)),
	}
}

// Path returns the property's dotted path ("" for values created by NewValue).
func (p *Property[T]) Path() string {
	return p.path
}

// Value returns the current value.
func (p *Property[T]) Value() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// Set stores a new value and notifies subscribers. Setting a value equal to
// the current one is a no-op.
func (p *Property[T]) Set(v T) {
	p.mu.Lock()
	if v == p.value {
		p.mu.Unlock()
		return
	}
	p.value = v
	fns := make([]func(T), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Subscribe registers fn and synchronously replays the current value to it
// before returning.
func (p *Property[T]) Subscribe(fn func(T)) Subscription {
	p.mu.Lock()
	id := p.next
	p.next++
	p.subs[id] = fn
	cur := p.value
	p.mu.Unlock()

	fn(cur)

	return NewSubscription(func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	})
}

// Compile-time interface check.
var _ Observable[string] = (*Property[string])(nil)
