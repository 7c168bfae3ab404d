package validity

import (
	"sync"

	"github.com/lilac-ui/validity/observe"
)

// Helper is the registration token returned by the rule convenience path.
// It is the unit of "undo this one rule": closing the token removes the
// component from its context and closes it.
type Helper struct {
	once sync.Once
	ctx  *Context
	comp Component
}

// Component returns the component this token registered.
func (h *Helper) Component() Component {
	return h.comp
}

// Close removes the component from the context and closes it. Idempotent.
// A context that has already been closed has detached the component itself,
// so that case is not an error here.
func (h *Helper) Close() error {
	h.once.Do(func() {
		// Remove fails only when the context is already closed; in that case
		// the context has detached and closed the component itself, and
		// Component.Close is idempotent anyway.
		_ = h.ctx.Remove(h.comp)
		_ = h.comp.Close()
	})
	return nil
}

// Rule registers a component through the convenience path. The context owns
// components registered this way: closing the context closes them too.
func (vc *Context) Rule(c Component) (*Helper, error) {
	if c == nil {
		return nil, ErrComponentRequired
	}
	vc.mu.Lock()
	if vc.closed {
		vc.mu.Unlock()
		return nil, ErrContextClosed
	}
	vc.owned[c] = true
	vc.mu.Unlock()

	if err := vc.Add(c); err != nil {
		vc.mu.Lock()
		delete(vc.owned, c)
		vc.mu.Unlock()
		return nil, err
	}
	return &Helper{ctx: vc, comp: c}, nil
}

// RuleFor registers a single-property rule with a static failure message and
// returns its token. It is the shorthand most view-models use.
func RuleFor[T comparable](vc *Context, prop *observe.Property[T], valid func(T) bool, message string) (*Helper, error) {
	return vc.Rule(NewRule(prop, valid, message))
}

// RuleForFunc registers a single-property rule with a value-dependent message.
func RuleForFunc[T comparable](vc *Context, prop *observe.Property[T], valid func(T) bool, message func(T) string) (*Helper, error) {
	return vc.Rule(NewRuleFunc(prop, valid, message))
}

// RuleForObservable registers a free-floating observable rule with a static
// failure message.
func RuleForObservable[T any](vc *Context, obs observe.Observable[T], valid func(T) bool, message string) (*Helper, error) {
	return vc.Rule(NewObservableRule(obs, valid, message))
}
