// Package observe provides the observable-value primitives the validation
// engine composes with: hot, replay-on-subscribe properties, subscription
// handles with idempotent teardown, and small combinators.
//
// Delivery is synchronous and push-based. A subscriber callback runs on the
// goroutine that changed the value; no scheduler or event loop is owned here.
package observe

import (
	"strings"
	"sync"
)

// Subscription is a handle to an active subscription.
// Close unsubscribes and releases resources; it is safe to call more than once.
type Subscription interface {
	Close() error
}

// funcSubscription runs its stop function exactly once.
type funcSubscription struct {
	once sync.Once
	stop func()
}

func (s *funcSubscription) Close() error {
	s.once.Do(s.stop)
	return nil
}

// NewSubscription wraps a teardown function as a Subscription.
// The function is invoked at most once, on the first Close.
func NewSubscription(stop func()) Subscription {
	return &funcSubscription{stop: stop}
}

// Observable is a live value stream with a readable current value.
// Subscribe invokes fn synchronously with the current value before returning,
// and thereafter on every change until the subscription is closed.
type Observable[T any] interface {
	Subscribe(fn func(T)) Subscription
	Value() T
}

// Path joins property name segments into a dotted path descriptor,
// e.g. Path("Source", "Name") == "Source.Name". Paths are the stable keys
// used for component-to-property matching; two leaf properties that share a
// name but live on different branches produce distinct paths.
//
// Path panics when called with no segments or with an empty segment, since a
// blank path cannot identify a property.
func Path(segments ...string) string {
	if len(segments) == 0 {
		panic("observe: Path requires at least one segment")
	}
	for _, s := range segments {
		if s == "" {
			panic("observe: Path segment must not be empty")
		}
	}
	return strings.Join(segments, ".")
}
