package observe

import "sync"

// Map derives an observable by applying fn to every value of src.
// The derived observable is as hot as its source; it holds no state of its
// own and recomputes Value on demand.
func Map[T, U any](src Observable[T], fn func(T) U) Observable[U] {
	return &mapped[T, U]{src: src, fn: fn}
}

type mapped[T, U any] struct {
	src Observable[T]
	fn  func(T) U
}

func (m *mapped[T, U]) Value() U {
	return m.fn(m.src.Value())
}

func (m *mapped[T, U]) Subscribe(fn func(U)) Subscription {
	return m.src.Subscribe(func(v T) {
		fn(m.fn(v))
	})
}

// Distinct suppresses consecutive duplicate values per subscriber. The
// replayed initial value is always delivered.
func Distinct[T comparable](src Observable[T]) Observable[T] {
	return &distinct[T]{src: src}
}

type distinct[T comparable] struct {
	src Observable[T]
}

func (d *distinct[T]) Value() T {
	return d.src.Value()
}

func (d *distinct[T]) Subscribe(fn func(T)) Subscription {
	var mu sync.Mutex
	var last T
	first := true
	return d.src.Subscribe(func(v T) {
		mu.Lock()
		if !first && v == last {
			mu.Unlock()
			return
		}
		first = false
		last = v
		mu.Unlock()
		fn(v)
	})
}
