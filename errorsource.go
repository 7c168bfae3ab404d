package validity

import (
	"sort"
	"sync"

	"github.com/lilac-ui/validity/observe"
)

// ErrorSource projects a validation context into an errors-by-property query
// interface with per-property change notifications, the shape data-error
// frameworks expect.
//
// It remembers every property path any member has ever mentioned. When an
// unscoped component (a whole-view-model rule) changes, its failure cannot be
// attributed to one property, so every remembered path is re-notified. That
// is a deliberate approximation, not precise attribution.
type ErrorSource struct {
	vc *Context

	mu    sync.Mutex
	known map[string]bool
	last  map[string][]string
	subs  map[int]func(path string)
	next  int

	stateSub observe.Subscription
	eventSub observe.Subscription
}

// NewErrorSource creates an adapter over the context and activates it.
func NewErrorSource(vc *Context) (*ErrorSource, error) {
	if vc == nil {
		return nil, ErrNilContext
	}
	s := &ErrorSource{
		vc:    vc,
		known: make(map[string]bool),
		last:  make(map[string][]string),
		subs:  make(map[int]func(string)),
	}
	s.remember(vc.Components())
	s.eventSub = vc.SubscribeEvents(func(e Event) {
		if e.Kind == EventRuleAdded {
			s.rememberPaths(e.Paths)
		}
	})
	s.stateSub = vc.Subscribe(func(ValidationState) {
		s.refresh()
	})
	return s, nil
}

// ErrorsFor returns the current error messages for the property path, in rule
// insertion order. An empty path returns the messages for every property,
// grouped by path in lexical path order.
func (s *ErrorSource) ErrorsFor(path string) []string {
	if path == "" {
		return s.allErrors()
	}
	var out []string
	for _, msg := range s.collect()[path] {
		out = append(out, msg)
	}
	return out
}

// HasErrors reports whether any property currently has error messages.
func (s *ErrorSource) HasErrors() bool {
	return len(s.collect()) > 0
}

// OnErrorsChanged registers fn to be invoked with each property path whose
// error list changed.
func (s *ErrorSource) OnErrorsChanged(fn func(path string)) observe.Subscription {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return observe.NewSubscription(func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	})
}

// Close detaches the adapter from the context. Idempotent.
func (s *ErrorSource) Close() error {
	_ = s.stateSub.Close()
	_ = s.eventSub.Close()
	return nil
}

func (s *ErrorSource) remember(comps []Component) {
	for _, c := range comps {
		s.rememberPaths(c.Properties())
	}
}

func (s *ErrorSource) rememberPaths(paths []string) {
	s.mu.Lock()
	for _, p := range paths {
		s.known[p] = true
	}
	s.mu.Unlock()
}

// collect computes the current per-path error lists from the member set. An
// invalid component with no text contributes the canonical none text, i.e.
// nothing. Unscoped invalid components attach their messages to every
// remembered path.
func (s *ErrorSource) collect() map[string][]string {
	s.mu.Lock()
	known := make([]string, 0, len(s.known))
	for p := range s.known {
		known = append(known, p)
	}
	s.mu.Unlock()

	out := make(map[string][]string)
	for _, c := range s.vc.Components() {
		if c.IsValid() {
			continue
		}
		text := c.Text()
		if text == nil {
			text = TextNone
		}
		msgs := text.Messages()
		if len(msgs) == 0 {
			continue
		}
		paths := c.Properties()
		if len(paths) == 0 {
			paths = known
		}
		for _, p := range paths {
			out[p] = append(out[p], msgs...)
		}
	}
	return out
}

func (s *ErrorSource) allErrors() []string {
	errs := s.collect()
	paths := make([]string, 0, len(errs))
	for p := range errs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	var out []string
	for _, p := range paths {
		out = append(out, errs[p]...)
	}
	return out
}

// refresh diffs the per-path error lists against the previous snapshot and
// fires a change notification for every path that moved.
func (s *ErrorSource) refresh() {
	next := s.collect()

	s.mu.Lock()
	changed := make([]string, 0)
	for p, msgs := range next {
		if !equalStrings(s.last[p], msgs) {
			changed = append(changed, p)
		}
	}
	for p := range s.last {
		if _, ok := next[p]; !ok {
			changed = append(changed, p)
		}
	}
	s.last = next
	fns := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	sort.Strings(changed)
	for _, p := range changed {
		for _, fn := range fns {
			fn(p)
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
