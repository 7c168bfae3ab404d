package validity

import "github.com/lilac-ui/validity/observe"

// Construction variants for validation components. Every variant converges on
// the same internal shape: a validity predicate over the sources' current
// values plus a message function receiving the values and the computed flag.
// A valid rule contributes TextEmpty; message formatting applies only to the
// invalid side.

func ruleState(valid bool, message string) ValidationState {
	if valid {
		return StateValid
	}
	return newState(false, NewText(message))
}

// NewRule validates a single property with a static failure message.
func NewRule[T comparable](prop *observe.Property[T], valid func(T) bool, message string) *BasicComponent {
	return NewRuleFunc(prop, valid, func(T) string { return message })
}

// NewRuleFunc validates a single property with a value-dependent failure
// message.
func NewRuleFunc[T comparable](prop *observe.Property[T], valid func(T) bool, message func(T) string) *BasicComponent {
	return newComponent(
		ScopedTo(prop.Path()),
		func() ValidationState {
			v := prop.Value()
			if valid(v) {
				return StateValid
			}
			return ruleState(false, message(v))
		},
		watch[T](prop),
	)
}

// NewRule2 validates two properties together. The message function receives
// both current values; it is consulted only when the predicate fails.
// NewRule2 through NewRule6 are instantiations of the same template the
// single-property rule uses, not independent engines. For a static message,
// close over the string: func(A, B) string { return msg }.
func NewRule2[A, B comparable](
	pa *observe.Property[A],
	pb *observe.Property[B],
	valid func(A, B) bool,
	message func(A, B) string,
) *BasicComponent {
	return newComponent(
		ScopedTo(pa.Path(), pb.Path()),
		func() ValidationState {
			a, b := pa.Value(), pb.Value()
			if valid(a, b) {
				return StateValid
			}
			return ruleState(false, message(a, b))
		},
		watch[A](pa), watch[B](pb),
	)
}

// NewRule3 validates three properties together.
func NewRule3[A, B, C comparable](
	pa *observe.Property[A],
	pb *observe.Property[B],
	pc *observe.Property[C],
	valid func(A, B, C) bool,
	message func(A, B, C) string,
) *BasicComponent {
	return newComponent(
		ScopedTo(pa.Path(), pb.Path(), pc.Path()),
		func() ValidationState {
			a, b, c := pa.Value(), pb.Value(), pc.Value()
			if valid(a, b, c) {
				return StateValid
			}
			return ruleState(false, message(a, b, c))
		},
		watch[A](pa), watch[B](pb), watch[C](pc),
	)
}

// NewRule4 validates four properties together.
func NewRule4[A, B, C, D comparable](
	pa *observe.Property[A],
	pb *observe.Property[B],
	pc *observe.Property[C],
	pd *observe.Property[D],
	valid func(A, B, C, D) bool,
	message func(A, B, C, D) string,
) *BasicComponent {
	return newComponent(
		ScopedTo(pa.Path(), pb.Path(), pc.Path(), pd.Path()),
		func() ValidationState {
			a, b, c, d := pa.Value(), pb.Value(), pc.Value(), pd.Value()
			if valid(a, b, c, d) {
				return StateValid
			}
			return ruleState(false, message(a, b, c, d))
		},
		watch[A](pa), watch[B](pb), watch[C](pc), watch[D](pd),
	)
}

// NewRule5 validates five properties together.
func NewRule5[A, B, C, D, E comparable](
	pa *observe.Property[A],
	pb *observe.Property[B],
	pc *observe.Property[C],
	pd *observe.Property[D],
	pe *observe.Property[E],
	valid func(A, B, C, D, E) bool,
	message func(A, B, C, D, E) string,
) *BasicComponent {
	return newComponent(
		ScopedTo(pa.Path(), pb.Path(), pc.Path(), pd.Path(), pe.Path()),
		func() ValidationState {
			a, b, c, d, e := pa.Value(), pb.Value(), pc.Value(), pd.Value(), pe.Value()
			if valid(a, b, c, d, e) {
				return StateValid
			}
			return ruleState(false, message(a, b, c, d, e))
		},
		watch[A](pa), watch[B](pb), watch[C](pc), watch[D](pd), watch[E](pe),
	)
}

// NewRule6 validates six properties together, the widest tuple supported.
func NewRule6[A, B, C, D, E, F comparable](
	pa *observe.Property[A],
	pb *observe.Property[B],
	pc *observe.Property[C],
	pd *observe.Property[D],
	pe *observe.Property[E],
	pf *observe.Property[F],
	valid func(A, B, C, D, E, F) bool,
	message func(A, B, C, D, E, F) string,
) *BasicComponent {
	return newComponent(
		ScopedTo(pa.Path(), pb.Path(), pc.Path(), pd.Path(), pe.Path(), pf.Path()),
		func() ValidationState {
			a, b, c := pa.Value(), pb.Value(), pc.Value()
			d, e, f := pd.Value(), pe.Value(), pf.Value()
			if valid(a, b, c, d, e, f) {
				return StateValid
			}
			return ruleState(false, message(a, b, c, d, e, f))
		},
		watch[A](pa), watch[B](pb), watch[C](pc), watch[D](pd), watch[E](pe), watch[F](pf),
	)
}

// NewObservableRule validates an arbitrary observable with a static failure
// message. The component is unscoped unless paths are given.
func NewObservableRule[T any](obs observe.Observable[T], valid func(T) bool, message string, paths ...string) *BasicComponent {
	return NewObservableRuleWith(obs, valid, func(T, bool) string { return message }, paths...)
}

// NewObservableRuleFunc validates an arbitrary observable with a
// value-dependent failure message.
func NewObservableRuleFunc[T any](obs observe.Observable[T], valid func(T) bool, message func(T) string, paths ...string) *BasicComponent {
	return NewObservableRuleWith(obs, valid, func(v T, _ bool) string { return message(v) }, paths...)
}

// NewObservableRuleWith validates an arbitrary observable with a message
// function that sees both the value and the computed validity.
func NewObservableRuleWith[T any](obs observe.Observable[T], valid func(T) bool, message func(T, bool) string, paths ...string) *BasicComponent {
	return newComponent(
		ScopedTo(paths...),
		func() ValidationState {
			v := obs.Value()
			ok := valid(v)
			return ruleState(ok, message(v, ok))
		},
		watch[T](obs),
	)
}

// NewStateRule adopts an observable that already emits ValidationState,
// bypassing the predicate/message split entirely. This is the escape hatch
// for externally computed validation logic.
func NewStateRule(obs observe.Observable[ValidationState], paths ...string) *BasicComponent {
	return newComponent(
		ScopedTo(paths...),
		func() ValidationState {
			s := obs.Value()
			// Guard against zero-value states from external sources.
			return newState(s.IsValid(), s.Text())
		},
		watch[ValidationState](obs),
	)
}
