package validity

import "errors"

// Sentinel errors returned by the validation engine. Callers can match them
// with errors.Is; wrapped forms carry the offending property path or target.
var (
	// ErrNilText is returned when a ValidationState is constructed without a text.
	ErrNilText = errors.New("validation state requires a non-nil text")

	// ErrContextClosed is returned when a closed context is mutated.
	// Mutation after close is a programming mistake the binding layer relies
	// on detecting, so it fails loudly rather than silently doing nothing.
	ErrContextClosed = errors.New("validation context is closed")

	// ErrComponentRequired is returned when a nil component is added to a context.
	ErrComponentRequired = errors.New("component must not be nil")

	// ErrNilContext is returned when a binding or adapter is created without
	// a context.
	ErrNilContext = errors.New("validation context must not be nil")

	// ErrEmptyPropertyPath is returned when a binding or query names no property.
	ErrEmptyPropertyPath = errors.New("property path must not be empty")

	// ErrTargetAlreadyBound is returned when a second live binding is created
	// for a target a binder already serves.
	ErrTargetAlreadyBound = errors.New("target already has a live validation binding")

	// ErrMultipleValidationNotSupported is returned by the strict single-rule
	// binding entry point when more than one component targets the property.
	// Use BindPropertyAll to aggregate several rules onto one target.
	ErrMultipleValidationNotSupported = errors.New("multiple validation components target the property; use BindPropertyAll")

	// ErrNilSink is returned when a binding is created without a write target.
	ErrNilSink = errors.New("binding sink must not be nil")

	// ErrEmptyTarget is returned when a binding names no target key.
	ErrEmptyTarget = errors.New("binding target must not be empty")
)
