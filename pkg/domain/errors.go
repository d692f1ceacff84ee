package domain

import "errors"

// ErrStreamNotFound is returned when a stream name is not declared in the definition.
var ErrStreamNotFound = errors.New("stream not found")

// ErrGeneratorNotFound is returned when no generator is registered for a stream.
var ErrGeneratorNotFound = errors.New("generator not found")

// ErrExhausted is returned by a generator once it has enumerated all results.
var ErrExhausted = errors.New("generator exhausted")

// ErrUnboundParam is returned when grounding a condition over an incomplete binding.
var ErrUnboundParam = errors.New("unbound parameter")

// ErrArityMismatch is returned when a binding or tuple has the wrong number of values.
var ErrArityMismatch = errors.New("arity mismatch")
