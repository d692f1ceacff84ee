package ports

import (
	"context"

	"github.com/tomsilver/streamspec/pkg/domain"
)

// FactStore is the planner's evaluation base as seen by this library:
// the set of ground facts domain conditions are checked against and
// certified facts are asserted into.
type FactStore interface {
	// Assert adds facts to the store. Re-asserting a held fact is a no-op.
	Assert(ctx context.Context, facts ...domain.Fact) error

	// Holds reports whether the fact is currently in the store.
	Holds(ctx context.Context, fact domain.Fact) (bool, error)

	// Facts returns every held fact. Order is unspecified.
	Facts(ctx context.Context) ([]domain.Fact, error)

	// Clear removes every fact.
	Clear(ctx context.Context) error
}

// Generator enumerates output tuples for one bound stream instance. Each
// Next call is one invocation attempt and may yield zero or more tuples;
// domain.ErrExhausted signals that enumeration is complete.
type Generator interface {
	Next(ctx context.Context) ([][]domain.Object, error)
}

// GeneratorSource resolves stream names to generator procedures. It is
// implemented by pkg/registry; the indirection keeps the evaluation layer
// testable with hand-rolled sources.
type GeneratorSource interface {
	// Generator binds a new generator for the named stream over the given
	// input objects. Returns domain.ErrGeneratorNotFound for unknown names.
	Generator(name string, inputs []domain.Object) (Generator, error)
}
