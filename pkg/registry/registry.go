// Package registry manages the generator procedures associated with stream
// declarations. The stream file names the procedures; the host registers
// their implementations here.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomsilver/streamspec/pkg/domain"
	"github.com/tomsilver/streamspec/pkg/observability"
	"github.com/tomsilver/streamspec/pkg/ports"
	"github.com/tomsilver/streamspec/pkg/schema"
)

// Factory builds a fresh generator for one bound instance. Factories are
// invoked once per distinct input tuple; the returned generator owns any
// enumeration state.
type Factory func(inputs []domain.Object) ports.Generator

// Registry is a thread-safe map from stream names to generator factories.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
	metrics *observability.Metrics
}

type entry struct {
	factory Factory
	outputs schema.Schema
}

// Option configures a registration.
type Option func(*entry)

// WithOutputSchema declares payload types for the stream's outputs. Tuples
// produced by the generator are checked against it before certification.
func WithOutputSchema(s schema.Schema) Option {
	return func(e *entry) {
		e.outputs = s
	}
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// InstrumentWith publishes the registry size gauge on every registration.
func (r *Registry) InstrumentWith(m *observability.Metrics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = m
	m.SetRegistrySize(len(r.entries))
}

// Register associates a factory with a stream name. Registering the same
// name again overwrites the previous factory.
func (r *Registry) Register(name string, factory Factory, opts ...Option) {
	e := entry{factory: factory}
	for _, opt := range opts {
		opt(&e)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[domain.CanonName(name)] = e
	r.metrics.SetRegistrySize(len(r.entries))
}

// Generator implements ports.GeneratorSource.
func (r *Registry) Generator(name string, inputs []domain.Object) (ports.Generator, error) {
	r.mu.RLock()
	e, ok := r.entries[domain.CanonName(name)]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrGeneratorNotFound, name)
	}
	return e.factory(inputs), nil
}

// OutputSchema returns the declared output schema for a stream, or nil when
// the stream is unregistered or untyped.
func (r *Registry) OutputSchema(name string) schema.Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries[domain.CanonName(name)].outputs
}

// Names returns every registered stream name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	return names
}

// Has reports whether a generator is registered for the name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[domain.CanonName(name)]
	return ok
}

// FromFunc adapts a plain function into a single-shot factory: the function
// is called once, its tuples are yielded, and the generator is exhausted.
func FromFunc(fn func(ctx context.Context, inputs []domain.Object) ([][]domain.Object, error)) Factory {
	return func(inputs []domain.Object) ports.Generator {
		return &funcGen{fn: fn, inputs: inputs}
	}
}

type funcGen struct {
	fn     func(ctx context.Context, inputs []domain.Object) ([][]domain.Object, error)
	inputs []domain.Object
	done   bool
}

func (g *funcGen) Next(ctx context.Context) ([][]domain.Object, error) {
	if g.done {
		return nil, domain.ErrExhausted
	}
	g.done = true
	return g.fn(ctx, g.inputs)
}

// FromList adapts a fixed result list into a factory: every tuple is
// yielded on the first call, after which the generator is exhausted.
func FromList(tuples ...[]domain.Object) Factory {
	return FromFunc(func(context.Context, []domain.Object) ([][]domain.Object, error) {
		return tuples, nil
	})
}

// Batched adapts an incremental function: each Next call invokes fn once
// with the attempt counter; fn returns domain.ErrExhausted to finish.
func Batched(fn func(ctx context.Context, inputs []domain.Object, attempt int) ([][]domain.Object, error)) Factory {
	return func(inputs []domain.Object) ports.Generator {
		return &batchGen{fn: fn, inputs: inputs}
	}
}

type batchGen struct {
	fn      func(ctx context.Context, inputs []domain.Object, attempt int) ([][]domain.Object, error)
	inputs  []domain.Object
	attempt int
	done    bool
}

func (g *batchGen) Next(ctx context.Context) ([][]domain.Object, error) {
	if g.done {
		return nil, domain.ErrExhausted
	}
	tuples, err := g.fn(ctx, g.inputs, g.attempt)
	g.attempt++
	if err != nil {
		g.done = true
		return nil, err
	}
	return tuples, nil
}
