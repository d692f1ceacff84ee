// Package eval implements the per-instance side of the interface contract:
// binding a stream declaration over concrete objects, checking its domain
// condition against a fact base, invoking the registered generator, and
// certifying produced outputs.
//
// There is deliberately no queueing, layering, or search here. Scheduling
// stream evaluations belongs to the consuming planner.
package eval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tomsilver/streamspec/pkg/domain"
	"github.com/tomsilver/streamspec/pkg/observability"
	"github.com/tomsilver/streamspec/pkg/ports"
	"github.com/tomsilver/streamspec/pkg/schema"
)

// ErrDomainUnsatisfied is returned by CheckDomain when some grounded domain
// fact is absent from the fact base.
var ErrDomainUnsatisfied = errors.New("domain condition unsatisfied")

// SchemaProvider is optionally implemented by generator sources that carry
// output payload schemas (pkg/registry does).
type SchemaProvider interface {
	OutputSchema(name string) schema.Schema
}

// Instance is one stream declaration bound over concrete input objects.
type Instance struct {
	decl    domain.StreamDecl
	inputs  []domain.Object
	source  ports.GeneratorSource
	outputs schema.Schema

	gen        ports.Generator
	enumerated bool

	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures an instance.
type Option func(*Instance)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Instance) {
		i.logger = logger
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *observability.Metrics) Option {
	return func(i *Instance) {
		i.metrics = m
	}
}

// WithOutputSchema overrides the payload schema used to check produced tuples.
func WithOutputSchema(s schema.Schema) Option {
	return func(i *Instance) {
		i.outputs = s
	}
}

// NewInstance binds decl over inputs. The input count must match the
// declaration; the generator itself is resolved lazily on first Next.
func NewInstance(decl domain.StreamDecl, inputs []domain.Object, source ports.GeneratorSource, opts ...Option) (*Instance, error) {
	if len(inputs) != len(decl.Inputs) {
		return nil, fmt.Errorf("stream %s: %w: %d inputs declared, %d objects given",
			decl.Name, domain.ErrArityMismatch, len(decl.Inputs), len(inputs))
	}

	inst := &Instance{
		decl:   decl,
		inputs: inputs,
		source: source,
		logger: slog.New(slog.DiscardHandler),
	}
	if provider, ok := source.(SchemaProvider); ok {
		inst.outputs = provider.OutputSchema(decl.Name)
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst, nil
}

// Decl returns the bound declaration.
func (i *Instance) Decl() domain.StreamDecl { return i.decl }

// Inputs returns the bound input objects in declaration order.
func (i *Instance) Inputs() []domain.Object { return i.inputs }

// Binding returns the input parameter binding.
func (i *Instance) Binding() domain.Binding {
	b := make(domain.Binding, len(i.inputs))
	for idx, p := range i.decl.Inputs {
		b[p] = i.inputs[idx]
	}
	return b
}

// Enumerated reports whether the generator has been exhausted.
func (i *Instance) Enumerated() bool { return i.enumerated }

// DomainFacts grounds the domain condition over the input binding.
func (i *Instance) DomainFacts() ([]domain.Fact, error) {
	return i.decl.Domain.Ground(i.Binding())
}

// CheckDomain verifies that every grounded domain fact holds in the store.
// Invoking a generator whose domain does not hold violates the contract.
func (i *Instance) CheckDomain(ctx context.Context, store ports.FactStore) error {
	facts, err := i.DomainFacts()
	if err != nil {
		return err
	}
	for _, fact := range facts {
		held, err := store.Holds(ctx, fact)
		if err != nil {
			return fmt.Errorf("stream %s: check domain: %w", i.decl.Name, err)
		}
		if !held {
			i.metrics.ObserveDomainCheck(i.decl.Name, false)
			return fmt.Errorf("stream %s: %w: missing %s", i.decl.Name, ErrDomainUnsatisfied, fact)
		}
	}
	i.metrics.ObserveDomainCheck(i.decl.Name, true)
	return nil
}

// Result is one output tuple with its grounding.
type Result struct {
	// Outputs are the produced objects in declaration order.
	Outputs []domain.Object
	// Binding covers inputs and outputs.
	Binding domain.Binding
	// Certified are the grounded certified facts for this tuple.
	Certified []domain.Fact
}

// Next invokes the generator once and returns the results of that attempt.
// An attempt may legitimately produce zero results. Once the generator is
// exhausted, Next reports domain.ErrExhausted without invoking it again.
func (i *Instance) Next(ctx context.Context) ([]Result, error) {
	if i.enumerated {
		return nil, fmt.Errorf("stream %s: %w", i.decl.Name, domain.ErrExhausted)
	}
	if i.gen == nil {
		gen, err := i.source.Generator(i.decl.Name, i.inputs)
		if err != nil {
			return nil, err
		}
		i.gen = gen
	}

	start := time.Now()
	tuples, err := i.gen.Next(ctx)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, domain.ErrExhausted) {
			i.enumerated = true
			i.metrics.ObserveEvaluation(i.decl.Name, observability.StatusExhausted, elapsed)
			i.logger.Debug("stream enumerated", "stream", i.decl.Name)
			return nil, fmt.Errorf("stream %s: %w", i.decl.Name, domain.ErrExhausted)
		}
		i.metrics.ObserveEvaluation(i.decl.Name, observability.StatusError, elapsed)
		return nil, fmt.Errorf("stream %s: generator: %w", i.decl.Name, err)
	}

	results := make([]Result, 0, len(tuples))
	for _, tuple := range tuples {
		result, err := i.buildResult(tuple)
		if err != nil {
			i.metrics.ObserveEvaluation(i.decl.Name, observability.StatusError, elapsed)
			return nil, err
		}
		results = append(results, result)
	}

	i.metrics.ObserveEvaluation(i.decl.Name, observability.StatusOK, elapsed)
	i.logger.Debug("stream evaluated",
		"stream", i.decl.Name,
		"results", len(results),
		"elapsed", elapsed)
	return results, nil
}

func (i *Instance) buildResult(tuple []domain.Object) (Result, error) {
	if len(tuple) != len(i.decl.Outputs) {
		return Result{}, fmt.Errorf("stream %s: %w: %d outputs declared, generator produced %d",
			i.decl.Name, domain.ErrArityMismatch, len(i.decl.Outputs), len(tuple))
	}

	binding := i.Binding()
	for idx, p := range i.decl.Outputs {
		binding[p] = tuple[idx]
	}

	if len(i.outputs) > 0 {
		payloads := make(map[string]any, len(tuple))
		for idx, p := range i.decl.Outputs {
			payloads[string(p)] = tuple[idx].Value
		}
		if err := schema.Validate(i.outputs, payloads); err != nil {
			return Result{}, fmt.Errorf("stream %s: output schema: %w", i.decl.Name, err)
		}
	}

	certified, err := i.decl.Certified.Ground(binding)
	if err != nil {
		return Result{}, fmt.Errorf("stream %s: %w", i.decl.Name, err)
	}
	return Result{Outputs: tuple, Binding: binding, Certified: certified}, nil
}

// Certify asserts the result's certified facts into the store.
func (i *Instance) Certify(ctx context.Context, store ports.FactStore, result Result) error {
	if err := store.Assert(ctx, result.Certified...); err != nil {
		return fmt.Errorf("stream %s: certify: %w", i.decl.Name, err)
	}
	i.metrics.ObserveCertified(len(result.Certified))
	i.logger.Debug("facts certified", "stream", i.decl.Name, "count", len(result.Certified))
	return nil
}
