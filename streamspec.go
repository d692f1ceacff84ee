package streamspec

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tomsilver/streamspec/internal/compiler"
	"github.com/tomsilver/streamspec/internal/logging"
	"github.com/tomsilver/streamspec/internal/validator"
	"github.com/tomsilver/streamspec/pkg/domain"
)

// Version of the library and CLI.
var Version = "0.2.0"

// Report aggregates validation findings for a definition.
type Report = validator.Report

// Issue is a single validation finding.
type Issue = validator.Issue

// Option configures loading and validation.
type Option func(*options)

type options struct {
	strict     bool
	primitives map[string]bool
	logger     *slog.Logger
}

// WithStrict promotes validation warnings to errors.
func WithStrict() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithPrimitives names predicates declared outside the stream file (in the
// planner's companion domain file), so references to them do not warn.
func WithPrimitives(names ...string) Option {
	return func(o *options) {
		if o.primitives == nil {
			o.primitives = make(map[string]bool, len(names))
		}
		for _, name := range names {
			o.primitives[domain.CanonName(name)] = true
		}
	}
}

// WithLogger sets the logger used to surface validation warnings during Load.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Parse compiles stream-definition text into a Definition without validating.
func Parse(data []byte) (*domain.Definition, error) {
	return compiler.NewParser().Parse(data)
}

// Validate checks a parsed definition and returns its report.
func Validate(def *domain.Definition, opts ...Option) *Report {
	o := buildOptions(opts)
	return validator.ValidateDefinition(def, validator.Options{
		Primitives: o.primitives,
		Strict:     o.strict,
	})
}

// Load parses and validates definition text. Validation errors fail the
// load; warnings are logged and tolerated.
func Load(data []byte, opts ...Option) (*domain.Definition, error) {
	o := buildOptions(opts)

	def, err := Parse(data)
	if err != nil {
		return nil, err
	}

	report := validator.ValidateDefinition(def, validator.Options{
		Primitives: o.primitives,
		Strict:     o.strict,
	})
	for _, warning := range report.Warnings {
		o.logger.Warn("validation warning", "definition", def.Name, "issue", warning.String())
	}
	if err := report.Err(); err != nil {
		return nil, fmt.Errorf("definition %s: %w", def.Name, err)
	}
	return def, nil
}

// LoadFile reads, parses, and validates a stream file from disk.
func LoadFile(path string, opts ...Option) (*domain.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	def, err := Load(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}
