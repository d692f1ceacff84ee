// Package validator checks stream definitions for structural well-formedness.
package validator

import (
	"fmt"
	"strings"

	"github.com/tomsilver/streamspec/pkg/domain"
)

// Issue is a single finding attached to a declaration.
type Issue struct {
	Decl string `json:"decl,omitempty" yaml:"decl,omitempty"`
	Msg  string `json:"msg" yaml:"msg"`
}

func (i Issue) String() string {
	if i.Decl == "" {
		return i.Msg
	}
	return i.Decl + ": " + i.Msg
}

// Report collects validation findings. Warnings are findings a companion
// domain file could legitimately resolve; Options.Strict promotes them.
type Report struct {
	Errors   []Issue `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// OK reports whether validation found no errors.
func (r *Report) OK() bool { return len(r.Errors) == 0 }

// Err returns nil when the report is clean, otherwise an aggregate error.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return &AggregateError{Issues: r.Errors}
}

// AggregateError renders every validation error, numbered.
type AggregateError struct {
	Issues []Issue
}

func (e *AggregateError) Error() string {
	if len(e.Issues) == 1 {
		return e.Issues[0].String()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e.Issues))
	for i, issue := range e.Issues {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, issue)
	}
	return sb.String()
}

// Options tunes validation.
type Options struct {
	// Primitives names predicates declared outside the stream file (the
	// planner's companion domain file). References to them never warn.
	Primitives map[string]bool

	// Strict promotes warnings to errors.
	Strict bool
}

// ValidateDefinition checks a parsed definition and returns its report.
func ValidateDefinition(def *domain.Definition, opts Options) *Report {
	v := &checker{
		report:     &Report{},
		opts:       opts,
		declared:   def.DeclaredArities(),
		producible: def.CertifiedPredicates(),
	}

	v.checkDeclNames(def)
	for _, f := range def.Functions {
		v.checkGuardedHead("function "+f.Name(), f.Head, f.Domain)
	}
	for _, p := range def.Predicates {
		v.checkGuardedHead("predicate "+p.Name(), p.Head, p.Domain)
	}
	for _, s := range def.Streams {
		v.checkStream(s)
	}
	if opts.Strict {
		v.report.Errors = append(v.report.Errors, v.report.Warnings...)
		v.report.Warnings = nil
	}
	return v.report
}

type checker struct {
	report     *Report
	opts       Options
	declared   map[string]int
	producible map[string]bool
}

func (v *checker) errorf(decl, format string, args ...any) {
	v.report.Errors = append(v.report.Errors, Issue{Decl: decl, Msg: fmt.Sprintf(format, args...)})
}

func (v *checker) warnf(decl, format string, args ...any) {
	v.report.Warnings = append(v.report.Warnings, Issue{Decl: decl, Msg: fmt.Sprintf(format, args...)})
}

func (v *checker) checkDeclNames(def *domain.Definition) {
	if def.Name == "" {
		v.errorf("", "definition has no name")
	}

	seenStreams := make(map[string]bool)
	for _, s := range def.Streams {
		if s.Name == "" {
			v.errorf("", "stream with empty name")
			continue
		}
		if seenStreams[s.Name] {
			v.errorf("stream "+s.Name, "duplicate stream name")
		}
		seenStreams[s.Name] = true
	}

	seenDecls := make(map[string]bool)
	for _, f := range def.Functions {
		if seenDecls[f.Name()] {
			v.errorf("function "+f.Name(), "duplicate declaration name")
		}
		seenDecls[f.Name()] = true
	}
	for _, p := range def.Predicates {
		if seenDecls[p.Name()] {
			v.errorf("predicate "+p.Name(), "duplicate declaration name")
		}
		seenDecls[p.Name()] = true
	}
}

func (v *checker) checkGuardedHead(decl string, head domain.Atom, cond domain.Condition) {
	v.checkParamList(decl, "head", head.Params())

	bound := make(map[domain.Param]bool)
	for _, p := range head.Params() {
		bound[p] = true
	}
	for _, atom := range cond.Atoms {
		v.checkReference(decl, atom)
		for _, p := range atom.Params() {
			if !bound[p] {
				v.errorf(decl, "domain parameter %s is not declared in the head", p)
			}
		}
	}
}

func (v *checker) checkStream(s domain.StreamDecl) {
	decl := "stream " + s.Name

	v.checkParamList(decl, "inputs", s.Inputs)
	v.checkParamList(decl, "outputs", s.Outputs)

	// Outputs are fresh names: overlap with inputs is always a mistake.
	for _, out := range s.Outputs {
		if s.HasInput(out) {
			v.errorf(decl, "output %s is also declared as an input", out)
		}
	}

	for _, atom := range s.Domain.Atoms {
		v.checkReference(decl, atom)
		for _, p := range atom.Params() {
			if !s.HasInput(p) {
				v.errorf(decl, "domain parameter %s is not a declared input", p)
			}
		}
	}

	for _, atom := range s.Certified.Atoms {
		v.checkReference(decl, atom)
		for _, p := range atom.Params() {
			if !s.HasInput(p) && !s.HasOutput(p) {
				v.errorf(decl, "certified parameter %s is neither an input nor an output", p)
			}
		}
	}

	for _, out := range s.Outputs {
		mentioned := false
		for _, atom := range s.Certified.Atoms {
			for _, p := range atom.Params() {
				if p == out {
					mentioned = true
				}
			}
		}
		if !mentioned {
			v.warnf(decl, "output %s is never certified", out)
		}
	}
}

func (v *checker) checkParamList(decl, section string, params []domain.Param) {
	seen := make(map[domain.Param]bool)
	for _, p := range params {
		if !p.Valid() {
			v.errorf(decl, "%s parameter %q is not '?'-prefixed", section, p)
		}
		if seen[p] {
			v.errorf(decl, "duplicate %s parameter %s", section, p)
		}
		seen[p] = true
	}
}

// checkReference resolves a condition atom against local declarations and
// the caller-supplied primitive set.
func (v *checker) checkReference(decl string, atom domain.Atom) {
	if arity, ok := v.declared[atom.Predicate]; ok {
		if arity != atom.Arity() {
			v.errorf(decl, "%s called with %d terms, declared with %d", atom.Predicate, atom.Arity(), arity)
		}
		return
	}
	if v.opts.Primitives[atom.Predicate] || v.producible[atom.Predicate] {
		return
	}
	v.warnf(decl, "predicate %s has no local declaration and is not a known primitive", atom.Predicate)
}
