package domain

import "fmt"

// FunctionDecl declares a numeric-valued external over typed conditions.
// The head atom names the function and its parameters; Domain guards which
// argument tuples the function may be asked about.
type FunctionDecl struct {
	Head   Atom      `json:"head" yaml:"head" mapstructure:"head"`
	Domain Condition `json:"domain,omitempty" yaml:"domain,omitempty" mapstructure:"domain"`
}

// Name returns the declared function name.
func (f FunctionDecl) Name() string { return f.Head.Predicate }

// Params returns the head parameters in declaration order.
func (f FunctionDecl) Params() []Param { return f.Head.Params() }

// PredicateDecl declares a boolean-valued external. Shape is identical to a
// function declaration; only the value domain differs.
type PredicateDecl struct {
	Head   Atom      `json:"head" yaml:"head" mapstructure:"head"`
	Domain Condition `json:"domain,omitempty" yaml:"domain,omitempty" mapstructure:"domain"`
}

// Name returns the declared predicate name.
func (p PredicateDecl) Name() string { return p.Head.Predicate }

// Params returns the head parameters in declaration order.
func (p PredicateDecl) Params() []Param { return p.Head.Params() }

// StreamDecl declares a generator schema: ordered inputs guarded by a
// domain condition, and ordered outputs guaranteed to satisfy the certified
// condition once produced.
type StreamDecl struct {
	Name      string    `json:"name" yaml:"name" mapstructure:"name"`
	Inputs    []Param   `json:"inputs,omitempty" yaml:"inputs,omitempty" mapstructure:"inputs"`
	Domain    Condition `json:"domain,omitempty" yaml:"domain,omitempty" mapstructure:"domain"`
	Outputs   []Param   `json:"outputs,omitempty" yaml:"outputs,omitempty" mapstructure:"outputs"`
	Certified Condition `json:"certified,omitempty" yaml:"certified,omitempty" mapstructure:"certified"`
}

// HasInput reports whether p is one of the declared inputs.
func (s StreamDecl) HasInput(p Param) bool {
	for _, in := range s.Inputs {
		if in == p {
			return true
		}
	}
	return false
}

// HasOutput reports whether p is one of the declared outputs.
func (s StreamDecl) HasOutput(p Param) bool {
	for _, out := range s.Outputs {
		if out == p {
			return true
		}
	}
	return false
}

// Definition is a parsed stream file: the (define (stream <name>) ...) unit
// holding every active declaration. Definitions are built once by the
// compiler and never mutated afterwards.
type Definition struct {
	Name       string          `json:"name" yaml:"name" mapstructure:"name"`
	Functions  []FunctionDecl  `json:"functions,omitempty" yaml:"functions,omitempty" mapstructure:"functions"`
	Predicates []PredicateDecl `json:"predicates,omitempty" yaml:"predicates,omitempty" mapstructure:"predicates"`
	Streams    []StreamDecl    `json:"streams,omitempty" yaml:"streams,omitempty" mapstructure:"streams"`
}

// Stream looks up a stream declaration by canonical name.
func (d *Definition) Stream(name string) (StreamDecl, error) {
	name = CanonName(name)
	for _, s := range d.Streams {
		if s.Name == name {
			return s, nil
		}
	}
	return StreamDecl{}, fmt.Errorf("%w: %s", ErrStreamNotFound, name)
}

// StreamNames returns every stream name in declaration order.
func (d *Definition) StreamNames() []string {
	names := make([]string, len(d.Streams))
	for i, s := range d.Streams {
		names[i] = s.Name
	}
	return names
}

// DeclaredArities maps every locally declared function and predicate name
// to its arity. Used by the validator to resolve condition references.
func (d *Definition) DeclaredArities() map[string]int {
	arities := make(map[string]int, len(d.Functions)+len(d.Predicates))
	for _, f := range d.Functions {
		arities[f.Name()] = f.Head.Arity()
	}
	for _, p := range d.Predicates {
		arities[p.Name()] = p.Head.Arity()
	}
	return arities
}

// CertifiedPredicates returns the set of predicate names some stream can
// certify. These are producible facts; everything else must come from the
// planner's initial state or its companion domain file.
func (d *Definition) CertifiedPredicates() map[string]bool {
	certified := make(map[string]bool)
	for _, s := range d.Streams {
		for _, name := range s.Certified.Predicates() {
			certified[name] = true
		}
	}
	return certified
}
