package domain

import (
	"fmt"
	"strings"
)

// Object is an opaque runtime value with a symbolic name. The name is what
// appears inside facts; the payload (a pose, a configuration, a trajectory)
// is whatever the registered generator produced and is never inspected here.
type Object struct {
	Name  string `json:"name" yaml:"name"`
	Value any    `json:"-" yaml:"-"`
}

// Obj builds an object.
func Obj(name string, value any) Object {
	return Object{Name: name, Value: value}
}

// Sym builds a payload-free symbolic object, e.g. a block or region name.
func Sym(name string) Object {
	return Object{Name: name}
}

func (o Object) String() string { return o.Name }

// Fact is a ground atom: a predicate applied to objects.
type Fact struct {
	Predicate string   `json:"predicate" yaml:"predicate"`
	Args      []Object `json:"args,omitempty" yaml:"args,omitempty"`
}

// NewFact builds a fact with a canonicalized predicate name.
func NewFact(predicate string, args ...Object) Fact {
	return Fact{Predicate: CanonName(predicate), Args: args}
}

// Key returns the canonical textual form, e.g. "(pose b1 p0)". Two facts
// are the same fact iff their keys are equal.
func (f Fact) Key() string {
	if len(f.Args) == 0 {
		return "(" + f.Predicate + ")"
	}
	names := make([]string, len(f.Args))
	for i, arg := range f.Args {
		names[i] = arg.Name
	}
	return "(" + f.Predicate + " " + strings.Join(names, " ") + ")"
}

func (f Fact) String() string { return f.Key() }

// Binding maps parameters to objects.
type Binding map[Param]Object

// Ground substitutes a binding into the atom, producing a fact. Constant
// terms become symbolic objects; unbound parameters are an error.
func (a Atom) Ground(b Binding) (Fact, error) {
	args := make([]Object, len(a.Terms))
	for i, term := range a.Terms {
		if !IsParam(term) {
			args[i] = Sym(term)
			continue
		}
		obj, ok := b[Param(term)]
		if !ok {
			return Fact{}, fmt.Errorf("ground %s: %w: %s", a, ErrUnboundParam, term)
		}
		args[i] = obj
	}
	return Fact{Predicate: a.Predicate, Args: args}, nil
}

// Ground substitutes a binding into every atom of the conjunction.
func (c Condition) Ground(b Binding) ([]Fact, error) {
	facts := make([]Fact, 0, len(c.Atoms))
	for _, atom := range c.Atoms {
		fact, err := atom.Ground(b)
		if err != nil {
			return nil, err
		}
		facts = append(facts, fact)
	}
	return facts, nil
}
