package domain

import "strings"

// Param is a '?'-prefixed parameter name, e.g. "?q".
type Param string

// Valid reports whether the parameter carries the '?' prefix and a name.
func (p Param) Valid() bool {
	return len(p) > 1 && p[0] == '?'
}

func (p Param) String() string { return string(p) }

// IsParam reports whether a term is a parameter rather than a constant.
func IsParam(term string) bool {
	return Param(term).Valid()
}

// CanonName lowercases a PDDL name. PDDL identifiers are case-insensitive;
// canonicalizing at the boundary keeps every later comparison trivial.
func CanonName(name string) string {
	return strings.ToLower(name)
}

// Atom is a predicate applied to terms. Terms are either parameters ("?b")
// or constant names; both are stored as written, minus case.
type Atom struct {
	Predicate string   `json:"predicate" yaml:"predicate" mapstructure:"predicate"`
	Terms     []string `json:"terms,omitempty" yaml:"terms,omitempty" mapstructure:"terms"`
}

// Arity returns the number of terms.
func (a Atom) Arity() int { return len(a.Terms) }

// Params returns the atom's parameter terms in order of appearance.
func (a Atom) Params() []Param {
	var params []Param
	for _, term := range a.Terms {
		if IsParam(term) {
			params = append(params, Param(term))
		}
	}
	return params
}

func (a Atom) String() string {
	if len(a.Terms) == 0 {
		return "(" + a.Predicate + ")"
	}
	return "(" + a.Predicate + " " + strings.Join(a.Terms, " ") + ")"
}

// Condition is a conjunction of atoms. An empty condition is trivially true.
type Condition struct {
	Atoms []Atom `json:"atoms,omitempty" yaml:"atoms,omitempty" mapstructure:"atoms"`
}

// Conj builds a condition from atoms.
func Conj(atoms ...Atom) Condition {
	return Condition{Atoms: atoms}
}

// Empty reports whether the condition has no atoms.
func (c Condition) Empty() bool { return len(c.Atoms) == 0 }

// Params returns every distinct parameter in the conjunction, in order of
// first appearance.
func (c Condition) Params() []Param {
	seen := make(map[Param]bool)
	var params []Param
	for _, atom := range c.Atoms {
		for _, p := range atom.Params() {
			if !seen[p] {
				seen[p] = true
				params = append(params, p)
			}
		}
	}
	return params
}

// Predicates returns every distinct predicate name in the conjunction.
func (c Condition) Predicates() []string {
	seen := make(map[string]bool)
	var names []string
	for _, atom := range c.Atoms {
		if !seen[atom.Predicate] {
			seen[atom.Predicate] = true
			names = append(names, atom.Predicate)
		}
	}
	return names
}

func (c Condition) String() string {
	switch len(c.Atoms) {
	case 0:
		return "(and)"
	case 1:
		return c.Atoms[0].String()
	default:
		parts := make([]string, len(c.Atoms))
		for i, atom := range c.Atoms {
			parts[i] = atom.String()
		}
		return "(and " + strings.Join(parts, " ") + ")"
	}
}
