package domain

import (
	"errors"
	"testing"
)

func sampleStream() StreamDecl {
	return StreamDecl{
		Name:   "sample-pose",
		Inputs: []Param{"?b", "?r"},
		Domain: Conj(Atom{Predicate: "stackable", Terms: []string{"?b", "?r"}}),
		Outputs: []Param{"?p"},
		Certified: Conj(
			Atom{Predicate: "pose", Terms: []string{"?b", "?p"}},
			Atom{Predicate: "supported", Terms: []string{"?b", "?p", "?r"}},
		),
	}
}

func TestCondition_Params(t *testing.T) {
	cond := sampleStream().Certified
	params := cond.Params()

	want := []Param{"?b", "?p", "?r"}
	if len(params) != len(want) {
		t.Fatalf("Params() = %v, want %v", params, want)
	}
	for i, p := range want {
		if params[i] != p {
			t.Errorf("Params()[%d] = %s, want %s", i, params[i], p)
		}
	}
}

func TestCondition_String(t *testing.T) {
	single := Conj(Atom{Predicate: "conf", Terms: []string{"?q"}})
	if got := single.String(); got != "(conf ?q)" {
		t.Errorf("String() = %q, want (conf ?q)", got)
	}

	empty := Condition{}
	if got := empty.String(); got != "(and)" {
		t.Errorf("String() = %q, want (and)", got)
	}
}

func TestAtom_Ground(t *testing.T) {
	atom := Atom{Predicate: "pose", Terms: []string{"?b", "?p"}}
	binding := Binding{"?b": Sym("b1"), "?p": Obj("p0", []float64{0.1, 0.2})}

	fact, err := atom.Ground(binding)
	if err != nil {
		t.Fatalf("Ground() error = %v", err)
	}
	if fact.Key() != "(pose b1 p0)" {
		t.Errorf("Key() = %q, want (pose b1 p0)", fact.Key())
	}
}

func TestAtom_Ground_Unbound(t *testing.T) {
	atom := Atom{Predicate: "pose", Terms: []string{"?b", "?p"}}

	_, err := atom.Ground(Binding{"?b": Sym("b1")})
	if !errors.Is(err, ErrUnboundParam) {
		t.Fatalf("Ground() error = %v, want ErrUnboundParam", err)
	}
}

func TestAtom_Ground_Constants(t *testing.T) {
	atom := Atom{Predicate: "on", Terms: []string{"?b", "table"}}

	fact, err := atom.Ground(Binding{"?b": Sym("b1")})
	if err != nil {
		t.Fatalf("Ground() error = %v", err)
	}
	if fact.Key() != "(on b1 table)" {
		t.Errorf("Key() = %q, want (on b1 table)", fact.Key())
	}
}

func TestDefinition_Stream(t *testing.T) {
	def := &Definition{Name: "pick-and-place", Streams: []StreamDecl{sampleStream()}}

	// Lookup is case-insensitive via canonicalization.
	if _, err := def.Stream("Sample-Pose"); err != nil {
		t.Errorf("Stream() error = %v, want nil", err)
	}

	_, err := def.Stream("missing")
	if !errors.Is(err, ErrStreamNotFound) {
		t.Errorf("Stream() error = %v, want ErrStreamNotFound", err)
	}
}

func TestDefinition_CertifiedPredicates(t *testing.T) {
	def := &Definition{Streams: []StreamDecl{sampleStream()}}

	certified := def.CertifiedPredicates()
	for _, name := range []string{"pose", "supported"} {
		if !certified[name] {
			t.Errorf("CertifiedPredicates() missing %q", name)
		}
	}
	if certified["stackable"] {
		t.Error("CertifiedPredicates() should not include domain-only predicates")
	}
}

func TestDefinition_YAMLRoundTrip(t *testing.T) {
	def := &Definition{Name: "pick-and-place", Streams: []StreamDecl{sampleStream()}}

	data, err := def.EncodeYAML()
	if err != nil {
		t.Fatalf("EncodeYAML() error = %v", err)
	}

	decoded, err := DecodeYAML(data)
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}
	if decoded.Name != def.Name {
		t.Errorf("Name = %q, want %q", decoded.Name, def.Name)
	}
	stream, err := decoded.Stream("sample-pose")
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if len(stream.Certified.Atoms) != 2 {
		t.Errorf("certified atoms = %d, want 2", len(stream.Certified.Atoms))
	}
}
