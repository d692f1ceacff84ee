// Package compiler turns s-expression trees into domain definitions.
package compiler

import (
	"fmt"

	"github.com/tomsilver/streamspec/pkg/domain"
	"github.com/tomsilver/streamspec/pkg/sexpr"
)

// Parser converts raw stream-definition text into a domain.Definition.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse reads and compiles a complete stream file.
func (p *Parser) Parse(data []byte) (*domain.Definition, error) {
	root, err := sexpr.ReadOne(string(data))
	if err != nil {
		return nil, err
	}
	return p.compile(root)
}

// compile expects (define (stream <name>) <decl>...).
func (p *Parser) compile(root *sexpr.Node) (*domain.Definition, error) {
	if !root.IsList() || len(root.List) < 2 {
		return nil, parseErr(root, "expected (define (stream <name>) ...)")
	}
	if head := root.List[0]; !head.IsAtom() || domain.CanonName(head.Atom) != "define" {
		return nil, parseErr(root, "expected 'define', got %s", head)
	}

	name, err := parseDefineName(root.List[1])
	if err != nil {
		return nil, err
	}

	def := &domain.Definition{Name: name}
	for _, clause := range root.List[2:] {
		if err := p.compileClause(def, clause); err != nil {
			return nil, err
		}
	}
	return def, nil
}

func parseDefineName(node *sexpr.Node) (string, error) {
	if !node.IsList() || len(node.List) != 2 {
		return "", parseErr(node, "expected (stream <name>)")
	}
	kind, name := node.List[0], node.List[1]
	if !kind.IsAtom() || domain.CanonName(kind.Atom) != "stream" {
		return "", parseErr(kind, "expected 'stream', got %s", kind)
	}
	if !name.IsAtom() || name.IsKeyword() || name.IsVariable() {
		return "", parseErr(name, "expected definition name, got %s", name)
	}
	return domain.CanonName(name.Atom), nil
}

func (p *Parser) compileClause(def *domain.Definition, clause *sexpr.Node) error {
	if !clause.IsList() || len(clause.List) == 0 || !clause.List[0].IsKeyword() {
		return parseErr(clause, "expected declaration clause, got %s", clause)
	}

	switch keyword := domain.CanonName(clause.List[0].Atom); keyword {
	case ":function":
		head, cond, err := parseGuardedHead(clause)
		if err != nil {
			return err
		}
		def.Functions = append(def.Functions, domain.FunctionDecl{Head: head, Domain: cond})
		return nil
	case ":predicate":
		head, cond, err := parseGuardedHead(clause)
		if err != nil {
			return err
		}
		def.Predicates = append(def.Predicates, domain.PredicateDecl{Head: head, Domain: cond})
		return nil
	case ":stream":
		stream, err := parseStream(clause)
		if err != nil {
			return err
		}
		def.Streams = append(def.Streams, stream)
		return nil
	default:
		return parseErr(clause.List[0], "unknown declaration %s", clause.List[0].Atom)
	}
}

// parseGuardedHead handles (:function (Name ?a ?b) <condition>) and the
// identically shaped :predicate clause.
func parseGuardedHead(clause *sexpr.Node) (domain.Atom, domain.Condition, error) {
	if len(clause.List) < 2 || len(clause.List) > 3 {
		return domain.Atom{}, domain.Condition{}, parseErr(clause, "expected (%s (<name> ?args...) [<condition>])", clause.List[0].Atom)
	}

	head, err := parseAtom(clause.List[1])
	if err != nil {
		return domain.Atom{}, domain.Condition{}, err
	}
	for _, term := range head.Terms {
		if !domain.IsParam(term) {
			return domain.Atom{}, domain.Condition{}, parseErr(clause.List[1], "declaration head %s takes parameters, got %q", head.Predicate, term)
		}
	}

	var cond domain.Condition
	if len(clause.List) == 3 {
		cond, err = parseCondition(clause.List[2])
		if err != nil {
			return domain.Atom{}, domain.Condition{}, err
		}
	}
	return head, cond, nil
}

func parseStream(clause *sexpr.Node) (domain.StreamDecl, error) {
	if len(clause.List) < 2 || !clause.List[1].IsAtom() || clause.List[1].IsKeyword() {
		return domain.StreamDecl{}, parseErr(clause, "expected (:stream <name> ...)")
	}

	stream := domain.StreamDecl{Name: domain.CanonName(clause.List[1].Atom)}
	rest := clause.List[2:]
	for len(rest) > 0 {
		section := rest[0]
		if !section.IsKeyword() {
			return domain.StreamDecl{}, parseErr(section, "expected section keyword, got %s", section)
		}
		if len(rest) < 2 {
			return domain.StreamDecl{}, parseErr(section, "section %s has no body", section.Atom)
		}
		body := rest[1]
		rest = rest[2:]

		var err error
		switch keyword := domain.CanonName(section.Atom); keyword {
		case ":inputs":
			stream.Inputs, err = parseParams(body)
		case ":outputs":
			stream.Outputs, err = parseParams(body)
		case ":domain":
			stream.Domain, err = parseCondition(body)
		case ":certified":
			stream.Certified, err = parseCondition(body)
		default:
			err = parseErr(section, "unknown stream section %s", section.Atom)
		}
		if err != nil {
			return domain.StreamDecl{}, err
		}
	}
	return stream, nil
}

func parseParams(node *sexpr.Node) ([]domain.Param, error) {
	if !node.IsList() {
		return nil, parseErr(node, "expected parameter list, got %s", node)
	}
	params := make([]domain.Param, 0, len(node.List))
	for _, child := range node.List {
		if !child.IsVariable() {
			return nil, parseErr(child, "expected '?'-prefixed parameter, got %s", child)
		}
		params = append(params, domain.Param(domain.CanonName(child.Atom)))
	}
	return params, nil
}

// parseCondition accepts a bare atom or an (and ...) conjunction.
func parseCondition(node *sexpr.Node) (domain.Condition, error) {
	if !node.IsList() || len(node.List) == 0 {
		return domain.Condition{}, parseErr(node, "expected condition, got %s", node)
	}

	head := node.List[0]
	if head.IsAtom() && domain.CanonName(head.Atom) == "and" {
		cond := domain.Condition{}
		for _, child := range node.List[1:] {
			atom, err := parseAtom(child)
			if err != nil {
				return domain.Condition{}, err
			}
			cond.Atoms = append(cond.Atoms, atom)
		}
		return cond, nil
	}

	atom, err := parseAtom(node)
	if err != nil {
		return domain.Condition{}, err
	}
	return domain.Conj(atom), nil
}

func parseAtom(node *sexpr.Node) (domain.Atom, error) {
	if !node.IsList() || len(node.List) == 0 {
		return domain.Atom{}, parseErr(node, "expected atom, got %s", node)
	}
	head := node.List[0]
	if !head.IsAtom() || head.IsKeyword() || head.IsVariable() {
		return domain.Atom{}, parseErr(head, "expected predicate name, got %s", head)
	}

	atom := domain.Atom{Predicate: domain.CanonName(head.Atom)}
	for _, child := range node.List[1:] {
		if !child.IsAtom() {
			return domain.Atom{}, parseErr(child, "expected term, got %s", child)
		}
		atom.Terms = append(atom.Terms, domain.CanonName(child.Atom))
	}
	return atom, nil
}

func parseErr(node *sexpr.Node, format string, args ...any) error {
	return fmt.Errorf("parse error at %s: %s", node.Pos, fmt.Sprintf(format, args...))
}
