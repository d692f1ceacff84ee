// Package sexpr reads PDDL-style s-expressions into a positioned node tree.
//
// The reader understands exactly what stream-definition files need: atoms,
// keywords (":inputs"), variables ("?q"), nested lists, and line comments
// introduced by ';'. Comments never reach the tree, so clauses disabled by
// commenting them out are simply absent from the parsed schema.
package sexpr

import (
	"fmt"
	"strings"
	"unicode"
)

// Pos identifies a location in the source text (1-based).
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Node is either an atom (List == nil) or a list of child nodes.
type Node struct {
	Atom string
	List []*Node
	Pos  Pos

	isList bool
}

// IsList reports whether the node is a list (possibly empty).
func (n *Node) IsList() bool { return n.isList }

// IsAtom reports whether the node is a bare atom.
func (n *Node) IsAtom() bool { return !n.isList }

// IsKeyword reports whether the node is a ':'-prefixed atom such as ":inputs".
func (n *Node) IsKeyword() bool {
	return n.IsAtom() && strings.HasPrefix(n.Atom, ":")
}

// IsVariable reports whether the node is a '?'-prefixed atom such as "?q".
func (n *Node) IsVariable() bool {
	return n.IsAtom() && strings.HasPrefix(n.Atom, "?")
}

// String renders the node back as source text. Useful in error messages.
func (n *Node) String() string {
	if n.IsAtom() {
		return n.Atom
	}
	parts := make([]string, len(n.List))
	for i, child := range n.List {
		parts[i] = child.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// SyntaxError describes a malformed s-expression with its source position.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Msg)
}

func errAt(pos Pos, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Read parses source text into its top-level nodes.
func Read(src string) ([]*Node, error) {
	r := &reader{src: src, line: 1, col: 1}
	var nodes []*Node
	for {
		r.skipSpace()
		if r.eof() {
			return nodes, nil
		}
		node, err := r.readNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
}

// ReadOne parses source text expected to contain exactly one top-level form.
func ReadOne(src string) (*Node, error) {
	nodes, err := Read(src)
	if err != nil {
		return nil, err
	}
	switch len(nodes) {
	case 0:
		return nil, errAt(Pos{Line: 1, Col: 1}, "empty input")
	case 1:
		return nodes[0], nil
	default:
		return nil, errAt(nodes[1].Pos, "unexpected second top-level form")
	}
}

type reader struct {
	src  string
	off  int
	line int
	col  int
}

func (r *reader) eof() bool { return r.off >= len(r.src) }

func (r *reader) peek() byte { return r.src[r.off] }

func (r *reader) pos() Pos { return Pos{Line: r.line, Col: r.col} }

func (r *reader) advance() {
	if r.src[r.off] == '\n' {
		r.line++
		r.col = 1
	} else {
		r.col++
	}
	r.off++
}

// skipSpace consumes whitespace and ';' comments.
func (r *reader) skipSpace() {
	for !r.eof() {
		c := r.peek()
		switch {
		case c == ';':
			for !r.eof() && r.peek() != '\n' {
				r.advance()
			}
		case unicode.IsSpace(rune(c)):
			r.advance()
		default:
			return
		}
	}
}

func (r *reader) readNode() (*Node, error) {
	r.skipSpace()
	if r.eof() {
		return nil, errAt(r.pos(), "unexpected end of input")
	}
	switch r.peek() {
	case '(':
		return r.readList()
	case ')':
		return nil, errAt(r.pos(), "unexpected ')'")
	default:
		return r.readAtom()
	}
}

func (r *reader) readList() (*Node, error) {
	start := r.pos()
	r.advance() // consume '('
	node := &Node{Pos: start, isList: true}
	for {
		r.skipSpace()
		if r.eof() {
			return nil, errAt(start, "unterminated list")
		}
		if r.peek() == ')' {
			r.advance()
			return node, nil
		}
		child, err := r.readNode()
		if err != nil {
			return nil, err
		}
		node.List = append(node.List, child)
	}
}

func (r *reader) readAtom() (*Node, error) {
	start := r.pos()
	begin := r.off
	for !r.eof() {
		c := r.peek()
		if c == '(' || c == ')' || c == ';' || unicode.IsSpace(rune(c)) {
			break
		}
		r.advance()
	}
	if r.off == begin {
		return nil, errAt(start, "expected atom")
	}
	return &Node{Atom: r.src[begin:r.off], Pos: start}, nil
}
