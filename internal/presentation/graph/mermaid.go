// Package graph renders a stream definition as a Mermaid flowchart.
package graph

import (
	"fmt"
	"strings"

	"github.com/tomsilver/streamspec/pkg/domain"
)

// GenerateMermaid produces Mermaid flowchart syntax for the definition's
// producer graph. Semantic styling:
//   - Stream: [[Subroutine]]
//   - Predicate: ([Stadium])
//
// Edges run domain-predicate --> stream --> certified-predicate, so the
// chart reads as "which facts feed which generators, and what they certify".
func GenerateMermaid(def *domain.Definition) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	predicates := make(map[string]bool)
	writePredicate := func(name string) string {
		id := sanitizeMermaidID("pred_" + name)
		if !predicates[name] {
			predicates[name] = true
			fmt.Fprintf(&sb, "    %s([\"%s\"])\n", id, name)
		}
		return id
	}

	for _, s := range def.Streams {
		streamID := sanitizeMermaidID("stream_" + s.Name)
		fmt.Fprintf(&sb, "    %s[[\"%s\"]]\n", streamID, s.Name)

		for _, atom := range s.Domain.Atoms {
			predID := writePredicate(atom.Predicate)
			fmt.Fprintf(&sb, "    %s --> %s\n", predID, streamID)
		}
		for _, atom := range s.Certified.Atoms {
			predID := writePredicate(atom.Predicate)
			fmt.Fprintf(&sb, "    %s --> %s\n", streamID, predID)
		}
	}

	// Function and predicate declarations attach to their guards with
	// dotted edges; they consume facts but never produce them.
	for _, f := range def.Functions {
		declID := sanitizeMermaidID("fn_" + f.Name())
		fmt.Fprintf(&sb, "    %s[\"%s (function)\"]\n", declID, f.Name())
		for _, atom := range f.Domain.Atoms {
			predID := writePredicate(atom.Predicate)
			fmt.Fprintf(&sb, "    %s -.-> %s\n", predID, declID)
		}
	}
	for _, p := range def.Predicates {
		declID := sanitizeMermaidID("pr_" + p.Name())
		fmt.Fprintf(&sb, "    %s[\"%s (predicate)\"]\n", declID, p.Name())
		for _, atom := range p.Domain.Atoms {
			predID := writePredicate(atom.Predicate)
			fmt.Fprintf(&sb, "    %s -.-> %s\n", predID, declID)
		}
	}

	return sb.String()
}

// sanitizeMermaidID strips characters Mermaid treats as syntax.
func sanitizeMermaidID(id string) string {
	replacer := strings.NewReplacer(
		"-", "_",
		".", "_",
		"/", "_",
		" ", "_",
		"?", "",
	)
	return replacer.Replace(id)
}
