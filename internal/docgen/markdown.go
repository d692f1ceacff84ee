// Package docgen renders stream definitions as markdown for the CLI and
// server surfaces.
package docgen

import (
	"fmt"
	"strings"

	"github.com/tomsilver/streamspec/pkg/domain"
)

// Definition renders the whole definition.
func Definition(def *domain.Definition) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", def.Name)

	if len(def.Functions) > 0 {
		sb.WriteString("## Functions\n\n")
		for _, f := range def.Functions {
			fmt.Fprintf(&sb, "### `%s`\n\n", f.Head)
			writeGuard(&sb, f.Domain)
		}
	}
	if len(def.Predicates) > 0 {
		sb.WriteString("## Predicates\n\n")
		for _, p := range def.Predicates {
			fmt.Fprintf(&sb, "### `%s`\n\n", p.Head)
			writeGuard(&sb, p.Domain)
		}
	}
	if len(def.Streams) > 0 {
		sb.WriteString("## Streams\n\n")
		for _, s := range def.Streams {
			sb.WriteString(Stream(s))
		}
	}
	return sb.String()
}

// Stream renders a single stream declaration.
func Stream(s domain.StreamDecl) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### `%s`\n\n", s.Name)
	fmt.Fprintf(&sb, "- **Inputs:** %s\n", paramList(s.Inputs))
	fmt.Fprintf(&sb, "- **Domain:** `%s`\n", s.Domain)
	fmt.Fprintf(&sb, "- **Outputs:** %s\n", paramList(s.Outputs))
	fmt.Fprintf(&sb, "- **Certified:** `%s`\n\n", s.Certified)
	return sb.String()
}

func writeGuard(sb *strings.Builder, cond domain.Condition) {
	if cond.Empty() {
		sb.WriteString("No domain guard.\n\n")
		return
	}
	fmt.Fprintf(sb, "- **Domain:** `%s`\n\n", cond)
}

func paramList(params []domain.Param) string {
	if len(params) == 0 {
		return "_none_"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = "`" + string(p) + "`"
	}
	return strings.Join(parts, ", ")
}
