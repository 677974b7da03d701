package gridcalc

import (
	"fmt"
	"strings"
)

// Describe returns a human-readable listing of every non-empty cell with its
// text, computed value, color and wiring. Useful for debugging sheets during
// development.
func (s *Spreadsheet) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sheet %s:%s (%dx%d)\n",
		NewCellRef(0, 0), NewCellRef(s.rows-1, s.columns-1), s.rows, s.columns)

	for _, c := range s.nonEmpty() {
		i := s.index(c.ref)
		fmt.Fprintf(&b, "  %s %q", c.ref, c.text)
		if c.IsFormula() {
			fmt.Fprintf(&b, " → %q", c.value)
		}
		if c.color != DefaultColor {
			fmt.Fprintf(&b, " bg=%s", formatColor(c.color))
		}
		if deps := s.graph.dependencies[i]; deps.Any() {
			fmt.Fprintf(&b, " deps[%s]", joinRefs(s.refs(deps)))
		}
		if blocked := s.graph.blocked[i]; blocked.Any() {
			fmt.Fprintf(&b, " blocked[%s]", joinRefs(s.refs(blocked)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// joinRefs formats refs as "A1 B2 C3".
func joinRefs(refs []CellRef) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}
