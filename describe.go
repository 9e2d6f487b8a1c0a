package gridedit

import (
	"fmt"
	"strings"
)

// Describe returns a human-readable summary of the loaded columns, their
// semantic types and editability, followed by the pending change counts.
// Useful for debugging data source metadata.
func (s *Session) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dataset: %d rows, %d columns\n", len(s.rows), len(s.columns))
	for i, col := range s.columns {
		e := s.policy.Check(col)
		state := "editable"
		if !e.Editable {
			state = "read-only: " + e.Reason
		}
		label := ""
		if col.Label != "" && col.Label != col.Name {
			label = fmt.Sprintf(" %q", col.Label)
		}
		fmt.Fprintf(&b, "  %s %s%s [%s] %s\n", ColToName(i), col.Name, label, col.Type, state)
		if col.ShadowOf != "" {
			fmt.Fprintf(&b, "      shows label of %s\n", col.ShadowOf)
		}
	}
	fmt.Fprintf(&b, "Changes: %d cells in %d rows\n", s.tracker.ChangedCellCount(), s.tracker.ChangedRowCount())
	return b.String()
}
