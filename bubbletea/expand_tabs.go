package bubbletea

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// tabWidth is the number of columns per tab stop.
const tabWidth = 8

// ExpandTabs replaces tabs with spaces padding to 8-column tab stops.
// startCol is the on-screen column where s begins; it shifts where the
// stops fall, so a line rendered after a gutter expands correctly.
func ExpandTabs(s string, startCol int) string {
	if !strings.Contains(s, "\t") {
		return s
	}

	parts := strings.Split(s, "\t")
	var sb strings.Builder
	col := startCol
	for i, part := range parts {
		sb.WriteString(part)
		col += lipgloss.Width(part)
		if i < len(parts)-1 {
			pad := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", pad))
			col += pad
		}
	}
	return sb.String()
}
