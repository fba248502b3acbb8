package store

import "strings"

// hiddenColumns are dropped from display; msgop carries multi-kilobyte XML
// payloads that would drown the table.
var hiddenColumns = map[string]bool{"msgop": true}

// Shape prepares a raw result for display: the raw-message column is
// dropped and every cell longer than cellBudget runes is elided with an
// ellipsis marker.
func Shape(t *RawTable, cellBudget int) *RawTable {
	keep := make([]int, 0, len(t.Columns))
	cols := make([]string, 0, len(t.Columns))
	for i, c := range t.Columns {
		if hiddenColumns[strings.ToLower(c)] {
			continue
		}
		keep = append(keep, i)
		cols = append(cols, c)
	}

	shaped := &RawTable{Columns: cols}
	for _, row := range t.Rows {
		out := make([]string, len(keep))
		for j, i := range keep {
			out[j] = elide(row[i], cellBudget)
		}
		shaped.Rows = append(shaped.Rows, out)
	}
	return shaped
}

func elide(s string, budget int) string {
	r := []rune(s)
	if len(r) <= budget {
		return s
	}
	return string(r[:budget]) + "..."
}

// Markdown renders the table as a pipe-delimited markdown table.
func (t *RawTable) Markdown() string {
	var sb strings.Builder

	sb.WriteString("| ")
	sb.WriteString(strings.Join(t.Columns, " | "))
	sb.WriteString(" |\n|")
	for range t.Columns {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		sb.WriteString("| ")
		sb.WriteString(strings.Join(escapeCells(row), " | "))
		sb.WriteString(" |\n")
	}
	return sb.String()
}

func escapeCells(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		c = strings.ReplaceAll(c, "\n", " ")
		out[i] = strings.ReplaceAll(c, "|", "\\|")
	}
	return out
}
