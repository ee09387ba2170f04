package sheet

import "strings"

// Sheet is a parsed tabular source: a rectangular-ish grid of cell text.
type Sheet struct {
	Title string     // Source title (from metadata or filename)
	Rows  [][]string // Rows in source order; rows may be ragged
}

// Cell returns the trimmed cell at (row, col), or "" when out of range.
func (s *Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// FindRow returns the first row at or after from whose first cell equals
// value, or -1.
func (s *Sheet) FindRow(value string, from int) int {
	for i := max(from, 0); i < len(s.Rows); i++ {
		if s.Cell(i, 0) == value {
			return i
		}
	}
	return -1
}
