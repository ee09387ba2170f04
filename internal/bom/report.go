package bom

// Header is the column header of a comparison report, in column order.
var Header = []string{
	"Level",
	"Original Item",
	"Updated Item",
	"Original Qty.",
	"Updated Qty.",
	"Original Item Des.",
	"Updated Item Des.",
	"Original Ref. Des.",
	"Updated Ref. Des.",
	"Original Seq.",
	"Updated Seq.",
}

// Summary counts report rows by kind.
type Summary struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Changed int `json:"changed"`
}

// Total returns the number of rows.
func (s Summary) Total() int {
	return s.Added + s.Removed + s.Changed
}

// Report is the flattened comparison of two BOMs.
type Report struct {
	Original string  `json:"original"`
	Updated  string  `json:"updated"`
	Rows     []Row   `json:"rows"`
	Summary  Summary `json:"summary"`
}

// Compare diffs two trees and assembles the report.
func Compare(a, b *Tree) *Report {
	var origName, updName string
	if a != nil {
		origName = a.Name
	}
	if b != nil {
		updName = b.Name
	}
	return Assemble(origName, updName, Diff(a, b))
}

// Assemble wraps diff rows into a report, keeping their order.
func Assemble(original, updated string, rows []Row) *Report {
	r := &Report{
		Original: original,
		Updated:  updated,
		Rows:     rows,
	}
	if r.Rows == nil {
		r.Rows = []Row{}
	}
	for _, row := range rows {
		switch row.Kind {
		case Added:
			r.Summary.Added++
		case Removed:
			r.Summary.Removed++
		case Changed:
			r.Summary.Changed++
		}
	}
	return r
}

// Values returns the row as a fixed-width record matching Header. Cells of
// a missing side are nil, except its quantity which is zero.
func (r Row) Values() []any {
	out := make([]any, len(Header))
	out[0] = r.Level
	fill := func(s Side, item, qty, des, ref, seq int) {
		if !s.Present {
			out[qty] = 0.0
			return
		}
		out[item] = s.Item
		out[qty] = s.Quantity
		out[des] = s.Description
		out[ref] = s.RefDes
		out[seq] = s.Seq
	}
	fill(r.Original, 1, 3, 5, 7, 9)
	fill(r.Updated, 2, 4, 6, 8, 10)
	return out
}
