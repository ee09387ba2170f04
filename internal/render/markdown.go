package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/bomdiff/internal/bom"
)

// MarkdownWriter writes the report as a GFM pipe table.
type MarkdownWriter struct{}

func (MarkdownWriter) ContentType() string { return "text/markdown" }
func (MarkdownWriter) Ext() string         { return "md" }

func (MarkdownWriter) Write(w io.Writer, rep *bom.Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s vs %s\n\n", rep.Original, rep.Updated)
	fmt.Fprintf(&b, "%d added, %d removed, %d changed\n\n", rep.Summary.Added, rep.Summary.Removed, rep.Summary.Changed)

	writeRow := func(cols []string) {
		b.WriteString("|")
		for _, c := range cols {
			b.WriteString(" ")
			b.WriteString(strings.ReplaceAll(c, "|", `\|`))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
	writeRow(bom.Header)
	sep := make([]string, len(bom.Header))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(sep)
	for _, row := range rep.Rows {
		writeRow(cells(row))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
