package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/bomdiff/internal/bom"
)

// CSVWriter writes the report as CSV with a header row.
type CSVWriter struct{}

func (CSVWriter) ContentType() string { return "text/csv" }
func (CSVWriter) Ext() string         { return "csv" }

func (CSVWriter) Write(w io.Writer, rep *bom.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(bom.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range rep.Rows {
		if err := cw.Write(cells(row)); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
