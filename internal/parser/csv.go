package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/bomdiff/internal/sheet"
)

// CSVParser handles CSV files.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*sheet.Sheet, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	// BOM exports pad trailer rows with fewer cells.
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	return &sheet.Sheet{
		Title: titleOf(filename),
		Rows:  records,
	}, nil
}
