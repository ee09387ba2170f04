package parser

import (
	"fmt"
	"io"

	"github.com/dgallion1/bomdiff/internal/sheet"
	"github.com/xuri/excelize/v2"
)

// XLSXParser handles Excel workbooks. Only the first worksheet is read.
type XLSXParser struct{}

func (p *XLSXParser) Parse(r io.Reader, filename string) (*sheet.Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no worksheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return &sheet.Sheet{
		Title: titleOf(filename),
		Rows:  rows,
	}, nil
}
