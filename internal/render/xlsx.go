package render

import (
	"fmt"
	"io"

	"github.com/dgallion1/bomdiff/internal/bom"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the spreadsheet report is written to.
const SheetName = "Comparison Report"

// XLSXWriter writes the report as an Excel workbook.
type XLSXWriter struct{}

func (XLSXWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (XLSXWriter) Ext() string { return "xlsx" }

func (XLSXWriter) Write(w io.Writer, rep *bom.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, len(bom.Header))
	for i, h := range bom.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	for i, row := range rep.Rows {
		vals := row.Values()
		for j, v := range vals {
			if v == nil {
				vals[j] = ""
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &vals); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	return f.Write(w)
}
