package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/bomdiff/internal/sheet"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. The first table in the body is read.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*sheet.Sheet, error) {
	// go-docx needs a ReaderAt+size, so write to temp file.
	tmp, err := os.CreateTemp("", "bomdiff-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	s := &sheet.Sheet{Title: titleOf(filename)}

	for _, item := range doc.Document.Body.Items {
		table, ok := item.(*docx.Table)
		if !ok {
			continue
		}
		for _, tr := range table.TableRows {
			row := make([]string, 0, len(tr.TableCells))
			for _, tc := range tr.TableCells {
				row = append(row, docxCellText(tc))
			}
			s.Rows = append(s.Rows, row)
		}
		break
	}

	return s, nil
}

func docxCellText(cell *docx.WTableCell) string {
	parts := make([]string, 0, len(cell.Paragraphs))
	for _, para := range cell.Paragraphs {
		if t := docxParagraphText(para); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
