package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dgallion1/bomdiff/internal/bom"
	"github.com/dgallion1/bomdiff/internal/sheet"
)

// Extract locates the BOM table described by p inside s and converts its
// rows into BOM lines. Rows with a blank item cell are dropped.
func Extract(s *sheet.Sheet, p Profile) ([]bom.Line, error) {
	header := 0
	if p.Anchor != "" {
		anchor := s.FindRow(p.Anchor, 0)
		if anchor < 0 {
			return nil, fmt.Errorf("profile %s: anchor row %q not found", p.Name, p.Anchor)
		}
		header = anchor + 1
	}
	if header >= len(s.Rows) {
		return nil, fmt.Errorf("profile %s: header row missing", p.Name)
	}

	cols, err := locateColumns(s, header, p.Columns)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.Name, err)
	}

	start := header + 1 + p.SkipRows
	end := len(s.Rows)
	if p.Trailer != "" {
		if t := s.FindRow(p.Trailer, start); t >= 0 {
			end = t - p.TrailerGap
		}
	}

	var lines []bom.Line
	for row := start; row < end; row++ {
		item := s.Cell(row, cols.item)
		if item == "" {
			continue
		}
		line := bom.Line{
			Item:        item,
			Description: s.Cell(row, cols.description),
			RefDes:      s.Cell(row, cols.refDes),
			SourceRow:   row + 1,
		}
		if line.Level, err = intCell(s, row, cols.level, p.Columns.Level); err != nil {
			return nil, err
		}
		if line.Seq, err = intCell(s, row, cols.seq, p.Columns.Seq); err != nil {
			return nil, err
		}
		if line.Quantity, err = floatCell(s, row, cols.quantity, p.Columns.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

type columnIndex struct {
	level, item, description, quantity, refDes, seq int
}

// locateColumns takes the first header cell matching each column name.
func locateColumns(s *sheet.Sheet, header int, c Columns) (columnIndex, error) {
	find := func(name string) (int, error) {
		for col := range s.Rows[header] {
			if s.Cell(header, col) == name {
				return col, nil
			}
		}
		return -1, fmt.Errorf("missing column %q in header row %d", name, header+1)
	}

	var idx columnIndex
	var err error
	for _, f := range []struct {
		dst  *int
		name string
	}{
		{&idx.level, c.Level},
		{&idx.item, c.Item},
		{&idx.description, c.Description},
		{&idx.quantity, c.Quantity},
		{&idx.refDes, c.RefDes},
		{&idx.seq, c.Seq},
	} {
		if *f.dst, err = find(f.name); err != nil {
			return columnIndex{}, err
		}
	}
	return idx, nil
}

// intCell reads an integer cell. Spreadsheets often store integers as
// "3.0"; those are accepted. Blank cells read as 0.
func intCell(s *sheet.Sheet, row, col int, name string) (int, error) {
	v := s.Cell(row, col)
	if v == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("row %d: column %q: %q is not an integer", row+1, name, v)
	}
	return int(f), nil
}

func floatCell(s *sheet.Sheet, row, col int, name string) (float64, error) {
	v := strings.ReplaceAll(s.Cell(row, col), ",", "")
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: column %q: %q is not a number", row+1, name, v)
	}
	return f, nil
}
