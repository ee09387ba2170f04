package parser

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/dgallion1/bomdiff/internal/sheet"
)

// TextParser handles tab-separated or column-aligned plain text tables.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*sheet.Sheet, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	s := &sheet.Sheet{Title: titleOf(filename)}
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		s.Rows = append(s.Rows, splitColumns(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// columnGap separates cells in text tables: a tab or a run of two or more
// spaces. Single spaces stay inside a cell ("Ref Des").
var columnGap = regexp.MustCompile(`\t|\s{2,}`)

// splitColumns keeps empty cells between consecutive tabs so that columns
// stay aligned in tab-separated input.
func splitColumns(line string) []string {
	if strings.Contains(line, "\t") {
		cells := strings.Split(line, "\t")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		return cells
	}
	return columnGap.Split(strings.TrimSpace(line), -1)
}
