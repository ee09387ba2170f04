package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/bomdiff/internal/sheet"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles GFM pipe tables using goldmark. The first table in
// the document is read; its header row becomes the first sheet row.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*sheet.Sheet, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(src))

	s := &sheet.Sheet{Title: titleOf(filename)}

	var table *east.Table
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			// The heading closest above the table titles the sheet.
			if table == nil {
				s.Title = extractText(node, src)
			}
		case *east.Table:
			table = node
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if table == nil {
		return s, nil
	}

	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, extractText(cell, src))
		}
		s.Rows = append(s.Rows, cells)
	}
	return s, nil
}

// extractText gets the inline text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			// Recurse for nested inlines (emphasis, code spans, links).
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
