package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/bomdiff/internal/sheet"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. The first <table> in the document is read.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*sheet.Sheet, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	s := &sheet.Sheet{Title: titleOf(filename)}

	// Extract title from <title> tag if present.
	if title := findTitle(doc); title != "" {
		s.Title = title
	}

	table := findElement(doc, "table")
	if table == nil {
		return s, nil
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "table":
				if n != table {
					return // Nested tables belong to a cell.
				}
			case "tr":
				var row []string
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
						row = append(row, textContent(c))
					}
				}
				s.Rows = append(s.Rows, row)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)

	return s, nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if t := findElement(n, "title"); t != nil {
		return textContent(t)
	}
	return ""
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
