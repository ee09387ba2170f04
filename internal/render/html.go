package render

import (
	"fmt"
	"io"

	"github.com/dgallion1/bomdiff/internal/bom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLWriter writes the report as a standalone HTML page with one table.
// Each body row carries its change kind as a class.
type HTMLWriter struct{}

func (HTMLWriter) ContentType() string { return "text/html; charset=utf-8" }
func (HTMLWriter) Ext() string         { return "html" }

func (HTMLWriter) Write(w io.Writer, rep *bom.Report) error {
	title := fmt.Sprintf("%s vs %s", rep.Original, rep.Updated)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	root.AppendChild(head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	head.AppendChild(withText(element(atom.Title), title))

	body := element(atom.Body)
	root.AppendChild(body)
	body.AppendChild(withText(element(atom.H1), title))
	body.AppendChild(withText(element(atom.P), fmt.Sprintf("%d added, %d removed, %d changed",
		rep.Summary.Added, rep.Summary.Removed, rep.Summary.Changed)))

	table := element(atom.Table)
	body.AppendChild(table)

	thead := element(atom.Thead)
	table.AppendChild(thead)
	tr := element(atom.Tr)
	thead.AppendChild(tr)
	for _, h := range bom.Header {
		tr.AppendChild(withText(element(atom.Th), h))
	}

	tbody := element(atom.Tbody)
	table.AppendChild(tbody)
	for _, row := range rep.Rows {
		tr := element(atom.Tr, html.Attribute{Key: "class", Val: string(row.Kind)})
		tbody.AppendChild(tr)
		for _, c := range cells(row) {
			tr.AppendChild(withText(element(atom.Td), c))
		}
	}

	return html.Render(w, doc)
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func withText(n *html.Node, text string) *html.Node {
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return n
}
