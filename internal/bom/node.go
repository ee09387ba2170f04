// Package bom reconstructs hierarchical bills of materials from their flat,
// level-annotated form and compares two of them into a difference report
// that keeps the tree hierarchy.
package bom

import "strings"

// Line is one input row of a BOM as handed over by ingestion.
type Line struct {
	Level       int
	Item        string
	Description string
	Quantity    float64
	RefDes      string
	Seq         int

	// SourceRow is the 1-based row in the originating sheet (0 if unknown).
	SourceRow int
}

// Node is one BOM line inside a Tree arena.
type Node struct {
	Index       int
	Level       int
	Item        string
	Base        string // Part family key, see BaseIdentifier.
	Description string
	Quantity    float64
	RefDes      string
	Seq         int
	SourceRow   int
	Children    []int // Arena indices of immediate children, in document order.
}

// BaseIdentifier derives the part family of an item number by dropping its
// revision suffix: "X-1-A" becomes "X-1". Identifiers with fewer than three
// dash-separated segments are their own family.
func BaseIdentifier(item string) string {
	parts := strings.Split(item, "-")
	if len(parts) < 3 {
		return item
	}
	return parts[0] + "-" + parts[1]
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

func newNode(index int, l Line) Node {
	return Node{
		Index:       index,
		Level:       l.Level,
		Item:        l.Item,
		Base:        BaseIdentifier(l.Item),
		Description: l.Description,
		Quantity:    l.Quantity,
		RefDes:      l.RefDes,
		Seq:         l.Seq,
		SourceRow:   l.SourceRow,
	}
}
