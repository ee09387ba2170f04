package bom

import (
	"errors"
	"fmt"
)

// ErrInvalidLevel is matched by every *InvalidLevelError.
var ErrInvalidLevel = errors.New("invalid level")

// InvalidLevelError reports a row whose level is missing, zero or negative.
// The hierarchy cannot be inferred past such a row, so the whole comparison
// is aborted.
type InvalidLevelError struct {
	BOM       string
	Index     int
	SourceRow int
	Level     int
}

func (e *InvalidLevelError) Error() string {
	if e.SourceRow > 0 {
		return fmt.Sprintf("bom %q: row %d (index %d): invalid level %d", e.BOM, e.SourceRow, e.Index, e.Level)
	}
	return fmt.Sprintf("bom %q: index %d: invalid level %d", e.BOM, e.Index, e.Level)
}

func (e *InvalidLevelError) Is(target error) bool {
	return target == ErrInvalidLevel
}

// Tree is an arena of nodes addressed by their position in the flat
// pre-order sequence.
type Tree struct {
	Name  string
	Nodes []Node
	roots []int
}

// Build turns a flat pre-order sequence into a Tree.
//
// A node's descendants are the contiguous run of following lines with a
// deeper level; its children are the lines of that run exactly one level
// deeper. A run that never climbs back up extends to the end of the input.
// A line that skips levels is kept in the arena but is nobody's child.
func Build(name string, lines []Line) (*Tree, error) {
	t := &Tree{
		Name:  name,
		Nodes: make([]Node, len(lines)),
	}
	for i, l := range lines {
		if l.Level <= 0 {
			return nil, &InvalidLevelError{BOM: name, Index: i, SourceRow: l.SourceRow, Level: l.Level}
		}
		t.Nodes[i] = newNode(i, l)
	}

	// Stack of open ancestors; after popping everything at or below the
	// current level, the top is the nearest enclosing node.
	stack := make([]int, 0, 16)
	for i := range t.Nodes {
		n := &t.Nodes[i]
		for len(stack) > 0 && t.Nodes[stack[len(stack)-1]].Level >= n.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			parent := &t.Nodes[stack[len(stack)-1]]
			if n.Level == parent.Level+1 {
				parent.Children = append(parent.Children, i)
			}
		}
		if n.Level == 1 {
			t.roots = append(t.roots, i)
		}
		stack = append(stack, i)
	}
	return t, nil
}

// Roots returns the level-1 nodes in document order.
func (t *Tree) Roots() []int {
	if t == nil {
		return nil
	}
	return t.roots
}

// Node returns the node at arena index i.
func (t *Tree) Node(i int) *Node {
	return &t.Nodes[i]
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Nodes)
}

// Subtree returns the arena indices reachable from i through child links,
// in pre-order, starting with i itself.
func (t *Tree) Subtree(i int) []int {
	out := []int{i}
	for _, c := range t.Nodes[i].Children {
		out = append(out, t.Subtree(c)...)
	}
	return out
}
