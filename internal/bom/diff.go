package bom

// ChangeKind classifies a diff row.
type ChangeKind string

const (
	Added   ChangeKind = "added"
	Removed ChangeKind = "removed"
	Changed ChangeKind = "changed"
)

// Side is one half of a diff row. Present is false for the missing half of
// an addition or removal.
type Side struct {
	Present     bool    `json:"present"`
	Item        string  `json:"item,omitempty"`
	Description string  `json:"description,omitempty"`
	Quantity    float64 `json:"quantity"`
	RefDes      string  `json:"ref_des,omitempty"`
	Seq         int     `json:"seq,omitempty"`
}

// Row is one change event.
type Row struct {
	Kind     ChangeKind `json:"kind"`
	Level    int        `json:"level"`
	Original Side       `json:"original"`
	Updated  Side       `json:"updated"`
}

func sideOf(n *Node) Side {
	return Side{
		Present:     true,
		Item:        n.Item,
		Description: n.Description,
		Quantity:    n.Quantity,
		RefDes:      n.RefDes,
		Seq:         n.Seq,
	}
}

// Diff compares the level-1 groups of two trees. Either tree may be empty
// or nil, which reports the other side entirely as additions or removals.
func Diff(a, b *Tree) []Row {
	return DiffGroups(a, b, a.Roots(), b.Roots())
}

// DiffGroups compares two sibling groups and everything below them. Rows
// come out depth-first, parents before children: first the additions of
// groupB, then the removals and changes of groupA, each in group order.
func DiffGroups(a, b *Tree, groupA, groupB []int) []Row {
	d := &differ{a: a, b: b}
	d.diff(groupA, groupB)
	return d.rows
}

type differ struct {
	a, b *Tree
	rows []Row
}

func (d *differ) diff(groupA, groupB []int) {
	if len(groupA) == 0 && len(groupB) == 0 {
		return
	}
	m := Match(d.a, d.b, groupA, groupB)

	for _, j := range groupB {
		if m.B[j].Kind == Unmatched {
			d.added(j)
		}
	}

	for _, i := range groupA {
		st := m.A[i]
		if st.Kind != MatchedTo {
			d.removed(i)
			continue
		}
		na, nb := &d.a.Nodes[i], &d.b.Nodes[st.Other]
		if na.Item != nb.Item || na.Quantity != nb.Quantity || na.RefDes != nb.RefDes {
			d.rows = append(d.rows, Row{
				Kind:     Changed,
				Level:    na.Level,
				Original: sideOf(na),
				Updated:  sideOf(nb),
			})
		}
		d.diff(na.Children, nb.Children)
	}
}

func (d *differ) added(j int) {
	n := &d.b.Nodes[j]
	d.rows = append(d.rows, Row{Kind: Added, Level: n.Level, Updated: sideOf(n)})
	d.diff(nil, n.Children)
}

func (d *differ) removed(i int) {
	n := &d.a.Nodes[i]
	d.rows = append(d.rows, Row{Kind: Removed, Level: n.Level, Original: sideOf(n)})
	d.diff(n.Children, nil)
}
