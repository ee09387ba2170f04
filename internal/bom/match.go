package bom

// MatchKind tags a MatchState.
type MatchKind int

const (
	// Unmatched marks a removal candidate on the original side or an
	// addition candidate on the updated side.
	Unmatched MatchKind = iota
	// MatchedTo marks an original-side node paired with MatchState.Other.
	MatchedTo
	// Consumed marks an updated-side node taken by a MatchedTo pairing.
	Consumed
)

func (k MatchKind) String() string {
	switch k {
	case MatchedTo:
		return "matched"
	case Consumed:
		return "consumed"
	default:
		return "unmatched"
	}
}

// MatchState is the outcome for one node of a sibling group.
type MatchState struct {
	Kind  MatchKind
	Other int // Updated-side arena index; only meaningful for MatchedTo.
}

// Matching holds the states for both sibling groups of one Match call,
// keyed by arena index. It is never shared between calls.
type Matching struct {
	A map[int]MatchState
	B map[int]MatchState
}

// Match pairs the nodes of two sibling groups.
//
// Nodes are paired by base identifier when that family occurs exactly once
// on each side. A family that occurs more than once on either side falls
// back to exact item equality, one-to-one, taking the lowest-index unused
// candidate when the same item repeats. Anything left over is Unmatched.
func Match(a, b *Tree, groupA, groupB []int) Matching {
	m := Matching{
		A: make(map[int]MatchState, len(groupA)),
		B: make(map[int]MatchState, len(groupB)),
	}
	for _, i := range groupA {
		m.A[i] = MatchState{Kind: Unmatched}
	}
	for _, j := range groupB {
		m.B[j] = MatchState{Kind: Unmatched}
	}
	if len(groupA) == 0 || len(groupB) == 0 {
		return m
	}

	famA := families(a, groupA)
	famB := families(b, groupB)

	for _, i := range groupA {
		base := a.Nodes[i].Base
		inA, inB := famA[base], famB[base]
		switch {
		case len(inB) == 0:
			// Family gone from the updated side.
		case len(inA) == 1 && len(inB) == 1:
			m.pair(i, inB[0])
		default:
			m.pairExact(a, b, i, inB)
		}
	}
	return m
}

// pairExact pairs i with the first unused candidate carrying the same item.
func (m Matching) pairExact(a, b *Tree, i int, candidates []int) {
	item := a.Nodes[i].Item
	for _, j := range candidates {
		if m.B[j].Kind != Unmatched {
			continue
		}
		if b.Nodes[j].Item == item {
			m.pair(i, j)
			return
		}
	}
}

func (m Matching) pair(i, j int) {
	m.A[i] = MatchState{Kind: MatchedTo, Other: j}
	m.B[j] = MatchState{Kind: Consumed}
}

// families indexes a sibling group by base identifier, keeping group order
// inside each family.
func families(t *Tree, group []int) map[string][]int {
	out := make(map[string][]int, len(group))
	for _, i := range group {
		base := t.Nodes[i].Base
		out[base] = append(out[base], i)
	}
	return out
}
