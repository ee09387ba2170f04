package bom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func roots(items ...string) []Line {
	out := make([]Line, len(items))
	for i, item := range items {
		out[i] = ln(1, item, 1)
	}
	return out
}

func TestMatch_FamilyGrouping(t *testing.T) {
	a := mustBuild(t, "a", roots("X-1-A")...)
	b := mustBuild(t, "b", roots("X-1-B")...)

	m := Match(a, b, a.Roots(), b.Roots())
	if got := m.A[0]; got != (MatchState{Kind: MatchedTo, Other: 0}) {
		t.Errorf("expected X-1-A matched to index 0, got %+v", got)
	}
	if got := m.B[0].Kind; got != Consumed {
		t.Errorf("expected updated node consumed, got %s", got)
	}
}

func TestMatch_OneSidedFamilies(t *testing.T) {
	a := mustBuild(t, "a", roots("GONE-1-A", "KEEP-1-A")...)
	b := mustBuild(t, "b", roots("KEEP-1-B", "NEW-1-A")...)

	m := Match(a, b, a.Roots(), b.Roots())
	want := Matching{
		A: map[int]MatchState{0: {Kind: Unmatched}, 1: {Kind: MatchedTo, Other: 0}},
		B: map[int]MatchState{0: {Kind: Consumed}, 1: {Kind: Unmatched}},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("matching mismatch (-want +got):\n%s", diff)
	}
}

func TestMatch_DuplicateFallsBackToExactItem(t *testing.T) {
	a := mustBuild(t, "a", roots("X-1-A", "X-1-C")...)
	b := mustBuild(t, "b", roots("X-1-C", "X-1-A")...)

	m := Match(a, b, a.Roots(), b.Roots())
	want := Matching{
		A: map[int]MatchState{0: {Kind: MatchedTo, Other: 1}, 1: {Kind: MatchedTo, Other: 0}},
		B: map[int]MatchState{0: {Kind: Consumed}, 1: {Kind: Consumed}},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("matching mismatch (-want +got):\n%s", diff)
	}
}

func TestMatch_DuplicateWithoutExactCounterpart(t *testing.T) {
	// X-1-C has no exact counterpart: it becomes a removal, X-1-D an addition.
	a := mustBuild(t, "a", roots("X-1-A", "X-1-C")...)
	b := mustBuild(t, "b", roots("X-1-A", "X-1-D")...)

	m := Match(a, b, a.Roots(), b.Roots())
	want := Matching{
		A: map[int]MatchState{0: {Kind: MatchedTo, Other: 0}, 1: {Kind: Unmatched}},
		B: map[int]MatchState{0: {Kind: Consumed}, 1: {Kind: Unmatched}},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("matching mismatch (-want +got):\n%s", diff)
	}
}

func TestMatch_DuplicateOnOneSideOnly(t *testing.T) {
	a := mustBuild(t, "a", roots("X-1-B")...)
	b := mustBuild(t, "b", roots("X-1-A", "X-1-B")...)

	m := Match(a, b, a.Roots(), b.Roots())
	if got := m.A[0]; got != (MatchState{Kind: MatchedTo, Other: 1}) {
		t.Errorf("expected exact match to index 1, got %+v", got)
	}
	if got := m.B[0].Kind; got != Unmatched {
		t.Errorf("expected X-1-A to stay unmatched, got %s", got)
	}
}

func TestMatch_TieBreakFirstAvailable(t *testing.T) {
	a := mustBuild(t, "a", roots("X-1-A", "X-1-A")...)
	b := mustBuild(t, "b", roots("X-1-A", "X-1-A", "X-1-A")...)

	m := Match(a, b, a.Roots(), b.Roots())
	want := Matching{
		A: map[int]MatchState{0: {Kind: MatchedTo, Other: 0}, 1: {Kind: MatchedTo, Other: 1}},
		B: map[int]MatchState{0: {Kind: Consumed}, 1: {Kind: Consumed}, 2: {Kind: Unmatched}},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("matching mismatch (-want +got):\n%s", diff)
	}
}

func TestMatch_ScopedToGroup(t *testing.T) {
	// Same item under different parents never pairs across groups.
	a := mustBuild(t, "a",
		ln(1, "P-1-A", 1),
		ln(2, "C-1-A", 1),
		ln(1, "Q-1-A", 1),
	)
	b := mustBuild(t, "b",
		ln(1, "P-1-A", 1),
		ln(1, "Q-1-A", 1),
		ln(2, "C-1-A", 1),
	)
	m := Match(a, b, a.Node(0).Children, b.Node(0).Children)
	if got := m.A[1].Kind; got != Unmatched {
		t.Errorf("expected child to stay unmatched against an empty group, got %s", got)
	}
	if len(m.B) != 0 {
		t.Errorf("expected no updated-side states, got %d", len(m.B))
	}
}

func TestMatch_EmptyGroups(t *testing.T) {
	b := mustBuild(t, "b", roots("A", "B")...)
	m := Match(nil, b, nil, b.Roots())
	for _, j := range b.Roots() {
		if m.B[j].Kind != Unmatched {
			t.Errorf("node %d: expected unmatched, got %s", j, m.B[j].Kind)
		}
	}
}
