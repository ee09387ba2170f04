package bom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func assembly() []Line {
	return []Line{
		{Level: 1, Item: "TOP-1-A", Description: "Top assembly", Quantity: 1, Seq: 10},
		{Level: 2, Item: "PCB-10-A", Description: "Board", Quantity: 1, RefDes: "PCB1", Seq: 20},
		{Level: 3, Item: "R-100-A", Description: "Resistor", Quantity: 4, RefDes: "R1,R2,R3,R4", Seq: 30},
		{Level: 3, Item: "C-200-A", Description: "Capacitor", Quantity: 2, RefDes: "C1,C2", Seq: 40},
		{Level: 2, Item: "CASE-5-A", Description: "Enclosure", Quantity: 1, Seq: 50},
		{Level: 2, Item: "SCREW-7", Description: "Screw", Quantity: 4, Seq: 60},
	}
}

func TestDiff_IdentityIsEmpty(t *testing.T) {
	a := mustBuild(t, "a", assembly()...)
	b := mustBuild(t, "b", assembly()...)
	if rows := Diff(a, b); len(rows) != 0 {
		t.Fatalf("expected no rows diffing a BOM against itself, got %d: %+v", len(rows), rows)
	}
}

func TestDiff_EndToEnd(t *testing.T) {
	a := mustBuild(t, "a", ln(1, "P-1-A", 2))
	b := mustBuild(t, "b", ln(1, "P-1-B", 3))

	want := []Row{{
		Kind:     Changed,
		Level:    1,
		Original: Side{Present: true, Item: "P-1-A", Quantity: 2},
		Updated:  Side{Present: true, Item: "P-1-B", Quantity: 3},
	}}
	if diff := cmp.Diff(want, Diff(a, b)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestDiff_OnlyChangedChildEmitted(t *testing.T) {
	a := mustBuild(t, "a",
		ln(1, "P-1-A", 1),
		ln(2, "C-1-A", 1),
		ln(2, "C-2-A", 1),
		ln(2, "C-3-A", 1),
	)
	b := mustBuild(t, "b",
		ln(1, "P-1-A", 1),
		ln(2, "C-1-A", 1),
		ln(2, "C-2-A", 5),
		ln(2, "C-3-A", 1),
	)
	rows := Diff(a, b)
	if len(rows) != 1 {
		t.Fatalf("expected exactly 1 row, got %d: %+v", len(rows), rows)
	}
	if rows[0].Kind != Changed || rows[0].Level != 2 || rows[0].Original.Item != "C-2-A" {
		t.Errorf("unexpected row: %+v", rows[0])
	}
	if rows[0].Original.Quantity != 1 || rows[0].Updated.Quantity != 5 {
		t.Errorf("expected quantities 1 -> 5, got %v -> %v", rows[0].Original.Quantity, rows[0].Updated.Quantity)
	}
}

func TestDiff_AddedSubtreeIsComplete(t *testing.T) {
	a := mustBuild(t, "a", ln(1, "TOP-1-A", 1))
	b := mustBuild(t, "b",
		ln(1, "TOP-1-A", 1),
		ln(2, "NEW-1-A", 1),
		ln(3, "N1-1-A", 1),
		ln(4, "N11-1-A", 1),
		ln(3, "N2-1-A", 1),
		ln(2, "NEW-2-A", 1),
	)
	rows := Diff(a, b)

	wantItems := []string{"NEW-1-A", "N1-1-A", "N11-1-A", "N2-1-A", "NEW-2-A"}
	wantLevels := []int{2, 3, 4, 3, 2}
	if len(rows) != len(wantItems) {
		t.Fatalf("expected %d rows, got %d: %+v", len(wantItems), len(rows), rows)
	}
	for i, row := range rows {
		if row.Kind != Added {
			t.Errorf("row %d: expected added, got %s", i, row.Kind)
		}
		if row.Original != (Side{}) {
			t.Errorf("row %d: expected empty original side, got %+v", i, row.Original)
		}
		if row.Updated.Item != wantItems[i] || row.Level != wantLevels[i] {
			t.Errorf("row %d: expected %s at level %d, got %s at level %d",
				i, wantItems[i], wantLevels[i], row.Updated.Item, row.Level)
		}
	}
}

func TestDiff_AdditionsBeforeRemovals(t *testing.T) {
	a := mustBuild(t, "a", ln(1, "OLD-1-A", 1), ln(2, "OLDCHILD-1-A", 1), ln(1, "SAME-1-A", 1))
	b := mustBuild(t, "b", ln(1, "SAME-1-A", 2), ln(1, "NEW-1-A", 1))

	var got []string
	for _, r := range Diff(a, b) {
		item := r.Original.Item
		if r.Kind == Added {
			item = r.Updated.Item
		}
		got = append(got, string(r.Kind)+" "+item)
	}
	want := []string{
		"added NEW-1-A",
		"removed OLD-1-A",
		"removed OLDCHILD-1-A",
		"changed SAME-1-A",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDiff_ComparedFields(t *testing.T) {
	base := Line{Level: 1, Item: "P-1-A", Description: "Part", Quantity: 1, RefDes: "U1", Seq: 10}

	tests := []struct {
		name    string
		mutate  func(*Line)
		changed bool
	}{
		{"description only", func(l *Line) { l.Description = "Renamed" }, false},
		{"sequence only", func(l *Line) { l.Seq = 99 }, false},
		{"revision", func(l *Line) { l.Item = "P-1-B" }, true},
		{"quantity", func(l *Line) { l.Quantity = 2 }, true},
		{"reference", func(l *Line) { l.RefDes = "U2" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upd := base
			tt.mutate(&upd)
			rows := Diff(mustBuild(t, "a", base), mustBuild(t, "b", upd))
			if got := len(rows) == 1; got != tt.changed {
				t.Fatalf("expected changed=%v, got %d rows", tt.changed, len(rows))
			}
			if tt.changed && rows[0].Updated.Seq != upd.Seq {
				t.Errorf("expected full updated attributes, got %+v", rows[0].Updated)
			}
		})
	}
}

func TestDiff_MatchedPairOneSidedChildren(t *testing.T) {
	a := mustBuild(t, "a", ln(1, "P-1-A", 1), ln(2, "C-1-A", 1))
	b := mustBuild(t, "b", ln(1, "P-1-B", 1))

	rows := Diff(a, b)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(rows), rows)
	}
	if rows[0].Kind != Changed || rows[1].Kind != Removed || rows[1].Original.Item != "C-1-A" {
		t.Errorf("unexpected rows: %+v", rows)
	}
	if rows[1].Updated.Present {
		t.Error("expected removed row to have no updated side")
	}
}

func TestDiff_EmptySide(t *testing.T) {
	b := mustBuild(t, "b", assembly()...)

	rows := Diff(mustBuild(t, "a"), b)
	if len(rows) != len(assembly()) {
		t.Fatalf("expected %d additions, got %d", len(assembly()), len(rows))
	}
	for i, r := range rows {
		if r.Kind != Added {
			t.Errorf("row %d: expected added, got %s", i, r.Kind)
		}
	}

	rows = Diff(b, nil)
	if len(rows) != len(assembly()) {
		t.Fatalf("expected %d removals, got %d", len(assembly()), len(rows))
	}
	for i, r := range rows {
		if r.Kind != Removed {
			t.Errorf("row %d: expected removed, got %s", i, r.Kind)
		}
	}

	if rows := Diff(nil, nil); len(rows) != 0 {
		t.Errorf("expected no rows for two empty BOMs, got %d", len(rows))
	}
}

func TestDiff_SwappedRolesMirror(t *testing.T) {
	a := mustBuild(t, "a", assembly()...)
	upd := assembly()
	upd[2].Quantity = 6
	upd = append(upd[:3], upd[4:]...) // drop the capacitor
	upd = append(upd, Line{Level: 1, Item: "MANUAL-1-A", Quantity: 1})
	b := mustBuild(t, "b", upd...)

	forward := Diff(a, b)
	backward := Diff(b, a)
	if len(forward) != len(backward) {
		t.Fatalf("expected mirrored row counts, got %d and %d", len(forward), len(backward))
	}
	mirrored := make(map[Row]int)
	for _, r := range forward {
		mirrored[mirror(r)]++
	}
	for _, r := range backward {
		if mirrored[r] == 0 {
			t.Errorf("row %+v has no mirror in the forward diff", r)
		}
		mirrored[r]--
	}
}
