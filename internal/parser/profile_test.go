package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultProfiles(t *testing.T) {
	ps := DefaultProfiles()
	if diff := cmp.Diff([]string{"plain", "simple", "standard"}, ps.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	p, err := ps.Lookup("standard")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Anchor != "BOM" || p.Columns.Item != "Item Number" {
		t.Errorf("unexpected standard profile: %+v", p)
	}
	if _, err := ps.Lookup("fancy"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestLoadProfiles_YAML(t *testing.T) {
	input := `
- name: erp
  anchor: "Bill of Materials"
  skip_rows: 0
  columns:
    level: Lvl
    item: Part
    description: Desc
    quantity: Qty/Assy
    ref_des: Designators
    seq: Find No
`
	ps, err := LoadProfiles(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, err := ps.Lookup("erp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Profile{
		Name:   "erp",
		Anchor: "Bill of Materials",
		Columns: Columns{
			Level:       "Lvl",
			Item:        "Part",
			Description: "Desc",
			Quantity:    "Qty/Assy",
			RefDes:      "Designators",
			Seq:         "Find No",
		},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
	if _, err := ps.Lookup("simple"); err != nil {
		t.Error("expected built-in profiles to remain registered")
	}
}

func TestLoadProfiles_Invalid(t *testing.T) {
	tests := []string{
		"- columns: {level: L}\n",
		"- name: half\n  columns: {level: L, item: I}\n",
		"- name: neg\n  skip_rows: -1\n  columns: {level: a, item: b, description: c, quantity: d, ref_des: e, seq: f}\n",
		"not: [a list",
	}
	for _, input := range tests {
		if _, err := LoadProfiles(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestLoadProfiles_Empty(t *testing.T) {
	ps, err := LoadProfiles(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 3 {
		t.Errorf("expected 3 built-in profiles, got %d", len(ps))
	}
}

func TestLoadProfilesFile_EmptyPath(t *testing.T) {
	ps, err := LoadProfilesFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ps.Lookup("plain"); err != nil {
		t.Error("expected built-ins for empty path")
	}
}
