package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/bomdiff/internal/bom"
	"github.com/dgallion1/bomdiff/internal/sheet"
	"github.com/google/go-cmp/cmp"
)

func TestExtract_SimpleProfile(t *testing.T) {
	s := &sheet.Sheet{Rows: [][]string{
		{"Level", "Number", "Description", "BOM.Qty", "BOM.Ref Des", "BOM.Item Seq"},
		{"", "", "", "", "", ""}, // skipped by the profile
		{"1", "TOP-1-A", "Top", "1", "", "10"},
		{"2", "R-100-A", "Resistor", "4", "R1,R2,R3,R4", "20"},
		{"", "", "", "", "", ""},
		{"2", "C-200-A", "Capacitor", "2.0", "C1,C2", "30.0"},
	}}

	lines, err := Extract(s, Simple)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []bom.Line{
		{Level: 1, Item: "TOP-1-A", Description: "Top", Quantity: 1, Seq: 10, SourceRow: 3},
		{Level: 2, Item: "R-100-A", Description: "Resistor", Quantity: 4, RefDes: "R1,R2,R3,R4", Seq: 20, SourceRow: 4},
		{Level: 2, Item: "C-200-A", Description: "Capacitor", Quantity: 2, RefDes: "C1,C2", Seq: 30, SourceRow: 6},
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_StandardProfileWithTrailer(t *testing.T) {
	s := &sheet.Sheet{Rows: [][]string{
		{"Assembly report"},
		{"BOM"},
		{"Item Seq", "Level", "Item Number", "Item Description", "Qty", "Ref Des"},
		{"10", "1", "TOP-1-A", "Top", "1", ""},
		{"20", "2", "R-100-A", "Resistor", "4", "R1-R4"},
		{"", "", "", "", "", ""},
		{"Notes", "", "dropped", "", "", ""},
		{"Manufacturers"},
		{"ACME", "", "MFG-1", "", "", ""},
	}}

	lines, err := Extract(s, Standard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines before the trailer gap, got %d: %+v", len(lines), lines)
	}
	if lines[1].Item != "R-100-A" || lines[1].Seq != 20 || lines[1].Level != 2 {
		t.Errorf("unexpected second line: %+v", lines[1])
	}
}

func TestExtract_NoTrailerRunsToEnd(t *testing.T) {
	s := &sheet.Sheet{Rows: [][]string{
		{"Level", "Item", "Description", "Qty", "Ref Des", "Seq"},
		{"1", "A", "", "1", "", "1"},
		{"1", "B", "", "1", "", "2"},
	}}
	lines, err := Extract(s, Plain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Errorf("expected 2 lines, got %d", len(lines))
	}
}

func TestExtract_BlankLevelReachesTreeBuilder(t *testing.T) {
	s := &sheet.Sheet{Rows: [][]string{
		{"Level", "Item", "Description", "Qty", "Ref Des", "Seq"},
		{"", "A", "", "1", "", ""},
	}}
	lines, err := Extract(s, Plain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines[0].Level != 0 || lines[0].Seq != 0 {
		t.Errorf("expected blank level and seq to read as 0, got %+v", lines[0])
	}
}

func TestExtract_Errors(t *testing.T) {
	header := []string{"Level", "Item", "Description", "Qty", "Ref Des", "Seq"}
	tests := []struct {
		name    string
		sheet   *sheet.Sheet
		profile Profile
		wantErr string
	}{
		{
			name:    "missing column",
			sheet:   &sheet.Sheet{Rows: [][]string{{"Level", "Item"}}},
			profile: Plain,
			wantErr: `missing column "Description"`,
		},
		{
			name:    "missing anchor",
			sheet:   &sheet.Sheet{Rows: [][]string{header}},
			profile: Standard,
			wantErr: `anchor row "BOM" not found`,
		},
		{
			name:    "fractional level",
			sheet:   &sheet.Sheet{Rows: [][]string{header, {"1.5", "A", "", "1", "", "1"}}},
			profile: Plain,
			wantErr: "is not an integer",
		},
		{
			name:    "text quantity",
			sheet:   &sheet.Sheet{Rows: [][]string{header, {"1", "A", "", "lots", "", "1"}}},
			profile: Plain,
			wantErr: "row 2",
		},
		{
			name:    "empty sheet",
			sheet:   &sheet.Sheet{},
			profile: Plain,
			wantErr: "header row missing",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.sheet, tt.profile)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err)
			}
		})
	}
}
