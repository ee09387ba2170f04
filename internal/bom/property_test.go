package bom

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// linesFromSeeds turns arbitrary integers into a valid pre-order BOM. The
// item pool is small so that families and exact duplicates collide often.
func linesFromSeeds(seeds []int) []Line {
	lines := make([]Line, 0, len(seeds))
	prev := 0
	for _, s := range seeds {
		level := 1 + s%(prev+1)
		lines = append(lines, Line{
			Level:    level,
			Item:     fmt.Sprintf("P-%d-%c", (s/7)%4, 'A'+rune((s/29)%3)),
			Quantity: float64((s / 3) % 3),
			RefDes:   fmt.Sprintf("R%d", (s/11)%2),
			Seq:      s % 50,
		})
		prev = level
	}
	return lines
}

func mirror(r Row) Row {
	out := Row{Kind: r.Kind, Level: r.Level, Original: r.Updated, Updated: r.Original}
	switch r.Kind {
	case Added:
		out.Kind = Removed
	case Removed:
		out.Kind = Added
	}
	return out
}

func TestDiffProperties(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	seeds := gen.SliceOf(gen.IntRange(0, 10000))

	properties.Property("diffing a BOM against itself is empty", prop.ForAll(
		func(s []int) bool {
			a, err := Build("a", linesFromSeeds(s))
			if err != nil {
				return false
			}
			b, err := Build("b", linesFromSeeds(s))
			if err != nil {
				return false
			}
			return len(Diff(a, b)) == 0
		},
		seeds,
	))

	properties.Property("swapping roles mirrors the report", prop.ForAll(
		func(sa, sb []int) bool {
			a, err := Build("a", linesFromSeeds(sa))
			if err != nil {
				return false
			}
			b, err := Build("b", linesFromSeeds(sb))
			if err != nil {
				return false
			}
			forward, backward := Diff(a, b), Diff(b, a)
			if len(forward) != len(backward) {
				return false
			}
			counts := make(map[Row]int, len(forward))
			for _, r := range forward {
				counts[mirror(r)]++
			}
			for _, r := range backward {
				if counts[r] == 0 {
					return false
				}
				counts[r]--
			}
			return true
		},
		seeds,
		seeds,
	))

	properties.Property("every updated node is accounted for at most once", prop.ForAll(
		func(sa, sb []int) bool {
			a, _ := Build("a", linesFromSeeds(sa))
			b, _ := Build("b", linesFromSeeds(sb))
			m := Match(a, b, a.Roots(), b.Roots())
			seen := make(map[int]bool)
			for _, st := range m.A {
				if st.Kind != MatchedTo {
					continue
				}
				if seen[st.Other] || m.B[st.Other].Kind != Consumed {
					return false
				}
				seen[st.Other] = true
			}
			return true
		},
		seeds,
		seeds,
	))

	properties.TestingRun(t)
}
