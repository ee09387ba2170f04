package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dgallion1/bomdiff/internal/bom"
	"github.com/dgallion1/bomdiff/internal/parser"
	"golang.org/x/sync/errgroup"
)

// Run parses both inputs with profile p and compares them.
func Run(ctx context.Context, original, updated Input, p parser.Profile, opts parser.Options) (*bom.Report, error) {
	a, b, err := parseBoth(ctx, original, updated, p, opts)
	if err != nil {
		return nil, err
	}
	return compareLines(original.Filename, updated.Filename, a, b)
}

// parseBoth loads the two inputs concurrently.
func parseBoth(ctx context.Context, original, updated Input, p parser.Profile, opts parser.Options) ([]bom.Line, []bom.Line, error) {
	var a, b []bom.Line
	g, gctx := errgroup.WithContext(ctx)
	load := func(in Input, dst *[]bom.Line) func() error {
		return func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lines, err := parser.Load(bytes.NewReader(in.Data), in.Filename, p, opts)
			if err != nil {
				return err
			}
			*dst = lines
			return nil
		}
	}
	g.Go(load(original, &a))
	g.Go(load(updated, &b))
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func compareLines(originalName, updatedName string, a, b []bom.Line) (*bom.Report, error) {
	ta, err := bom.Build(originalName, a)
	if err != nil {
		return nil, fmt.Errorf("original: %w", err)
	}
	tb, err := bom.Build(updatedName, b)
	if err != nil {
		return nil, fmt.Errorf("updated: %w", err)
	}
	return bom.Compare(ta, tb), nil
}
