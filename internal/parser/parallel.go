package parser

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/koltyakov/orgimport/pkg/types"
)

// Input is one named document to parse
type Input struct {
	Name      string
	Content   string
	Delimiter string
}

// Parsed is the outcome of parsing one Input
type Parsed struct {
	Rows []types.Row
	Err  error
}

// ParseEach parses documents concurrently. A failing input does not cancel
// the others; each outcome is reported in input order.
func ParseEach(ctx context.Context, inputs ...Input) []Parsed {
	results := make([]Parsed, len(inputs))

	var g errgroup.Group
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Rows, results[i].Err = Parse(in.Content, in.Delimiter)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
