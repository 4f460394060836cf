// ABOUTME: Dashboard totals across every entity collection
// ABOUTME: Loads all lists concurrently and counts active entries

package resources

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// EntitySummary is the headline count for one collection
type EntitySummary struct {
	Name     string `json:"name" yaml:"name"`
	Title    string `json:"title" yaml:"title"`
	Total    int    `json:"total" yaml:"total"`
	Active   int    `json:"active" yaml:"active"`
	Inactive int    `json:"inactive" yaml:"inactive"`
}

// Summarize lists every collection in parallel. The first failure cancels
// the remaining requests and is returned.
func (c *Catalog) Summarize(ctx context.Context) ([]EntitySummary, error) {
	summaries := make([]EntitySummary, len(c.resources))
	g, gctx := errgroup.WithContext(ctx)

	for i, res := range c.resources {
		g.Go(func() error {
			rows, err := res.List(gctx)
			if err != nil {
				return err
			}
			s := EntitySummary{Name: res.Name(), Title: res.Title(), Total: len(rows)}
			for _, r := range rows {
				if strings.EqualFold(r.Status, StatusActive) {
					s.Active++
				}
			}
			s.Inactive = s.Total - s.Active
			summaries[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}
