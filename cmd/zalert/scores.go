package main

import (
	"fmt"
	"sort"

	"github.com/kmathews/zalert"
	"github.com/kmathews/zalert/yaml"
)

// Run executes the scores command.
func (c *ScoresCmd) Run(deps *Dependencies) error {
	scoring, err := yaml.LoadScoringConfig(c.Scoring)
	if err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: pass --scoring to point at your scoring matrix")
		return err
	}

	recs, err := deps.Listings.FindListings(deps.Ctx, zalert.ListingFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", zalert.ErrorMessage(err))
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(deps.Stdout, "No listings ledgered. Use 'zalert run' to process alerts.")
		return nil
	}

	type scored struct {
		rec *zalert.ListingRecord
		bd  *zalert.ScoreBreakdown
	}
	results := make([]scored, 0, len(recs))
	for _, rec := range recs {
		results = append(results, scored{rec: rec, bd: zalert.ScoreProperty(rec.Property, scoring)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].bd.ValueRatio > results[j].bd.ValueRatio
	})

	for _, s := range results {
		p := s.rec.Property
		fmt.Fprintf(deps.Stdout, "ratio=%.2f  score=%.1f  %s  $%s  %s\n",
			s.bd.ValueRatio, s.bd.FinalScore, p.ZPID, formatPrice(p.Price), p.Address)
		if c.Full {
			fmt.Fprintf(deps.Stdout, "  %s\n", s.bd.Summary())
		}
	}

	return nil
}
