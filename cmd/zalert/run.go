package main

import (
	"fmt"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	result, err := deps.Pipeline.Run(deps.Ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Run %s — alerts: %d | extracted: %d | added: %d | dup: %d | failed: %d\n",
		result.RunID, result.Alerts, result.Extracted, result.Added, result.Duplicates, result.Failed)

	if len(result.Scored) > 0 {
		fmt.Fprintf(deps.Stdout, "Top value ratios of %d scored listing(s):\n", len(result.Scored))
		for i, s := range result.Scored {
			if i >= 3 {
				break
			}
			fmt.Fprintf(deps.Stdout, "  ratio=%.2f  score=%.1f  %s  $%s\n",
				s.Breakdown.ValueRatio, s.Breakdown.FinalScore,
				s.Record.Property.Address, formatPrice(s.Record.Property.Price))
		}
	}

	return nil
}
