package main

import (
	"fmt"
	"strconv"

	"github.com/kmathews/zalert"
)

// Run executes the listings command.
func (c *ListingsCmd) Run(deps *Dependencies) error {
	recs, err := deps.Listings.FindListings(deps.Ctx, zalert.ListingFilter{
		SortBy: zalert.ListingSortOrder(c.Sort),
		Limit:  c.Limit,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", zalert.ErrorMessage(err))
		return err
	}

	if len(recs) == 0 {
		fmt.Fprintln(deps.Stdout, "No listings ledgered. Use 'zalert run' to process alerts.")
		return nil
	}

	for _, rec := range recs {
		p := rec.Property
		fmt.Fprintf(deps.Stdout, "%s  $%s  %dbd/%sba  %s sqft  %.2f acres  %s\n",
			p.ZPID, formatPrice(p.Price), p.Bedrooms, formatBaths(p.Bathrooms),
			formatPrice(p.SquareFeet), p.LotAcres, p.Address)
	}

	return nil
}

// formatPrice renders a whole-dollar amount with thousands separators.
func formatPrice(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return s
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}

// formatBaths drops the fraction for whole bath counts, keeping "2.5".
func formatBaths(b float64) string {
	if b == float64(int(b)) {
		return strconv.Itoa(int(b))
	}
	return strconv.FormatFloat(b, 'f', 1, 64)
}
