package mock

import "github.com/kmathews/zalert"

var _ zalert.ListingExtractor = (*ListingExtractor)(nil)

// ListingExtractor is a mock implementation of zalert.ListingExtractor.
type ListingExtractor struct {
	ExtractFn    func(alert zalert.Alert) ([]*zalert.Listing, error)
	ExtractAllFn func(alerts []zalert.Alert) ([]*zalert.Listing, error)
}

func (e *ListingExtractor) Extract(alert zalert.Alert) ([]*zalert.Listing, error) {
	return e.ExtractFn(alert)
}

func (e *ListingExtractor) ExtractAll(alerts []zalert.Alert) ([]*zalert.Listing, error) {
	return e.ExtractAllFn(alerts)
}
