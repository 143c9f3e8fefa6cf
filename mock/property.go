package mock

import (
	"context"

	"github.com/kmathews/zalert"
)

var _ zalert.PropertyService = (*PropertyService)(nil)

// PropertyService is a mock implementation of zalert.PropertyService.
type PropertyService struct {
	LookupFn func(ctx context.Context, listing *zalert.Listing) (*zalert.Property, error)
}

func (s *PropertyService) Lookup(ctx context.Context, listing *zalert.Listing) (*zalert.Property, error) {
	return s.LookupFn(ctx, listing)
}

var _ zalert.CommuteService = (*CommuteService)(nil)

// CommuteService is a mock implementation of zalert.CommuteService.
type CommuteService struct {
	CommuteTimesFn func(ctx context.Context, origin string, destinations map[string]string) (map[string]int, error)
}

func (s *CommuteService) CommuteTimes(ctx context.Context, origin string, destinations map[string]string) (map[string]int, error) {
	return s.CommuteTimesFn(ctx, origin, destinations)
}
