package mock

import (
	"context"

	"github.com/kmathews/zalert"
)

var _ zalert.ListingService = (*ListingService)(nil)

// ListingService is a mock implementation of zalert.ListingService.
type ListingService struct {
	CreateListingFn     func(ctx context.Context, rec *zalert.ListingRecord) error
	FindListingByZPIDFn func(ctx context.Context, zpid string) (*zalert.ListingRecord, error)
	FindListingsFn      func(ctx context.Context, filter zalert.ListingFilter) ([]*zalert.ListingRecord, error)
	HasListingFn        func(ctx context.Context, zpid string) (bool, error)
	ExistingZPIDsFn     func(ctx context.Context) ([]string, error)
	UpdateListingFn     func(ctx context.Context, zpid string, prop *zalert.Property) error
}

func (s *ListingService) CreateListing(ctx context.Context, rec *zalert.ListingRecord) error {
	return s.CreateListingFn(ctx, rec)
}

func (s *ListingService) FindListingByZPID(ctx context.Context, zpid string) (*zalert.ListingRecord, error) {
	return s.FindListingByZPIDFn(ctx, zpid)
}

func (s *ListingService) FindListings(ctx context.Context, filter zalert.ListingFilter) ([]*zalert.ListingRecord, error) {
	return s.FindListingsFn(ctx, filter)
}

func (s *ListingService) HasListing(ctx context.Context, zpid string) (bool, error) {
	return s.HasListingFn(ctx, zpid)
}

func (s *ListingService) ExistingZPIDs(ctx context.Context) ([]string, error) {
	return s.ExistingZPIDsFn(ctx)
}

func (s *ListingService) UpdateListing(ctx context.Context, zpid string, prop *zalert.Property) error {
	return s.UpdateListingFn(ctx, zpid, prop)
}
