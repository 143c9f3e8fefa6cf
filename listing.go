package zalert

import (
	"context"
	"time"
)

// Listing is the minimal record extracted for one property: the stub handed
// to the enrichment and scoring stages.
type Listing struct {
	// ZPID is the vendor-assigned numeric listing identifier. Unique
	// within one extraction run; a block or link without one yields no
	// listing.
	ZPID string `json:"zpid"`

	// URL is the canonical listing URL. Always absolute, always ends in
	// a trailing-slash "<zpid>_zpid/" suffix.
	URL string `json:"url"`

	// Address is a best-effort street address. Empty when no heuristic
	// succeeded; consumers treat empty as unknown, not as an error.
	Address string `json:"address"`

	// Price is the listing price in whole dollars as shown in the alert.
	// Zero means unknown, never a real price. Never negative.
	Price int `json:"price"`
}

// Validate returns an error if the listing contains invalid fields.
func (l *Listing) Validate() error {
	if l.ZPID == "" {
		return Errorf(EINVALID, "listing ZPID required")
	}
	if l.URL == "" {
		return Errorf(EINVALID, "listing URL required")
	}
	if l.Price < 0 {
		return Errorf(EINVALID, "listing price cannot be negative")
	}
	return nil
}

// ListingExtractor extracts listing stubs from alert documents.
//
// Extraction is a pure computation over already-fetched text: it performs no
// I/O and never fails on malformed or unrecognized documents, degrading to
// fewer or emptier stubs instead. Returned listings have pairwise distinct
// ZPIDs in first-seen order.
type ListingExtractor interface {
	// Extract returns the listing stubs found in one alert document.
	// Calling Extract twice with the same alert yields identical results.
	Extract(alert Alert) ([]*Listing, error)

	// ExtractAll extracts from a batch of alerts with a single shared
	// seen-set, so a listing referenced by two alerts yields one stub.
	ExtractAll(alerts []Alert) ([]*Listing, error)
}

// ListingRecord is a ledgered listing: the enriched property data stored
// after a successful lookup, plus bookkeeping fields.
type ListingRecord struct {
	ID       string    `json:"id"`
	Property *Property `json:"property"`
	AddedAt  time.Time `json:"addedAt"`
}

// ListingSortOrder represents the sort order for ledger queries.
type ListingSortOrder string

// Sort orders for ListingFilter.
const (
	SortByAddedAt ListingSortOrder = "added_at"
	SortByPrice   ListingSortOrder = "price"
)

// ListingFilter represents a filter for FindListings.
type ListingFilter struct {
	ZPID *string `json:"zpid"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`

	SortBy ListingSortOrder `json:"sortBy"`
}

// ListingService is the ledger of record for enriched listings.
type ListingService interface {
	// CreateListing appends a new listing record.
	// Returns ECONFLICT if the ZPID is already ledgered.
	CreateListing(ctx context.Context, rec *ListingRecord) error

	// FindListingByZPID retrieves a record by ZPID.
	// Returns ENOTFOUND if no record exists.
	FindListingByZPID(ctx context.Context, zpid string) (*ListingRecord, error)

	// FindListings retrieves records matching the filter.
	FindListings(ctx context.Context, filter ListingFilter) ([]*ListingRecord, error)

	// HasListing reports whether a ZPID is already ledgered.
	HasListing(ctx context.Context, zpid string) (bool, error)

	// ExistingZPIDs returns all ledgered ZPIDs. Used by callers to filter
	// freshly extracted stubs before any enrichment calls.
	ExistingZPIDs(ctx context.Context) ([]string, error)

	// UpdateListing replaces the stored property data for a ZPID.
	// Returns ENOTFOUND if no record exists.
	UpdateListing(ctx context.Context, zpid string, prop *Property) error
}
