// Package bloom provides a probabilistic pre-filter over ledgered ZPIDs.
//
// The pipeline tests freshly extracted listings against the filter before
// touching the ledger: a negative answer is definitive and skips a ledger
// query, a positive answer is confirmed with an exact lookup.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter keyed by ZPID.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a Bloom filter sized for n expected ZPIDs with the given
// false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// FromZPIDs builds a filter pre-loaded with the ledger's existing ZPIDs.
func FromZPIDs(zpids []string, fpRate float64) *Filter {
	n := uint(len(zpids))
	if n < 100 {
		n = 100
	}
	f := NewFilter(n, fpRate)
	for _, zpid := range zpids {
		f.Add(zpid)
	}
	return f
}

// Add adds a ZPID to the filter.
func (f *Filter) Add(zpid string) {
	f.f.AddString(zpid)
}

// Test returns true if the ZPID might be ledgered.
// False positives are possible; false negatives are not.
func (f *Filter) Test(zpid string) bool {
	return f.f.TestString(zpid)
}

// EstimatedCount returns the approximate number of ZPIDs in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
