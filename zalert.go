// Package zalert turns Zillow listing-alert emails into scored property
// records. It extracts listing stubs from vendor-formatted alert HTML,
// enriches them with property data and commute times, scores them against a
// configurable matrix, and records them in a local ledger.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, imap/).
package zalert
