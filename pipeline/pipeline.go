// Package pipeline orchestrates one end-to-end run: fetch unread alerts,
// extract listing stubs, enrich new ones via property and commute lookups,
// ledger them, and re-score the whole ledger.
package pipeline

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/kmathews/zalert"
	"github.com/kmathews/zalert/bloom"
	"github.com/rs/zerolog"
)

// Bloom filter sizing for the ledger pre-filter. Positives are confirmed
// with an exact ledger lookup, so the false positive rate only costs an
// extra query.
const ledgerFalsePositiveRate = 0.01

// DefaultMaxPerRun caps enrichment lookups per run when MaxPerRun is unset.
const DefaultMaxPerRun = 20

// Pipeline wires the stages of a run together. Source, Extractor,
// Properties, and Listings are required; the rest degrade gracefully when
// nil.
type Pipeline struct {
	Source     zalert.AlertSource
	Extractor  zalert.ListingExtractor
	Properties zalert.PropertyService
	Commutes   zalert.CommuteService
	Listings   zalert.ListingService
	Alerts     zalert.AlertLog
	Scoring    *zalert.ScoringConfig

	// Destinations maps commute label to destination address. Empty
	// disables commute lookups.
	Destinations map[string]string

	// MaxPerRun caps how many new listings are enriched in one run, so a
	// backlog of alerts cannot exhaust API quotas.
	MaxPerRun int

	Logger zerolog.Logger
}

// Result holds the outcome of one run.
type Result struct {
	RunID      string
	Alerts     int
	Extracted  int
	Added      int
	Duplicates int
	Failed     int

	// Scored is the re-scored ledger, best value ratio first. Nil when no
	// scoring matrix is configured.
	Scored []*ScoredListing
}

// ScoredListing pairs a ledgered listing with its score breakdown.
type ScoredListing struct {
	Record    *zalert.ListingRecord
	Breakdown *zalert.ScoreBreakdown
}

// Run executes one pipeline run. Per-listing failures are counted, not
// fatal; an error is returned only when a whole stage is unavailable.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := &Result{RunID: uuid.New().String()[:8]}
	logger := p.Logger.With().Str("run", result.RunID).Logger()

	alerts, err := p.Source.FetchUnread(ctx)
	if err != nil {
		return nil, zalert.Errorf(zalert.ErrorCode(err), "fetch alerts: %v", zalert.ErrorMessage(err))
	}
	result.Alerts = len(alerts)
	logger.Info().Int("alerts", len(alerts)).Msg("fetched unread alerts")

	listings, err := p.extractAlerts(ctx, logger, alerts)
	if err != nil {
		return nil, err
	}
	result.Extracted = len(listings)

	if err := p.enrich(ctx, logger, listings, result); err != nil {
		return nil, err
	}

	if p.Scoring != nil {
		scored, err := p.rescore(ctx, logger)
		if err != nil {
			return nil, err
		}
		result.Scored = scored
	}

	logger.Info().
		Int("alerts", result.Alerts).
		Int("extracted", result.Extracted).
		Int("added", result.Added).
		Int("duplicates", result.Duplicates).
		Int("failed", result.Failed).
		Int("scored", len(result.Scored)).
		Msg("run finished")
	return result, nil
}

// extractAlerts extracts stubs alert by alert, deduplicating across the
// batch, so each alert's yield can be logged against its body hash.
func (p *Pipeline) extractAlerts(ctx context.Context, logger zerolog.Logger, alerts []zalert.Alert) ([]*zalert.Listing, error) {
	seen := zalert.NewSeenSet()
	var listings []*zalert.Listing

	for _, alert := range alerts {
		if p.Alerts != nil && alert.BodyHash != "" {
			processed, err := p.Alerts.SeenAlert(ctx, alert.BodyHash)
			if err != nil {
				return nil, err
			}
			if processed {
				logger.Debug().Str("subject", alert.Subject).Msg("alert body already processed")
				p.markProcessed(ctx, logger, alert)
				continue
			}
		}

		extracted, err := p.Extractor.Extract(alert)
		if err != nil {
			return nil, err
		}

		fresh := 0
		for _, listing := range extracted {
			if seen.Add(listing.ZPID) {
				listings = append(listings, listing)
				fresh++
			}
		}
		logger.Info().
			Str("subject", alert.Subject).
			Int("listings", len(extracted)).
			Int("new", fresh).
			Msg("extracted alert")

		if p.Alerts != nil && alert.BodyHash != "" {
			if err := p.Alerts.LogAlert(ctx, alert.BodyHash, alert.Subject, len(extracted)); err != nil {
				return nil, err
			}
		}
		p.markProcessed(ctx, logger, alert)
	}
	return listings, nil
}

// markProcessed flags the source message seen, so a re-delivered alert whose
// body was already logged is not refetched on every run. Failure to flag is
// logged, not fatal.
func (p *Pipeline) markProcessed(ctx context.Context, logger zerolog.Logger, alert zalert.Alert) {
	if alert.UID == 0 {
		return
	}
	if err := p.Source.MarkProcessed(ctx, alert.UID); err != nil {
		logger.Warn().Uint32("uid", alert.UID).Err(err).Msg("mark processed failed")
	}
}

// enrich looks up property data for listings not yet ledgered and stores
// them. The ledger is pre-filtered with a Bloom filter so most already-seen
// ZPIDs skip the exact lookup.
func (p *Pipeline) enrich(ctx context.Context, logger zerolog.Logger, listings []*zalert.Listing, result *Result) error {
	existing, err := p.Listings.ExistingZPIDs(ctx)
	if err != nil {
		return err
	}
	filter := bloom.FromZPIDs(existing, ledgerFalsePositiveRate)
	logger.Info().Int("ledgered", len(existing)).Msg("loaded ledger")

	var fresh []*zalert.Listing
	for _, listing := range listings {
		if filter.Test(listing.ZPID) {
			has, err := p.Listings.HasListing(ctx, listing.ZPID)
			if err != nil {
				return err
			}
			if has {
				result.Duplicates++
				continue
			}
		}
		fresh = append(fresh, listing)
	}
	if result.Duplicates > 0 {
		logger.Info().Int("duplicates", result.Duplicates).Msg("skipped ledgered listings")
	}

	maxPerRun := p.MaxPerRun
	if maxPerRun <= 0 {
		maxPerRun = DefaultMaxPerRun
	}
	if len(fresh) > maxPerRun {
		logger.Warn().Int("deferred", len(fresh)-maxPerRun).Msg("run cap reached, deferring listings")
		fresh = fresh[:maxPerRun]
	}

	for _, listing := range fresh {
		sub := logger.With().Str("zpid", listing.ZPID).Logger()

		if listing.Address == "" {
			sub.Warn().Str("url", listing.URL).Msg("no address extracted, skipping")
			result.Failed++
			continue
		}

		prop, err := p.Properties.Lookup(ctx, listing)
		if err != nil {
			sub.Warn().Err(err).Msg("property lookup failed")
			result.Failed++
			continue
		}

		if p.Commutes != nil && len(p.Destinations) > 0 {
			commutes, err := p.Commutes.CommuteTimes(ctx, prop.Address, p.Destinations)
			if err != nil {
				sub.Warn().Err(err).Msg("commute lookup failed")
			} else if len(commutes) > 0 {
				prop.CommuteMinutes = commutes
			}
		}

		rec := &zalert.ListingRecord{Property: prop}
		if err := p.Listings.CreateListing(ctx, rec); err != nil {
			if zalert.ErrorCode(err) == zalert.ECONFLICT {
				result.Duplicates++
				continue
			}
			sub.Error().Err(err).Msg("ledger write failed")
			result.Failed++
			continue
		}
		filter.Add(listing.ZPID)
		result.Added++

		sub.Info().
			Str("address", prop.Address).
			Int("price", prop.Price).
			Int("bedrooms", prop.Bedrooms).
			Float64("bathrooms", prop.Bathrooms).
			Msg("ledgered listing")
	}
	return nil
}

// rescore re-scores every ledgered listing with the current scoring matrix,
// backfilling commute data for records that are missing it.
func (p *Pipeline) rescore(ctx context.Context, logger zerolog.Logger) ([]*ScoredListing, error) {
	recs, err := p.Listings.FindListings(ctx, zalert.ListingFilter{})
	if err != nil {
		return nil, err
	}

	if p.Commutes != nil && len(p.Destinations) > 0 {
		backfilled := 0
		for _, rec := range recs {
			if len(rec.Property.CommuteMinutes) > 0 || rec.Property.Address == "" {
				continue
			}
			commutes, err := p.Commutes.CommuteTimes(ctx, rec.Property.Address, p.Destinations)
			if err != nil || len(commutes) == 0 {
				continue
			}
			rec.Property.CommuteMinutes = commutes
			if err := p.Listings.UpdateListing(ctx, rec.Property.ZPID, rec.Property); err != nil {
				logger.Warn().Str("zpid", rec.Property.ZPID).Err(err).Msg("commute backfill write failed")
				continue
			}
			backfilled++
		}
		if backfilled > 0 {
			logger.Info().Int("backfilled", backfilled).Msg("backfilled commute data")
		}
	}

	scored := make([]*ScoredListing, 0, len(recs))
	for _, rec := range recs {
		scored = append(scored, &ScoredListing{
			Record:    rec,
			Breakdown: zalert.ScoreProperty(rec.Property, p.Scoring),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Breakdown.ValueRatio > scored[j].Breakdown.ValueRatio
	})

	for i, s := range scored {
		if i >= 3 {
			break
		}
		logger.Info().
			Float64("ratio", s.Breakdown.ValueRatio).
			Float64("score", s.Breakdown.FinalScore).
			Str("address", s.Record.Property.Address).
			Int("price", s.Record.Property.Price).
			Msg("top value ratio")
	}
	return scored, nil
}
