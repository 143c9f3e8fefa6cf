package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kmathews/zalert"
)

// Compile-time interface verification.
var _ zalert.ListingService = (*ListingService)(nil)

// listingColumns is the column list shared by every listing query, in scan
// order.
const listingColumns = `id, zpid, url, address, price, bedrooms, bathrooms, square_feet,
	lot_acres, year_built, hoa_monthly, property_type, county,
	has_garage, has_basement, has_fireplace, has_pool, has_cooling, has_heating,
	garage_spaces, floor_count, room_count, foundation_type, exterior_type, roof_type,
	last_sale_price, last_sale_date, property_tax, tax_assessment,
	latitude, longitude, commutes, added_at`

// ListingService implements zalert.ListingService using SQLite. The
// listings table is append-only raw data; scores are always recomputed from
// it rather than stored.
type ListingService struct {
	db *DB
}

// NewListingService creates a new ListingService.
func NewListingService(db *DB) *ListingService {
	return &ListingService{db: db}
}

// CreateListing appends a new listing record.
func (s *ListingService) CreateListing(ctx context.Context, rec *zalert.ListingRecord) error {
	if rec.Property == nil || rec.Property.ZPID == "" {
		return zalert.Errorf(zalert.EINVALID, "listing property with ZPID required")
	}

	exists, err := s.HasListing(ctx, rec.Property.ZPID)
	if err != nil {
		return err
	}
	if exists {
		return zalert.Errorf(zalert.ECONFLICT, "listing %s already ledgered", rec.Property.ZPID)
	}

	rec.ID = uuid.New().String()
	rec.AddedAt = time.Now().UTC()

	p := rec.Property
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO listings (`+listingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, p.ZPID, p.URL, p.Address, p.Price, p.Bedrooms, p.Bathrooms, p.SquareFeet,
		p.LotAcres, p.YearBuilt, p.HOAMonthly, p.PropertyType, p.County,
		nullBool(p.HasGarage), nullBool(p.HasBasement), nullBool(p.HasFireplace),
		p.HasPool, p.HasCooling, p.HasHeating,
		p.GarageSpaces, p.FloorCount, p.RoomCount, p.FoundationType, p.ExteriorType, p.RoofType,
		p.LastSalePrice, p.LastSaleDate, p.PropertyTax, p.TaxAssessment,
		p.Latitude, p.Longitude, marshalCommutes(p.CommuteMinutes),
		rec.AddedAt.Format(time.RFC3339Nano))

	return err
}

// FindListingByZPID retrieves a record by ZPID.
func (s *ListingService) FindListingByZPID(ctx context.Context, zpid string) (*zalert.ListingRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+listingColumns+` FROM listings WHERE zpid = ?
	`, zpid)

	rec, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, zalert.Errorf(zalert.ENOTFOUND, "listing %s not found", zpid)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// FindListings retrieves records matching the filter.
func (s *ListingService) FindListings(ctx context.Context, filter zalert.ListingFilter) ([]*zalert.ListingRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + listingColumns + " FROM listings WHERE 1=1")

	if filter.ZPID != nil {
		query.WriteString(" AND zpid = ?")
		args = append(args, *filter.ZPID)
	}

	// rowid breaks ties between rows inserted within one timestamp.
	switch filter.SortBy {
	case zalert.SortByPrice:
		query.WriteString(" ORDER BY price ASC, rowid ASC")
	default:
		query.WriteString(" ORDER BY added_at ASC, rowid ASC")
	}

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*zalert.ListingRecord
	for rows.Next() {
		rec, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

// HasListing reports whether a ZPID is already ledgered.
func (s *ListingService) HasListing(ctx context.Context, zpid string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM listings WHERE zpid = ?", zpid).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ExistingZPIDs returns all ledgered ZPIDs.
func (s *ListingService) ExistingZPIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT zpid FROM listings ORDER BY added_at ASC, rowid ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zpids []string
	for rows.Next() {
		var zpid string
		if err := rows.Scan(&zpid); err != nil {
			return nil, err
		}
		zpids = append(zpids, zpid)
	}

	return zpids, rows.Err()
}

// UpdateListing replaces the stored property data for a ZPID.
func (s *ListingService) UpdateListing(ctx context.Context, zpid string, p *zalert.Property) error {
	if p == nil {
		return zalert.Errorf(zalert.EINVALID, "property required")
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE listings
		SET url = ?, address = ?, price = ?, bedrooms = ?, bathrooms = ?, square_feet = ?,
			lot_acres = ?, year_built = ?, hoa_monthly = ?, property_type = ?, county = ?,
			has_garage = ?, has_basement = ?, has_fireplace = ?,
			has_pool = ?, has_cooling = ?, has_heating = ?,
			garage_spaces = ?, floor_count = ?, room_count = ?,
			foundation_type = ?, exterior_type = ?, roof_type = ?,
			last_sale_price = ?, last_sale_date = ?, property_tax = ?, tax_assessment = ?,
			latitude = ?, longitude = ?, commutes = ?
		WHERE zpid = ?
	`, p.URL, p.Address, p.Price, p.Bedrooms, p.Bathrooms, p.SquareFeet,
		p.LotAcres, p.YearBuilt, p.HOAMonthly, p.PropertyType, p.County,
		nullBool(p.HasGarage), nullBool(p.HasBasement), nullBool(p.HasFireplace),
		p.HasPool, p.HasCooling, p.HasHeating,
		p.GarageSpaces, p.FloorCount, p.RoomCount,
		p.FoundationType, p.ExteriorType, p.RoofType,
		p.LastSalePrice, p.LastSaleDate, p.PropertyTax, p.TaxAssessment,
		p.Latitude, p.Longitude, marshalCommutes(p.CommuteMinutes), zpid)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return zalert.Errorf(zalert.ENOTFOUND, "listing %s not found", zpid)
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanListing.
type scanner interface {
	Scan(dest ...any) error
}

// scanListing reads one listings row in listingColumns order.
func scanListing(row scanner) (*zalert.ListingRecord, error) {
	var (
		rec      zalert.ListingRecord
		p        zalert.Property
		garage   sql.NullBool
		basement sql.NullBool
		fire     sql.NullBool
		commutes string
		addedAt  string
	)

	err := row.Scan(&rec.ID, &p.ZPID, &p.URL, &p.Address, &p.Price, &p.Bedrooms, &p.Bathrooms, &p.SquareFeet,
		&p.LotAcres, &p.YearBuilt, &p.HOAMonthly, &p.PropertyType, &p.County,
		&garage, &basement, &fire, &p.HasPool, &p.HasCooling, &p.HasHeating,
		&p.GarageSpaces, &p.FloorCount, &p.RoomCount, &p.FoundationType, &p.ExteriorType, &p.RoofType,
		&p.LastSalePrice, &p.LastSaleDate, &p.PropertyTax, &p.TaxAssessment,
		&p.Latitude, &p.Longitude, &commutes, &addedAt)
	if err != nil {
		return nil, err
	}

	p.HasGarage = fromNullBool(garage)
	p.HasBasement = fromNullBool(basement)
	p.HasFireplace = fromNullBool(fire)
	p.CommuteMinutes = unmarshalCommutes(commutes)

	rec.AddedAt, err = time.Parse(time.RFC3339Nano, addedAt)
	if err != nil {
		return nil, err
	}

	rec.Property = &p
	return &rec, nil
}

// nullBool converts a three-valued *bool to its SQL representation.
func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}

func fromNullBool(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Bool
	return &b
}

// marshalCommutes serializes commute minutes as JSON, empty string when
// there are none.
func marshalCommutes(m map[string]int) string {
	if len(m) == 0 {
		return ""
	}
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}

func unmarshalCommutes(s string) map[string]int {
	if s == "" {
		return nil
	}
	var m map[string]int
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}
