package sqlite_test

import (
	"context"
	"testing"

	"github.com/kmathews/zalert"
	"github.com/kmathews/zalert/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProperty(zpid string) *zalert.Property {
	garage := true
	return &zalert.Property{
		ZPID:           zpid,
		URL:            "https://www.zillow.com/homedetails/" + zpid + "_zpid/",
		Address:        "408 Manchester Road, Auburn, NH 03032",
		Price:          485000,
		Bedrooms:       3,
		Bathrooms:      2.5,
		SquareFeet:     1850,
		LotAcres:       2.0,
		YearBuilt:      1987,
		PropertyType:   "Single Family",
		County:         "Rockingham",
		HasGarage:      &garage,
		FoundationType: "Concrete Basement",
		PropertyTax:    6800,
		CommuteMinutes: map[string]int{"Work": 32, "Family": 28},
	}
}

func TestListingService_CreateListing(t *testing.T) {
	t.Parallel()

	t.Run("creates record with generated ID and timestamp", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewListingService(db)
		ctx := context.Background()

		rec := &zalert.ListingRecord{Property: testProperty("87654321")}
		require.NoError(t, svc.CreateListing(ctx, rec))

		assert.NotEmpty(t, rec.ID, "ID should be generated")
		assert.False(t, rec.AddedAt.IsZero(), "AddedAt should be set")
	})

	t.Run("duplicate ZPID returns ECONFLICT", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewListingService(db)
		ctx := context.Background()

		require.NoError(t, svc.CreateListing(ctx, &zalert.ListingRecord{Property: testProperty("87654321")}))

		err := svc.CreateListing(ctx, &zalert.ListingRecord{Property: testProperty("87654321")})
		require.Error(t, err)
		assert.Equal(t, zalert.ECONFLICT, zalert.ErrorCode(err))
	})

	t.Run("missing property is invalid", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewListingService(db)

		err := svc.CreateListing(context.Background(), &zalert.ListingRecord{})
		require.Error(t, err)
		assert.Equal(t, zalert.EINVALID, zalert.ErrorCode(err))
	})
}

func TestListingService_FindListingByZPID(t *testing.T) {
	t.Parallel()

	t.Run("round-trips the full property", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewListingService(db)
		ctx := context.Background()

		want := testProperty("87654321")
		require.NoError(t, svc.CreateListing(ctx, &zalert.ListingRecord{Property: want}))

		rec, err := svc.FindListingByZPID(ctx, "87654321")
		require.NoError(t, err)

		assert.Equal(t, want, rec.Property)
		require.NotNil(t, rec.Property.HasGarage)
		assert.True(t, *rec.Property.HasGarage)
		assert.Nil(t, rec.Property.HasBasement, "unknown stays unknown across the round trip")
		assert.Equal(t, map[string]int{"Work": 32, "Family": 28}, rec.Property.CommuteMinutes)
	})

	t.Run("unknown ZPID returns ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewListingService(db)

		_, err := svc.FindListingByZPID(context.Background(), "404404404")
		require.Error(t, err)
		assert.Equal(t, zalert.ENOTFOUND, zalert.ErrorCode(err))
	})
}

func TestListingService_FindListings(t *testing.T) {
	t.Parallel()

	t.Run("returns records in insertion order by default", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewListingService(db)
		ctx := context.Background()

		for _, zpid := range []string{"10000001", "10000002", "10000003"} {
			require.NoError(t, svc.CreateListing(ctx, &zalert.ListingRecord{Property: testProperty(zpid)}))
		}

		recs, err := svc.FindListings(ctx, zalert.ListingFilter{})
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, "10000001", recs[0].Property.ZPID)
		assert.Equal(t, "10000003", recs[2].Property.ZPID)
	})

	t.Run("filters by ZPID and honors limit", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewListingService(db)
		ctx := context.Background()

		for _, zpid := range []string{"10000001", "10000002"} {
			require.NoError(t, svc.CreateListing(ctx, &zalert.ListingRecord{Property: testProperty(zpid)}))
		}

		zpid := "10000002"
		recs, err := svc.FindListings(ctx, zalert.ListingFilter{ZPID: &zpid})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "10000002", recs[0].Property.ZPID)

		limited, err := svc.FindListings(ctx, zalert.ListingFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})
}

func TestListingService_ExistingZPIDs(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := sqlite.NewListingService(db)
	ctx := context.Background()

	zpids, err := svc.ExistingZPIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, zpids)

	for _, zpid := range []string{"10000001", "10000002"} {
		require.NoError(t, svc.CreateListing(ctx, &zalert.ListingRecord{Property: testProperty(zpid)}))
	}

	zpids, err = svc.ExistingZPIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"10000001", "10000002"}, zpids)

	has, err := svc.HasListing(ctx, "10000001")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = svc.HasListing(ctx, "99999999")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestListingService_UpdateListing(t *testing.T) {
	t.Parallel()

	t.Run("replaces stored property data", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewListingService(db)
		ctx := context.Background()

		prop := testProperty("87654321")
		require.NoError(t, svc.CreateListing(ctx, &zalert.ListingRecord{Property: prop}))

		prop.CommuteMinutes = map[string]int{"Work": 25}
		require.NoError(t, svc.UpdateListing(ctx, "87654321", prop))

		rec, err := svc.FindListingByZPID(ctx, "87654321")
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"Work": 25}, rec.Property.CommuteMinutes)
	})

	t.Run("unknown ZPID returns ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewListingService(db)

		err := svc.UpdateListing(context.Background(), "404404404", testProperty("404404404"))
		require.Error(t, err)
		assert.Equal(t, zalert.ENOTFOUND, zalert.ErrorCode(err))
	})
}
