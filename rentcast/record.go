package rentcast

import (
	"math"
	"strings"

	"github.com/kmathews/zalert"
)

// sqftPerAcre converts RentCast lot sizes (reported in square feet) to
// acres.
const sqftPerAcre = 43_560

// Record mirrors one entry of a RentCast /properties response.
type Record struct {
	FormattedAddress string  `json:"formattedAddress"`
	PropertyType     string  `json:"propertyType"`
	Bedrooms         int     `json:"bedrooms"`
	Bathrooms        float64 `json:"bathrooms"`
	SquareFootage    int     `json:"squareFootage"`
	LotSize          float64 `json:"lotSize"`
	YearBuilt        int     `json:"yearBuilt"`
	County           string  `json:"county"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	LastSalePrice    int     `json:"lastSalePrice"`
	LastSaleDate     string  `json:"lastSaleDate"`

	HOA *struct {
		Fee int `json:"fee"`
	} `json:"hoa"`

	Features *Features `json:"features"`

	PropertyTaxes  map[string]TaxYear `json:"propertyTaxes"`
	TaxAssessments map[string]TaxYear `json:"taxAssessments"`
}

// Features mirrors the features object of a RentCast record. The pointer
// fields distinguish "absent" from an explicit false.
type Features struct {
	Garage         *bool  `json:"garage"`
	GarageSpaces   int    `json:"garageSpaces"`
	Fireplace      *bool  `json:"fireplace"`
	Pool           bool   `json:"pool"`
	Cooling        bool   `json:"cooling"`
	Heating        bool   `json:"heating"`
	FloorCount     int    `json:"floorCount"`
	RoomCount      int    `json:"roomCount"`
	FoundationType string `json:"foundationType"`
	ExteriorType   string `json:"exteriorType"`
	RoofType       string `json:"roofType"`
}

// TaxYear is one year's entry in the propertyTaxes or taxAssessments maps.
type TaxYear struct {
	Total int `json:"total"`
	Value int `json:"value"`
}

// nonBasementFoundations are foundation types that rule a basement out.
var nonBasementFoundations = []string{"slab", "crawl space", "crawl", "pier", "pillar", "post"}

// MapRecord builds an enriched property from a RentCast record, carrying
// the listing stub's identity fields (ZPID, URL, alert price) through.
func MapRecord(rec Record, listing *zalert.Listing) *zalert.Property {
	prop := &zalert.Property{
		ZPID:          listing.ZPID,
		URL:           listing.URL,
		Price:         listing.Price,
		Address:       rec.FormattedAddress,
		PropertyType:  rec.PropertyType,
		Bedrooms:      rec.Bedrooms,
		Bathrooms:     rec.Bathrooms,
		SquareFeet:    rec.SquareFootage,
		YearBuilt:     rec.YearBuilt,
		County:        rec.County,
		Latitude:      rec.Latitude,
		Longitude:     rec.Longitude,
		LastSalePrice: rec.LastSalePrice,
		LastSaleDate:  rec.LastSaleDate,
		PropertyTax:   mostRecentYear(rec.PropertyTaxes, func(y TaxYear) int { return y.Total }),
		TaxAssessment: mostRecentYear(rec.TaxAssessments, func(y TaxYear) int { return y.Value }),
	}

	if rec.LotSize > 0 {
		prop.LotAcres = math.Round(rec.LotSize/sqftPerAcre*100) / 100
	}
	if rec.HOA != nil {
		prop.HOAMonthly = rec.HOA.Fee
	}

	features := rec.Features
	if features == nil {
		features = &Features{}
	}

	prop.HasPool = features.Pool
	prop.HasCooling = features.Cooling
	prop.HasHeating = features.Heating
	prop.GarageSpaces = features.GarageSpaces
	prop.FloorCount = features.FloorCount
	prop.RoomCount = features.RoomCount
	prop.FoundationType = features.FoundationType
	prop.ExteriorType = features.ExteriorType
	prop.RoofType = features.RoofType

	// Three-valued garage: explicit flag, then garageSpaces, then unknown.
	switch {
	case features.Garage != nil:
		prop.HasGarage = features.Garage
	case features.GarageSpaces > 0:
		prop.HasGarage = boolPtr(true)
	}

	// Three-valued basement: inferred from the foundation type, unknown
	// when the foundation says nothing either way.
	foundation := strings.ToLower(features.FoundationType)
	switch {
	case strings.Contains(foundation, "basement"):
		prop.HasBasement = boolPtr(true)
	case foundation != "" && containsAny(foundation, nonBasementFoundations):
		prop.HasBasement = boolPtr(false)
	}

	// Three-valued fireplace: explicit flag or unknown.
	if features.Fireplace != nil {
		prop.HasFireplace = features.Fireplace
	}

	return prop
}

// mostRecentYear picks the value for the latest year key in a
// year-string-keyed map.
func mostRecentYear(years map[string]TaxYear, value func(TaxYear) int) int {
	latest := ""
	for year := range years {
		if year > latest {
			latest = year
		}
	}
	if latest == "" {
		return 0
	}
	return value(years[latest])
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func boolPtr(v bool) *bool {
	return &v
}
