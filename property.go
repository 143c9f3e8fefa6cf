package zalert

import "context"

// Property is the enriched record for one listing: the extraction stub plus
// everything a property-data lookup returned about it.
//
// The three feature pointers are three-valued: nil means the data source did
// not say either way, which scoring treats differently from an explicit no.
type Property struct {
	ZPID    string `json:"zpid"`
	Address string `json:"address"`
	URL     string `json:"url"`

	// Price is the asking price from the alert email, not the lookup.
	Price int `json:"price"`

	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
	SquareFeet   int     `json:"squareFeet"`
	LotAcres     float64 `json:"lotAcres"`
	YearBuilt    int     `json:"yearBuilt"`
	HOAMonthly   int     `json:"hoaMonthly"`
	PropertyType string  `json:"propertyType"`
	County       string  `json:"county"`

	HasGarage    *bool `json:"hasGarage"`
	HasBasement  *bool `json:"hasBasement"`
	HasFireplace *bool `json:"hasFireplace"`

	HasPool    bool `json:"hasPool"`
	HasCooling bool `json:"hasCooling"`
	HasHeating bool `json:"hasHeating"`

	GarageSpaces int `json:"garageSpaces"`
	FloorCount   int `json:"floorCount"`
	RoomCount    int `json:"roomCount"`

	FoundationType string `json:"foundationType"`
	ExteriorType   string `json:"exteriorType"`
	RoofType       string `json:"roofType"`

	LastSalePrice int    `json:"lastSalePrice"`
	LastSaleDate  string `json:"lastSaleDate"`

	// PropertyTax and TaxAssessment are the most recent year's values.
	PropertyTax   int `json:"propertyTax"`
	TaxAssessment int `json:"taxAssessment"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// CommuteMinutes maps destination label to drive time in minutes,
	// e.g. {"Work": 32}. Empty when commute lookups are disabled.
	CommuteMinutes map[string]int `json:"commuteMinutes"`
}

// PropertyService looks up property data for an extracted listing stub.
type PropertyService interface {
	// Lookup returns the enriched property for a listing, querying by its
	// address. The stub's identity fields (ZPID, URL, Price) are carried
	// into the result. Returns ENOTFOUND when the data source has no
	// record for the address.
	Lookup(ctx context.Context, listing *Listing) (*Property, error)
}

// CommuteService looks up drive times from an origin to labeled
// destinations.
type CommuteService interface {
	// CommuteTimes returns minutes of driving time per destination label,
	// omitting destinations that failed. One remote call per origin.
	CommuteTimes(ctx context.Context, origin string, destinations map[string]string) (map[string]int, error)
}
