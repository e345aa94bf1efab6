package models

import "wayfinder.app/internal/geo"

// Address holds the structured address parts a search backend returns.
type Address struct {
	Amenity       string `json:"amenity,omitempty"`
	Shop          string `json:"shop,omitempty"`
	Building      string `json:"building,omitempty"`
	Road          string `json:"road,omitempty"`
	Suburb        string `json:"suburb,omitempty"`
	Neighbourhood string `json:"neighbourhood,omitempty"`
	City          string `json:"city,omitempty"`
	Town          string `json:"town,omitempty"`
	County        string `json:"county,omitempty"`
	State         string `json:"state,omitempty"`
	Country       string `json:"country,omitempty"`
}

// IsZero reports whether no address part is set.
func (a Address) IsZero() bool {
	return a == Address{}
}

// GeocodingResult is one place search candidate.
type GeocodingResult struct {
	PlaceID     string    `json:"placeId"`
	DisplayName string    `json:"displayName"`
	ShortName   string    `json:"shortName"`
	Location    geo.Point `json:"location"`
	Type        string    `json:"type"`
	Importance  float64   `json:"importance"`
	Address     *Address  `json:"address,omitempty"`
}

// Candidate is a raw backend result before ranking and labelling. Name is the
// source provided place name, if any.
type Candidate struct {
	PlaceID     string
	DisplayName string
	Name        string
	Location    geo.Point
	Type        string
	Importance  float64
	Address     *Address
}
