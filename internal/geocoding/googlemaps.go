package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"googlemaps.github.io/maps"
	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/logging"
	"wayfinder.app/internal/models"
)

// GoogleMaps is a Backend over the Google Geocoding API.
type GoogleMaps struct {
	client *maps.Client
	logger *slog.Logger
}

func NewGoogleMaps(client *maps.Client, logger *slog.Logger) *GoogleMaps {
	return &GoogleMaps{client: client, logger: logging.Component(logger, "google_geocoder")}
}

func (g *GoogleMaps) Search(ctx context.Context, q Query) ([]models.Candidate, error) {
	req := &maps.GeocodingRequest{
		Address:  q.Text,
		Language: "en",
	}
	if q.CountryCode != "" {
		req.Region = q.CountryCode
		req.Components = map[maps.Component]string{maps.ComponentCountry: q.CountryCode}
	}
	if q.ViewBox != (geo.Bounds{}) {
		req.Bounds = &maps.LatLngBounds{
			NorthEast: maps.LatLng{Lat: q.ViewBox.MaxLat, Lng: q.ViewBox.MaxLng},
			SouthWest: maps.LatLng{Lat: q.ViewBox.MinLat, Lng: q.ViewBox.MinLng},
		}
	}

	results, err := g.client.Geocode(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("google geocode: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(results))
	for i, r := range results {
		candidate := googleCandidate(r, importanceByRank(i, len(results)))
		if q.Bounded && !q.ViewBox.Contains(candidate.Location) {
			continue
		}
		candidates = append(candidates, candidate)
		if q.Limit > 0 && len(candidates) == q.Limit {
			break
		}
	}
	return candidates, nil
}

func (g *GoogleMaps) Reverse(ctx context.Context, p geo.Point) (models.Candidate, error) {
	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: p.Lat, Lng: p.Lng},
		Language: "en",
	})
	if err != nil {
		return models.Candidate{}, fmt.Errorf("google reverse geocode: %w", err)
	}
	if len(results) == 0 {
		return models.Candidate{}, ErrNotFound
	}
	return googleCandidate(results[0], 1), nil
}

// importanceByRank spreads Google's ordering over (0, 1] since the API
// exposes no score.
func importanceByRank(i, n int) float64 {
	return float64(n-i) / float64(n)
}

// addressTypes maps Google component types onto address parts, first match
// per component wins.
var addressTypes = []struct {
	googleType string
	set        func(a *models.Address, v string)
}{
	{"establishment", func(a *models.Address, v string) { a.Amenity = v }},
	{"point_of_interest", func(a *models.Address, v string) { a.Amenity = v }},
	{"store", func(a *models.Address, v string) { a.Shop = v }},
	{"premise", func(a *models.Address, v string) { a.Building = v }},
	{"route", func(a *models.Address, v string) { a.Road = v }},
	{"sublocality", func(a *models.Address, v string) { a.Suburb = v }},
	{"sublocality_level_1", func(a *models.Address, v string) { a.Suburb = v }},
	{"neighborhood", func(a *models.Address, v string) { a.Neighbourhood = v }},
	{"locality", func(a *models.Address, v string) { a.City = v }},
	{"postal_town", func(a *models.Address, v string) { a.Town = v }},
	{"administrative_area_level_2", func(a *models.Address, v string) { a.County = v }},
	{"administrative_area_level_1", func(a *models.Address, v string) { a.State = v }},
	{"country", func(a *models.Address, v string) { a.Country = v }},
}

func googleCandidate(r maps.GeocodingResult, importance float64) models.Candidate {
	var address models.Address
	for _, component := range r.AddressComponents {
		for _, at := range addressTypes {
			if slices.Contains(component.Types, at.googleType) {
				at.set(&address, component.LongName)
				break
			}
		}
	}

	candidate := models.Candidate{
		PlaceID:     r.PlaceID,
		DisplayName: r.FormattedAddress,
		Location:    geo.Point{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
		Importance:  importance,
	}
	if len(r.Types) > 0 {
		candidate.Type = r.Types[0]
	}
	if !address.IsZero() {
		candidate.Address = &address
	}
	return candidate
}
