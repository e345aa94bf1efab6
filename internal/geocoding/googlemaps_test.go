package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
	"wayfinder.app/internal/geo"
)

const googleGeocodeBody = `{
  "status": "OK",
  "results": [
    {
      "place_id": "ChIJ-sarit",
      "formatted_address": "Sarit Centre, Karuna Close, Nairobi, Kenya",
      "types": ["shopping_mall", "establishment", "point_of_interest"],
      "geometry": {"location": {"lat": -1.2615, "lng": 36.8027}},
      "address_components": [
        {"long_name": "Sarit Centre", "short_name": "Sarit Centre", "types": ["establishment", "point_of_interest"]},
        {"long_name": "Karuna Close", "short_name": "Karuna Cl", "types": ["route"]},
        {"long_name": "Westlands", "short_name": "Westlands", "types": ["sublocality_level_1", "sublocality", "political"]},
        {"long_name": "Nairobi", "short_name": "Nairobi", "types": ["locality", "political"]},
        {"long_name": "Kenya", "short_name": "KE", "types": ["country", "political"]}
      ]
    },
    {
      "place_id": "ChIJ-mombasa",
      "formatted_address": "Mombasa, Kenya",
      "types": ["locality"],
      "geometry": {"location": {"lat": -4.0435, "lng": 39.6682}},
      "address_components": [
        {"long_name": "Mombasa", "short_name": "Mombasa", "types": ["locality", "political"]}
      ]
    }
  ]
}`

func newGoogleTestClient(t *testing.T, handler http.HandlerFunc) *maps.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := maps.NewClient(maps.WithAPIKey("test-key"), maps.WithBaseURL(server.URL))
	require.NoError(t, err)
	return client
}

func TestGoogleMapsSearch(t *testing.T) {
	var query map[string]string
	client := newGoogleTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{
			"address":    r.URL.Query().Get("address"),
			"region":     r.URL.Query().Get("region"),
			"components": r.URL.Query().Get("components"),
			"bounds":     r.URL.Query().Get("bounds"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(googleGeocodeBody))
	})

	g := NewGoogleMaps(client, nil)
	candidates, err := g.Search(context.Background(), Query{
		Text:        "sarit",
		CountryCode: "ke",
		ViewBox:     geo.NairobiViewBox,
		Limit:       8,
	})
	require.NoError(t, err)

	assert.Equal(t, "sarit", query["address"])
	assert.Equal(t, "ke", query["region"])
	assert.Equal(t, "country:ke", query["components"])
	assert.NotEmpty(t, query["bounds"])

	require.Len(t, candidates, 2)
	first := candidates[0]
	assert.Equal(t, "ChIJ-sarit", first.PlaceID)
	assert.Equal(t, "shopping_mall", first.Type)
	assert.Equal(t, 1.0, first.Importance)
	assert.Equal(t, 0.5, candidates[1].Importance)
	require.NotNil(t, first.Address)
	assert.Equal(t, "Sarit Centre", first.Address.Amenity)
	assert.Equal(t, "Karuna Close", first.Address.Road)
	assert.Equal(t, "Westlands", first.Address.Suburb)
	assert.Equal(t, "Sarit Centre, Westlands", ShortName(first, "Nairobi"))
}

func TestGoogleMapsBoundedSearchFiltersOutsideViewBox(t *testing.T) {
	client := newGoogleTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(googleGeocodeBody))
	})

	g := NewGoogleMaps(client, nil)
	candidates, err := g.Search(context.Background(), Query{Text: "sarit", ViewBox: geo.NairobiViewBox, Bounded: true, Limit: 8})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "ChIJ-sarit", candidates[0].PlaceID)
}

func TestGoogleMapsReverse(t *testing.T) {
	client := newGoogleTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "-1.2615,36.8027", r.URL.Query().Get("latlng"))
		_, _ = w.Write([]byte(googleGeocodeBody))
	})

	g := NewGoogleMaps(client, nil)
	candidate, err := g.Reverse(context.Background(), geo.Point{Lat: -1.2615, Lng: 36.8027})
	require.NoError(t, err)
	assert.Equal(t, "ChIJ-sarit", candidate.PlaceID)
	assert.Equal(t, 1.0, candidate.Importance)
}

func TestGoogleMapsReverseNoResults(t *testing.T) {
	client := newGoogleTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	})

	g := NewGoogleMaps(client, nil)
	_, err := g.Reverse(context.Background(), geo.Point{Lat: -2, Lng: 38})
	assert.ErrorIs(t, err, ErrNotFound)
}
