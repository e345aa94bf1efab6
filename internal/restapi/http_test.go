package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"wayfinder.app/internal/app"
	"wayfinder.app/internal/appconf"
	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/geocoding"
	"wayfinder.app/internal/models"
	"wayfinder.app/internal/proximity"
	"wayfinder.app/internal/routing"
	"wayfinder.app/internal/session"
	"wayfinder.app/internal/store"
)

var origin = geo.Point{Lat: -1.2864, Lng: 36.8172}

type fakeRoutes struct {
	err error
}

func (f *fakeRoutes) Route(_ context.Context, from, _ geo.Point) (routing.Route, error) {
	if f.err != nil {
		return routing.Route{}, f.err
	}
	end := geo.Destination(from, 0, 1000)
	return routing.Route{
		Steps: []models.RawStep{
			{Maneuver: models.RawManeuver{Type: "turn", Modifier: "left", Location: []float64{from.Lng, from.Lat}}, Name: "Ngong Road", Distance: 1000, Duration: 60},
			{Maneuver: models.RawManeuver{Type: "arrive", Location: []float64{end.Lng, end.Lat}}},
		},
		Geometry:        []geo.Point{from, end},
		DistanceMeters:  1000,
		DurationSeconds: 60,
	}, nil
}

type fakeGeocoder struct{}

func (fakeGeocoder) Search(_ context.Context, q geocoding.Query) ([]models.Candidate, error) {
	return []models.Candidate{{
		PlaceID:     "place-" + q.Text,
		DisplayName: q.Text + ", Westlands, Nairobi, Kenya",
		Name:        q.Text,
		Location:    geo.Point{Lat: -1.2676, Lng: 36.8108},
		Importance:  0.5,
		Address:     &models.Address{Suburb: "Westlands", City: "Nairobi"},
	}}, nil
}

func (fakeGeocoder) Reverse(_ context.Context, p geo.Point) (models.Candidate, error) {
	if p.Lat > 0 {
		return models.Candidate{}, geocoding.ErrNotFound
	}
	return models.Candidate{
		PlaceID:     "rev-1",
		DisplayName: "Kenyatta Avenue, Central Business District, Nairobi, Kenya",
		Location:    p,
		Address:     &models.Address{Road: "Kenyatta Avenue", Suburb: "Central Business District", City: "Nairobi"},
	}, nil
}

func testHazards() []models.RoadCondition {
	return []models.RoadCondition{{
		ID:       "h-1",
		Type:     models.HazardPothole,
		Location: geo.Destination(origin, 180, 100),
		Name:     "Pothole near the roundabout",
		Severity: models.SeverityHigh,
		Verified: true,
	}}
}

func testCameras() []models.SpeedCamera {
	return []models.SpeedCamera{{
		ID:            "c-1",
		Location:      geo.Destination(origin, 180, 150),
		Name:          "Kenyatta Avenue camera",
		SpeedLimitKph: 50,
		Type:          models.CameraFixed,
		Active:        true,
	}}
}

// createTestApi builds an API over in-memory collaborators.
func createTestApi(t *testing.T) *RestAPI {
	return createTestApiWithRoutes(t, &fakeRoutes{})
}

func createTestApiWithRoutes(t *testing.T, routes routing.Source) *RestAPI {
	t.Helper()

	db, err := store.Open(context.Background(), store.Config{Env: appconf.Test}, nil)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalog := proximity.NewCatalog(testHazards(), testCameras())
	manager := session.NewManager(session.DefaultConfig(), routes, catalog, db, nil, logger)

	searchConfig := geocoding.DefaultConfig()
	searchConfig.Debounce = 10 * time.Millisecond

	application := &app.Application{
		Config: appconf.Config{
			Env:       appconf.Test,
			RateLimit: 100,
		},
		Logger:   logger,
		Sessions: manager,
		Geocoder: geocoding.NewController(searchConfig, fakeGeocoder{}, logger),
		Search: map[string]*geocoding.Controller{
			app.SearchFrom: geocoding.NewController(searchConfig, fakeGeocoder{}, logger),
			app.SearchTo:   geocoding.NewController(searchConfig, fakeGeocoder{}, logger),
		},
		Store: db,
	}
	t.Cleanup(func() { _ = application.Close() })

	return NewRestAPI(application)
}

// serveApiAndRetrieveEndpoint sends one request through the full middleware
// chain and decodes the response envelope.
func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, method, endpoint, body string) (*http.Response, models.ResponseModel) {
	t.Helper()

	server := httptest.NewServer(api.Handler())
	defer server.Close()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, server.URL+endpoint, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() // nolint:errcheck

	var response models.ResponseModel
	err = json.NewDecoder(resp.Body).Decode(&response)
	require.NoError(t, err)

	return resp, response
}

// serveApiAndRetrieveFieldErrors is used for requests expected to fail
// validation.
func serveApiAndRetrieveFieldErrors(t *testing.T, api *RestAPI, method, endpoint, body string) (*http.Response, map[string][]string) {
	t.Helper()

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(method, endpoint, strings.NewReader(body))
	api.Handler().ServeHTTP(recorder, req)

	var response struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return recorder.Result(), response.FieldErrors
}

func entryOf(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object, got %T", model.Data)
	entry, ok := data["entry"].(map[string]interface{})
	require.True(t, ok, "entry should be an object, got %T", data["entry"])
	return entry
}

func listOf(t *testing.T, model models.ResponseModel) []interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok)
	list, ok := data["list"].([]interface{})
	require.True(t, ok)
	return list
}

func positionBody(p geo.Point) string {
	return fmt.Sprintf(`{"lat": %f, "lng": %f}`, p.Lat, p.Lng)
}

func startBody() string {
	to := geo.Destination(origin, 0, 1000)
	return fmt.Sprintf(`{"from": {"lat": %f, "lng": %f}, "to": {"lat": %f, "lng": %f}}`, origin.Lat, origin.Lng, to.Lat, to.Lng)
}
