package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-polyline"
	"github.com/stretchr/testify/require"
	"wayfinder.app/internal/appconf"
	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/geocoding"
	"wayfinder.app/internal/routing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) appconf.Config {
	t.Helper()
	cfg, _, err := parseConfig([]string{"-env", "test", "-db-path", ":memory:", "-voice=false"})
	require.NoError(t, err)
	return cfg
}

func TestBuildApplication(t *testing.T) {
	application, cleanup, err := build(context.Background(), testConfig(t), discardLogger())
	require.NoError(t, err)
	defer cleanup()
	defer application.Close() // nolint:errcheck

	assert.Len(t, application.Sessions.Hazards(), 10)
	assert.Len(t, application.Sessions.Cameras(), 15)
	assert.Len(t, application.Search, 2)
	assert.NotNil(t, application.Geocoder)
}

func TestBuildRefusesFileDatabaseInTest(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBPath = "wayfinder.db"

	_, _, err := build(context.Background(), cfg, discardLogger())
	assert.Error(t, err)
}

func TestSpeechFactory(t *testing.T) {
	cfg := testConfig(t)

	factory, cleanup, err := speechFactory(cfg, discardLogger())
	require.NoError(t, err)
	cleanup()
	assert.Nil(t, factory, "voice off means silent sessions")

	cfg.Voice = true
	factory, cleanup, err = speechFactory(cfg, discardLogger())
	require.NoError(t, err)
	defer cleanup()
	require.NotNil(t, factory)
	speech := factory()
	speech.Speak("Starting navigation.", true)
	assert.NoError(t, speech.Close())

	cfg.XMPP = appconf.XMPPConfig{Jid: "not-a-jid", Password: "secret", To: "driver@chat.example.com"}
	_, _, err = speechFactory(cfg, discardLogger())
	assert.Error(t, err)
}

func TestBackendSelection(t *testing.T) {
	cfg := testConfig(t)
	client := &http.Client{}

	assert.IsType(t, &geocoding.Nominatim{}, geocodingBackend(cfg, client, nil, nil))
	assert.IsType(t, &routing.OSRM{}, routeSource(cfg, client, nil, nil))

	cfg.Geocoder, cfg.Router = "google", "google"
	assert.IsType(t, &geocoding.GoogleMaps{}, geocodingBackend(cfg, client, nil, nil))
	assert.IsType(t, &routing.GoogleDirections{}, routeSource(cfg, client, nil, nil))
}

func TestRunSimulation(t *testing.T) {
	from := geo.Point{Lat: -1.2864, Lng: 36.8172}
	to := geo.Destination(from, 0, 60)

	osrm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"code":"Ok","routes":[{"distance":60,"duration":5,"geometry":"`+encodeLine(from, to)+`","legs":[{"steps":[
			{"maneuver":{"type":"depart","location":[36.8172,-1.2864]},"name":"Moi Avenue","distance":60,"duration":5},
			{"maneuver":{"type":"arrive","location":[`+formatLngLat(to)+`]},"name":"","distance":0,"duration":0}
		]}]}]}`)
	}))
	defer osrm.Close()

	cfg := testConfig(t)
	cfg.OSRMURL = osrm.URL
	application, cleanup, err := build(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	defer cleanup()
	defer application.Close() // nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sim := simulation{From: &from, To: &to, Speed: 60}
	require.NoError(t, runSimulation(ctx, application, sim, discardLogger()))

	s, err := application.Sessions.Active()
	require.NoError(t, err)
	assert.True(t, s.Snapshot().Progress.Finished)
}

func encodeLine(points ...geo.Point) string {
	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, []float64{p.Lat, p.Lng})
	}
	return string(polyline.EncodeCoords(coords))
}

func formatLngLat(p geo.Point) string {
	return fmt.Sprintf("%f,%f", p.Lng, p.Lat)
}
