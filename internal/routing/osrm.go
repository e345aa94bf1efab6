package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/twpayne/go-polyline"
	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/logging"
	"wayfinder.app/internal/models"
)

const DefaultOSRMURL = "https://router.project-osrm.org"

// OSRM is a Source backed by an OSRM route service.
type OSRM struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewOSRM(baseURL string, client *http.Client, logger *slog.Logger) *OSRM {
	if baseURL == "" {
		baseURL = DefaultOSRMURL
	}
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &OSRM{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logging.Component(logger, "osrm"),
	}
}

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Geometry string  `json:"geometry"`
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Legs     []struct {
			Steps []models.RawStep `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

func (o *OSRM) Route(ctx context.Context, from, to geo.Point) (Route, error) {
	if err := from.Validate(); err != nil {
		return Route{}, fmt.Errorf("route origin: %w", err)
	}
	if err := to.Validate(); err != nil {
		return Route{}, fmt.Errorf("route destination: %w", err)
	}

	endpoint := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?steps=true&overview=full&geometries=polyline",
		o.baseURL, from.Lng, from.Lat, to.Lng, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Route{}, fmt.Errorf("osrm request: %w", err)
	}

	start := time.Now()
	resp, err := o.client.Do(req)
	if err != nil {
		return Route{}, fmt.Errorf("osrm route: %w", err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, o.logger, "osrm response body")

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Route{}, fmt.Errorf("osrm route: status %d: decode: %w", resp.StatusCode, err)
	}

	switch {
	case body.Code == "NoRoute" || body.Code == "NoSegment":
		return Route{}, fmt.Errorf("osrm %s: %w", body.Code, ErrNoRoute)
	case resp.StatusCode != http.StatusOK || body.Code != "Ok":
		return Route{}, fmt.Errorf("osrm route: status %d: %s %s", resp.StatusCode, body.Code, body.Message)
	case len(body.Routes) == 0:
		return Route{}, ErrNoRoute
	}

	best := body.Routes[0]
	route := Route{
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
	}
	for _, leg := range best.Legs {
		route.Steps = append(route.Steps, leg.Steps...)
	}

	route.Geometry, err = decodeGeometry(best.Geometry)
	if err != nil {
		return Route{}, err
	}

	logging.LogOperation(o.logger, "route_computed",
		slog.Int("steps", len(route.Steps)),
		slog.Float64("distance_m", route.DistanceMeters),
		slog.Duration("duration", time.Since(start)))
	return route, nil
}

func decodeGeometry(encoded string) ([]geo.Point, error) {
	if encoded == "" {
		return nil, nil
	}
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode route geometry: %w", err)
	}
	points := make([]geo.Point, 0, len(coords))
	for _, c := range coords {
		points = append(points, geo.Point{Lat: c[0], Lng: c[1]})
	}
	return points, nil
}
