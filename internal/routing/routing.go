package routing

import (
	"context"
	"errors"

	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/models"
)

var ErrNoRoute = errors.New("no route found")

// Route is a computed driving route. Steps are raw maneuvers in the OSRM
// vocabulary regardless of the source.
type Route struct {
	Steps           []models.RawStep `json:"steps"`
	Geometry        []geo.Point      `json:"geometry"`
	DistanceMeters  float64          `json:"distanceMeters"`
	DurationSeconds float64          `json:"durationSeconds"`
}

// Source computes a route between two points.
type Source interface {
	Route(ctx context.Context, from, to geo.Point) (Route, error)
}
