package geocoding

import (
	"context"
	"errors"

	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/models"
)

// ErrNotFound is returned by Reverse when nothing is known at a point.
var ErrNotFound = errors.New("place not found")

// Query is one forward search request as handed to a backend.
type Query struct {
	Text        string
	CountryCode string
	ViewBox     geo.Bounds
	Bounded     bool
	Limit       int
}

// Backend is a place search service.
type Backend interface {
	Search(ctx context.Context, q Query) ([]models.Candidate, error)
	Reverse(ctx context.Context, p geo.Point) (models.Candidate, error)
}
