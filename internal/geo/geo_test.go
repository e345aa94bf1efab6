package geo

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Point
		expected  float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         Point{Lat: -1.2864, Lng: 36.8172},
			b:         Point{Lat: -1.2864, Lng: 36.8172},
			expected:  0,
			tolerance: 1e-9,
		},
		{
			name:      "one degree of latitude",
			a:         Point{Lat: 0, Lng: 36.8},
			b:         Point{Lat: 1, Lng: 36.8},
			expected:  111195,
			tolerance: 1,
		},
		{
			name:      "Westlands to CBD",
			a:         Point{Lat: -1.2675, Lng: 36.8108},
			b:         Point{Lat: -1.2864, Lng: 36.8172},
			expected:  2219,
			tolerance: 10,
		},
		{
			name:      "across the antimeridian",
			a:         Point{Lat: 0, Lng: 179.5},
			b:         Point{Lat: 0, Lng: -179.5},
			expected:  111195,
			tolerance: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Distance(tt.a, tt.b), tt.tolerance)
			assert.InDelta(t, Distance(tt.a, tt.b), Distance(tt.b, tt.a), 1e-6, "distance is symmetric")
		})
	}
}

func TestDestinationRoundTrip(t *testing.T) {
	start := Point{Lat: -1.2864, Lng: 36.8172}

	for _, bearing := range []float64{0, 45, 90, 180, 270} {
		t.Run(fmt.Sprintf("%.0f degrees", bearing), func(t *testing.T) {
			end := Destination(start, bearing, 300)
			assert.InDelta(t, 300, Distance(start, end), 0.01)
			if bearing != 0 {
				assert.InDelta(t, bearing, Bearing(start, end), 0.1)
			}
		})
	}
}

func TestPointValidate(t *testing.T) {
	assert.NoError(t, Point{Lat: -1.28, Lng: 36.82}.Validate())
	assert.ErrorIs(t, Point{Lat: 91, Lng: 0}.Validate(), ErrInvalidPoint)
	assert.ErrorIs(t, Point{Lat: 0, Lng: -181}.Validate(), ErrInvalidPoint)
	assert.ErrorIs(t, Point{Lat: math.NaN(), Lng: 0}.Validate(), ErrInvalidPoint)
	assert.ErrorIs(t, Point{Lat: 0, Lng: math.Inf(1)}.Validate(), ErrInvalidPoint)
}

func TestBearing(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Point
		expected  float64
		tolerance float64
	}{
		{"North direction", Point{40, -122}, Point{41, -122}, 0, 1},
		{"East direction", Point{40, -122}, Point{40, -121}, 90, 1},
		{"Northeast direction", Point{40, -122}, Point{40.7, -121.3}, 45, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Bearing(tt.a, tt.b), tt.tolerance)
		})
	}
}

func TestBearingToCompass(t *testing.T) {
	tests := []struct {
		bearing  float64
		expected string
	}{
		{0.0, "N"},
		{45.0, "NE"},
		{90.0, "E"},
		{135.0, "SE"},
		{180.0, "S"},
		{225.0, "SW"},
		{270.0, "W"},
		{315.0, "NW"},
		{360.0, "N"},
		{22.0, "N"},
		{23.0, "NE"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.1f degrees", tt.bearing), func(t *testing.T) {
			assert.Equal(t, tt.expected, BearingToCompass(tt.bearing))
		})
	}
}

func TestBounds(t *testing.T) {
	assert.True(t, KenyaBounds.Contains(Point{Lat: -1.2864, Lng: 36.8172}))
	assert.False(t, KenyaBounds.Contains(Point{Lat: 51.5, Lng: -0.12}))
	assert.True(t, NairobiViewBox.Contains(Point{Lat: -1.26, Lng: 36.80}))
	assert.Equal(t, "36.65,-1.45,37.1,-1.15", NairobiViewBox.ViewBox())
	assert.Equal(t, Point{Lat: -1.45, Lng: 36.65}, NairobiViewBox.SouthWest())
	assert.Equal(t, Point{Lat: -1.15, Lng: 37.1}, NairobiViewBox.NorthEast())
}
