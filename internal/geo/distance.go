package geo

import (
	"errors"
	"math"
)

// EarthRadius is the mean earth radius in meters used for every distance
// computation in the navigation core.
const EarthRadius = 6371e3

var ErrInvalidPoint = errors.New("invalid coordinate")

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate rejects NaN, infinite and out of range coordinates.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return ErrInvalidPoint
	}
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return ErrInvalidPoint
	}
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Distance returns the great-circle distance in meters between a and b
// using the haversine formula.
func Distance(a, b Point) float64 {
	φ1 := toRadians(a.Lat)
	φ2 := toRadians(b.Lat)
	Δφ := φ2 - φ1
	Δλ := toRadians(b.Lng - a.Lng)

	h := math.Sin(Δφ/2)*math.Sin(Δφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	δ := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadius * δ
}

// Destination returns the point reached travelling distance meters from p on
// the given initial bearing.
func Destination(p Point, bearing, distance float64) Point {
	φ1 := toRadians(p.Lat)
	λ1 := toRadians(p.Lng)
	θ := toRadians(bearing)
	δ := distance / EarthRadius

	φ2 := math.Asin(math.Sin(φ1)*math.Cos(δ) + math.Cos(φ1)*math.Sin(δ)*math.Cos(θ))
	λ2 := λ1 + math.Atan2(math.Sin(θ)*math.Sin(δ)*math.Cos(φ1), math.Cos(δ)-math.Sin(φ1)*math.Sin(φ2))

	lng := math.Mod(toDegrees(λ2)+540, 360) - 180
	return Point{Lat: toDegrees(φ2), Lng: lng}
}
