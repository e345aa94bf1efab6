package geo

import "fmt"

// Bounds is an axis aligned lat/lng box.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLng float64 `json:"minLng"`
	MaxLat float64 `json:"maxLat"`
	MaxLng float64 `json:"maxLng"`
}

var (
	// KenyaBounds approximates the national border; reports outside it are rejected.
	KenyaBounds = Bounds{MinLat: -4.8, MinLng: 33.9, MaxLat: 4.7, MaxLng: 41.9}

	// NairobiViewBox scopes place searches to the metro area.
	NairobiViewBox = Bounds{MinLat: -1.45, MinLng: 36.65, MaxLat: -1.15, MaxLng: 37.1}
)

func (b Bounds) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// ViewBox renders the box in the minLon,minLat,maxLon,maxLat order search
// backends expect.
func (b Bounds) ViewBox() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.MinLng, b.MinLat, b.MaxLng, b.MaxLat)
}

func (b Bounds) SouthWest() Point {
	return Point{Lat: b.MinLat, Lng: b.MinLng}
}

func (b Bounds) NorthEast() Point {
	return Point{Lat: b.MaxLat, Lng: b.MaxLng}
}
