package geo

import "math"

// Bearing calculates the initial bearing in degrees from a to b
func Bearing(a, b Point) float64 {
	φ1 := toRadians(a.Lat)
	φ2 := toRadians(b.Lat)
	Δλ := toRadians(b.Lng - a.Lng)

	y := math.Sin(Δλ) * math.Cos(φ2)
	x := math.Cos(φ1)*math.Sin(φ2) - math.Sin(φ1)*math.Cos(φ2)*math.Cos(Δλ)

	return math.Mod(toDegrees(math.Atan2(y, x))+360, 360)
}

// BearingToCompass converts a bearing (0-360°) to 8-point compass direction
func BearingToCompass(bearing float64) string {
	directions := []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	index := int((bearing+22.5)/45.0) % 8
	return directions[index]
}

// CompassDirection calculates compass direction from a to b
func CompassDirection(a, b Point) string {
	return BearingToCompass(Bearing(a, b))
}
