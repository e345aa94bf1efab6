package utils

import (
	"fmt"
	"net/url"
	"strconv"

	"wayfinder.app/internal/geo"
)

// ParseLocationQuery reads a lat/lng pair from query parameters. Missing or
// unparsable values and out-of-range coordinates are reported as field
// errors keyed by parameter name; the returned map is nil when the pair is
// usable.
func ParseLocationQuery(params url.Values) (geo.Point, map[string][]string) {
	fieldErrors := make(map[string][]string)
	lat, latOK := parseCoordinate(params, "lat", fieldErrors)
	lng, lngOK := parseCoordinate(params, "lng", fieldErrors)
	if latOK && lngOK {
		fieldErrors = ValidateLocationParams(lat, lng)
	}
	if len(fieldErrors) > 0 {
		return geo.Point{}, fieldErrors
	}
	return geo.Point{Lat: lat, Lng: lng}, nil
}

func parseCoordinate(params url.Values, key string, fieldErrors map[string][]string) (float64, bool) {
	raw := params.Get(key)
	if raw == "" {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Missing required field %q.", key))
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return 0, false
	}
	return v, true
}
