package restapi

import (
	"fmt"

	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/utils"
)

// pointRequest is a coordinate in a JSON body. Pointers tell a missing
// field from a zero value.
type pointRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// point validates p and records failures under prefix. An empty prefix
// reports plain "lat" and "lng" fields.
func (p *pointRequest) point(prefix string, fieldErrors map[string][]string) geo.Point {
	field := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + "." + name
	}

	if p == nil {
		fieldErrors[prefix] = append(fieldErrors[prefix], fmt.Sprintf("Missing required field %q.", prefix))
		return geo.Point{}
	}
	if p.Lat == nil {
		fieldErrors[field("lat")] = append(fieldErrors[field("lat")], fmt.Sprintf("Missing required field %q.", field("lat")))
	}
	if p.Lng == nil {
		fieldErrors[field("lng")] = append(fieldErrors[field("lng")], fmt.Sprintf("Missing required field %q.", field("lng")))
	}
	if p.Lat == nil || p.Lng == nil {
		return geo.Point{}
	}

	for name, errs := range utils.ValidateLocationParams(*p.Lat, *p.Lng) {
		fieldErrors[field(name)] = append(fieldErrors[field(name)], errs...)
	}
	return geo.Point{Lat: *p.Lat, Lng: *p.Lng}
}
