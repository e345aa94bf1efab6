package geocoding

import (
	"slices"
	"strings"

	"wayfinder.app/internal/models"
)

const maxShortNameParts = 3

// addressRule yields one candidate label part, or "" when it does not apply.
type addressRule func(a models.Address, c models.Candidate) string

// primaryRules name the place itself; the first non-empty one wins.
var primaryRules = []addressRule{
	func(a models.Address, _ models.Candidate) string { return a.Amenity },
	func(a models.Address, _ models.Candidate) string { return a.Shop },
	func(a models.Address, _ models.Candidate) string { return a.Building },
	func(a models.Address, _ models.Candidate) string { return a.Road },
	func(_ models.Address, c models.Candidate) string { return c.Name },
}

// ShortName derives a compact label for a candidate. principalCity is left
// out of the label since every result is assumed to be in it.
func ShortName(c models.Candidate, principalCity string) string {
	var a models.Address
	if c.Address != nil {
		a = *c.Address
	}

	var parts []string
	for _, rule := range primaryRules {
		if part := rule(a, c); part != "" {
			parts = append(parts, part)
			break
		}
	}

	switch {
	case a.Suburb != "" && !slices.Contains(parts, a.Suburb):
		parts = append(parts, a.Suburb)
	case a.Neighbourhood != "" && !slices.Contains(parts, a.Neighbourhood):
		parts = append(parts, a.Neighbourhood)
	}

	switch {
	case a.City != "" && a.City != principalCity:
		parts = append(parts, a.City)
	case a.Town != "":
		parts = append(parts, a.Town)
	}

	if len(parts) == 0 {
		return displayNameFallback(c.DisplayName)
	}
	if len(parts) > maxShortNameParts {
		parts = parts[:maxShortNameParts]
	}
	return strings.Join(parts, ", ")
}

// displayNameFallback keeps the first two comma separated segments.
func displayNameFallback(displayName string) string {
	segments := strings.Split(displayName, ",")
	if len(segments) > 2 {
		segments = segments[:2]
	}
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}
	return strings.Join(segments, ", ")
}

// toResult labels a backend candidate.
func toResult(c models.Candidate, principalCity string) models.GeocodingResult {
	return models.GeocodingResult{
		PlaceID:     c.PlaceID,
		DisplayName: c.DisplayName,
		ShortName:   ShortName(c, principalCity),
		Location:    c.Location,
		Type:        c.Type,
		Importance:  c.Importance,
		Address:     c.Address,
	}
}
