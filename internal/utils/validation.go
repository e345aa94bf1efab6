package utils

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Compiled regular expressions for validation
var (
	// Detect potentially dangerous characters - more focused on injection patterns
	dangerousPattern = regexp.MustCompile(`[<>]|--|\/\*|\*\/|;.*--`)

	// Detect HTML/script tags
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

const (
	MaxQueryLength       = 200
	MaxDescriptionLength = 500
	MaxNameLength        = 120
)

// ValidateQuery validates free-text place search strings
func ValidateQuery(query string) error {
	// Empty queries are allowed; the search controller treats them as "no search"
	if query == "" {
		return nil
	}

	if utf8.RuneCountInString(query) > MaxQueryLength {
		return errors.New("query too long (max 200 characters)")
	}

	if dangerousPattern.MatchString(query) {
		return errors.New("query contains invalid characters")
	}

	return nil
}

// ValidateLatitude validates latitude values
func ValidateLatitude(lat float64) error {
	if lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

// ValidateLongitude validates longitude values
func ValidateLongitude(lng float64) error {
	if lng < -180.0 || lng > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateDescription checks a sanitized free-text description.
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return errors.New("description too long (max 500 characters)")
	}
	return nil
}

// ValidateName checks a sanitized display name. Names are required.
func ValidateName(name string) error {
	if name == "" {
		return errors.New("name cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return errors.New("name too long (max 120 characters)")
	}
	return nil
}

// SanitizeInput removes HTML tags and other potentially dangerous content
func SanitizeInput(input string) string {
	sanitized := htmlTagPattern.ReplaceAllString(input, "")
	return strings.TrimSpace(sanitized)
}

// ValidateLocationParams validates a lat/lng pair and reports field errors
// keyed by parameter name.
func ValidateLocationParams(lat, lng float64) map[string][]string {
	fieldErrors := make(map[string][]string)

	if err := ValidateLatitude(lat); err != nil {
		fieldErrors["lat"] = append(fieldErrors["lat"], err.Error())
	}

	if err := ValidateLongitude(lng); err != nil {
		fieldErrors["lng"] = append(fieldErrors["lng"], err.Error())
	}

	return fieldErrors
}

// ValidateAndSanitizeQuery validates and sanitizes a search query
func ValidateAndSanitizeQuery(query string) (string, error) {
	if err := ValidateQuery(query); err != nil {
		return "", err
	}

	return SanitizeInput(query), nil
}
