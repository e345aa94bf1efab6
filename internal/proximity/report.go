package proximity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/models"
	"wayfinder.app/internal/utils"
)

var ErrInvalidReport = errors.New("invalid hazard report")

// ValidationError lists the offending report fields. It matches
// ErrInvalidReport with errors.Is.
type ValidationError struct {
	FieldErrors map[string][]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.FieldErrors))
	for field := range e.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("%s: %s", ErrInvalidReport, strings.Join(fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidReport
}

// NewHazard validates a user report and turns it into an unverified road
// condition with a fresh id. Name and description are stripped of markup.
func NewHazard(report models.HazardReport, now time.Time) (models.RoadCondition, error) {
	fieldErrors := make(map[string][]string)

	if !report.Type.Valid() {
		fieldErrors["type"] = append(fieldErrors["type"], fmt.Sprintf("unknown hazard type %q", report.Type))
	}

	severity := report.Severity
	if severity == "" {
		severity = models.SeverityMedium
	}
	if !severity.Valid() {
		fieldErrors["severity"] = append(fieldErrors["severity"], fmt.Sprintf("unknown severity %q", report.Severity))
	}

	name := utils.SanitizeInput(report.Name)
	if err := utils.ValidateName(name); err != nil {
		fieldErrors["name"] = append(fieldErrors["name"], err.Error())
	}

	description := utils.SanitizeInput(report.Description)
	if err := utils.ValidateDescription(description); err != nil {
		fieldErrors["description"] = append(fieldErrors["description"], err.Error())
	}

	for field, errs := range utils.ValidateLocationParams(report.Location.Lat, report.Location.Lng) {
		fieldErrors[field] = append(fieldErrors[field], errs...)
	}
	if report.Location.Validate() == nil && !geo.KenyaBounds.Contains(report.Location) {
		fieldErrors["location"] = append(fieldErrors["location"], "location must be within Kenya")
	}

	if len(fieldErrors) > 0 {
		return models.RoadCondition{}, &ValidationError{FieldErrors: fieldErrors}
	}

	return models.RoadCondition{
		ID:          "user-" + uuid.NewString(),
		Type:        report.Type,
		Location:    report.Location,
		Name:        name,
		Description: description,
		Severity:    severity,
		Verified:    false,
		ReportedAt:  now.UTC(),
	}, nil
}
