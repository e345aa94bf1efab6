package navigation

import (
	"fmt"
	"strings"

	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/models"
)

// osrmKinds folds the OSRM maneuver vocabulary onto instruction kinds.
var osrmKinds = map[string]models.Kind{
	"turn":            models.KindTurn,
	"end of road":     models.KindTurn,
	"continue":        models.KindContinue,
	"new name":        models.KindContinue,
	"notification":    models.KindContinue,
	"use lane":        models.KindContinue,
	"depart":          models.KindDepart,
	"arrive":          models.KindArrive,
	"roundabout":      models.KindRoundabout,
	"rotary":          models.KindRoundabout,
	"roundabout turn": models.KindRoundabout,
	"exit roundabout": models.KindRoundabout,
	"exit rotary":     models.KindRoundabout,
	"merge":           models.KindMerge,
	"on ramp":         models.KindMerge,
	"fork":            models.KindFork,
	"off ramp":        models.KindExit,
}

// ParseKind maps a raw maneuver type. Unknown types keep their raw value and
// are therefore not locatable.
func ParseKind(raw string) models.Kind {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if k, ok := osrmKinds[raw]; ok {
		return k
	}
	return models.Kind(raw)
}

// ParseModifier normalizes "slight left" and "slight-left" alike. Unknown
// modifiers are dropped.
func ParseModifier(raw string) models.Modifier {
	m := models.Modifier(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), " ", "-"))
	switch m {
	case models.ModifierLeft, models.ModifierRight, models.ModifierStraight,
		models.ModifierSlightLeft, models.ModifierSlightRight,
		models.ModifierSharpLeft, models.ModifierSharpRight, models.ModifierUturn:
		return m
	}
	return models.ModifierNone
}

// NewInstruction builds an instruction and derives its text.
func NewInstruction(index int, kind models.Kind, modifier models.Modifier, road string, distance, duration float64, location *geo.Point) models.Instruction {
	return models.Instruction{
		ID:              fmt.Sprintf("step-%d", index),
		Index:           index,
		Kind:            kind,
		Modifier:        modifier,
		DistanceMeters:  distance,
		DurationSeconds: duration,
		RoadName:        road,
		Location:        location,
		Text:            ManeuverText(kind, modifier, road, distance),
	}
}

// ParseSteps turns raw route steps into an ordered instruction sequence.
// Steps with a missing or invalid location keep their index with a nil
// location.
func ParseSteps(steps []models.RawStep) []models.Instruction {
	instructions := make([]models.Instruction, 0, len(steps))
	for i, step := range steps {
		road := step.Name
		if road == "" {
			road = step.Ref
		}

		instructions = append(instructions, NewInstruction(i,
			ParseKind(step.Maneuver.Type),
			ParseModifier(step.Maneuver.Modifier),
			road,
			nonNegative(step.Distance),
			nonNegative(step.Duration),
			parseLocation(step.Maneuver.Location)))
	}
	return instructions
}

func parseLocation(lngLat []float64) *geo.Point {
	if len(lngLat) != 2 {
		return nil
	}
	p := geo.Point{Lat: lngLat[1], Lng: lngLat[0]}
	if p.Validate() != nil {
		return nil
	}
	return &p
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
