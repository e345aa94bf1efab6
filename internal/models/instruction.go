package models

import "wayfinder.app/internal/geo"

// Kind is the maneuver category of an Instruction.
type Kind string

const (
	KindTurn       Kind = "turn"
	KindContinue   Kind = "continue"
	KindArrive     Kind = "arrive"
	KindDepart     Kind = "depart"
	KindRoundabout Kind = "roundabout"
	KindMerge      Kind = "merge"
	KindFork       Kind = "fork"
	KindExit       Kind = "exit"
)

func (k Kind) Valid() bool {
	switch k {
	case KindTurn, KindContinue, KindArrive, KindDepart, KindRoundabout, KindMerge, KindFork, KindExit:
		return true
	}
	return false
}

// Modifier refines a maneuver with a direction.
type Modifier string

const (
	ModifierNone        Modifier = ""
	ModifierLeft        Modifier = "left"
	ModifierRight       Modifier = "right"
	ModifierStraight    Modifier = "straight"
	ModifierSlightLeft  Modifier = "slight-left"
	ModifierSlightRight Modifier = "slight-right"
	ModifierSharpLeft   Modifier = "sharp-left"
	ModifierSharpRight  Modifier = "sharp-right"
	ModifierUturn       Modifier = "uturn"
)

// Spoken renders the modifier as it is read out, e.g. "slight left".
func (m Modifier) Spoken() string {
	switch m {
	case ModifierSlightLeft:
		return "slight left"
	case ModifierSlightRight:
		return "slight right"
	case ModifierSharpLeft:
		return "sharp left"
	case ModifierSharpRight:
		return "sharp right"
	default:
		return string(m)
	}
}

// Instruction is one maneuver step of a computed route. Text is derived once
// when the step is ingested and never changes afterwards.
type Instruction struct {
	ID              string     `json:"id"`
	Index           int        `json:"index"`
	Kind            Kind       `json:"kind"`
	Modifier        Modifier   `json:"modifier,omitempty"`
	DistanceMeters  float64    `json:"distanceMeters"`
	DurationSeconds float64    `json:"durationSeconds"`
	RoadName        string     `json:"roadName,omitempty"`
	Location        *geo.Point `json:"location,omitempty"`
	Text            string     `json:"text"`
}

// Locatable reports whether the instruction can take part in distance
// evaluation. Steps without a location or a known kind keep their index but
// are never matched.
func (i Instruction) Locatable() bool {
	return i.Location != nil && i.Kind.Valid()
}

// RawManeuver is the maneuver object of a route step as returned by OSRM.
type RawManeuver struct {
	Type     string    `json:"type"`
	Modifier string    `json:"modifier,omitempty"`
	Location []float64 `json:"location"` // [lng, lat]
}

// RawStep is one route step before it is turned into an Instruction.
type RawStep struct {
	Maneuver RawManeuver `json:"maneuver"`
	Name     string      `json:"name"`
	Ref      string      `json:"ref,omitempty"`
	Distance float64     `json:"distance"`
	Duration float64     `json:"duration"`
}
