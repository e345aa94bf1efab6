package navigation

import (
	"fmt"
	"math"
	"strings"

	"wayfinder.app/internal/models"
)

const (
	startPreamble   = "Starting navigation."
	arrivalMessage  = "You have arrived at your destination. Navigation ended."
	voiceOnMessage  = "Voice navigation enabled"
	arrivingMessage = "Arriving at your destination"
)

// landmarkHints are spoken after the road name for well known arterials.
var landmarkHints = map[string]string{
	"Ring Road Parklands": "Next to Sarit Centre",
	"Uhuru Highway":       "Towards Nyayo Stadium",
	"Mombasa Road":        "JKIA direction",
	"Waiyaki Way":         "ABC Place side",
	"Kenyatta Avenue":     "City centre",
	"Ngong Road":          "Towards Prestige Plaza",
	"Thika Road":          "Garden City direction",
	"Langata Road":        "Wilson Airport side",
}

// maneuver carries the inputs of a text rule.
type maneuver struct {
	kind     models.Kind
	modifier models.Modifier
	road     string
	distance float64
}

func (m maneuver) distancePhrase() string {
	switch {
	case m.distance < 100:
		return fmt.Sprintf("in %d meters", int(math.Round(m.distance)))
	case m.distance < 1000:
		return fmt.Sprintf("in %d meters", int(math.Round(m.distance/100)*100))
	default:
		return fmt.Sprintf("in %.1f kilometers", m.distance/1000)
	}
}

func (m maneuver) roadPhrase() string {
	if m.road == "" {
		return ""
	}
	return " onto " + m.road
}

func (m maneuver) landmarkPhrase() string {
	if hint, ok := landmarkHints[m.road]; ok {
		return ", " + hint
	}
	return ""
}

func (m maneuver) modifierOr(fallback string) string {
	if m.modifier == models.ModifierNone {
		return fallback
	}
	return m.modifier.Spoken()
}

type textRule struct {
	match  func(m maneuver) bool
	render func(m maneuver) string
}

func kindIs(k models.Kind) func(m maneuver) bool {
	return func(m maneuver) bool { return m.kind == k }
}

// maneuverRules are evaluated top to bottom; the first match renders the text.
var maneuverRules = []textRule{
	{
		match: kindIs(models.KindTurn),
		render: func(m maneuver) string {
			return fmt.Sprintf("%s, turn %s%s%s", m.distancePhrase(), m.modifierOr("ahead"), m.roadPhrase(), m.landmarkPhrase())
		},
	},
	{
		match: kindIs(models.KindContinue),
		render: func(m maneuver) string {
			return fmt.Sprintf("Continue straight%s for %s", m.roadPhrase(), strings.TrimPrefix(m.distancePhrase(), "in "))
		},
	},
	{
		match: func(m maneuver) bool {
			return m.kind == models.KindArrive && m.modifier == models.ModifierLeft
		},
		render: func(maneuver) string { return "Your destination is on your left" },
	},
	{
		match: func(m maneuver) bool {
			return m.kind == models.KindArrive && m.modifier == models.ModifierRight
		},
		render: func(maneuver) string { return "Your destination is on your right" },
	},
	{
		match:  kindIs(models.KindArrive),
		render: func(maneuver) string { return "You have arrived at your destination" },
	},
	{
		match: kindIs(models.KindDepart),
		render: func(m maneuver) string {
			return fmt.Sprintf("Head %s%s", m.modifierOr("straight"), m.roadPhrase())
		},
	},
	{
		match: kindIs(models.KindRoundabout),
		render: func(m maneuver) string {
			return fmt.Sprintf("%s, enter the roundabout and take the %s%s", m.distancePhrase(), m.modifierOr("exit"), m.roadPhrase())
		},
	},
	{
		match: kindIs(models.KindMerge),
		render: func(m maneuver) string {
			return fmt.Sprintf("%s, merge %s%s", m.distancePhrase(), m.modifierOr("ahead"), m.roadPhrase())
		},
	},
	{
		match: kindIs(models.KindFork),
		render: func(m maneuver) string {
			return fmt.Sprintf("%s, take the %s%s", m.distancePhrase(), m.modifierOr("fork"), m.roadPhrase())
		},
	},
	{
		match: kindIs(models.KindExit),
		render: func(m maneuver) string {
			return fmt.Sprintf("%s, take the exit%s", m.distancePhrase(), m.roadPhrase())
		},
	},
	{
		match: func(maneuver) bool { return true },
		render: func(m maneuver) string {
			return fmt.Sprintf("%s, continue %s%s", m.distancePhrase(), m.modifierOr("ahead"), m.roadPhrase())
		},
	},
}

// ManeuverText renders the spoken instruction for a step. It is a pure
// function of its inputs.
func ManeuverText(kind models.Kind, modifier models.Modifier, road string, distance float64) string {
	m := maneuver{kind: kind, modifier: modifier, road: road, distance: distance}
	for _, rule := range maneuverRules {
		if rule.match(m) {
			return rule.render(m)
		}
	}
	return ""
}

// ReminderText is the short form spoken when the maneuver is imminent.
func ReminderText(inst models.Instruction) string {
	switch inst.Kind {
	case models.KindTurn, models.KindRoundabout:
		return "Now, turn " + maneuver{modifier: inst.Modifier}.modifierOr("ahead")
	case models.KindArrive:
		return arrivingMessage
	}
	return firstClause(inst.Text) + " now"
}

// firstClause cuts at the first comma only; distances such as
// "1.5 kilometers" carry a decimal point.
func firstClause(text string) string {
	clause, _, _ := strings.Cut(text, ",")
	return strings.TrimSpace(clause)
}

// StartText is the announcement made when a route is loaded.
func StartText(first models.Instruction) string {
	return startPreamble + " " + first.Text
}
