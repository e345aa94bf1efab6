package routing

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"googlemaps.github.io/maps"
	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/logging"
	"wayfinder.app/internal/models"
)

// GoogleDirections is a Source backed by the Google Directions API. Its
// steps are translated into OSRM maneuver terms.
type GoogleDirections struct {
	client *maps.Client
	region string
	logger *slog.Logger
}

func NewGoogleDirections(client *maps.Client, region string, logger *slog.Logger) *GoogleDirections {
	return &GoogleDirections{
		client: client,
		region: region,
		logger: logging.Component(logger, "google_directions"),
	}
}

func (g *GoogleDirections) Route(ctx context.Context, from, to geo.Point) (Route, error) {
	routes, _, err := g.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      latLngString(from),
		Destination: latLngString(to),
		Mode:        maps.TravelModeDriving,
		Region:      g.region,
		Language:    "en",
	})
	if err != nil {
		if strings.Contains(err.Error(), "ZERO_RESULTS") || strings.Contains(err.Error(), "NOT_FOUND") {
			return Route{}, fmt.Errorf("google directions: %w", ErrNoRoute)
		}
		return Route{}, fmt.Errorf("google directions: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Route{}, ErrNoRoute
	}

	best := routes[0]
	var route Route
	for i, leg := range best.Legs {
		for j, step := range leg.Steps {
			raw := googleStep(step)
			if i == 0 && j == 0 {
				raw.Maneuver.Type = "depart"
			}
			route.Steps = append(route.Steps, raw)
		}
		route.Steps = append(route.Steps, models.RawStep{
			Maneuver: models.RawManeuver{
				Type:     "arrive",
				Location: []float64{leg.EndLocation.Lng, leg.EndLocation.Lat},
			},
		})
		route.DistanceMeters += float64(leg.Distance.Meters)
		route.DurationSeconds += leg.Duration.Seconds()
	}

	if path, err := best.OverviewPolyline.Decode(); err == nil {
		route.Geometry = make([]geo.Point, 0, len(path))
		for _, ll := range path {
			route.Geometry = append(route.Geometry, geo.Point{Lat: ll.Lat, Lng: ll.Lng})
		}
	} else {
		g.logger.Warn("overview polyline not decodable", slog.String("error", err.Error()))
	}

	return route, nil
}

func latLngString(p geo.Point) string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lng)
}

// googleManeuvers maps Directions maneuver prefixes onto OSRM types. The
// side suffix becomes the modifier.
var googleManeuvers = []struct {
	prefix   string
	osrmType string
}{
	{"turn-", "turn"},
	{"uturn-", "turn"},
	{"roundabout-", "roundabout"},
	{"ramp-", "off ramp"},
	{"fork-", "fork"},
	{"keep-", "fork"},
	{"merge", "merge"},
	{"straight", "continue"},
	{"ferry", "continue"},
}

func googleManeuver(m string) (string, string) {
	for _, gm := range googleManeuvers {
		if !strings.HasPrefix(m, gm.prefix) {
			continue
		}
		modifier := strings.TrimPrefix(m, gm.prefix)
		if strings.HasPrefix(m, "uturn-") {
			modifier = "uturn"
		}
		if gm.prefix == "merge" || gm.prefix == "straight" || gm.prefix == "ferry" {
			modifier = ""
		}
		return gm.osrmType, modifier
	}
	return "continue", ""
}

var (
	ontoRoad = regexp.MustCompile(`(?:onto|on|toward|towards)\s+<b>([^<]+)</b>`)
	boldText = regexp.MustCompile(`<b>([^<]+)</b>`)
)

// roadName pulls the road out of an HTML instruction such as
// "Turn <b>left</b> onto <b>Ngong Rd</b>".
func roadName(html string) string {
	if m := ontoRoad.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(m[1])
	}
	matches := boldText.FindAllStringSubmatch(html, -1)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[len(matches)-1][1])
	}
	return ""
}

func googleStep(step *maps.Step) models.RawStep {
	kind, modifier := googleManeuver(step.Maneuver)
	return models.RawStep{
		Maneuver: models.RawManeuver{
			Type:     kind,
			Modifier: modifier,
			Location: []float64{step.StartLocation.Lng, step.StartLocation.Lat},
		},
		Name:     roadName(step.HTMLInstructions),
		Distance: float64(step.Distance.Meters),
		Duration: step.Duration.Seconds(),
	}
}
