package proximity

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/logging"
	"wayfinder.app/internal/models"
)

var ErrNoActiveAlert = errors.New("no active alert")

// Track is one of the two independent alert channels.
type Track string

const (
	TrackHazard Track = "hazard"
	TrackCamera Track = "camera"
)

func ParseTrack(s string) (Track, error) {
	switch t := Track(s); t {
	case TrackHazard, TrackCamera:
		return t, nil
	}
	return "", fmt.Errorf("unknown alert track %q", s)
}

type Config struct {
	HazardRadius float64
	CameraRadius float64
}

func DefaultConfig() Config {
	return Config{
		HazardRadius: 500,
		CameraRadius: 300,
	}
}

// Alerts is the read-only view of both tracks.
type Alerts struct {
	Hazard *models.RoadCondition `json:"hazard"`
	Camera *models.SpeedCamera   `json:"camera"`
}

// Engine surfaces the nearest hazard and the nearest active camera around
// the current position. Alerts only clear through Dismiss, and a dismissed
// entity never alerts again for the life of the engine.
//
// Engine is not safe for concurrent use; the owning session serializes calls.
type Engine struct {
	config Config
	logger *slog.Logger
	now    func() time.Time

	hazards []models.RoadCondition
	cameras []models.SpeedCamera

	dismissedHazards map[string]struct{}
	dismissedCameras map[string]struct{}

	activeHazard *models.RoadCondition
	activeCamera *models.SpeedCamera
}

func NewEngine(config Config, hazards []models.RoadCondition, cameras []models.SpeedCamera, logger *slog.Logger) *Engine {
	defaults := DefaultConfig()
	if config.HazardRadius <= 0 {
		config.HazardRadius = defaults.HazardRadius
	}
	if config.CameraRadius <= 0 {
		config.CameraRadius = defaults.CameraRadius
	}
	return &Engine{
		config:           config,
		logger:           logging.Component(logger, "proximity"),
		now:              time.Now,
		hazards:          append([]models.RoadCondition(nil), hazards...),
		cameras:          append([]models.SpeedCamera(nil), cameras...),
		dismissedHazards: make(map[string]struct{}),
		dismissedCameras: make(map[string]struct{}),
	}
}

// CheckProximity evaluates both tracks against p and returns the resulting
// alerts.
func (e *Engine) CheckProximity(p geo.Point) (Alerts, error) {
	if err := p.Validate(); err != nil {
		return e.Alerts(), fmt.Errorf("check proximity: %w", err)
	}

	if i, d := e.nearestHazard(p); i >= 0 {
		nearest := e.hazards[i]
		if e.activeHazard == nil || e.activeHazard.ID != nearest.ID {
			e.activeHazard = &nearest
			e.logger.Debug("hazard_alert",
				slog.String("id", nearest.ID),
				slog.String("type", string(nearest.Type)),
				slog.Float64("distance", d))
		}
	}

	if i, d := e.nearestCamera(p); i >= 0 {
		nearest := e.cameras[i]
		if e.activeCamera == nil || e.activeCamera.ID != nearest.ID {
			e.activeCamera = &nearest
			e.logger.Debug("camera_alert",
				slog.String("id", nearest.ID),
				slog.Int("speed_limit_kph", nearest.SpeedLimitKph),
				slog.Float64("distance", d))
		}
	}

	return e.Alerts(), nil
}

// nearestHazard returns the index of the closest undismissed hazard within
// the radius, or -1. Ties keep the first one encountered.
func (e *Engine) nearestHazard(p geo.Point) (int, float64) {
	best, bestDistance := -1, math.Inf(1)
	for i, h := range e.hazards {
		if _, dismissed := e.dismissedHazards[h.ID]; dismissed {
			continue
		}
		d := geo.Distance(p, h.Location)
		if d < e.config.HazardRadius && d < bestDistance {
			best, bestDistance = i, d
		}
	}
	return best, bestDistance
}

func (e *Engine) nearestCamera(p geo.Point) (int, float64) {
	best, bestDistance := -1, math.Inf(1)
	for i, c := range e.cameras {
		if !c.Active {
			continue
		}
		if _, dismissed := e.dismissedCameras[c.ID]; dismissed {
			continue
		}
		d := geo.Distance(p, c.Location)
		if d < e.config.CameraRadius && d < bestDistance {
			best, bestDistance = i, d
		}
	}
	return best, bestDistance
}

// Dismiss clears the active alert of a track and remembers its id.
func (e *Engine) Dismiss(track Track) error {
	switch track {
	case TrackHazard:
		if e.activeHazard == nil {
			return fmt.Errorf("dismiss %s: %w", track, ErrNoActiveAlert)
		}
		e.dismissedHazards[e.activeHazard.ID] = struct{}{}
		logging.LogOperation(e.logger, "alert_dismissed", slog.String("track", string(track)), slog.String("id", e.activeHazard.ID))
		e.activeHazard = nil
	case TrackCamera:
		if e.activeCamera == nil {
			return fmt.Errorf("dismiss %s: %w", track, ErrNoActiveAlert)
		}
		e.dismissedCameras[e.activeCamera.ID] = struct{}{}
		logging.LogOperation(e.logger, "alert_dismissed", slog.String("track", string(track)), slog.String("id", e.activeCamera.ID))
		e.activeCamera = nil
	default:
		return fmt.Errorf("dismiss: unknown alert track %q", track)
	}
	return nil
}

// Report validates a user report and appends it as an unverified hazard.
// Existing alerts and dismissals are untouched.
func (e *Engine) Report(report models.HazardReport) (models.RoadCondition, error) {
	hazard, err := NewHazard(report, e.now())
	if err != nil {
		return models.RoadCondition{}, err
	}
	e.Add(hazard)
	logging.LogOperation(e.logger, "hazard_reported",
		slog.String("id", hazard.ID),
		slog.String("type", string(hazard.Type)))
	return hazard, nil
}

// Add appends an already built hazard, such as one reported elsewhere.
func (e *Engine) Add(hazard models.RoadCondition) {
	for _, h := range e.hazards {
		if h.ID == hazard.ID {
			return
		}
	}
	e.hazards = append(e.hazards, hazard)
}

func (e *Engine) Alerts() Alerts {
	return Alerts{Hazard: e.ActiveHazard(), Camera: e.ActiveCamera()}
}

func (e *Engine) ActiveHazard() *models.RoadCondition {
	if e.activeHazard == nil {
		return nil
	}
	h := *e.activeHazard
	return &h
}

func (e *Engine) ActiveCamera() *models.SpeedCamera {
	if e.activeCamera == nil {
		return nil
	}
	c := *e.activeCamera
	return &c
}

func (e *Engine) Hazards() []models.RoadCondition {
	return append([]models.RoadCondition(nil), e.hazards...)
}

func (e *Engine) Cameras() []models.SpeedCamera {
	return append([]models.SpeedCamera(nil), e.cameras...)
}
