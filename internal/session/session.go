package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/logging"
	"wayfinder.app/internal/models"
	"wayfinder.app/internal/navigation"
	"wayfinder.app/internal/proximity"
	"wayfinder.app/internal/routing"
)

var (
	ErrNoSession = errors.New("no active navigation session")
	ErrClosed    = errors.New("navigation session closed")
)

type Config struct {
	Navigation navigation.Config
	Proximity  proximity.Config
}

func DefaultConfig() Config {
	return Config{
		Navigation: navigation.DefaultConfig(),
		Proximity:  proximity.DefaultConfig(),
	}
}

// Speech is the sink a session speaks through. It is closed with the
// session.
type Speech interface {
	navigation.Sink
	navigation.Stopper
	Close() error
}

// Update is the outcome of one position update.
type Update struct {
	Event    *navigation.Event   `json:"event"`
	Alerts   proximity.Alerts    `json:"alerts"`
	Progress navigation.Progress `json:"progress"`
}

// Snapshot is the read-only view of a session for a UI.
type Snapshot struct {
	ID           string               `json:"id"`
	StartedAt    time.Time            `json:"startedAt"`
	Current      *models.Instruction  `json:"current"`
	Upcoming     []models.Instruction `json:"upcoming"`
	Progress     navigation.Progress  `json:"progress"`
	VoiceEnabled bool                 `json:"voiceEnabled"`
	Alerts       proximity.Alerts     `json:"alerts"`
	Route        *RouteSummary        `json:"route,omitempty"`
	Position     *geo.Point           `json:"position,omitempty"`
	Next         *Approach            `json:"next,omitempty"`
}

// Approach locates the current maneuver relative to the last position.
type Approach struct {
	DistanceMeters float64 `json:"distanceMeters"`
	Bearing        float64 `json:"bearing"`
	Direction      string  `json:"direction"`
}

type RouteSummary struct {
	DistanceMeters  float64     `json:"distanceMeters"`
	DurationSeconds float64     `json:"durationSeconds"`
	Geometry        []geo.Point `json:"geometry,omitempty"`
}

// Session owns one instruction sequencer, one proximity engine and the
// speech resource for a single trip. All calls are serialized.
type Session struct {
	id        string
	startedAt time.Time
	route     *RouteSummary
	logger    *slog.Logger

	mu        sync.Mutex
	sequencer *navigation.Sequencer
	engine    *proximity.Engine
	speech    Speech
	position  *geo.Point
	closed    bool
}

func newSession(id string, now time.Time, config Config, instructions []models.Instruction, route *routing.Route,
	hazards []models.RoadCondition, cameras []models.SpeedCamera, speech Speech, logger *slog.Logger) (*Session, *navigation.Event) {
	logger = logging.Component(logger, "session").With(slog.String("session_id", id))

	s := &Session{
		id:        id,
		startedAt: now,
		logger:    logger,
		sequencer: navigation.NewSequencer(config.Navigation, speech, logger),
		engine:    proximity.NewEngine(config.Proximity, hazards, cameras, logger),
		speech:    speech,
	}
	if route != nil {
		s.route = &RouteSummary{
			DistanceMeters:  route.DistanceMeters,
			DurationSeconds: route.DurationSeconds,
			Geometry:        route.Geometry,
		}
	}

	start := s.sequencer.Load(instructions)
	return s, start
}

func (s *Session) ID() string {
	return s.id
}

// UpdatePosition feeds one position to the sequencer and the proximity
// engine. An invalid position changes nothing.
func (s *Session) UpdatePosition(p geo.Point) (Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Update{}, ErrClosed
	}

	event, err := s.sequencer.UpdatePosition(p)
	if err != nil {
		return Update{}, err
	}
	alerts, err := s.engine.CheckProximity(p)
	if err != nil {
		return Update{}, fmt.Errorf("%w: %v", navigation.ErrInvalidPosition, err)
	}
	s.position = &p

	if event != nil && event.Type == navigation.EventArrived {
		logging.LogOperation(s.logger, "navigation_arrived", slog.Duration("duration", time.Since(s.startedAt)))
	}

	return Update{Event: event, Alerts: alerts, Progress: s.sequencer.Progress()}, nil
}

// Run applies positions until the channel closes, ctx is done or the
// session is closed. Invalid positions are logged and skipped.
func (s *Session) Run(ctx context.Context, positions <-chan geo.Point) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p, ok := <-positions:
			if !ok {
				return nil
			}
			update, err := s.UpdatePosition(p)
			switch {
			case errors.Is(err, ErrClosed):
				return err
			case err != nil:
				logging.LogError(s.logger, "position rejected", err)
				continue
			}
			if update.Event != nil {
				s.logger.Info("navigation_event",
					slog.String("type", string(update.Event.Type)),
					slog.String("instruction", update.Event.InstructionID),
					slog.String("text", update.Event.Text))
			}
		}
	}
}

func (s *Session) Dismiss(track proximity.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.engine.Dismiss(track)
}

// Report adds a user hazard to this session's engine.
func (s *Session) Report(report models.HazardReport) (models.RoadCondition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return models.RoadCondition{}, ErrClosed
	}
	return s.engine.Report(report)
}

func (s *Session) SetVoiceEnabled(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.sequencer.SetVoiceEnabled(enabled)
	return nil
}

// Repeat re-announces the current instruction. It reports false when the
// sequence is finished.
func (s *Session) Repeat() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	return s.sequencer.Repeat(), nil
}

func (s *Session) Alerts() proximity.Alerts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Alerts()
}

func (s *Session) Hazards() []models.RoadCondition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Hazards()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := Snapshot{
		ID:           s.id,
		StartedAt:    s.startedAt,
		Upcoming:     s.sequencer.Upcoming(0),
		Progress:     s.sequencer.Progress(),
		VoiceEnabled: s.sequencer.VoiceEnabled(),
		Alerts:       s.engine.Alerts(),
		Route:        s.route,
	}
	if current, ok := s.sequencer.Current(); ok {
		snapshot.Current = &current
		if s.position != nil && current.Location != nil {
			snapshot.Next = &Approach{
				DistanceMeters: geo.Distance(*s.position, *current.Location),
				Bearing:        geo.Bearing(*s.position, *current.Location),
				Direction:      geo.CompassDirection(*s.position, *current.Location),
			}
		}
	}
	if s.position != nil {
		p := *s.position
		snapshot.Position = &p
	}
	return snapshot
}

// Close silences speech and releases the session. Closing twice is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.speech != nil {
		s.speech.Stop()
		err = s.speech.Close()
	}
	logging.LogOperation(s.logger, "session_closed", slog.Int("index", s.sequencer.Progress().Index))
	return err
}
