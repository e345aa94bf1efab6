package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/logging"
	"wayfinder.app/internal/models"
	"wayfinder.app/internal/navigation"
	"wayfinder.app/internal/proximity"
	"wayfinder.app/internal/routing"
)

// HazardStore persists user reports so they survive a restart.
type HazardStore interface {
	SaveHazards(ctx context.Context, hazards ...models.RoadCondition) error
}

// SpeechFactory builds the speech resource for a new session. A nil factory
// makes sessions silent.
type SpeechFactory func() Speech

// Manager holds at most one active session. Starting a new session tears
// the previous one down first.
type Manager struct {
	config  Config
	routes  routing.Source
	catalog *proximity.Catalog
	store   HazardStore
	speech  SpeechFactory
	logger  *slog.Logger
	now     func() time.Time

	mu     sync.Mutex
	active *Session
}

func NewManager(config Config, routes routing.Source, catalog *proximity.Catalog, store HazardStore, speech SpeechFactory, logger *slog.Logger) *Manager {
	if catalog == nil {
		catalog = proximity.NewCatalog(nil, nil)
	}
	return &Manager{
		config:  config,
		routes:  routes,
		catalog: catalog,
		store:   store,
		speech:  speech,
		logger:  logging.Component(logger, "session_manager"),
		now:     time.Now,
	}
}

// StartRoute computes a route between from and to and starts navigating it.
func (m *Manager) StartRoute(ctx context.Context, from, to geo.Point) (*Session, *navigation.Event, error) {
	if err := from.Validate(); err != nil {
		return nil, nil, fmt.Errorf("origin: %w", err)
	}
	if err := to.Validate(); err != nil {
		return nil, nil, fmt.Errorf("destination: %w", err)
	}
	if m.routes == nil {
		return nil, nil, fmt.Errorf("start route: %w", routing.ErrNoRoute)
	}

	route, err := m.routes.Route(ctx, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("start route: %w", err)
	}
	return m.start(navigation.ParseSteps(route.Steps), &route)
}

// StartSteps starts navigating a caller-supplied list of raw steps.
func (m *Manager) StartSteps(steps []models.RawStep) (*Session, *navigation.Event, error) {
	return m.start(navigation.ParseSteps(steps), nil)
}

// Start begins a session over already parsed instructions.
func (m *Manager) Start(instructions []models.Instruction) (*Session, *navigation.Event, error) {
	return m.start(instructions, nil)
}

func (m *Manager) start(instructions []models.Instruction, route *routing.Route) (*Session, *navigation.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		if err := m.active.Close(); err != nil {
			logging.LogError(m.logger, "failed to close previous session", err, slog.String("session_id", m.active.ID()))
		}
		m.active = nil
	}

	var speech Speech
	if m.speech != nil {
		speech = m.speech()
	}

	s, event := newSession(uuid.NewString(), m.now(), m.config, instructions, route,
		m.catalog.Hazards(), m.catalog.Cameras(), speech, m.logger)
	m.active = s

	logging.LogOperation(m.logger, "session_started",
		slog.String("session_id", s.ID()),
		slog.Int("instructions", len(instructions)))
	return s, event, nil
}

// Active returns the current session.
func (m *Manager) Active() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return nil, ErrNoSession
	}
	return m.active, nil
}

// Stop ends the active session.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return ErrNoSession
	}
	err := m.active.Close()
	m.active = nil
	return err
}

// Report records a user hazard. With a session running the hazard alerts
// immediately; it is always added to the shared catalog and persisted.
func (m *Manager) Report(ctx context.Context, report models.HazardReport) (models.RoadCondition, error) {
	m.mu.Lock()
	active := m.active
	m.mu.Unlock()

	var (
		hazard models.RoadCondition
		err    error
	)
	if active != nil {
		hazard, err = active.Report(report)
		if errors.Is(err, ErrClosed) {
			active = nil
		}
	}
	if active == nil {
		hazard, err = proximity.NewHazard(report, m.now())
	}
	if err != nil {
		return models.RoadCondition{}, err
	}

	m.catalog.Add(hazard)
	if m.store != nil {
		if err := m.store.SaveHazards(ctx, hazard); err != nil {
			return hazard, fmt.Errorf("persist hazard: %w", err)
		}
	}

	logging.LogOperation(m.logger, "hazard_reported",
		slog.String("hazard_id", hazard.ID),
		slog.String("type", string(hazard.Type)))
	return hazard, nil
}

func (m *Manager) Hazards() []models.RoadCondition {
	return m.catalog.Hazards()
}

func (m *Manager) Cameras() []models.SpeedCamera {
	return m.catalog.Cameras()
}

// Close stops any active session.
func (m *Manager) Close() error {
	err := m.Stop()
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	return err
}
