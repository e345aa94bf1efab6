package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/models"
	"wayfinder.app/internal/navigation"
	"wayfinder.app/internal/proximity"
	"wayfinder.app/internal/routing"
)

var origin = geo.Point{Lat: -1.2864, Lng: 36.8172}

type fakeSpeech struct {
	mu     sync.Mutex
	spoken []string
	stops  int
	closed bool
}

func (f *fakeSpeech) Speak(text string, _ bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, text)
}

func (f *fakeSpeech) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
}

func (f *fakeSpeech) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSpeech) Spoken() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.spoken...)
}

type fakeRoutes struct {
	route routing.Route
	err   error
	calls int
}

func (f *fakeRoutes) Route(_ context.Context, _, _ geo.Point) (routing.Route, error) {
	f.calls++
	return f.route, f.err
}

type memoryStore struct {
	saved []models.RoadCondition
	err   error
}

func (m *memoryStore) SaveHazards(_ context.Context, hazards ...models.RoadCondition) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, hazards...)
	return nil
}

func south(p geo.Point, d float64) geo.Point {
	return geo.Destination(p, 180, d)
}

func testInstructions() []models.Instruction {
	end := geo.Destination(origin, 0, 1000)
	return []models.Instruction{
		navigation.NewInstruction(0, models.KindTurn, models.ModifierLeft, "Ngong Road", 1000, 60, &origin),
		navigation.NewInstruction(1, models.KindArrive, models.ModifierNone, "", 0, 0, &end),
	}
}

func testSteps() []models.RawStep {
	end := geo.Destination(origin, 0, 1000)
	return []models.RawStep{
		{Maneuver: models.RawManeuver{Type: "turn", Modifier: "left", Location: []float64{origin.Lng, origin.Lat}}, Name: "Ngong Road", Distance: 1000, Duration: 60},
		{Maneuver: models.RawManeuver{Type: "arrive", Location: []float64{end.Lng, end.Lat}}},
	}
}

func nearbyHazard() models.RoadCondition {
	return models.RoadCondition{
		ID:       "h-near",
		Type:     models.HazardPothole,
		Location: south(origin, 100),
		Name:     "Pothole",
		Severity: models.SeverityHigh,
	}
}

func newTestManager(t *testing.T) (*Manager, *fakeRoutes, *memoryStore, *[]*fakeSpeech) {
	t.Helper()
	routes := &fakeRoutes{route: routing.Route{Steps: testSteps(), DistanceMeters: 1000, DurationSeconds: 60}}
	store := &memoryStore{}
	speeches := &[]*fakeSpeech{}
	catalog := proximity.NewCatalog([]models.RoadCondition{nearbyHazard()}, nil)
	m := NewManager(DefaultConfig(), routes, catalog, store, func() Speech {
		s := &fakeSpeech{}
		*speeches = append(*speeches, s)
		return s
	}, nil)
	return m, routes, store, speeches
}

func TestSessionUpdateReturnsEventAndAlerts(t *testing.T) {
	m, _, _, speeches := newTestManager(t)
	s, start, err := m.Start(testInstructions())
	require.NoError(t, err)
	require.NotNil(t, start)
	assert.Equal(t, navigation.EventStart, start.Type)

	update, err := s.UpdatePosition(south(origin, 150))
	require.NoError(t, err)
	require.NotNil(t, update.Event)
	assert.Equal(t, navigation.EventAnnounce, update.Event.Type)
	require.NotNil(t, update.Alerts.Hazard)
	assert.Equal(t, "h-near", update.Alerts.Hazard.ID)
	assert.Nil(t, update.Alerts.Camera)
	assert.Equal(t, 0, update.Progress.Index)

	require.Len(t, *speeches, 1)
	spoken := (*speeches)[0].Spoken()
	require.Len(t, spoken, 2)
	assert.Contains(t, spoken[1], "turn left onto Ngong Road")
}

func TestSessionInvalidPositionChangesNothing(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	s, _, err := m.Start(testInstructions())
	require.NoError(t, err)

	_, err = s.UpdatePosition(geo.Point{Lat: 120, Lng: 0})
	assert.ErrorIs(t, err, navigation.ErrInvalidPosition)
	assert.Nil(t, s.Alerts().Hazard)
	assert.Equal(t, 0, s.Snapshot().Progress.Index)
}

func TestSessionDismissAndVoice(t *testing.T) {
	m, _, _, speeches := newTestManager(t)
	s, _, err := m.Start(testInstructions())
	require.NoError(t, err)

	_, err = s.UpdatePosition(south(origin, 150))
	require.NoError(t, err)
	require.NoError(t, s.Dismiss(proximity.TrackHazard))
	assert.Nil(t, s.Alerts().Hazard)
	assert.ErrorIs(t, s.Dismiss(proximity.TrackCamera), proximity.ErrNoActiveAlert)

	require.NoError(t, s.SetVoiceEnabled(false))
	assert.Equal(t, 1, (*speeches)[0].stops)
	assert.False(t, s.Snapshot().VoiceEnabled)

	repeated, err := s.Repeat()
	require.NoError(t, err)
	assert.True(t, repeated)
}

func TestSessionSnapshot(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	s, _, err := m.StartRoute(context.Background(), south(origin, 500), geo.Destination(origin, 0, 1000))
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, s.ID(), snap.ID)
	require.NotNil(t, snap.Current)
	assert.Equal(t, "step-0", snap.Current.ID)
	assert.Len(t, snap.Upcoming, 2)
	assert.Equal(t, 2, snap.Progress.Total)
	assert.True(t, snap.VoiceEnabled)
	require.NotNil(t, snap.Route)
	assert.Equal(t, 1000.0, snap.Route.DistanceMeters)
	assert.Nil(t, snap.Position)
	assert.Nil(t, snap.Next)
}

func TestSessionSnapshotLocatesNextManeuver(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	s, _, err := m.Start(testInstructions())
	require.NoError(t, err)

	_, err = s.UpdatePosition(south(origin, 500))
	require.NoError(t, err)

	snap := s.Snapshot()
	require.NotNil(t, snap.Position)
	require.NotNil(t, snap.Next)
	assert.InDelta(t, 500, snap.Next.DistanceMeters, 1)
	assert.Equal(t, "N", snap.Next.Direction)
}

func TestSessionClosedRejectsCalls(t *testing.T) {
	m, _, _, speeches := newTestManager(t)
	s, _, err := m.Start(testInstructions())
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, (*speeches)[0].closed)

	_, err = s.UpdatePosition(origin)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Dismiss(proximity.TrackHazard), ErrClosed)
	assert.ErrorIs(t, s.SetVoiceEnabled(true), ErrClosed)
	_, err = s.Repeat()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSessionRunUntilArrival(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	s, _, err := m.Start(testInstructions())
	require.NoError(t, err)

	positions := make(chan geo.Point, 4)
	positions <- south(origin, 5)
	positions <- geo.Point{Lat: 200}
	positions <- geo.Destination(origin, 0, 998)
	close(positions)

	require.NoError(t, s.Run(context.Background(), positions))
	assert.True(t, s.Snapshot().Progress.Finished)
}

func TestSessionRunStopsOnContext(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	s, _, err := m.Start(testInstructions())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = s.Run(ctx, make(chan geo.Point))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
