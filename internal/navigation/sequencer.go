package navigation

import (
	"errors"
	"fmt"
	"log/slog"

	"wayfinder.app/internal/geo"
	"wayfinder.app/internal/logging"
	"wayfinder.app/internal/models"
)

var ErrInvalidPosition = errors.New("invalid position")

type EventType string

const (
	EventStart    EventType = "start"
	EventAnnounce EventType = "announce"
	EventReminder EventType = "reminder"
	EventAdvance  EventType = "advance"
	EventArrived  EventType = "arrived"
)

// Event is emitted by the sequencer when a position update or a route load
// triggers an announcement or progress change.
type Event struct {
	Type          EventType `json:"type"`
	Index         int       `json:"index"`
	InstructionID string    `json:"instructionId"`
	Text          string    `json:"text,omitempty"`
	Distance      float64   `json:"distance"`
}

// Sink receives utterances. A priority utterance interrupts whatever is being
// spoken; others wait their turn.
type Sink interface {
	Speak(text string, priority bool)
}

// Stopper is implemented by sinks that can silence the current utterance.
type Stopper interface {
	Stop()
}

type Config struct {
	AnnounceRadius float64
	ReminderRadius float64
	PassedRadius   float64
	VoiceEnabled   bool
	UpcomingCount  int
}

func DefaultConfig() Config {
	return Config{
		AnnounceRadius: 200,
		ReminderRadius: 50,
		PassedRadius:   10,
		VoiceEnabled:   true,
		UpcomingCount:  3,
	}
}

// Progress is a read-only view of how far along the sequence the driver is.
type Progress struct {
	Index    int  `json:"index"`
	Total    int  `json:"total"`
	Finished bool `json:"finished"`
}

// Sequencer turns a position stream into voice announcements against one
// instruction sequence. It is not safe for concurrent use; the owning session
// serializes calls.
type Sequencer struct {
	config       Config
	sink         Sink
	logger       *slog.Logger
	voiceEnabled bool

	instructions []models.Instruction
	currentIndex int
	announced    map[string]struct{}
	reminded     map[string]struct{}
}

func NewSequencer(config Config, sink Sink, logger *slog.Logger) *Sequencer {
	logger = logging.Component(logger, "sequencer")
	defaults := DefaultConfig()
	if config.AnnounceRadius <= 0 {
		config.AnnounceRadius = defaults.AnnounceRadius
	}
	if config.ReminderRadius <= 0 {
		config.ReminderRadius = defaults.ReminderRadius
	}
	if config.PassedRadius <= 0 {
		config.PassedRadius = defaults.PassedRadius
	}
	// The bands must nest: passed < reminder < announce.
	if !(config.PassedRadius < config.ReminderRadius && config.ReminderRadius < config.AnnounceRadius) {
		logger.Warn("radii out of order, using defaults",
			slog.Float64("announce_radius", config.AnnounceRadius),
			slog.Float64("reminder_radius", config.ReminderRadius),
			slog.Float64("passed_radius", config.PassedRadius))
		config.AnnounceRadius = defaults.AnnounceRadius
		config.ReminderRadius = defaults.ReminderRadius
		config.PassedRadius = defaults.PassedRadius
	}
	if config.UpcomingCount <= 0 {
		config.UpcomingCount = defaults.UpcomingCount
	}
	return &Sequencer{
		config:       config,
		sink:         sink,
		logger:       logger,
		voiceEnabled: config.VoiceEnabled,
		announced:    make(map[string]struct{}),
		reminded:     make(map[string]struct{}),
	}
}

// Load replaces the sequence wholesale and resets progress. A non-empty
// sequence produces a start event, spoken when voice is enabled.
func (s *Sequencer) Load(instructions []models.Instruction) *Event {
	s.instructions = append([]models.Instruction(nil), instructions...)
	s.currentIndex = 0
	s.announced = make(map[string]struct{})
	s.reminded = make(map[string]struct{})

	logging.LogOperation(s.logger, "instructions_loaded", slog.Int("steps", len(instructions)))

	if len(s.instructions) == 0 {
		return nil
	}

	first := s.instructions[0]
	ev := &Event{Type: EventStart, Index: 0, InstructionID: first.ID, Text: StartText(first)}
	s.speak(ev.Text, true)
	return ev
}

// UpdatePosition evaluates the sequence from the current index onward and
// applies the rule of the first instruction whose distance falls in a band.
// At most one event is produced per call.
func (s *Sequencer) UpdatePosition(p geo.Point) (*Event, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}

	for i := s.currentIndex; i < len(s.instructions); i++ {
		inst := s.instructions[i]
		if !inst.Locatable() {
			continue
		}

		d := geo.Distance(p, *inst.Location)
		switch {
		case d < s.config.PassedRadius:
			return s.pass(i, inst, d), nil
		case d > s.config.PassedRadius && d <= s.config.ReminderRadius:
			return s.remind(i, inst, d), nil
		case d > s.config.ReminderRadius && d <= s.config.AnnounceRadius:
			return s.announce(i, inst, d), nil
		}
	}

	return nil, nil
}

func (s *Sequencer) announce(i int, inst models.Instruction, d float64) *Event {
	if _, done := s.announced[inst.ID]; done {
		return nil
	}
	s.announced[inst.ID] = struct{}{}

	s.speak(inst.Text, true)
	return s.emit(Event{Type: EventAnnounce, Index: i, InstructionID: inst.ID, Text: inst.Text, Distance: d})
}

func (s *Sequencer) remind(i int, inst models.Instruction, d float64) *Event {
	if _, done := s.reminded[inst.ID]; done {
		return nil
	}
	s.reminded[inst.ID] = struct{}{}

	text := ReminderText(inst)
	s.speak(text, false)
	return s.emit(Event{Type: EventReminder, Index: i, InstructionID: inst.ID, Text: text, Distance: d})
}

// pass commits every instruction up to and including i. Passing an arrive
// step is terminal for its leg and reported as arrival instead of advance.
func (s *Sequencer) pass(i int, inst models.Instruction, d float64) *Event {
	if i < s.currentIndex {
		return nil
	}
	s.currentIndex = i + 1

	if inst.Kind == models.KindArrive {
		s.speak(arrivalMessage, true)
		return s.emit(Event{Type: EventArrived, Index: i, InstructionID: inst.ID, Text: arrivalMessage, Distance: d})
	}

	return s.emit(Event{Type: EventAdvance, Index: s.currentIndex, InstructionID: inst.ID, Distance: d})
}

func (s *Sequencer) emit(ev Event) *Event {
	s.logger.Debug("sequencer_event",
		slog.String("type", string(ev.Type)),
		slog.String("instruction", ev.InstructionID),
		slog.Int("index", ev.Index),
		slog.Float64("distance", ev.Distance))
	return &ev
}

func (s *Sequencer) speak(text string, priority bool) {
	if !s.voiceEnabled || s.sink == nil {
		return
	}
	s.sink.Speak(text, priority)
}

// Current returns the instruction at the current index.
func (s *Sequencer) Current() (models.Instruction, bool) {
	if s.currentIndex >= len(s.instructions) {
		return models.Instruction{}, false
	}
	return s.instructions[s.currentIndex], true
}

// Upcoming returns up to n instructions starting at the current index. n <= 0
// uses the configured count.
func (s *Sequencer) Upcoming(n int) []models.Instruction {
	if n <= 0 {
		n = s.config.UpcomingCount
	}
	if s.currentIndex >= len(s.instructions) {
		return []models.Instruction{}
	}
	end := min(s.currentIndex+n, len(s.instructions))
	return append([]models.Instruction(nil), s.instructions[s.currentIndex:end]...)
}

func (s *Sequencer) Instructions() []models.Instruction {
	return append([]models.Instruction(nil), s.instructions...)
}

func (s *Sequencer) Progress() Progress {
	return Progress{
		Index:    s.currentIndex,
		Total:    len(s.instructions),
		Finished: len(s.instructions) > 0 && s.currentIndex >= len(s.instructions),
	}
}

func (s *Sequencer) VoiceEnabled() bool {
	return s.voiceEnabled
}

// SetVoiceEnabled toggles speech. Turning voice off silences the sink at once.
func (s *Sequencer) SetVoiceEnabled(enabled bool) {
	if enabled == s.voiceEnabled {
		return
	}
	s.voiceEnabled = enabled
	if !enabled {
		if stopper, ok := s.sink.(Stopper); ok {
			stopper.Stop()
		}
		return
	}
	s.speak(voiceOnMessage, false)
}

// Repeat re-announces the current instruction.
func (s *Sequencer) Repeat() bool {
	inst, ok := s.Current()
	if !ok {
		return false
	}
	s.speak(inst.Text, true)
	return true
}

// AnnounceCustom speaks an ambient message without interrupting.
func (s *Sequencer) AnnounceCustom(text string) {
	s.speak(text, false)
}
