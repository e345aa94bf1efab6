package voice

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"wayfinder.app/internal/logging"
)

var ErrSpeakerClosed = errors.New("speaker closed")

// Synthesizer renders one utterance. Say blocks until the utterance is done
// or ctx is cancelled.
type Synthesizer interface {
	Say(ctx context.Context, text string) error
}

// Speaker is a single-slot speech resource. Only one utterance is active at
// a time; a priority utterance cancels it and drops anything queued, other
// utterances wait their turn.
type Speaker struct {
	synth  Synthesizer
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wake   chan struct{}
	done   chan struct{}

	mu            sync.Mutex
	queue         []string
	speaking      string
	cancelCurrent context.CancelFunc
	closed        bool
}

func NewSpeaker(synth Synthesizer, logger *slog.Logger) *Speaker {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Speaker{
		synth:  synth,
		logger: logging.Component(logger, "speaker"),
		ctx:    ctx,
		cancel: cancel,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Speak schedules text. It never blocks.
func (s *Speaker) Speak(text string, priority bool) {
	if text == "" {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Debug("speak_after_close", slog.String("text", text))
		return
	}
	if priority {
		s.interruptLocked()
		s.queue = []string{text}
	} else {
		s.queue = append(s.queue, text)
	}
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Stop silences the current utterance and drops the queue.
func (s *Speaker) Stop() {
	s.mu.Lock()
	s.interruptLocked()
	s.mu.Unlock()
}

func (s *Speaker) interruptLocked() {
	if s.cancelCurrent != nil {
		s.cancelCurrent()
	}
	s.queue = nil
}

// Speaking returns the active utterance, if any.
func (s *Speaker) Speaking() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking, s.cancelCurrent != nil
}

// Pending is the number of queued utterances.
func (s *Speaker) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Close stops speech and waits for the worker to exit.
func (s *Speaker) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSpeakerClosed
	}
	s.closed = true
	s.interruptLocked()
	s.mu.Unlock()

	s.cancel()
	<-s.done
	return nil
}

func (s *Speaker) run() {
	defer close(s.done)

	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
			case <-s.ctx.Done():
			}
			continue
		}

		text := s.queue[0]
		s.queue = s.queue[1:]
		ctx, cancel := context.WithCancel(s.ctx)
		s.speaking = text
		s.cancelCurrent = cancel
		s.mu.Unlock()

		err := s.synth.Say(ctx, text)
		cancel()

		s.mu.Lock()
		s.speaking = ""
		s.cancelCurrent = nil
		s.mu.Unlock()

		if err != nil && !errors.Is(err, context.Canceled) {
			logging.LogError(s.logger, "speech failed", err, slog.String("text", text))
		}
	}
}
