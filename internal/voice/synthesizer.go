package voice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"wayfinder.app/internal/logging"
)

// LogSynthesizer writes utterances to the log and holds the slot for a
// duration proportional to the word count, roughly like a speech engine.
type LogSynthesizer struct {
	logger  *slog.Logger
	perWord time.Duration
}

func NewLogSynthesizer(logger *slog.Logger, perWord time.Duration) *LogSynthesizer {
	return &LogSynthesizer{
		logger:  logging.Component(logger, "voice"),
		perWord: perWord,
	}
}

func (l *LogSynthesizer) Say(ctx context.Context, text string) error {
	logging.LogOperation(l.logger, "speak", slog.String("text", text))

	d := time.Duration(len(strings.Fields(text))) * l.perWord
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Multi says the text through each synthesizer in turn. Every synthesizer is
// tried; their errors are joined.
type Multi []Synthesizer

func (m Multi) Say(ctx context.Context, text string) error {
	var errs []error
	for _, synth := range m {
		if err := synth.Say(ctx, text); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
