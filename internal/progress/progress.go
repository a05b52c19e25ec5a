// Package progress reports scan status to the console.
package progress

import (
	"github.com/rs/zerolog"

	"langscan/internal/textutil"
)

// Emphasis is the weight of a status line.
type Emphasis uint8

const (
	Plain   Emphasis = iota
	Section          // BEGIN/END lines of a scan stage.
	Detail           // Per-file lines, only shown in verbose mode.
)

// Sink receives human-readable status from a scan run.
type Sink interface {
	Status(msg string, emphasis Emphasis)
	Detected(category, message string)
}

// LogSink writes status lines through a zerolog logger.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a sink over logger.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Status(msg string, emphasis Emphasis) {
	switch emphasis {
	case Section:
		s.logger.Info().Bool("section", true).Msg(msg)
	case Detail:
		s.logger.Debug().Msg(msg)
	default:
		s.logger.Info().Msg(msg)
	}
}

func (s *LogSink) Detected(category, message string) {
	s.logger.Info().
		Str("category", category).
		Str("message", textutil.Truncate(message, 80)).
		Msg("Detected language element")
}

// Discard drops everything.
type Discard struct{}

func (Discard) Status(string, Emphasis) {}
func (Discard) Detected(string, string) {}
