// Package zerologadapter adapts github.com/rs/zerolog to the
// ratelimiter.Logger interface.
package zerologadapter

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ZerologLogger forwards limiter messages to a zerolog.Logger, tagging each
// line with a component field.
type ZerologLogger struct {
	logger zerolog.Logger
}

// New wraps the given logger; a nil logger falls back to zerolog's global
// logger.
func New(l *zerolog.Logger) *ZerologLogger {
	if l == nil {
		l = &log.Logger
	}
	return &ZerologLogger{logger: l.With().Str("component", "ratelimiter").Logger()}
}

// Debugf implements ratelimiter.Logger.
func (z *ZerologLogger) Debugf(format string, args ...interface{}) {
	z.logger.Debug().Msgf(format, args...)
}

// Errorf implements ratelimiter.Logger.
func (z *ZerologLogger) Errorf(format string, args ...interface{}) {
	z.logger.Error().Msgf(format, args...)
}
