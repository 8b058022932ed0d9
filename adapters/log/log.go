// Package stdlogadapter adapts the standard library logger to the
// ratelimiter.Logger interface.
package stdlogadapter

import "log"

// StdLogger writes limiter messages through a *log.Logger. The standard
// logger has no levels, so the level is encoded as a line prefix.
type StdLogger struct {
	logger *log.Logger
}

// New wraps the given logger; a nil logger falls back to log.Default().
func New(l *log.Logger) *StdLogger {
	if l == nil {
		l = log.Default()
	}
	return &StdLogger{logger: l}
}

func (s *StdLogger) Debugf(format string, args ...interface{}) {
	s.logger.Printf("DEBUG ratelimiter: "+format, args...)
}

func (s *StdLogger) Errorf(format string, args ...interface{}) {
	s.logger.Printf("ERROR ratelimiter: "+format, args...)
}
