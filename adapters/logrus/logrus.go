// Package logrusadapter adapts github.com/sirupsen/logrus to the
// ratelimiter.Logger interface.
package logrusadapter

import "github.com/sirupsen/logrus"

// LogrusLogger forwards limiter messages to a logrus entry carrying a
// component field.
type LogrusLogger struct {
	entry *logrus.Entry
}

// New wraps the given logger; a nil logger gets a fresh logrus.New().
func New(l *logrus.Logger) *LogrusLogger {
	if l == nil {
		l = logrus.New()
	}
	return &LogrusLogger{entry: l.WithField("component", "ratelimiter")}
}

// Debugf implements ratelimiter.Logger.
func (l *LogrusLogger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

// Errorf implements ratelimiter.Logger.
func (l *LogrusLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}
