// Package zapadapter adapts go.uber.org/zap to the ratelimiter.Logger
// interface.
package zapadapter

import "go.uber.org/zap"

// ZapLogger forwards limiter messages to a zap.SugaredLogger. Every line
// carries a component field so limiter output is easy to filter out of the
// application's log stream.
type ZapLogger struct {
	logger *zap.SugaredLogger
}

// New wraps the given zap.Logger. A nil logger yields a no-op adapter.
//
// Example:
//
//	zl, _ := zap.NewProduction()
//	mw := nethttp.Middleware(limiter, ratelimiter.WithLogger(zapadapter.New(zl)))
func New(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{logger: l.Sugar().With("component", "ratelimiter")}
}

// Debugf implements ratelimiter.Logger.
func (z *ZapLogger) Debugf(format string, args ...interface{}) {
	z.logger.Debugf(format, args...)
}

// Errorf implements ratelimiter.Logger.
func (z *ZapLogger) Errorf(format string, args ...interface{}) {
	z.logger.Errorf(format, args...)
}
