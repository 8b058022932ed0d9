package ratelimiter

import "time"

// Clock abstracts the time source used by the limiters.
//
// The default clock reads time.Now(), whose monotonic component keeps
// elapsed-time arithmetic stable across wall-clock adjustments (NTP steps,
// manual changes). Substituting a manual clock makes admission sequences
// fully deterministic, which is how the algorithm tests in this module work.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// systemClock delegates to the standard time package.
type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// limiterSettings holds the tunables shared by all limiter constructors.
type limiterSettings struct {
	clock Clock
}

func newLimiterSettings(opts ...LimiterOption) limiterSettings {
	s := limiterSettings{clock: systemClock{}}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// LimiterOption is a function type that applies a setting to a limiter
// under construction. It mirrors the middleware Option type but targets
// the algorithm itself rather than the HTTP layer.
type LimiterOption func(*limiterSettings)

// WithClock returns a LimiterOption that replaces the limiter's time source.
// This is primarily useful in tests, where a manually advanced clock lets
// the same call sequence be replayed with identical outcomes.
func WithClock(c Clock) LimiterOption {
	return func(s *limiterSettings) {
		if c != nil {
			s.clock = c
		}
	}
}
