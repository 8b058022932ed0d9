package ratelimiter

import (
	"errors"
	"math"
	"net/http"
	"strconv"
)

// Logger is a simple interface for logging.
// Users can provide their own logger that implements this interface;
// ready-made adapters for the standard library logger, zap, zerolog, and
// logrus live under adapters/.
type Logger interface {
	Debugf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// noopLogger is a default logger that does nothing.
// It is used when no logger is provided by the user to avoid nil panics.
type noopLogger struct{}

func (l *noopLogger) Debugf(format string, args ...interface{}) {}
func (l *noopLogger) Errorf(format string, args ...interface{}) {}

// MetricsCollector receives the outcome of every rate limit check performed
// by the middleware. The metrics package provides a Prometheus-backed
// implementation; the default collector discards everything.
type MetricsCollector interface {
	// ObserveCheck records a single admission decision for a key.
	ObserveCheck(key string, allowed bool)
}

// noopMetrics is the default MetricsCollector.
type noopMetrics struct{}

func (noopMetrics) ObserveCheck(key string, allowed bool) {}

// ErrorExceeded is a sentinel error passed to the ErrorHandler when the rate
// limit is surpassed. Custom handlers can check for this specific condition.
// Note that Limiter.Allow itself reports rejection via Result.Allowed, not
// via an error.
var ErrorExceeded = errors.New("rate limit exceeded")

// KeyFunc is a function type used to extract a unique client identifier from
// an incoming HTTP request. The returned string is used as the key for the
// rate limiter. Common implementations use the client's IP address or an API
// key from a header.
type KeyFunc func(r *http.Request) (string, error)

// ErrorHandler is a function type that defines how to respond to a client
// when a rate limit is exceeded. This gives the user full control over the
// status code, headers, and body of the error response.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error, result Result)

// Config holds all configurable parameters for the middleware.
// It is an internal struct that users interact with via functional options.
type Config struct {
	KeyFunc      KeyFunc
	ErrorHandler ErrorHandler
	Logger       Logger
	Metrics      MetricsCollector
}

// Option is a function type that applies a configuration setting to a Config
// struct. It's the core of the Functional Options Pattern.
type Option func(*Config)

// NewConfig creates a Config instance with default settings and then applies
// any provided functional options.
//
// Defaults: the client is identified by its remote address, rejections get a
// plain-text 429 with a Retry-After header, and logging and metrics are
// disabled.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		KeyFunc: func(r *http.Request) (string, error) {
			return r.RemoteAddr, nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error, result Result) {
			retryAfter := int(math.Ceil(result.ResetAfter.Seconds()))
			if retryAfter <= 0 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		},
		Logger:  &noopLogger{},
		Metrics: noopMetrics{},
	}

	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithKeyFunc returns an Option that sets a custom function for client
// identification. This allows users to rate-limit based on criteria like API
// keys, user IDs, etc.
func WithKeyFunc(f KeyFunc) Option {
	return func(c *Config) {
		if f != nil {
			c.KeyFunc = f
		}
	}
}

// WithErrorHandler returns an Option that sets a custom handler for rate
// limit errors. This is useful for sending structured JSON error responses
// or logging detailed information.
func WithErrorHandler(f ErrorHandler) Option {
	return func(c *Config) {
		if f != nil {
			c.ErrorHandler = f
		}
	}
}

// WithLogger returns an Option that sets a custom logger.
func WithLogger(l Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithMetrics returns an Option that sets a custom metrics collector.
func WithMetrics(m MetricsCollector) Option {
	return func(c *Config) {
		if m != nil {
			c.Metrics = m
		}
	}
}
