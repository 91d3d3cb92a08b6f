package vecstats

import (
	"log/slog"
	"time"
)

type options struct {
	logger        *Logger
	workers       int
	queueSize     int
	timeout       time.Duration
	ratePerSec    float64
	rateBurst     int
	maxConcurrent int64
}

func defaultOptions() options {
	return options{
		logger:    NoopLogger(),
		workers:   1,
		queueSize: 64,
	}
}

// Option configures the statistics decorator.
type Option func(*options)

// WithLogger configures structured logging for background measurements.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := vecstats.NewJSONLogger(slog.LevelInfo)
//	dec, _ := vecstats.New[string, []float32, Doc](reg, "search", "products", approx, exact, 100, vecstats.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithAccuracyWorkers sets how many goroutines run accuracy measurements.
// Values <= 0 keep the default of 1.
func WithAccuracyWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithAccuracyQueueSize sets how many measurements may wait for a worker.
// When the queue is full a sampled call drops its measurement instead of
// blocking. Negative values keep the default of 64.
func WithAccuracyQueueSize(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.queueSize = n
		}
	}
}

// WithAccuracyTimeout bounds each ground-truth query. Zero means no timeout.
func WithAccuracyTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithAccuracyRateLimit caps how many measurements start per second.
// Sampled calls above the limit drop their measurement.
func WithAccuracyRateLimit(perSecond float64, burst int) Option {
	return func(o *options) {
		o.ratePerSec = perSecond
		o.rateBurst = burst
	}
}

// WithMaxConcurrentAccuracy caps how many ground-truth queries run at once,
// regardless of the worker count. Zero means unlimited.
func WithMaxConcurrentAccuracy(n int64) Option {
	return func(o *options) {
		o.maxConcurrent = n
	}
}
