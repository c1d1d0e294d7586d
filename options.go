package astarnn

import (
	"log/slog"

	"golang.org/x/time/rate"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	mmapArena        bool
	limiter          *rate.Limiter
}

// Option configures an Engine at construction time.
type Option func(*options)

// WithLogger attaches a Logger to the engine. Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel is a convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector attaches a MetricsCollector. Pass nil to disable
// metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithMmapArena backs each query's scratch arena with a slice of a single
// anonymous memory mapping owned by the engine instead of a plain heap
// allocation. Most callers do not need this; it only pays off under heavy
// concurrent query load on engines with large n, where it removes scratch
// buffers from GC-visible heap growth entirely. Falls back silently to the
// heap-backed arena on platforms without an mmap implementation.
func WithMmapArena() Option {
	return func(o *options) {
		o.mmapArena = true
	}
}

// WithQueryRateLimit bounds how many queries per second this engine will
// run, blocking callers (respecting ctx cancellation) above that rate. Useful
// when one engine is shared behind a network-facing service and a caller's
// burst should be smoothed rather than amplified into CPU pressure.
func WithQueryRateLimit(queriesPerSecond float64, burst int) Option {
	return func(o *options) {
		o.limiter = rate.NewLimiter(rate.Limit(queriesPerSecond), burst)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
