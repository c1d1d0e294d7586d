package astarnn

import (
	"sync/atomic"
	"time"
)

// MetricsCollector records operational metrics for an Engine. Implement this
// to integrate with a monitoring system such as Prometheus.
type MetricsCollector interface {
	// RecordConstruct is called once, after the engine's probe table and
	// diff-stream are built (or construction fails).
	RecordConstruct(d time.Duration, err error)

	// RecordQuery is called after each Nearest/Delaunay/Extended call. kind
	// is "nearest", "delaunay" or "extended".
	RecordQuery(kind string, matches int, d time.Duration, err error)
}

// NoopMetricsCollector discards everything recorded through it.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordConstruct(time.Duration, error)            {}
func (NoopMetricsCollector) RecordQuery(string, int, time.Duration, error)   {}

// BasicMetricsCollector accumulates simple in-memory counters, useful for
// debugging and tests without wiring up an external monitoring system.
type BasicMetricsCollector struct {
	ConstructCount  atomic.Int64
	ConstructErrors atomic.Int64

	NearestCount    atomic.Int64
	NearestErrors   atomic.Int64
	DelaunayCount   atomic.Int64
	DelaunayErrors  atomic.Int64
	ExtendedCount   atomic.Int64
	ExtendedErrors  atomic.Int64

	QueryTotalNanos atomic.Int64
}

func (b *BasicMetricsCollector) RecordConstruct(_ time.Duration, err error) {
	b.ConstructCount.Add(1)
	if err != nil {
		b.ConstructErrors.Add(1)
	}
}

func (b *BasicMetricsCollector) RecordQuery(kind string, _ int, d time.Duration, err error) {
	b.QueryTotalNanos.Add(d.Nanoseconds())
	switch kind {
	case "nearest":
		b.NearestCount.Add(1)
		if err != nil {
			b.NearestErrors.Add(1)
		}
	case "delaunay":
		b.DelaunayCount.Add(1)
		if err != nil {
			b.DelaunayErrors.Add(1)
		}
	case "extended":
		b.ExtendedCount.Add(1)
		if err != nil {
			b.ExtendedErrors.Add(1)
		}
	}
}

// BasicMetricsStats is a point-in-time snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	ConstructCount  int64
	ConstructErrors int64
	NearestCount    int64
	NearestErrors   int64
	DelaunayCount   int64
	DelaunayErrors  int64
	ExtendedCount   int64
	ExtendedErrors  int64
}

// GetStats returns a snapshot of the current counters.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ConstructCount:  b.ConstructCount.Load(),
		ConstructErrors: b.ConstructErrors.Load(),
		NearestCount:    b.NearestCount.Load(),
		NearestErrors:   b.NearestErrors.Load(),
		DelaunayCount:   b.DelaunayCount.Load(),
		DelaunayErrors:  b.DelaunayErrors.Load(),
		ExtendedCount:   b.ExtendedCount.Load(),
		ExtendedErrors:  b.ExtendedErrors.Load(),
	}
}
