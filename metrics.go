package knn

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordClassify is called after each query is classified.
	// err is nil if successful.
	RecordClassify(duration time.Duration, err error)

	// RecordBatch is called after each batch, including aborted ones.
	// count is the number of queries, unresolved the number recorded as
	// unresolved. err is the error that aborted the batch, or nil.
	RecordBatch(count, unresolved int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordClassify(time.Duration, error) {}
func (NoopMetricsCollector) RecordBatch(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	ClassifyCount      atomic.Int64
	ClassifyErrors     atomic.Int64
	ClassifyTotalNanos atomic.Int64
	BatchCount         atomic.Int64
	BatchErrors        atomic.Int64
	BatchQueries       atomic.Int64
	BatchUnresolved    atomic.Int64
	BatchTotalNanos    atomic.Int64
}

// RecordClassify implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClassify(duration time.Duration, err error) {
	b.ClassifyCount.Add(1)
	b.ClassifyTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ClassifyErrors.Add(1)
	}
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(count, unresolved int, duration time.Duration, err error) {
	b.BatchCount.Add(1)
	if err != nil {
		b.BatchErrors.Add(1)
	}
	b.BatchQueries.Add(int64(count))
	b.BatchUnresolved.Add(int64(unresolved))
	b.BatchTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		ClassifyCount:   b.ClassifyCount.Load(),
		ClassifyErrors:  b.ClassifyErrors.Load(),
		BatchCount:      b.BatchCount.Load(),
		BatchErrors:     b.BatchErrors.Load(),
		BatchQueries:    b.BatchQueries.Load(),
		BatchUnresolved: b.BatchUnresolved.Load(),
	}
	if s.ClassifyCount > 0 {
		s.ClassifyAvgNanos = b.ClassifyTotalNanos.Load() / s.ClassifyCount
	}
	return s
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ClassifyCount    int64
	ClassifyErrors   int64
	ClassifyAvgNanos int64
	BatchCount       int64
	BatchErrors      int64
	BatchQueries     int64
	BatchUnresolved  int64
}
