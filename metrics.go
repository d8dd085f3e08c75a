package topo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    knnCounter       prometheus.Counter
//	    pipelineDuration prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordKNN(n, k int, duration time.Duration, err error) {
//	    p.knnCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordKNN is called after each k-nearest-neighbor stage.
	// n is the number of points, k the neighbor count, duration the time
	// taken; err is nil if successful.
	RecordKNN(n, k int, duration time.Duration, err error)

	// RecordPersistence is called after each persistence computation.
	// dim is the homology dimension, pairs the number of finite pairs.
	RecordPersistence(dim, pairs int, duration time.Duration, err error)

	// RecordExtraction is called after each candidate extraction.
	RecordExtraction(candidates int, duration time.Duration, err error)

	// RecordPipeline is called after each full pipeline run.
	RecordPipeline(n int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordKNN(int, int, time.Duration, error)         {}
func (NoopMetricsCollector) RecordPersistence(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordExtraction(int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordPipeline(int, time.Duration, error)        {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	KNNCount              atomic.Int64
	KNNErrors             atomic.Int64
	KNNTotalNanos         atomic.Int64
	PersistenceCount      atomic.Int64
	PersistenceErrors     atomic.Int64
	PersistencePairs      atomic.Int64
	PersistenceTotalNanos atomic.Int64
	ExtractionCount       atomic.Int64
	ExtractionErrors      atomic.Int64
	ExtractionCandidates  atomic.Int64
	PipelineCount         atomic.Int64
	PipelineErrors        atomic.Int64
	PipelineTotalNanos    atomic.Int64
}

// RecordKNN implements MetricsCollector.
func (b *BasicMetricsCollector) RecordKNN(n, k int, duration time.Duration, err error) {
	b.KNNCount.Add(1)
	b.KNNTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.KNNErrors.Add(1)
	}
}

// RecordPersistence implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPersistence(dim, pairs int, duration time.Duration, err error) {
	b.PersistenceCount.Add(1)
	b.PersistencePairs.Add(int64(pairs))
	b.PersistenceTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PersistenceErrors.Add(1)
	}
}

// RecordExtraction implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExtraction(candidates int, duration time.Duration, err error) {
	b.ExtractionCount.Add(1)
	b.ExtractionCandidates.Add(int64(candidates))
	if err != nil {
		b.ExtractionErrors.Add(1)
	}
}

// RecordPipeline implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPipeline(n int, duration time.Duration, err error) {
	b.PipelineCount.Add(1)
	b.PipelineTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PipelineErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		KNNCount:             b.KNNCount.Load(),
		KNNErrors:            b.KNNErrors.Load(),
		KNNAvgNanos:          avgNanos(b.KNNTotalNanos.Load(), b.KNNCount.Load()),
		PersistenceCount:     b.PersistenceCount.Load(),
		PersistenceErrors:    b.PersistenceErrors.Load(),
		PersistencePairs:     b.PersistencePairs.Load(),
		PersistenceAvgNanos:  avgNanos(b.PersistenceTotalNanos.Load(), b.PersistenceCount.Load()),
		ExtractionCount:      b.ExtractionCount.Load(),
		ExtractionErrors:     b.ExtractionErrors.Load(),
		ExtractionCandidates: b.ExtractionCandidates.Load(),
		PipelineCount:        b.PipelineCount.Load(),
		PipelineErrors:       b.PipelineErrors.Load(),
		PipelineAvgNanos:     avgNanos(b.PipelineTotalNanos.Load(), b.PipelineCount.Load()),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	KNNCount             int64
	KNNErrors            int64
	KNNAvgNanos          int64
	PersistenceCount     int64
	PersistenceErrors    int64
	PersistencePairs     int64
	PersistenceAvgNanos  int64
	ExtractionCount      int64
	ExtractionErrors     int64
	ExtractionCandidates int64
	PipelineCount        int64
	PipelineErrors       int64
	PipelineAvgNanos     int64
}
