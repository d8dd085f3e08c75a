package topo

import (
	"log/slog"
)

type options struct {
	neighbors        int
	maxDim           int
	scale            bool
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Engine behavior.
type Option func(*options)

// WithNeighbors sets the number of nearest neighbors used for density
// estimation and graph construction. The effective k is capped at n-1
// for small clouds. Default 32.
func WithNeighbors(k int) Option {
	return func(o *options) {
		o.neighbors = k
	}
}

// WithMaxDim sets the maximum homology dimension to compute.
// Supported values are 0 (components only) and 1 (components and loops).
// Default 1.
func WithMaxDim(dim int) Option {
	return func(o *options) {
		o.maxDim = dim
	}
}

// WithoutScaling disables feature standardization. Use this when the
// input coordinates are already on comparable scales.
func WithoutScaling() Option {
	return func(o *options) {
		o.scale = false
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &topo.BasicMetricsCollector{}
//	engine := topo.New(topo.WithMetricsCollector(metrics))
//	// ... use engine ...
//	stats := metrics.GetStats()
//	fmt.Printf("Pipelines: %d, Avg latency: %dns\n", stats.PipelineCount, stats.PipelineAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := topo.NewJSONLogger(slog.LevelInfo)
//	engine := topo.New(topo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
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

func applyOptions(optFns []Option) options {
	o := options{
		neighbors:        32,
		maxDim:           1,
		scale:            true,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
