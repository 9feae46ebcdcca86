package knn

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/knn/distance"
	"github.com/hupe1980/knn/resource"
	"github.com/hupe1980/knn/vote"
)

const (
	// DefaultK is the default neighbour count.
	DefaultK = 10

	// DefaultExponent is the default distance exponent p.
	DefaultExponent = distance.DefaultExponent

	// DefaultBinWidth is the default quantization bin width.
	DefaultBinWidth = distance.DefaultBinWidth

	// minParallelChunk is the smallest reference slice handed to one goroutine
	// when intra-query parallelism is enabled.
	minParallelChunk = 1024
)

type options struct {
	k                int
	p                int
	binWidth         int
	voter            vote.Voter
	workers          int
	intraQuery       int
	skipUnresolved   bool
	metricsCollector MetricsCollector
	logger           *Logger
	resources        *resource.Controller
}

// Option configures a Classifier.
type Option func(*options)

// WithK sets the neighbour count k (default 10).
func WithK(k int) Option {
	return func(o *options) {
		o.k = k
	}
}

// WithExponent sets the distance exponent p (default 3).
func WithExponent(p int) Option {
	return func(o *options) {
		o.p = p
	}
}

// WithBinWidth sets the quantization bin width (default 16).
// A width of 1 disables quantization.
func WithBinWidth(w int) Option {
	return func(o *options) {
		o.binWidth = w
	}
}

// WithVoter sets how neighbours are combined (default vote.Weighted).
//
// If nil is passed, vote.Weighted is used.
func WithVoter(v vote.Voter) Option {
	return func(o *options) {
		if v == nil {
			v = vote.Weighted{}
		}
		o.voter = v
	}
}

// WithWorkers bounds the number of queries classified concurrently by
// ClassifyBatch. Values <= 0 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithIntraQueryParallelism splits the distance computations of a single
// query across n goroutines. Distances are folded into the top-k selector in
// reference order afterwards, so results are identical to the sequential
// path. Values <= 1 disable it.
//
// This helps when there are few queries against a large reference set; for
// large batches, WithWorkers alone is usually faster.
func WithIntraQueryParallelism(n int) Option {
	return func(o *options) {
		o.intraQuery = n
	}
}

// WithSkipUnresolved makes ClassifyBatch record queries that fail (for
// example with a dimension mismatch) as unresolved and continue, instead of
// aborting the batch with the first error.
func WithSkipUnresolved(skip bool) Option {
	return func(o *options) {
		o.skipUnresolved = skip
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &knn.BasicMetricsCollector{}
//	c, _ := knn.New(reference, knn.WithMetricsCollector(metrics))
//	// ... use c ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.ClassifyCount, stats.ClassifyAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := knn.NewJSONLogger(slog.LevelInfo)
//	c, _ := knn.New(reference, knn.WithLogger(logger))
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

// WithResourceController shares memory and worker limits with other
// classifiers and dataset loaders using the same controller.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		k:                DefaultK,
		p:                DefaultExponent,
		binWidth:         DefaultBinWidth,
		voter:            vote.Weighted{},
		workers:          runtime.GOMAXPROCS(0),
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	return o
}
