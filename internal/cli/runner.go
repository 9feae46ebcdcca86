package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/knn"
	"github.com/hupe1980/knn/blobstore"
	s3blob "github.com/hupe1980/knn/blobstore/s3"
	"github.com/hupe1980/knn/codec"
	"github.com/hupe1980/knn/dataset"
	"github.com/hupe1980/knn/model"
	"github.com/hupe1980/knn/resource"
	"github.com/hupe1980/knn/vote"
)

// runner holds what classify and evaluate share.
type runner struct {
	cfg     *Config
	logger  *knn.Logger
	store   blobstore.BlobStore
	rc      *resource.Controller
	voter   vote.Voter
	codec   codec.Codec
	metrics *knn.BasicMetricsCollector
}

func newRunner(ctx context.Context, cfg *Config) (*runner, error) {
	logger, err := cfg.logger()
	if err != nil {
		return nil, err
	}

	voter, ok := vote.ByName(cfg.Voter)
	if !ok {
		return nil, fmt.Errorf("%w: unknown voter %q", model.ErrInvalidConfiguration, cfg.Voter)
	}

	c, ok := codec.ByName(cfg.Codec)
	if !ok {
		return nil, fmt.Errorf("%w: unknown codec %q", model.ErrInvalidConfiguration, cfg.Codec)
	}

	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	return &runner{
		cfg:    cfg,
		logger: logger,
		store:  store,
		rc: resource.NewController(resource.Config{
			MemoryLimitBytes:   cfg.Limits.MemoryBytes,
			MaxWorkers:         cfg.Limits.MaxWorkers,
			IOLimitBytesPerSec: cfg.Limits.IOBytesPerSec,
		}),
		voter:   voter,
		codec:   c,
		metrics: &knn.BasicMetricsCollector{},
	}, nil
}

func (r *runner) loadOptions() []dataset.LoadOption {
	return []dataset.LoadOption{
		dataset.WithResourceController(r.rc),
		dataset.WithLogger(r.logger),
	}
}

func (r *runner) classifier(ctx context.Context, train string) (*knn.Classifier, error) {
	ref, err := dataset.LoadReference(ctx, r.store, train, r.loadOptions()...)
	if err != nil {
		return nil, err
	}

	return knn.New(ref,
		knn.WithK(r.cfg.K),
		knn.WithExponent(r.cfg.Exponent),
		knn.WithBinWidth(r.cfg.BinWidth),
		knn.WithVoter(r.voter),
		knn.WithWorkers(r.cfg.Workers),
		knn.WithIntraQueryParallelism(r.cfg.IntraQuery),
		knn.WithSkipUnresolved(r.cfg.SkipUnresolved),
		knn.WithLogger(r.logger),
		knn.WithMetricsCollector(r.metrics),
		knn.WithResourceController(r.rc),
	)
}

func (r *runner) writePredictions(ctx context.Context, out string, predictions []model.Label) error {
	opts := []dataset.SinkOption{
		dataset.WithUnresolvedToken(r.cfg.Output.UnresolvedToken),
		dataset.WithSinkResourceController(r.rc),
	}
	if r.cfg.Output.SubmissionHeader {
		opts = append(opts, dataset.WithSubmissionHeader())
	}
	return dataset.NewSink(r.store, out, opts...).Write(ctx, predictions)
}

func (r *runner) manifest(train, test, out string, clf *knn.Classifier, res *knn.BatchResult) *dataset.Manifest {
	unresolved := res.Unresolved.ToArray()
	if len(unresolved) == 0 {
		unresolved = nil
	}
	return &dataset.Manifest{
		Reference:     train,
		Queries:       test,
		Predictions:   out,
		K:             clf.K(),
		Exponent:      r.cfg.Exponent,
		BinWidth:      r.cfg.BinWidth,
		Voter:         r.voter.Name(),
		ReferenceSize: clf.Len(),
		QueryCount:    len(res.Predictions),
		Resolved:      res.Resolved(),
		Unresolved:    unresolved,
		ElapsedMillis: res.Elapsed.Milliseconds(),
	}
}

func (r *runner) publish(ctx context.Context, m *dataset.Manifest) (string, error) {
	if !r.cfg.Publish {
		return "", nil
	}

	name, err := dataset.Publish(ctx, r.store, m, r.codec)
	if errors.Is(err, s3blob.ErrConcurrentModification) {
		// Another run moved CURRENT between our read and write; retry once on top of it.
		r.logger.WarnContext(ctx, "concurrent publish detected, retrying", "run", m.RunID)
		return name, r.store.Put(ctx, blobstore.CurrentName, []byte(name))
	}
	return name, err
}

func (r *runner) logStats(ctx context.Context, started time.Time) {
	s := r.metrics.GetStats()
	r.logger.DebugContext(ctx, "run stats",
		"classify_count", s.ClassifyCount,
		"classify_errors", s.ClassifyErrors,
		"classify_avg", time.Duration(s.ClassifyAvgNanos),
		"batch_queries", s.BatchQueries,
		"batch_errors", s.BatchErrors,
		"batch_unresolved", s.BatchUnresolved,
		"total", time.Since(started),
	)
}
