package knn

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/knn/distance"
	"github.com/hupe1980/knn/model"
	"github.com/hupe1980/knn/queue"
	"github.com/hupe1980/knn/vote"
	"golang.org/x/sync/errgroup"
)

// Classifier predicts labels for query vectors from a labeled reference set.
//
// The reference set is shared read-only by all queries and must not be
// modified while the Classifier is in use. Classifier is safe for concurrent
// use; every query owns its own top-k selector and vote accumulator.
type Classifier struct {
	reference []model.LabeledSample
	dim       int
	metric    *distance.Metric
	opts      options
	logger    *Logger
	topkPool  sync.Pool
}

// New validates the configuration and the reference set and returns a
// Classifier.
//
// Errors:
//   - ErrInvalidConfiguration: k <= 0, p < 1 or bin width <= 0
//   - ErrInvalidInput: empty reference set or empty reference vectors
//   - ErrDimensionMismatch: reference vectors of unequal length
func New(reference []model.LabeledSample, optFns ...Option) (*Classifier, error) {
	o := applyOptions(optFns)

	if o.k <= 0 {
		return nil, &ErrInvalidK{K: o.k}
	}

	metric, err := distance.New(o.p, o.binWidth)
	if err != nil {
		return nil, err
	}

	if len(reference) == 0 {
		return nil, fmt.Errorf("%w: empty reference set", ErrInvalidInput)
	}

	dim := len(reference[0].Vector)
	if dim == 0 {
		return nil, fmt.Errorf("%w: reference sample 0 has no features", ErrInvalidInput)
	}
	for i := range reference {
		if n := len(reference[i].Vector); n != dim {
			return nil, fmt.Errorf("reference sample %d: %w", i, &model.DimensionError{Expected: dim, Actual: n})
		}
	}

	c := &Classifier{
		reference: reference,
		dim:       dim,
		metric:    metric,
		opts:      o,
		logger:    o.logger.WithK(o.k).WithDimension(dim),
	}
	c.topkPool.New = func() any {
		return queue.NewTopK(o.k)
	}

	c.logger.Info("classifier ready",
		"reference", len(reference),
		"p", o.p,
		"bin_width", o.binWidth,
		"voter", o.voter.Name(),
		"workers", o.workers,
	)

	return c, nil
}

// Classify is a convenience wrapper that builds a Classifier for a single
// query.
func Classify(query model.FeatureVector, reference []model.LabeledSample, k, p, binWidth int) (model.Label, error) {
	c, err := New(reference, WithK(k), WithExponent(p), WithBinWidth(binWidth))
	if err != nil {
		return model.Unresolved, err
	}
	return c.Classify(context.Background(), query)
}

// K returns the neighbour count.
func (c *Classifier) K() int { return c.opts.k }

// Dimension returns the feature vector length of the reference set.
func (c *Classifier) Dimension() int { return c.dim }

// Len returns the size of the reference set.
func (c *Classifier) Len() int { return len(c.reference) }

// Classify predicts the label of query.
//
// The reference set is scanned in index order; each distance is offered to a
// fresh top-k selector and the snapshot is passed to the voter. A query whose
// length differs from the reference vectors fails with ErrDimensionMismatch.
func (c *Classifier) Classify(ctx context.Context, query model.FeatureVector) (model.Label, error) {
	start := time.Now()
	label, err := c.classify(ctx, query)
	c.opts.metricsCollector.RecordClassify(time.Since(start), err)
	return label, err
}

func (c *Classifier) classify(ctx context.Context, query model.FeatureVector) (model.Label, error) {
	neighbors, err := c.Neighbors(ctx, query)
	if err != nil {
		return model.Unresolved, err
	}
	label, err := c.opts.voter.Vote(neighbors)
	if err != nil {
		return model.Unresolved, err
	}
	return label, nil
}

// Neighbors returns the k nearest reference candidates of query in ascending
// distance order (fewer if the reference set is smaller than k).
func (c *Classifier) Neighbors(ctx context.Context, query model.FeatureVector) ([]model.Candidate, error) {
	if len(query) != c.dim {
		return nil, &model.DimensionError{Expected: c.dim, Actual: len(query)}
	}

	q := c.acquireTopK()
	defer c.topkPool.Put(q)

	if c.opts.intraQuery > 1 && len(c.reference) >= 2*minParallelChunk {
		if err := c.foldParallel(ctx, query, q); err != nil {
			return nil, err
		}
		return q.Snapshot(), nil
	}

	for i := range c.reference {
		d, err := c.metric.Distance(c.reference[i].Vector, query)
		if err != nil {
			return nil, err
		}
		q.Insert(d, c.reference[i].Label)
	}

	return q.Snapshot(), nil
}

// foldParallel computes all distances in parallel chunks, then folds them
// into q in ascending reference order.
func (c *Classifier) foldParallel(ctx context.Context, query model.FeatureVector, q *queue.TopK) error {
	n := len(c.reference)

	scratch := int64(n) * 8
	if err := c.opts.resources.AcquireMemory(ctx, scratch); err != nil {
		return err
	}
	defer c.opts.resources.ReleaseMemory(scratch)

	dists := make([]model.Distance, n)
	chunk := max((n+c.opts.intraQuery-1)/c.opts.intraQuery, minParallelChunk)

	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				d, err := c.metric.Distance(c.reference[i].Vector, query)
				if err != nil {
					return err
				}
				dists[i] = d
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, d := range dists {
		q.Insert(d, c.reference[i].Label)
	}
	return nil
}

func (c *Classifier) acquireTopK() *queue.TopK {
	q := c.topkPool.Get().(*queue.TopK)
	q.Reset(c.opts.k)
	return q
}

// Explanation describes how a prediction was reached.
type Explanation struct {
	// Label is the predicted label.
	Label model.Label
	// Neighbors are the retained candidates in ascending distance order.
	Neighbors []model.Candidate
	// Tally is the vote accumulator. It is nil for voters that do not expose one.
	Tally *vote.Tally
}

type tallier interface {
	Tally(candidates []model.Candidate) (*vote.Tally, error)
}

// Explain classifies query and returns the neighbours and vote weights that
// produced the prediction.
func (c *Classifier) Explain(ctx context.Context, query model.FeatureVector) (*Explanation, error) {
	neighbors, err := c.Neighbors(ctx, query)
	if err != nil {
		return nil, err
	}

	e := &Explanation{Neighbors: neighbors}
	if t, ok := c.opts.voter.(tallier); ok {
		tally, err := t.Tally(neighbors)
		if err != nil {
			return nil, err
		}
		e.Tally = tally
		e.Label = tally.Winner
		return e, nil
	}

	e.Label, err = c.opts.voter.Vote(neighbors)
	if err != nil {
		return nil, err
	}
	return e, nil
}
