package knn

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/knn/internal/conv"
	"github.com/hupe1980/knn/model"
	"golang.org/x/sync/errgroup"
)

// BatchResult holds the predictions of a batch, one per query, in query order.
type BatchResult struct {
	// Predictions[i] is the label for queries[i], or model.Unresolved.
	Predictions []model.Label
	// Unresolved holds the indices of queries that could not be classified.
	// It is only populated when WithSkipUnresolved(true) is set.
	Unresolved *roaring.Bitmap
	// Errors maps unresolved query indices to the cause (a *QueryError).
	Errors map[int]error
	// Elapsed is the wall time of the batch.
	Elapsed time.Duration
}

// Resolved returns the number of queries with a prediction.
func (r *BatchResult) Resolved() int {
	return len(r.Predictions) - int(r.Unresolved.GetCardinality())
}

// UnresolvedIndices returns the unresolved query indices in ascending order.
func (r *BatchResult) UnresolvedIndices() []int {
	out := make([]int, 0, r.Unresolved.GetCardinality())
	it := r.Unresolved.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// ClassifyBatch classifies queries in parallel, bounded by WithWorkers.
//
// Each query is evaluated independently, so predictions do not depend on
// scheduling. By default the first failing query aborts the batch and its
// *QueryError is returned. With WithSkipUnresolved(true) failing queries are
// recorded in BatchResult.Unresolved and the batch continues.
//
// Canceling ctx stops scheduling further queries.
func (c *Classifier) ClassifyBatch(ctx context.Context, queries []model.FeatureVector) (*BatchResult, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: empty query set", ErrInvalidInput)
	}
	if _, err := conv.IntToUint32(len(queries) - 1); err != nil {
		return nil, fmt.Errorf("%w: too many queries: %w", ErrInvalidInput, err)
	}

	start := time.Now()
	res := &BatchResult{
		Predictions: make([]model.Label, len(queries)),
		Unresolved:  roaring.New(),
		Errors:      make(map[int]error),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.workers)

	for i, query := range queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := c.opts.resources.AcquireWorker(gctx); err != nil {
				return err
			}
			defer c.opts.resources.ReleaseWorker()

			label, err := c.Classify(gctx, query)
			c.logger.LogClassify(gctx, i, int(label), err)
			if err == nil {
				res.Predictions[i] = label
				return nil
			}

			qerr := &QueryError{Index: i, cause: err}
			if !c.opts.skipUnresolved {
				return qerr
			}

			res.Predictions[i] = model.Unresolved
			mu.Lock()
			res.Unresolved.Add(uint32(i))
			res.Errors[i] = qerr
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	res.Elapsed = time.Since(start)
	unresolved := int(res.Unresolved.GetCardinality())

	c.logger.LogBatch(ctx, len(queries), unresolved, res.Elapsed, err)
	c.opts.metricsCollector.RecordBatch(len(queries), unresolved, res.Elapsed, err)
	if err != nil {
		return nil, err
	}
	return res, nil
}
