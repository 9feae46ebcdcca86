// Package knn provides a k-nearest-neighbour classifier for fixed-length
// integer feature vectors (for example 28x28 pixel intensities).
//
// A query is compared to every sample of a labeled reference set with a
// quantized Lp distance (see package distance). The k closest samples are
// kept by a bounded selector (package queue) that never sorts the full
// candidate set, and their labels are combined by an inverse-distance
// weighted vote (package vote).
//
// # Quick Start
//
//	c, err := knn.New(reference,
//	    knn.WithK(10),
//	    knn.WithExponent(3),
//	    knn.WithBinWidth(16),
//	)
//	if err != nil {
//	    return err
//	}
//
//	label, err := c.Classify(ctx, query)
//
// # Batches
//
// ClassifyBatch evaluates queries in parallel. Predictions are returned in
// query order and do not depend on scheduling:
//
//	res, err := c.ClassifyBatch(ctx, queries)
//	for i, l := range res.Predictions {
//	    fmt.Println(i, l)
//	}
//
// By default the first failing query (for example a vector of the wrong
// length) aborts the batch. WithSkipUnresolved(true) records it in
// res.Unresolved instead and keeps going.
//
// # Determinism
//
// Samples are always folded into the selector in reference order, and a new
// candidate never displaces one with an equal distance. Ties in the vote go
// to the smallest label. The same inputs therefore always give the same
// predictions, whatever the worker count or intra-query parallelism.
//
// # Loading Data
//
// Package dataset reads delimited corpora and writes predictions through any
// blobstore.BlobStore (local files, S3, MinIO), and cmd/knn wraps everything
// in a command-line tool.
package knn
