// Package testutil provides testing utilities for knn.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random feature vectors and labeled
// corpora, and a brute-force reference classifier that sorts every candidate.
//
// # Random Data Generation
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.Vectors(100, 784, 255)          // uniform in [0, 255]
//	ref := rng.ClusteredCorpus(10, 50, 784, 255) // 10 labels, 50 samples each
package testutil
