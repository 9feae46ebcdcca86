// Package model defines core types shared by the knn packages.
//
// # Data Types
//
//   - FeatureVector: fixed-length sequence of bounded non-negative integers
//   - Label: class label drawn from a finite, data-defined set
//   - LabeledSample: a FeatureVector with its Label (reference corpus entry)
//   - Candidate: (Distance, Label) pair produced by comparing a query to a sample
//
// # Errors
//
// The sentinel errors ErrInvalidInput, ErrInvalidConfiguration and
// ErrDimensionMismatch are defined here so every package reports the same
// taxonomy. Use errors.Is to match them.
package model
