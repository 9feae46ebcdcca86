package model

import (
	"fmt"
	"math"
)

// FeatureVector is a fixed-length vector of bounded non-negative integers
// (for example 784 pixel intensities in [0,255]).
// It must not be modified once it has been handed to a classifier.
type FeatureVector []int32

// Dim returns the dimensionality of the vector.
func (v FeatureVector) Dim() int { return len(v) }

// Label is a class label. The label set is defined by the data.
type Label int

// Unresolved marks a prediction slot whose query could not be classified.
const Unresolved Label = -1

// String returns a string representation of the Label.
func (l Label) String() string {
	if l == Unresolved {
		return "unresolved"
	}
	return fmt.Sprintf("%d", int(l))
}

// LabeledSample is one entry of the reference corpus.
type LabeledSample struct {
	Vector FeatureVector
	Label  Label
}

// Distance is the p-th power of a quantized Lp distance.
// It is accumulated in 64 bits and saturates at MaxDistance.
type Distance uint64

// MaxDistance is the saturation value of Distance.
const MaxDistance Distance = math.MaxUint64

// Candidate is a (distance, label) pair for one (query, sample) comparison.
type Candidate struct {
	Distance Distance
	Label    Label
}

// String returns a string representation of the Candidate.
func (c Candidate) String() string {
	return fmt.Sprintf("(%d,%s)", c.Distance, c.Label)
}
