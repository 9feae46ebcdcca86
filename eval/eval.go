// Package eval scores predictions against known labels.
//
// It is used when the query corpus is labeled: accuracy overall and per
// class, plus a confusion matrix (rows are true labels, columns predicted).
// Unresolved predictions count as wrong and are reported separately.
package eval

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hupe1980/knn/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Report is the result of Evaluate.
type Report struct {
	// Labels indexes the rows and columns of Confusion in ascending order.
	Labels []model.Label
	// Confusion counts (truth, prediction) pairs over resolved predictions.
	Confusion *mat.Dense
	// Missed counts unresolved predictions per true label, indexed like Labels.
	Missed *mat.VecDense

	Total      int
	Correct    int
	Unresolved int

	index map[model.Label]int
}

// ClassStats holds per-label figures.
type ClassStats struct {
	Label     model.Label
	Support   int
	Precision float64
	Recall    float64
	F1        float64
}

// Evaluate compares predictions with truth position by position.
func Evaluate(truth, predicted []model.Label) (*Report, error) {
	if len(truth) != len(predicted) {
		return nil, fmt.Errorf("%w: %d labels for %d predictions", model.ErrInvalidInput, len(truth), len(predicted))
	}
	if len(truth) == 0 {
		return nil, fmt.Errorf("%w: nothing to evaluate", model.ErrInvalidInput)
	}

	seen := make(map[model.Label]struct{})
	for i, l := range truth {
		if l == model.Unresolved {
			return nil, fmt.Errorf("%w: truth label %d is unresolved", model.ErrInvalidInput, i)
		}
		seen[l] = struct{}{}
	}
	for _, l := range predicted {
		if l != model.Unresolved {
			seen[l] = struct{}{}
		}
	}

	labels := make([]model.Label, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	slices.Sort(labels)

	index := make(map[model.Label]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}

	n := len(labels)
	conf := mat.NewDense(n, n, nil)
	missed := mat.NewVecDense(n, nil)
	r := &Report{Labels: labels, Confusion: conf, Missed: missed, Total: len(truth), index: index}

	for i, p := range predicted {
		if p == model.Unresolved {
			r.Unresolved++
			row := index[truth[i]]
			missed.SetVec(row, missed.AtVec(row)+1)
			continue
		}
		row, col := index[truth[i]], index[p]
		conf.Set(row, col, conf.At(row, col)+1)
	}
	r.Correct = int(mat.Trace(conf))

	return r, nil
}

// Accuracy is the share of all predictions that are correct.
func (r *Report) Accuracy() float64 {
	return float64(r.Correct) / float64(r.Total)
}

// ResolvedAccuracy is the share of resolved predictions that are correct.
// It is 0 when nothing was resolved.
func (r *Report) ResolvedAccuracy() float64 {
	resolved := r.Total - r.Unresolved
	if resolved == 0 {
		return 0
	}
	return float64(r.Correct) / float64(resolved)
}

// Class returns the statistics for label. ok is false for unknown labels.
// Support and Recall include the label's unresolved queries as misses.
func (r *Report) Class(label model.Label) (ClassStats, bool) {
	i, ok := r.index[label]
	if !ok {
		return ClassStats{}, false
	}

	tp := r.Confusion.At(i, i)
	predicted := floats.Sum(mat.Col(nil, i, r.Confusion))
	actual := floats.Sum(mat.Row(nil, i, r.Confusion)) + r.Missed.AtVec(i)

	s := ClassStats{Label: label, Support: int(actual)}
	if predicted > 0 {
		s.Precision = tp / predicted
	}
	if actual > 0 {
		s.Recall = tp / actual
	}
	if s.Precision+s.Recall > 0 {
		s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
	}
	return s, true
}

// PerClass returns statistics for every label in ascending order.
func (r *Report) PerClass() []ClassStats {
	out := make([]ClassStats, 0, len(r.Labels))
	for _, l := range r.Labels {
		s, _ := r.Class(l)
		out = append(out, s)
	}
	return out
}

// String renders a summary followed by the confusion matrix.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "accuracy: %.4f (%d/%d)", r.Accuracy(), r.Correct, r.Total)
	if r.Unresolved > 0 {
		fmt.Fprintf(&b, ", unresolved: %d, resolved accuracy: %.4f", r.Unresolved, r.ResolvedAccuracy())
	}
	fmt.Fprintf(&b, "\nlabels: %v\n", r.Labels)
	fmt.Fprintf(&b, "%v\n", mat.Formatted(r.Confusion, mat.Squeeze()))
	return b.String()
}
