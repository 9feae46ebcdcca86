package eval

import (
	"testing"

	"github.com/hupe1980/knn/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	truth := []model.Label{0, 0, 1, 1, 2, 2}
	pred := []model.Label{0, 1, 1, 1, model.Unresolved, 2}

	r, err := Evaluate(truth, pred)
	require.NoError(t, err)

	assert.Equal(t, []model.Label{0, 1, 2}, r.Labels)
	assert.Equal(t, 6, r.Total)
	assert.Equal(t, 4, r.Correct)
	assert.Equal(t, 1, r.Unresolved)
	assert.InDelta(t, 4.0/6.0, r.Accuracy(), 1e-12)
	assert.InDelta(t, 4.0/5.0, r.ResolvedAccuracy(), 1e-12)

	assert.Equal(t, 1.0, r.Confusion.At(0, 0))
	assert.Equal(t, 1.0, r.Confusion.At(0, 1))
	assert.Equal(t, 2.0, r.Confusion.At(1, 1))
	assert.Equal(t, 1.0, r.Confusion.At(2, 2))

	c0, ok := r.Class(0)
	require.True(t, ok)
	assert.Equal(t, 2, c0.Support)
	assert.InDelta(t, 1.0, c0.Precision, 1e-12)
	assert.InDelta(t, 0.5, c0.Recall, 1e-12)
	assert.InDelta(t, 2.0/3.0, c0.F1, 1e-12)

	c1, ok := r.Class(1)
	require.True(t, ok)
	assert.InDelta(t, 2.0/3.0, c1.Precision, 1e-12)
	assert.InDelta(t, 1.0, c1.Recall, 1e-12)

	// Unresolved predictions are absent from the matrix but count as misses.
	assert.Equal(t, 0.0, r.Confusion.At(2, 0)+r.Confusion.At(2, 1))
	assert.Equal(t, 1.0, r.Missed.AtVec(2))
	c2, _ := r.Class(2)
	assert.Equal(t, 2, c2.Support)
	assert.InDelta(t, 1.0, c2.Precision, 1e-12)
	assert.InDelta(t, 0.5, c2.Recall, 1e-12)

	_, ok = r.Class(9)
	assert.False(t, ok)

	assert.Len(t, r.PerClass(), 3)
	assert.Contains(t, r.String(), "unresolved: 1")
}

func TestEvaluate_PredictedOnlyLabel(t *testing.T) {
	r, err := Evaluate([]model.Label{1, 1}, []model.Label{1, 7})
	require.NoError(t, err)
	assert.Equal(t, []model.Label{1, 7}, r.Labels)

	c7, ok := r.Class(7)
	require.True(t, ok)
	assert.Zero(t, c7.Support)
	assert.Zero(t, c7.Precision)
	assert.Zero(t, c7.F1)
}

func TestEvaluate_Errors(t *testing.T) {
	_, err := Evaluate([]model.Label{1}, nil)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = Evaluate(nil, nil)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = Evaluate([]model.Label{model.Unresolved}, []model.Label{1})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestEvaluate_AllUnresolved(t *testing.T) {
	r, err := Evaluate([]model.Label{1, 2}, []model.Label{model.Unresolved, model.Unresolved})
	require.NoError(t, err)
	assert.Zero(t, r.Accuracy())
	assert.Zero(t, r.ResolvedAccuracy())

	c1, ok := r.Class(1)
	require.True(t, ok)
	assert.Equal(t, 1, c1.Support)
	assert.Zero(t, c1.Recall)
	assert.Zero(t, c1.F1)
}
