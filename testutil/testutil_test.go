package testutil

import (
	"testing"

	"github.com/hupe1980/knn/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(4).Vectors(3, 8, 255)
	b := NewRNG(4).Vectors(3, 8, 255)
	assert.Equal(t, a, b)
}

func TestVectorsBounds(t *testing.T) {
	for _, v := range NewRNG(1).Vectors(50, 16, 15) {
		require.Len(t, v, 16)
		for _, x := range v {
			assert.GreaterOrEqual(t, x, int32(0))
			assert.LessOrEqual(t, x, int32(15))
		}
	}
}

func TestClusteredCorpus(t *testing.T) {
	corpus, centroids := NewRNG(2).ClusteredCorpus(4, 5, 10, 255)
	require.Len(t, corpus, 20)
	require.Len(t, centroids, 4)

	for i, s := range corpus {
		assert.Equal(t, model.Label(i/5), s.Label)
		for _, x := range s.Vector {
			assert.GreaterOrEqual(t, x, int32(0))
			assert.LessOrEqual(t, x, int32(255))
		}
	}
}

func TestExactNeighbors(t *testing.T) {
	ref := []model.LabeledSample{
		{Vector: model.FeatureVector{9}, Label: 1},
		{Vector: model.FeatureVector{1}, Label: 2},
		{Vector: model.FeatureVector{1}, Label: 3},
	}
	abs := func(a, b model.FeatureVector) (model.Distance, error) {
		d := int64(a[0]) - int64(b[0])
		if d < 0 {
			d = -d
		}
		return model.Distance(d), nil
	}

	got, err := ExactNeighbors(model.FeatureVector{0}, ref, 2, abs)
	require.NoError(t, err)
	assert.Equal(t, []model.Candidate{{Distance: 1, Label: 2}, {Distance: 1, Label: 3}}, got)
}
