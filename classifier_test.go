package knn

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/knn/distance"
	"github.com/hupe1980/knn/model"
	"github.com/hupe1980/knn/resource"
	"github.com/hupe1980/knn/testutil"
	"github.com/hupe1980/knn/vote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoClusters() []model.LabeledSample {
	ref := make([]model.LabeledSample, 0, 10)
	for range 5 {
		ref = append(ref, model.LabeledSample{Vector: model.FeatureVector{0, 0}, Label: 0})
	}
	for range 5 {
		ref = append(ref, model.LabeledSample{Vector: model.FeatureVector{16, 16}, Label: 1})
	}
	return ref
}

func TestNew(t *testing.T) {
	ref := twoClusters()

	t.Run("Defaults", func(t *testing.T) {
		c, err := New(ref)
		require.NoError(t, err)
		assert.Equal(t, DefaultK, c.K())
		assert.Equal(t, 2, c.Dimension())
		assert.Equal(t, 10, c.Len())
	})

	t.Run("InvalidK", func(t *testing.T) {
		for _, k := range []int{0, -3} {
			_, err := New(ref, WithK(k))
			require.ErrorIs(t, err, ErrInvalidConfiguration)

			var ik *ErrInvalidK
			require.ErrorAs(t, err, &ik)
			assert.Equal(t, k, ik.K)
		}
	})

	t.Run("InvalidExponent", func(t *testing.T) {
		_, err := New(ref, WithExponent(0))
		require.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("InvalidBinWidth", func(t *testing.T) {
		_, err := New(ref, WithBinWidth(0))
		require.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("EmptyReference", func(t *testing.T) {
		_, err := New(nil)
		require.ErrorIs(t, err, ErrInvalidInput)

		_, err = New([]model.LabeledSample{{Vector: model.FeatureVector{}, Label: 1}})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("RaggedReference", func(t *testing.T) {
		bad := append(twoClusters(), model.LabeledSample{Vector: model.FeatureVector{1, 2, 3}, Label: 2})
		_, err := New(bad)
		require.ErrorIs(t, err, ErrDimensionMismatch)

		expected, actual, ok := IsDimensionMismatch(err)
		require.True(t, ok)
		assert.Equal(t, 2, expected)
		assert.Equal(t, 3, actual)
	})
}

func TestClassifyEndToEnd(t *testing.T) {
	c, err := New(twoClusters(), WithK(3), WithExponent(3), WithBinWidth(16))
	require.NoError(t, err)

	label, err := c.Classify(context.Background(), model.FeatureVector{1, 1})
	require.NoError(t, err)
	assert.Equal(t, model.Label(0), label)

	label, err = Classify(model.FeatureVector{1, 1}, twoClusters(), 3, 3, 16)
	require.NoError(t, err)
	assert.Equal(t, model.Label(0), label)
}

func TestClassifyTieFollowsReferenceOrder(t *testing.T) {
	// Every sample is at distance 2 from the query; the first k in reference
	// order are kept.
	ref := twoClusters()
	reversed := make([]model.LabeledSample, len(ref))
	for i := range ref {
		reversed[len(ref)-1-i] = ref[i]
	}

	c, err := New(reversed, WithK(3))
	require.NoError(t, err)

	label, err := c.Classify(context.Background(), model.FeatureVector{1, 1})
	require.NoError(t, err)
	assert.Equal(t, model.Label(1), label)
}

func TestClassifyExactMatch(t *testing.T) {
	ref := []model.LabeledSample{
		{Vector: model.FeatureVector{100, 100}, Label: 4},
		{Vector: model.FeatureVector{101, 101}, Label: 7},
		{Vector: model.FeatureVector{101, 101}, Label: 7},
	}
	c, err := New(ref, WithK(3), WithBinWidth(1))
	require.NoError(t, err)

	label, err := c.Classify(context.Background(), model.FeatureVector{100, 100})
	require.NoError(t, err)
	assert.Equal(t, model.Label(4), label)
}

func TestClassifyDimensionMismatch(t *testing.T) {
	c, err := New(twoClusters())
	require.NoError(t, err)

	label, err := c.Classify(context.Background(), model.FeatureVector{1, 2, 3})
	require.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Equal(t, model.Unresolved, label)
}

func TestClassifySmallReference(t *testing.T) {
	ref := []model.LabeledSample{{Vector: model.FeatureVector{3}, Label: 9}}
	c, err := New(ref, WithK(10))
	require.NoError(t, err)

	neighbors, err := c.Neighbors(context.Background(), model.FeatureVector{5})
	require.NoError(t, err)
	require.Len(t, neighbors, 1)

	label, err := c.Classify(context.Background(), model.FeatureVector{5})
	require.NoError(t, err)
	assert.Equal(t, model.Label(9), label)
}

func TestNeighborsMatchExactSort(t *testing.T) {
	rng := testutil.NewRNG(11)
	ref := rng.Corpus(500, 12, 10, 255)
	queries := rng.Vectors(25, 12, 255)

	metric, err := distance.New(3, 16)
	require.NoError(t, err)

	c, err := New(ref, WithK(7))
	require.NoError(t, err)

	for _, q := range queries {
		want, err := testutil.ExactNeighbors(q, ref, 7, metric.Distance)
		require.NoError(t, err)

		got, err := c.Neighbors(context.Background(), q)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestIntraQueryParallelismIsDeterministic(t *testing.T) {
	rng := testutil.NewRNG(5)
	ref := rng.Corpus(3*minParallelChunk, 8, 10, 255)
	queries := rng.Vectors(20, 8, 255)

	seq, err := New(ref, WithK(5))
	require.NoError(t, err)

	par, err := New(ref, WithK(5), WithIntraQueryParallelism(4),
		WithResourceController(resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})))
	require.NoError(t, err)

	for _, q := range queries {
		want, err := seq.Neighbors(context.Background(), q)
		require.NoError(t, err)
		got, err := par.Neighbors(context.Background(), q)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestClusteredAccuracy(t *testing.T) {
	rng := testutil.NewRNG(3)
	ref, centroids := rng.ClusteredCorpus(10, 20, 64, 255)
	rng.Shuffle(ref)

	c, err := New(ref, WithK(5))
	require.NoError(t, err)

	for want, centroid := range centroids {
		got, err := c.Classify(context.Background(), centroid)
		require.NoError(t, err)
		assert.Equal(t, model.Label(want), got)
	}
}

func TestExplain(t *testing.T) {
	c, err := New(twoClusters(), WithK(3))
	require.NoError(t, err)

	e, err := c.Explain(context.Background(), model.FeatureVector{1, 1})
	require.NoError(t, err)
	assert.Equal(t, model.Label(0), e.Label)
	require.Len(t, e.Neighbors, 3)
	require.NotNil(t, e.Tally)
	assert.InDelta(t, 1.5, e.Tally.Weights[0], 1e-12)
	assert.Equal(t, 1.0, e.Tally.Confidence)
}

type firstLabelVoter struct{}

func (firstLabelVoter) Name() string { return "first" }

func (firstLabelVoter) Vote(c []model.Candidate) (model.Label, error) {
	if len(c) == 0 {
		return 0, errors.New("empty")
	}
	return c[0].Label, nil
}

func TestCustomVoter(t *testing.T) {
	ref := []model.LabeledSample{
		{Vector: model.FeatureVector{10}, Label: 1},
		{Vector: model.FeatureVector{40}, Label: 2},
		{Vector: model.FeatureVector{41}, Label: 2},
	}

	c, err := New(ref, WithK(3), WithBinWidth(1), WithVoter(firstLabelVoter{}))
	require.NoError(t, err)

	e, err := c.Explain(context.Background(), model.FeatureVector{12})
	require.NoError(t, err)
	assert.Equal(t, model.Label(1), e.Label)
	assert.Nil(t, e.Tally)

	m, err := New(ref, WithK(3), WithBinWidth(1), WithVoter(vote.Majority{}))
	require.NoError(t, err)
	label, err := m.Classify(context.Background(), model.FeatureVector{12})
	require.NoError(t, err)
	assert.Equal(t, model.Label(2), label)
}

func TestMetricsCollector(t *testing.T) {
	mc := &BasicMetricsCollector{}
	c, err := New(twoClusters(), WithMetricsCollector(mc))
	require.NoError(t, err)

	_, _ = c.Classify(context.Background(), model.FeatureVector{1, 1})
	_, _ = c.Classify(context.Background(), model.FeatureVector{1})

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.ClassifyCount)
	assert.Equal(t, int64(1), stats.ClassifyErrors)
}

func BenchmarkClassify(b *testing.B) {
	rng := testutil.NewRNG(1)
	ref := rng.Corpus(5000, 784, 10, 255)
	q := rng.Vector(784, 255)

	c, err := New(ref)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Classify(context.Background(), q); err != nil {
			b.Fatal(err)
		}
	}
}
