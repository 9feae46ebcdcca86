package testutil

import (
	"math/rand"
	"slices"
	"sync"

	"github.com/hupe1980/knn/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Vector returns a vector with values uniform in [0, maxVal].
func (r *RNG) Vector(dim int, maxVal int32) model.FeatureVector {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vector(dim, maxVal)
}

func (r *RNG) vector(dim int, maxVal int32) model.FeatureVector {
	v := make(model.FeatureVector, dim)
	for i := range v {
		v[i] = r.rand.Int31n(maxVal + 1)
	}
	return v
}

// Vectors generates num random vectors with values uniform in [0, maxVal].
// Uses a single backing array for efficiency.
func (r *RNG) Vectors(num, dim int, maxVal int32) []model.FeatureVector {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]int32, num*dim)
	vectors := make([]model.FeatureVector, num)
	for i := range num {
		vec := data[i*dim : (i+1)*dim]
		for j := range vec {
			vec[j] = r.rand.Int31n(maxVal + 1)
		}
		vectors[i] = vec
	}
	return vectors
}

// Corpus generates num samples with uniform random vectors and labels in
// [0, labels).
func (r *RNG) Corpus(num, dim, labels int, maxVal int32) []model.LabeledSample {
	vecs := r.Vectors(num, dim, maxVal)

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.LabeledSample, num)
	for i := range out {
		out[i] = model.LabeledSample{Vector: vecs[i], Label: model.Label(r.rand.Intn(labels))}
	}
	return out
}

// ClusteredCorpus generates perLabel samples for each of labels classes.
// Samples of a class are jittered copies of a random class centroid; the
// centroids are returned alongside the corpus.
func (r *RNG) ClusteredCorpus(labels, perLabel, dim int, maxVal int32) ([]model.LabeledSample, []model.FeatureVector) {
	r.mu.Lock()
	defer r.mu.Unlock()

	centroids := make([]model.FeatureVector, labels)
	for l := range centroids {
		centroids[l] = r.vector(dim, maxVal)
	}

	jitter := max(maxVal/32, 1)
	out := make([]model.LabeledSample, 0, labels*perLabel)
	for l, c := range centroids {
		for range perLabel {
			v := make(model.FeatureVector, dim)
			for j := range v {
				x := c[j] + r.rand.Int31n(2*jitter+1) - jitter
				v[j] = min(max(x, 0), maxVal)
			}
			out = append(out, model.LabeledSample{Vector: v, Label: model.Label(l)})
		}
	}
	return out, centroids
}

// Shuffle shuffles samples in place.
func (r *RNG) Shuffle(samples []model.LabeledSample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(len(samples), func(i, j int) { samples[i], samples[j] = samples[j], samples[i] })
}

// DistanceFunc computes the distance between a reference and a query vector.
type DistanceFunc func(a, b model.FeatureVector) (model.Distance, error)

// ExactNeighbors computes every distance, stable-sorts them and returns the
// first k. It is the ground truth for the bounded selector.
func ExactNeighbors(query model.FeatureVector, reference []model.LabeledSample, k int, dist DistanceFunc) ([]model.Candidate, error) {
	all := make([]model.Candidate, len(reference))
	for i, s := range reference {
		d, err := dist(s.Vector, query)
		if err != nil {
			return nil, err
		}
		all[i] = model.Candidate{Distance: d, Label: s.Label}
	}

	slices.SortStableFunc(all, func(a, b model.Candidate) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		default:
			return 0
		}
	})

	if k < len(all) {
		all = all[:k]
	}
	return all, nil
}
