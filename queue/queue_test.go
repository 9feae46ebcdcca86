package queue

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/hupe1980/knn/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func distances(cands []model.Candidate) []model.Distance {
	out := make([]model.Distance, len(cands))
	for i, c := range cands {
		out[i] = c.Distance
	}
	return out
}

func TestTopK(t *testing.T) {
	t.Run("RejectsWorse", func(t *testing.T) {
		q := NewTopK(2)
		assert.True(t, q.Insert(5, 'A'))
		assert.True(t, q.Insert(3, 'B'))
		assert.False(t, q.Insert(9, 'C'))

		assert.Equal(t, []model.Candidate{{Distance: 3, Label: 'B'}, {Distance: 5, Label: 'A'}}, q.Snapshot())
	})

	t.Run("EvictsWorst", func(t *testing.T) {
		q := NewTopK(3)
		for _, d := range []model.Distance{10, 20, 30} {
			q.Insert(d, model.Label(d))
		}
		assert.True(t, q.Insert(15, 15))
		assert.Equal(t, []model.Distance{10, 15, 20}, distances(q.Snapshot()))

		worst, ok := q.Worst()
		require.True(t, ok)
		assert.Equal(t, model.Distance(20), worst.Distance)
	})

	t.Run("EqualDistanceNotDisplaced", func(t *testing.T) {
		q := NewTopK(2)
		q.Insert(4, 1)
		q.Insert(4, 2)
		assert.False(t, q.Insert(4, 3))

		assert.Equal(t, []model.Candidate{{Distance: 4, Label: 1}, {Distance: 4, Label: 2}}, q.Snapshot())
	})

	t.Run("TieKeepsInsertionOrder", func(t *testing.T) {
		q := NewTopK(3)
		q.Insert(7, 1)
		q.Insert(7, 2)
		q.Insert(2, 3)

		assert.Equal(t, []model.Candidate{
			{Distance: 2, Label: 3},
			{Distance: 7, Label: 1},
			{Distance: 7, Label: 2},
		}, q.Snapshot())
	})

	t.Run("ZeroDistance", func(t *testing.T) {
		q := NewTopK(2)
		q.Insert(1, 1)
		q.Insert(0, 2)
		assert.Equal(t, []model.Distance{0, 1}, distances(q.Snapshot()))
	})

	t.Run("MaxDistanceIsOccupied", func(t *testing.T) {
		q := NewTopK(2)
		assert.True(t, q.Insert(model.MaxDistance, 1))
		assert.Equal(t, 1, q.Len())
		assert.True(t, q.Insert(model.MaxDistance, 2))
		assert.True(t, q.Full())
		assert.False(t, q.Insert(model.MaxDistance, 3))
	})

	t.Run("Empty", func(t *testing.T) {
		q := NewTopK(4)
		_, ok := q.Worst()
		assert.False(t, ok)
		assert.Empty(t, q.Snapshot())
		assert.Equal(t, 4, q.Cap())
	})

	t.Run("SnapshotIsCopy", func(t *testing.T) {
		q := NewTopK(2)
		q.Insert(1, 1)
		snap := q.Snapshot()
		snap[0].Label = 99
		assert.Equal(t, model.Label(1), q.Snapshot()[0].Label)
	})

	t.Run("Reset", func(t *testing.T) {
		q := NewTopK(2)
		q.Insert(1, 1)
		q.Insert(2, 2)

		q.Reset(5)
		assert.Equal(t, 0, q.Len())
		assert.Equal(t, 5, q.Cap())

		q.Reset(1)
		assert.Equal(t, 1, q.Cap())
	})

	t.Run("InvalidCapacity", func(t *testing.T) {
		assert.Panics(t, func() { NewTopK(0) })
		assert.Panics(t, func() { NewTopK(2).Reset(-1) })
	})
}

func TestTopKSizeAndOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for k := 1; k <= 12; k++ {
		for _, n := range []int{0, 1, k - 1, k, k + 1, 5 * k} {
			q := NewTopK(k)
			for i := 0; i < n; i++ {
				q.Insert(model.Distance(rng.Intn(50)), model.Label(i))
			}

			snap := q.Snapshot()
			require.Len(t, snap, min(n, k), "k=%d n=%d", k, n)
			assert.True(t, slices.IsSortedFunc(snap, func(a, b model.Candidate) int {
				return int(a.Distance) - int(b.Distance)
			}), "k=%d n=%d", k, n)
		}
	}
}

func TestTopKOrderIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	// Distinct distances: whole snapshot is independent of insertion order.
	pairs := make([]model.Candidate, 40)
	for i, d := range rng.Perm(len(pairs)) {
		pairs[i] = model.Candidate{Distance: model.Distance(d * 3), Label: model.Label(d % 10)}
	}

	sorted := slices.Clone(pairs)
	slices.SortFunc(sorted, func(a, b model.Candidate) int { return int(a.Distance) - int(b.Distance) })

	want := NewTopK(7)
	for _, c := range sorted {
		want.Insert(c.Distance, c.Label)
	}

	for trial := 0; trial < 20; trial++ {
		rng.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })
		got := NewTopK(7)
		for _, c := range pairs {
			got.Insert(c.Distance, c.Label)
		}
		assert.Equal(t, want.Snapshot(), got.Snapshot())
	}

	// Repeated distances: the retained distances never depend on order.
	dup := make([]model.Candidate, 60)
	for i := range dup {
		dup[i] = model.Candidate{Distance: model.Distance(rng.Intn(8)), Label: model.Label(i)}
	}
	base := NewTopK(9)
	for _, c := range dup {
		base.Insert(c.Distance, c.Label)
	}
	for trial := 0; trial < 20; trial++ {
		rng.Shuffle(len(dup), func(i, j int) { dup[i], dup[j] = dup[j], dup[i] })
		got := NewTopK(9)
		for _, c := range dup {
			got.Insert(c.Distance, c.Label)
		}
		assert.Equal(t, distances(base.Snapshot()), distances(got.Snapshot()))
	}
}

func BenchmarkTopKInsert(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	ds := make([]model.Distance, 42000)
	for i := range ds {
		ds[i] = model.Distance(rng.Intn(1 << 20))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q := NewTopK(10)
		for j, d := range ds {
			q.Insert(d, model.Label(j%10))
		}
	}
}
