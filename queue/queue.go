// Package queue provides a bounded top-k selector for nearest-neighbour search.
package queue

import "github.com/hupe1980/knn/model"

// TopK keeps the k smallest distances seen so far, ascending, together with
// their labels.
//
// Slots [0, n) are occupied and sorted ascending; slots [n, k) are unoccupied.
// Emptiness is tracked by the occupied count, never by a sentinel distance.
//
// An entrant is placed before the first occupied slot whose distance is
// strictly greater, so equal distances keep insertion order and an entrant
// never displaces an equal one. Folding samples in a fixed order therefore
// gives a deterministic snapshot.
//
// TopK is NOT thread-safe.
type TopK struct {
	slots []model.Candidate
	n     int
}

// NewTopK creates a selector with capacity k. k must be positive.
func NewTopK(k int) *TopK {
	if k <= 0 {
		panic("queue: capacity must be positive")
	}
	return &TopK{slots: make([]model.Candidate, k)}
}

// Len returns the number of occupied slots.
func (q *TopK) Len() int { return q.n }

// Cap returns the capacity k.
func (q *TopK) Cap() int { return len(q.slots) }

// Full reports whether every slot is occupied.
func (q *TopK) Full() bool { return q.n == len(q.slots) }

// Worst returns the largest retained candidate, or false if empty.
func (q *TopK) Worst() (model.Candidate, bool) {
	if q.n == 0 {
		return model.Candidate{}, false
	}
	return q.slots[q.n-1], true
}

// Insert offers a candidate. It returns false if the candidate was rejected
// because the selector is full and distance >= every retained distance.
// Runs in O(k).
func (q *TopK) Insert(distance model.Distance, label model.Label) bool {
	// Fast reject against the current worst.
	if q.Full() && distance >= q.slots[q.n-1].Distance {
		return false
	}

	i := 0
	for i < q.n && q.slots[i].Distance <= distance {
		i++
	}

	end := q.n
	if q.Full() {
		end = q.n - 1 // last slot is dropped
	} else {
		q.n++
	}
	copy(q.slots[i+1:end+1], q.slots[i:end])
	q.slots[i] = model.Candidate{Distance: distance, Label: label}

	return true
}

// Snapshot returns a copy of the occupied candidates in ascending order.
func (q *TopK) Snapshot() []model.Candidate {
	out := make([]model.Candidate, q.n)
	copy(out, q.slots[:q.n])
	return out
}

// Reset clears the selector and sets its capacity to k, reusing memory when
// possible. k must be positive.
func (q *TopK) Reset(k int) {
	if k <= 0 {
		panic("queue: capacity must be positive")
	}
	if cap(q.slots) < k {
		q.slots = make([]model.Candidate, k)
	} else {
		q.slots = q.slots[:k]
	}
	q.n = 0
}
