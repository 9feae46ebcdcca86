package vote

import (
	"errors"
	"math/big"
	"slices"

	"github.com/hupe1980/knn/model"
)

// ErrNoCandidates is returned when voting over an empty neighbour set.
var ErrNoCandidates = errors.New("vote: no candidates")

// Voter combines neighbours into one label.
// Implementations must be safe for concurrent use.
type Voter interface {
	Vote(candidates []model.Candidate) (model.Label, error)
	Name() string
}

// Compile-time checks to ensure the voters satisfy Voter.
var (
	_ Voter = Weighted{}
	_ Voter = Majority{}
)

// Tally is the per-query vote accumulator.
type Tally struct {
	// Weights maps each label to its accumulated weight.
	Weights map[model.Label]float64
	// Winner is the predicted label.
	Winner model.Label
	// Confidence is the winner's share of the total weight, in (0, 1].
	Confidence float64
	// ExactMatch is set when a zero-distance neighbour decided the vote.
	ExactMatch bool
}

// Labels returns the tallied labels in ascending order.
func (t *Tally) Labels() []model.Label {
	labels := make([]model.Label, 0, len(t.Weights))
	for l := range t.Weights {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	return labels
}

// Weighted is the inverse-distance weighted voter.
type Weighted struct{}

// Name returns "weighted".
func (Weighted) Name() string { return "weighted" }

// Vote returns the label with the largest sum of 1/distance.
func (w Weighted) Vote(candidates []model.Candidate) (model.Label, error) {
	t, err := w.Tally(candidates)
	if err != nil {
		return 0, err
	}
	return t.Winner, nil
}

// Tally computes the full weight table for candidates.
func (Weighted) Tally(candidates []model.Candidate) (*Tally, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	for _, c := range candidates {
		if c.Distance == 0 {
			return &Tally{
				Weights:    map[model.Label]float64{c.Label: 1},
				Winner:     c.Label,
				Confidence: 1,
				ExactMatch: true,
			}, nil
		}
	}

	weights := make(map[model.Label]*big.Rat, len(candidates))
	for _, c := range candidates {
		w := new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).SetUint64(uint64(c.Distance)))
		add(weights, c.Label, w)
	}

	return finish(weights), nil
}

// Majority is the unweighted mode voter: each neighbour counts once.
type Majority struct{}

// Name returns "majority".
func (Majority) Name() string { return "majority" }

// Vote returns the most frequent label among candidates.
func (m Majority) Vote(candidates []model.Candidate) (model.Label, error) {
	t, err := m.Tally(candidates)
	if err != nil {
		return 0, err
	}
	return t.Winner, nil
}

// Tally counts candidates per label.
func (Majority) Tally(candidates []model.Candidate) (*Tally, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	weights := make(map[model.Label]*big.Rat, len(candidates))
	for _, c := range candidates {
		add(weights, c.Label, big.NewRat(1, 1))
	}

	return finish(weights), nil
}

// ByName returns a built-in voter by its stable name.
func ByName(name string) (Voter, bool) {
	switch name {
	case "weighted", "":
		return Weighted{}, true
	case "majority":
		return Majority{}, true
	default:
		return nil, false
	}
}

func add(weights map[model.Label]*big.Rat, l model.Label, w *big.Rat) {
	if cur, ok := weights[l]; ok {
		cur.Add(cur, w)
		return
	}
	weights[l] = w
}

// finish picks the heaviest label, scanning labels in ascending order so the
// smallest label wins ties regardless of map iteration order. Weights are
// compared as exact rationals; the float64 fields are derived afterwards.
func finish(weights map[model.Label]*big.Rat) *Tally {
	t := &Tally{Weights: make(map[model.Label]float64, len(weights))}
	for l, w := range weights {
		t.Weights[l], _ = w.Float64()
	}

	total := new(big.Rat)
	var best *big.Rat
	for _, l := range t.Labels() {
		w := weights[l]
		total.Add(total, w)
		if best == nil || w.Cmp(best) > 0 {
			best = w
			t.Winner = l
		}
	}

	if total.Sign() > 0 {
		t.Confidence, _ = new(big.Rat).Quo(best, total).Float64()
	}
	return t
}
