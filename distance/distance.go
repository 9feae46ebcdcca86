package distance

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/hupe1980/knn/model"
)

const (
	// DefaultExponent is the default distance exponent p.
	DefaultExponent = 3

	// DefaultBinWidth is the default quantization bin width.
	DefaultBinWidth = 16

	// powTableSize bounds the precomputed bin^p table. For 8-bit features and
	// any bin width >= 1 every bin fits.
	powTableSize = 256
)

// Func is a function type for distance calculation.
type Func func(a, b model.FeatureVector) (model.Distance, error)

// Metric computes quantized Lp distances for a fixed exponent and bin width.
// A Metric is immutable and safe for concurrent use.
type Metric struct {
	p        int
	binWidth int64
	pow      []uint64 // pow[j] = j^p for j < powTableSize
}

// New creates a quantized Lp metric.
// p must be >= 1 and binWidth must be > 0.
func New(p, binWidth int) (*Metric, error) {
	if p < 1 {
		return nil, fmt.Errorf("%w: distance exponent must be >= 1, got %d", model.ErrInvalidConfiguration, p)
	}
	if binWidth <= 0 {
		return nil, fmt.Errorf("%w: bin width must be > 0, got %d", model.ErrInvalidConfiguration, binWidth)
	}

	pow := make([]uint64, powTableSize)
	for j := range pow {
		pow[j] = Pow(uint64(j), p)
	}

	return &Metric{
		p:        p,
		binWidth: int64(binWidth),
		pow:      pow,
	}, nil
}

// Lp creates an unquantized metric (bin width 1) returning the p-th power of
// the Lp distance.
func Lp(p int) (*Metric, error) {
	return New(p, 1)
}

// Exponent returns p.
func (m *Metric) Exponent() int { return m.p }

// BinWidth returns the quantization bin width.
func (m *Metric) BinWidth() int { return int(m.binWidth) }

// Distance returns the sum over all dimensions of Quantize(a[i]-b[i])^p.
// Empty or mismatched vectors fail with model.ErrDimensionMismatch.
func (m *Metric) Distance(a, b model.FeatureVector) (model.Distance, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, &model.DimensionError{Expected: len(a), Actual: len(b)}
	}

	var sum uint64
	for i := range a {
		bin := Quantize(int64(a[i])-int64(b[i]), m.binWidth)

		var term uint64
		if bin < powTableSize {
			term = m.pow[bin]
		} else {
			term = Pow(bin, m.p)
		}

		var carry uint64
		sum, carry = bits.Add64(sum, term, 0)
		if carry != 0 {
			return model.MaxDistance, nil
		}
	}

	return model.Distance(sum), nil
}

// Func returns the metric as a Func.
func (m *Metric) Func() Func {
	return m.Distance
}

// QuantizedLp computes the quantized Lp distance without a prepared Metric.
func QuantizedLp(a, b model.FeatureVector, p, binWidth int) (model.Distance, error) {
	m, err := New(p, binWidth)
	if err != nil {
		return 0, err
	}
	return m.Distance(a, b)
}

// Quantize returns the smallest j >= 0 such that j*binWidth >= |diff|.
// The sign of diff is ignored. binWidth must be > 0.
func Quantize(diff, binWidth int64) uint64 {
	mag := uint64(diff)
	if diff < 0 {
		mag = uint64(-diff) // math.MinInt64 wraps to its own magnitude as uint64
	}
	w := uint64(binWidth)
	j := mag / w
	if mag%w != 0 {
		j++
	}
	return j
}

// Pow returns x^n for n >= 0, saturating at math.MaxUint64.
func Pow(x uint64, n int) uint64 {
	result := uint64(1)
	for i := 0; i < n; i++ {
		hi, lo := bits.Mul64(result, x)
		if hi != 0 {
			return math.MaxUint64
		}
		result = lo
	}
	return result
}
