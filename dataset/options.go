package dataset

import (
	"github.com/hupe1980/knn"
	"github.com/hupe1980/knn/resource"
)

// HeaderMode controls how the first row of a corpus is treated.
type HeaderMode uint8

const (
	// HeaderAuto skips the first row if any of its fields is not an integer.
	HeaderAuto HeaderMode = iota
	// HeaderPresent always skips the first row.
	HeaderPresent
	// HeaderAbsent treats the first row as data.
	HeaderAbsent
)

const (
	// DefaultMinValue is the smallest accepted feature value.
	DefaultMinValue = 0
	// DefaultMaxValue is the largest accepted feature value.
	DefaultMaxValue = 255

	readBufferSize = 1 << 20
)

type loadOptions struct {
	header      HeaderMode
	minValue    int32
	maxValue    int32
	delimiter   rune
	compression *Compression
	resources   *resource.Controller
	logger      *knn.Logger
}

// LoadOption configures Load, LoadReference and LoadQueries.
type LoadOption func(*loadOptions)

// WithHeader sets the header handling (default HeaderAuto).
func WithHeader(mode HeaderMode) LoadOption {
	return func(o *loadOptions) {
		o.header = mode
	}
}

// WithValueBounds sets the inclusive feature value range (default 0..255).
func WithValueBounds(minValue, maxValue int32) LoadOption {
	return func(o *loadOptions) {
		o.minValue = minValue
		o.maxValue = maxValue
	}
}

// WithDelimiter sets the field delimiter (default ',').
func WithDelimiter(r rune) LoadOption {
	return func(o *loadOptions) {
		o.delimiter = r
	}
}

// WithCompression overrides the format inferred from the blob name.
func WithCompression(c Compression) LoadOption {
	return func(o *loadOptions) {
		o.compression = &c
	}
}

// WithResourceController paces reads and accounts the read buffer.
func WithResourceController(rc *resource.Controller) LoadOption {
	return func(o *loadOptions) {
		o.resources = rc
	}
}

// WithLogger sets the logger used to report loads.
func WithLogger(l *knn.Logger) LoadOption {
	return func(o *loadOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

func applyLoadOptions(opts []LoadOption) loadOptions {
	o := loadOptions{
		header:    HeaderAuto,
		minValue:  DefaultMinValue,
		maxValue:  DefaultMaxValue,
		delimiter: ',',
		logger:    knn.NoopLogger(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
