package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/knn/blobstore"
	"github.com/hupe1980/knn/internal/conv"
	"github.com/hupe1980/knn/model"
)

// Table is a parsed corpus.
type Table struct {
	Name    string
	Header  []string
	Labels  []model.Label // nil for unlabeled corpora
	Vectors []model.FeatureVector
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Vectors) }

// Dim returns the feature dimensionality.
func (t *Table) Dim() int {
	if len(t.Vectors) == 0 {
		return 0
	}
	return len(t.Vectors[0])
}

// Labeled reports whether the rows carry labels.
func (t *Table) Labeled() bool { return t.Labels != nil }

// Samples pairs vectors with labels. It returns nil for unlabeled tables.
func (t *Table) Samples() []model.LabeledSample {
	if !t.Labeled() {
		return nil
	}
	out := make([]model.LabeledSample, len(t.Vectors))
	for i, v := range t.Vectors {
		out[i] = model.LabeledSample{Vector: v, Label: t.Labels[i]}
	}
	return out
}

// LoadReference loads a labeled corpus (label in the first column).
func LoadReference(ctx context.Context, store blobstore.BlobStore, name string, opts ...LoadOption) ([]model.LabeledSample, error) {
	t, err := Load(ctx, store, name, true, opts...)
	if err != nil {
		return nil, err
	}
	return t.Samples(), nil
}

// LoadQueries loads an unlabeled corpus.
func LoadQueries(ctx context.Context, store blobstore.BlobStore, name string, opts ...LoadOption) ([]model.FeatureVector, error) {
	t, err := Load(ctx, store, name, false, opts...)
	if err != nil {
		return nil, err
	}
	return t.Vectors, nil
}

// Load reads and validates the corpus stored under name.
// Every row must have the same number of features and every feature must lie
// within the configured bounds.
func Load(ctx context.Context, store blobstore.BlobStore, name string, labeled bool, opts ...LoadOption) (table *Table, err error) {
	o := applyLoadOptions(opts)
	if o.minValue > o.maxValue {
		return nil, fmt.Errorf("%w: value bounds [%d, %d]", model.ErrInvalidConfiguration, o.minValue, o.maxValue)
	}

	start := time.Now()
	defer func() {
		rows, dim := 0, 0
		if table != nil {
			rows, dim = table.Len(), table.Dim()
		}
		o.logger.LogLoad(ctx, name, rows, dim, time.Since(start), err)
	}()

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", name, err)
	}
	defer blob.Close()

	if err := o.resources.AcquireMemory(ctx, readBufferSize); err != nil {
		return nil, err
	}
	defer o.resources.ReleaseMemory(readBufferSize)

	comp := CompressionFor(name)
	if o.compression != nil {
		comp = *o.compression
	}

	dr, err := comp.NewReader(o.resources.Reader(ctx, blobstore.NewReader(ctx, blob)))
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", name, err)
	}
	defer dr.Close()

	return parse(ctx, name, bufio.NewReaderSize(dr, readBufferSize), labeled, &o)
}

// Parse reads a corpus from r without touching a blob store.
func Parse(ctx context.Context, name string, r io.Reader, labeled bool, opts ...LoadOption) (*Table, error) {
	o := applyLoadOptions(opts)
	if o.minValue > o.maxValue {
		return nil, fmt.Errorf("%w: value bounds [%d, %d]", model.ErrInvalidConfiguration, o.minValue, o.maxValue)
	}
	return parse(ctx, name, r, labeled, &o)
}

func parse(ctx context.Context, name string, r io.Reader, labeled bool, o *loadOptions) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = o.delimiter
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	t := &Table{Name: name}
	if labeled {
		t.Labels = []model.Label{}
	}

	dim := -1
	for rows := 0; ; rows++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &ParseError{Name: name, Row: pe.Line, Column: pe.Column, Err: pe.Err}
			}
			return nil, fmt.Errorf("dataset %s: %w", name, err)
		}

		if rows%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line, _ := cr.FieldPos(0)

		if rows == 0 && isHeader(rec, o.header) {
			t.Header = slices.Clone(rec)
			continue
		}

		features := rec
		if labeled {
			if len(rec) < 2 {
				return nil, &ParseError{Name: name, Row: line, Err: errors.New("labeled row needs a label and at least one feature")}
			}
			label, err := strconv.Atoi(strings.TrimSpace(rec[0]))
			if err != nil || label < 0 {
				return nil, &ParseError{Name: name, Row: line, Column: 1, Err: fmt.Errorf("invalid label %q", rec[0])}
			}
			t.Labels = append(t.Labels, model.Label(label))
			features = rec[1:]
		}

		if dim < 0 {
			dim = len(features)
		} else if len(features) != dim {
			return nil, &ParseError{Name: name, Row: line, Err: &model.DimensionError{Expected: dim, Actual: len(features)}}
		}

		vec := make(model.FeatureVector, len(features))
		for i, f := range features {
			n, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
			if err != nil {
				return nil, &ParseError{Name: name, Row: line, Column: columnOf(i, labeled), Err: fmt.Errorf("invalid feature %q", f)}
			}
			v, err := conv.Int64ToInt32(n)
			if err != nil || v < o.minValue || v > o.maxValue {
				return nil, &ParseError{Name: name, Row: line, Column: columnOf(i, labeled), Err: fmt.Errorf("feature %d outside [%d, %d]", n, o.minValue, o.maxValue)}
			}
			vec[i] = v
		}
		t.Vectors = append(t.Vectors, vec)
	}

	if len(t.Vectors) == 0 {
		return nil, fmt.Errorf("%w: %w in %s", model.ErrInvalidInput, ErrEmpty, name)
	}
	return t, nil
}

func isHeader(rec []string, mode HeaderMode) bool {
	switch mode {
	case HeaderPresent:
		return true
	case HeaderAbsent:
		return false
	default:
		for _, f := range rec {
			if _, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64); err != nil {
				return true
			}
		}
		return false
	}
}

func columnOf(i int, labeled bool) int {
	if labeled {
		return i + 2
	}
	return i + 1
}
