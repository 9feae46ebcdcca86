package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/hupe1980/knn/blobstore"
	"github.com/hupe1980/knn/model"
	"github.com/hupe1980/knn/resource"
)

// DefaultUnresolvedToken is written in place of an unresolved prediction.
const DefaultUnresolvedToken = "-1"

// Sink writes predictions to a blob.
type Sink struct {
	store           blobstore.BlobStore
	name            string
	header          bool
	unresolvedToken string
	compression     Compression
	resources       *resource.Controller
	encoder         func(io.Writer) (io.WriteCloser, error) // overrides compression in tests
}

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithSubmissionHeader writes an "ImageId,Label" header and 1-based ids.
func WithSubmissionHeader() SinkOption {
	return func(s *Sink) {
		s.header = true
	}
}

// WithUnresolvedToken sets the text written for unresolved predictions.
func WithUnresolvedToken(token string) SinkOption {
	return func(s *Sink) {
		s.unresolvedToken = token
	}
}

// WithSinkCompression overrides the format inferred from the blob name.
func WithSinkCompression(c Compression) SinkOption {
	return func(s *Sink) {
		s.compression = c
	}
}

// WithSinkResourceController paces writes through rc.
func WithSinkResourceController(rc *resource.Controller) SinkOption {
	return func(s *Sink) {
		s.resources = rc
	}
}

// NewSink creates a sink writing to name in store.
func NewSink(store blobstore.BlobStore, name string, opts ...SinkOption) *Sink {
	s := &Sink{
		store:           store,
		name:            name,
		unresolvedToken: DefaultUnresolvedToken,
		compression:     CompressionFor(name),
	}
	for _, fn := range opts {
		fn(s)
	}
	return s
}

// Name returns the blob name the sink writes to.
func (s *Sink) Name() string { return s.name }

// Write stores predictions in query order. The blob is replaced as a whole.
func (s *Sink) Write(ctx context.Context, predictions []model.Label) (err error) {
	wb, err := s.store.Create(ctx, s.name)
	if err != nil {
		return fmt.Errorf("sink %s: %w", s.name, err)
	}

	newEncoder := s.compression.NewWriter
	if s.encoder != nil {
		newEncoder = s.encoder
	}

	var cw io.WriteCloser
	cwClosed := false
	defer func() {
		if err != nil {
			if cw != nil && !cwClosed {
				_ = cw.Close()
			}
			if a, ok := wb.(blobstore.Aborter); ok {
				_ = a.Abort()
				return
			}
		}
		err = errors.Join(err, wb.Close())
	}()

	enc, err := newEncoder(s.resources.Writer(ctx, wb))
	if err != nil {
		return err
	}
	cw = enc

	bw := bufio.NewWriter(cw)
	if s.header {
		if _, err := bw.WriteString("ImageId,Label\n"); err != nil {
			return err
		}
	}

	var line []byte
	for i, p := range predictions {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		line = line[:0]
		if s.header {
			line = strconv.AppendInt(line, int64(i+1), 10)
			line = append(line, ',')
		}
		if p == model.Unresolved {
			line = append(line, s.unresolvedToken...)
		} else {
			line = strconv.AppendInt(line, int64(p), 10)
		}
		line = append(line, '\n')

		if _, err := bw.Write(line); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return err
	}
	cwClosed = true
	return cw.Close()
}
