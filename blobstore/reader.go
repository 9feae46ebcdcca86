package blobstore

import (
	"bytes"
	"context"
	"io"
)

// DefaultReadChunk is the range size used when streaming remote blobs.
const DefaultReadChunk = 4 << 20

// NewReader returns a sequential reader over the whole blob.
//
// Mappable blobs are read without copying. Other blobs are fetched in
// DefaultReadChunk sized ranges; ctx is checked before each range.
func NewReader(ctx context.Context, b Blob) io.Reader {
	if m, ok := b.(Mappable); ok {
		if data, err := m.Bytes(); err == nil {
			return bytes.NewReader(data)
		}
	}
	return &rangeReader{ctx: ctx, blob: b, chunk: DefaultReadChunk}
}

// ReadAll opens name and returns its full contents.
func ReadAll(ctx context.Context, store BlobStore, name string) ([]byte, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	buf := make([]byte, b.Size())
	n, err := b.ReadAt(ctx, buf, 0)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

type rangeReader struct {
	ctx   context.Context
	blob  Blob
	chunk int64
	off   int64
	start int64
	cur   io.ReadCloser
}

func (r *rangeReader) Read(p []byte) (int, error) {
	for {
		if r.cur == nil {
			if r.off >= r.blob.Size() {
				return 0, io.EOF
			}
			if err := r.ctx.Err(); err != nil {
				return 0, err
			}
			rc, err := r.blob.ReadRange(r.ctx, r.off, r.chunk)
			if err != nil {
				return 0, err
			}
			r.cur = rc
			r.start = r.off
		}

		n, err := r.cur.Read(p)
		r.off += int64(n)
		if err == io.EOF {
			_ = r.cur.Close()
			r.cur = nil
			if n > 0 {
				return n, nil
			}
			if r.off == r.start {
				return 0, io.ErrUnexpectedEOF
			}
			continue
		}
		return n, err
	}
}
