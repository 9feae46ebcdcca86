package resource

import (
	"context"
	"io"
)

// Reader wraps r so reads are paced by the controller's IO limit.
// Reads are split so that no single reservation exceeds the limiter burst.
func (c *Controller) Reader(ctx context.Context, r io.Reader) io.Reader {
	if c == nil || c.ioLimiter == nil {
		return r
	}
	return &limitedReader{ctx: ctx, r: r, rc: c}
}

// Writer wraps w so writes are paced by the controller's IO limit.
func (c *Controller) Writer(ctx context.Context, w io.Writer) io.Writer {
	if c == nil || c.ioLimiter == nil {
		return w
	}
	return &limitedWriter{ctx: ctx, w: w, rc: c}
}

type limitedReader struct {
	ctx context.Context
	r   io.Reader
	rc  *Controller
}

func (r *limitedReader) Read(p []byte) (int, error) {
	if burst := r.rc.IOBurst(); len(p) > burst {
		p = p[:burst]
	}
	if err := r.rc.AcquireIO(r.ctx, len(p)); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

type limitedWriter struct {
	ctx context.Context
	w   io.Writer
	rc  *Controller
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	burst := w.rc.IOBurst()
	written := 0
	for len(p) > 0 {
		chunk := p
		if len(chunk) > burst {
			chunk = chunk[:burst]
		}
		if err := w.rc.AcquireIO(w.ctx, len(chunk)); err != nil {
			return written, err
		}
		n, err := w.w.Write(chunk)
		written += n
		if err != nil {
			return written, err
		}
		p = p[n:]
	}
	return written, nil
}
