package blobstore

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rangeOnlyBlob hides Mappable so NewReader takes the ranged path.
type rangeOnlyBlob struct {
	Blob
	ranges int
}

func (b *rangeOnlyBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	b.ranges++
	return b.Blob.ReadRange(ctx, off, length)
}

func TestNewReader_Ranged(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := bytes.Repeat([]byte("0123456789"), 1000)
	require.NoError(t, store.Put(ctx, "big", data))

	inner, err := store.Open(ctx, "big")
	require.NoError(t, err)

	blob := &rangeOnlyBlob{Blob: inner}
	r := &rangeReader{ctx: ctx, blob: blob, chunk: 3000}

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, 4, blob.ranges)
}

func TestNewReader_Mappable(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Put(ctx, "small", []byte("abc")))

	blob, err := store.Open(ctx, "small")
	require.NoError(t, err)

	got, err := io.ReadAll(NewReader(ctx, blob))
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestNewReader_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), "x", []byte("abc")))
	inner, err := store.Open(context.Background(), "x")
	require.NoError(t, err)

	_, err = io.ReadAll(NewReader(ctx, &rangeOnlyBlob{Blob: inner}))
	assert.ErrorIs(t, err, context.Canceled)
}
