package dataset

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/knn/blobstore"
	"github.com/hupe1980/knn/codec"
)

// RunsPrefix is the blob prefix under which run manifests are stored.
const RunsPrefix = "runs/"

// Manifest describes one classification run.
type Manifest struct {
	RunID       string    `json:"run_id"`
	CreatedAt   time.Time `json:"created_at"`
	Codec       string    `json:"codec"`
	Reference   string    `json:"reference"`
	Queries     string    `json:"queries"`
	Predictions string    `json:"predictions"`

	K        int    `json:"k"`
	Exponent int    `json:"exponent"`
	BinWidth int    `json:"bin_width"`
	Voter    string `json:"voter"`

	ReferenceSize int      `json:"reference_size"`
	QueryCount    int      `json:"query_count"`
	Resolved      int      `json:"resolved"`
	Unresolved    []uint32 `json:"unresolved,omitempty"`
	Accuracy      *float64 `json:"accuracy,omitempty"`
	ElapsedMillis int64    `json:"elapsed_ms"`
}

// Publish stores m under RunsPrefix and points CURRENT at it.
// A missing RunID or CreatedAt is filled in. It returns the manifest blob name.
//
// With a store that commits CURRENT conditionally, a concurrent publisher
// surfaces as an error from the pointer update; the manifest blob itself is
// left in place.
func Publish(ctx context.Context, store blobstore.BlobStore, m *Manifest, c codec.Codec) (string, error) {
	if c == nil {
		c = codec.Default
	}
	if m.RunID == "" {
		m.RunID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	m.Codec = c.Name()

	data, err := c.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("publish: encode manifest: %w", err)
	}

	name := path.Join(RunsPrefix, m.RunID+".json")
	if err := store.Put(ctx, name, data); err != nil {
		return "", fmt.Errorf("publish: write %s: %w", name, err)
	}
	if err := store.Put(ctx, blobstore.CurrentName, []byte(name)); err != nil {
		return name, fmt.Errorf("publish: update %s: %w", blobstore.CurrentName, err)
	}
	return name, nil
}

// Current reads the manifest CURRENT points at.
func Current(ctx context.Context, store blobstore.BlobStore) (*Manifest, error) {
	ptr, err := blobstore.ReadAll(ctx, store, blobstore.CurrentName)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(string(ptr))
	if name == "" {
		return nil, errors.New("current: empty pointer")
	}
	return ReadManifest(ctx, store, name)
}

// ReadManifest decodes the manifest stored under name.
// All built-in codecs write JSON, so the default codec reads any of them.
func ReadManifest(ctx context.Context, store blobstore.BlobStore, name string) (*Manifest, error) {
	c := codec.Default

	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := c.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", name, err)
	}
	return &m, nil
}
