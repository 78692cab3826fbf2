package driven

import (
	"context"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
)

// Point is one record together with its freshly computed vector
// representations, ready to be written.
type Point struct {
	Record  domain.ChunkRecord
	Vectors domain.Vectors
}

// VectorStore is the backing hybrid index, substitutable with any
// vector-capable document store. Backed by Qdrant in production and by an
// in-memory implementation for tests and local mode.
//
// Upsert is idempotent by record ID. All methods must return within the
// adapter's configured timeout and surface infrastructure failures wrapped
// in domain.ErrStoreUnavailable, never hang.
type VectorStore interface {
	// Scroll performs a bounded full scan of the session partition and
	// returns every stored record with its payload. An empty slice means the
	// partition is genuinely empty; infrastructure failure is an error.
	Scroll(ctx context.Context, sessionID string, limit int) ([]domain.ChunkRecord, error)

	// Upsert writes one batch of points in a single bulk call.
	Upsert(ctx context.Context, points []Point) error

	// DeleteByFingerprints bulk-deletes every record in the session
	// partition whose fingerprint is in the set.
	DeleteByFingerprints(ctx context.Context, sessionID string, fingerprints []string) error

	// DeleteSession removes every record in the session partition.
	DeleteSession(ctx context.Context, sessionID string) error

	// Query runs the multi-stage ranked retrieval request: dense and sparse
	// prefetch passes fused by a late-interaction rerank. An empty session
	// partition yields an empty result, not an error.
	Query(ctx context.Context, q domain.HybridQuery) ([]domain.SearchResult, error)

	// Close releases resources.
	Close() error
}
