package driven

import (
	"context"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
)

// EmbeddingService produces the three vector representations of a text.
// The same service must be used for indexing and querying: the vector
// spaces are only comparable within one model family.
//
// Implementations may run in-process or call an inference server.
type EmbeddingService interface {
	// EmbedDense generates the semantic embedding for the given text.
	EmbedDense(ctx context.Context, text string) ([]float32, error)

	// EmbedSparse generates the lexical (term-frequency weighted) vector.
	EmbedSparse(ctx context.Context, text string) (domain.SparseVector, error)

	// EmbedLate generates per-token vectors for late-interaction reranking.
	EmbedLate(ctx context.Context, text string) ([][]float32, error)

	// Dimensions returns the dense embedding size. This must match the
	// store's collection configuration.
	Dimensions() int

	// Close releases resources.
	Close() error
}
