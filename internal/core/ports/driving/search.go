package driving

import (
	"context"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
)

// SearchService answers hybrid retrieval queries scoped to one session.
type SearchService interface {
	// Search returns the top k chunks for the question, ranked by the
	// two-stage prefetch/rerank pipeline. An empty or unknown session
	// yields an empty result set, not an error.
	Search(ctx context.Context, sessionID, question string, k int) ([]domain.SearchResult, error)
}
