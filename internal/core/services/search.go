package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
	"github.com/custodia-labs/ragsync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ragsync-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ragsync-cli/internal/logger"
)

// Ensure Retriever implements the interface.
var _ driving.SearchService = (*Retriever)(nil)

// Retriever composes hybrid retrieval queries: two independent candidate
// generation passes (dense semantic, sparse lexical) fused by a
// late-interaction rerank, scoped to one session partition.
//
// Retrieval is read-only and lock-free: it may run concurrently with a
// reconciliation in progress on the same session and observes either the
// pre- or post-reconciliation state.
type Retriever struct {
	store    driven.VectorStore
	embedder driven.EmbeddingService
}

// NewRetriever creates a new hybrid retriever.
func NewRetriever(store driven.VectorStore, embedder driven.EmbeddingService) *Retriever {
	return &Retriever{store: store, embedder: embedder}
}

// Search embeds the question into all three vector spaces and runs the
// prefetch/rerank query. An empty question or an empty session partition
// yields an empty result set, not an error.
func (r *Retriever) Search(ctx context.Context, sessionID, question string, k int) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")

	question = strings.TrimSpace(question)
	if question == "" {
		logger.Debug("Empty question, returning no results")
		return []domain.SearchResult{}, nil
	}
	if k <= 0 {
		k = domain.DefaultSearchLimit
	}

	q := domain.HybridQuery{
		SessionID:     sessionID,
		Limit:         k,
		PrefetchLimit: 2 * k,
	}

	// The question is embedded once per vector space; the three passes are
	// independent and run in parallel.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		q.Dense, err = r.embedder.EmbedDense(gctx, question)
		return err
	})
	g.Go(func() error {
		var err error
		q.Sparse, err = r.embedder.EmbedSparse(gctx, question)
		return err
	})
	g.Go(func() error {
		var err error
		q.Late, err = r.embedder.EmbedLate(gctx, question)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	logger.Debug("Query session=%s k=%d prefetch=%d", sessionID, q.Limit, q.PrefetchLimit)

	results, err := r.store.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("hybrid query: %w", err)
	}

	logger.Info("Search returned %d results", len(results))
	return results, nil
}
