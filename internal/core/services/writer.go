package services

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
	"github.com/custodia-labs/ragsync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ragsync-cli/internal/logger"
)

// DefaultBatchSize is the number of records per bulk write call.
const DefaultBatchSize = 20

// batchWriter applies the reconciler's write set: upserts in fixed-size
// batches, deletions as one filtered bulk delete. The operation is
// batch-atomic, not call-atomic: a failed batch never rolls back previously
// committed batches.
type batchWriter struct {
	store     driven.VectorStore
	embedder  driven.EmbeddingService
	batchSize int

	// limiter throttles bulk write calls when configured. Nil means
	// unthrottled.
	limiter *rate.Limiter
}

func newBatchWriter(store driven.VectorStore, embedder driven.EmbeddingService, batchSize int, limiter *rate.Limiter) *batchWriter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &batchWriter{
		store:     store,
		embedder:  embedder,
		batchSize: batchSize,
		limiter:   limiter,
	}
}

// apply writes the upsert stream in bounded batches, then issues the
// deletions as one bulk delete filtered by fingerprint inside the session
// partition. A no-op call issues no write RPC at all.
//
// On a failed batch the returned error is a *domain.BatchError accounting
// for committed and unapplied records so the caller can retry just the
// remainder. Deletions are only attempted once every upsert batch committed.
func (w *batchWriter) apply(
	ctx context.Context,
	sessionID string,
	upserts []domain.ChunkRecord,
	deletions []string,
) (applied, deleted int, err error) {
	if len(upserts) == 0 && len(deletions) == 0 {
		logger.Debug("Nothing to write for session %s", sessionID)
		return 0, 0, nil
	}

	for start := 0; start < len(upserts); start += w.batchSize {
		end := min(start+w.batchSize, len(upserts))
		batch := start / w.batchSize

		if w.limiter != nil {
			if err := w.limiter.Wait(ctx); err != nil {
				return applied, 0, w.batchError(batch, applied, len(upserts), err)
			}
		}

		points, err := w.embedBatch(ctx, upserts[start:end])
		if err != nil {
			return applied, 0, w.batchError(batch, applied, len(upserts), err)
		}

		logger.Debug("Upserting batch %d (%d records) for session %s", batch, len(points), sessionID)
		if err := w.store.Upsert(ctx, points); err != nil {
			return applied, 0, w.batchError(batch, applied, len(upserts), err)
		}
		applied += len(points)
	}

	if len(deletions) > 0 {
		logger.Debug("Deleting %d fingerprints from session %s", len(deletions), sessionID)
		if err := w.store.DeleteByFingerprints(ctx, sessionID, deletions); err != nil {
			return applied, 0, fmt.Errorf("delete fingerprints: %w", err)
		}
		deleted = len(deletions)
	}

	return applied, deleted, nil
}

// embedBatch computes the vector representations of each record from its
// current content. Embeddings are never cached across reconciliation calls.
func (w *batchWriter) embedBatch(ctx context.Context, records []domain.ChunkRecord) ([]driven.Point, error) {
	points := make([]driven.Point, 0, len(records))
	for _, rec := range records {
		dense, err := w.embedder.EmbedDense(ctx, rec.Content)
		if err != nil {
			return nil, fmt.Errorf("embed dense for %s: %w", rec.Fingerprint, err)
		}
		sparse, err := w.embedder.EmbedSparse(ctx, rec.Content)
		if err != nil {
			return nil, fmt.Errorf("embed sparse for %s: %w", rec.Fingerprint, err)
		}
		late, err := w.embedder.EmbedLate(ctx, rec.Content)
		if err != nil {
			return nil, fmt.Errorf("embed late for %s: %w", rec.Fingerprint, err)
		}
		points = append(points, driven.Point{
			Record:  rec,
			Vectors: domain.Vectors{Dense: dense, Sparse: sparse, Late: late},
		})
	}
	return points, nil
}

func (w *batchWriter) batchError(batch, committed, total int, err error) error {
	return &domain.BatchError{
		Batch:     batch,
		Committed: committed,
		Unapplied: total - committed,
		Err:       err,
	}
}
