package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
	"github.com/custodia-labs/ragsync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ragsync-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ragsync-cli/internal/logger"
)

// Ensure SyncEngine implements the interface.
var _ driving.Synchronizer = (*SyncEngine)(nil)

// SyncEngine reconciles incoming chunk sets against the stored snapshot of
// a session and applies the minimal write set in bounded batches.
//
// Reconciliation for one session runs under single-writer semantics: the
// engine serializes concurrent calls per session with an internal lock.
// Calls for different sessions proceed in parallel.
type SyncEngine struct {
	store  driven.VectorStore
	writer *batchWriter

	mu       sync.Mutex
	sessions map[string]*sync.Mutex

	now func() time.Time
}

// SyncOption configures the sync engine.
type SyncOption func(*syncOptions)

type syncOptions struct {
	batchSize int
	limiter   *rate.Limiter
}

// WithBatchSize sets the number of records per bulk write call.
func WithBatchSize(size int) SyncOption {
	return func(o *syncOptions) {
		if size > 0 {
			o.batchSize = size
		}
	}
}

// WithWriteRate throttles bulk write calls to at most rps per second.
func WithWriteRate(rps float64) SyncOption {
	return func(o *syncOptions) {
		if rps > 0 {
			o.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewSyncEngine creates a new sync engine on top of the given store and
// embedding service.
func NewSyncEngine(store driven.VectorStore, embedder driven.EmbeddingService, opts ...SyncOption) *SyncEngine {
	o := syncOptions{batchSize: DefaultBatchSize}
	for _, opt := range opts {
		opt(&o)
	}

	return &SyncEngine{
		store:    store,
		writer:   newBatchWriter(store, embedder, o.batchSize, o.limiter),
		sessions: make(map[string]*sync.Mutex),
		now:      time.Now,
	}
}

// Synchronize reads the session snapshot, reconciles the incoming chunk set
// against it and applies upserts and deletions.
//
// Per-chunk integrity violations are reported in the returned report, not as
// an error: one bad chunk never aborts the whole reconciliation. The error
// return is reserved for infrastructure failures and partial batch failures.
func (e *SyncEngine) Synchronize(
	ctx context.Context,
	sessionID string,
	chunks []domain.Chunk,
	bulkImport bool,
) (*driving.SyncReport, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: empty session id", domain.ErrInvalidInput)
	}

	lock := e.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	logger.Section("Reconciliation")
	logger.Debug("Session %s: %d incoming chunks, bulk=%t", sessionID, len(chunks), bulkImport)

	snap, gen, err := loadSnapshot(ctx, e.store, sessionID)
	if err != nil {
		return nil, err
	}
	logger.Debug("Snapshot: %d stored records", snap.size())

	res := reconcile(snap, gen, sessionID, chunks, bulkImport, e.now().UTC())
	for _, rej := range res.rejected {
		logger.Warn("Rejected chunk: %v", rej)
	}

	applied, deleted, err := e.writer.apply(ctx, sessionID, res.upserts, res.deletions)
	report := &driving.SyncReport{
		Applied:  applied,
		Deleted:  deleted,
		Skipped:  res.skipped,
		Drifted:  res.drifted,
		Rejected: res.rejected,
	}
	if err != nil {
		return report, err
	}

	logger.Info("Sync complete for %s: %d applied, %d deleted, %d skipped, %d drifted, %d rejected",
		sessionID, report.Applied, report.Deleted, report.Skipped, report.Drifted, len(report.Rejected))
	return report, nil
}

// sessionLock returns the mutex serializing reconciliation for one session.
func (e *SyncEngine) sessionLock(sessionID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.sessions[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		e.sessions[sessionID] = lock
	}
	return lock
}
