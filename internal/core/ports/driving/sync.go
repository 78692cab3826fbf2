package driving

import (
	"context"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
)

// SyncReport summarises one reconciliation call.
type SyncReport struct {
	// Applied is the number of records upserted.
	Applied int

	// Deleted is the number of fingerprints removed.
	Deleted int

	// Skipped is the number of unchanged chunks that issued no write.
	Skipped int

	// Drifted is the number of unchanged chunks rewritten as in-place
	// metadata corrections. Drift is informational, not an error.
	Drifted int

	// Rejected holds the chunks refused with an integrity violation.
	// A non-empty slice does not fail the call: the rest of the batch
	// proceeded.
	Rejected []*domain.IntegrityError
}

// Synchronizer reconciles an incoming chunk set against the stored snapshot
// for a session and applies the minimal write set.
type Synchronizer interface {
	// Synchronize diffs the incoming chunks against the session's stored
	// snapshot and applies upserts and deletions in bounded batches.
	//
	// Calls for the same session are serialized internally; calls for
	// different sessions run independently. bulkImport marks a fresh file
	// set import: every chunk is appended under a new identifier without
	// consulting the snapshot for replacement.
	Synchronize(ctx context.Context, sessionID string, chunks []domain.Chunk, bulkImport bool) (*SyncReport, error)
}
