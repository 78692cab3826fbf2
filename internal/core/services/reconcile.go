package services

import (
	"time"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
	"github.com/custodia-labs/ragsync-cli/internal/logger"
)

// reconcileResult is the minimal write set for one reconciliation call.
type reconcileResult struct {
	upserts   []domain.ChunkRecord
	deletions []string
	skipped   int
	drifted   int
	rejected  []*domain.IntegrityError
}

// reconcile classifies every incoming chunk against the pre-call snapshot
// and produces the records to upsert and the fingerprints to delete.
//
// Classification is a single pass in input order. The snapshot is immutable
// read state for the whole call: later chunks never see records emitted
// earlier in the same call. Deletions are collected here and applied as a
// separate pass after the upserts, so a record kept under a new fingerprint
// is never clobbered by the deletion of its old one.
func reconcile(
	snap *snapshot,
	gen idGenerator,
	sessionID string,
	chunks []domain.Chunk,
	bulkImport bool,
	now time.Time,
) reconcileResult {
	var res reconcileResult

	for _, chunk := range chunks {
		if bulkImport {
			// Fresh file set import: always append, never consult the
			// snapshot for replacement.
			rec := recordFrom(chunk, sessionID, gen())
			rec.SourceType = domain.SourceTypeUpload
			rec.UploadedAt = now
			logger.Debug("Bulk append %s as id=%s", chunk.Fingerprint, rec.ID)
			res.upserts = append(res.upserts, rec)
			continue
		}

		if !chunk.Status.Valid() {
			res.rejected = append(res.rejected, &domain.IntegrityError{
				Fingerprint: chunk.Fingerprint,
				Status:      chunk.Status,
				Reason:      "unknown lifecycle status",
			})
			continue
		}

		switch chunk.Status {
		case domain.StatusDeleted:
			res.deletions = append(res.deletions, chunk.Fingerprint)

		case domain.StatusModified:
			prev, ok := snap.lookup(chunk.Predecessor)
			if !ok {
				// The caller asserted an edit to a chunk the store has
				// never seen. Surfaced, not silently treated as new.
				res.rejected = append(res.rejected, &domain.IntegrityError{
					Fingerprint: chunk.Predecessor,
					Status:      chunk.Status,
					Reason:      "predecessor fingerprint not in snapshot",
				})
				continue
			}
			logger.Debug("Replace %s -> %s keeping id=%s", chunk.Predecessor, chunk.Fingerprint, prev.ID)
			res.upserts = append(res.upserts, recordFrom(chunk, sessionID, prev.ID))

		case domain.StatusUnchanged:
			stored, ok := snap.lookup(chunk.Fingerprint)
			if !ok {
				res.rejected = append(res.rejected, &domain.IntegrityError{
					Fingerprint: chunk.Fingerprint,
					Status:      chunk.Status,
					Reason:      "fingerprint not in snapshot",
				})
				continue
			}
			if chunk.MatchesStored(stored) {
				res.skipped++
				continue
			}
			// Drift: same content hash, different payload. In-place
			// metadata correction reusing the stored identifier.
			logger.Info("Drift on %s, rewriting id=%s", chunk.Fingerprint, stored.ID)
			res.drifted++
			res.upserts = append(res.upserts, recordFrom(chunk, sessionID, stored.ID))

		case domain.StatusNew:
			if stored, ok := snap.lookup(chunk.Fingerprint); ok {
				// Duplicate content re-submitted as new: idempotent upsert
				// reusing the existing identifier.
				logger.Debug("Duplicate new %s, reusing id=%s", chunk.Fingerprint, stored.ID)
				res.upserts = append(res.upserts, recordFrom(chunk, sessionID, stored.ID))
				continue
			}
			rec := recordFrom(chunk, sessionID, gen())
			logger.Debug("Insert %s as id=%s", chunk.Fingerprint, rec.ID)
			res.upserts = append(res.upserts, rec)
		}
	}

	return res
}

// recordFrom builds the stored representation of an incoming chunk under the
// resolved identifier.
func recordFrom(chunk domain.Chunk, sessionID, id string) domain.ChunkRecord {
	return domain.ChunkRecord{
		ID:          id,
		SessionID:   sessionID,
		Fingerprint: chunk.Fingerprint,
		Predecessor: chunk.Predecessor,
		Filename:    chunk.Filename,
		Filetype:    chunk.Filetype,
		Ordinal:     chunk.Ordinal,
		Page:        chunk.Page,
		Content:     chunk.Content,
		Status:      chunk.Status,
		Extra:       chunk.Extra,
	}
}
