package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
	"github.com/custodia-labs/ragsync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ragsync-cli/internal/logger"
)

// snapshotLimit bounds the full-partition scan of the snapshot reader.
const snapshotLimit = 10_000

// snapshot is the immutable read state for one reconciliation call: every
// record stored for the session, keyed by fingerprint. It is never cached
// beyond the call that loaded it.
type snapshot struct {
	byFingerprint map[string]domain.ChunkRecord
}

func (s *snapshot) lookup(fingerprint string) (domain.ChunkRecord, bool) {
	rec, ok := s.byFingerprint[fingerprint]
	return rec, ok
}

func (s *snapshot) size() int { return len(s.byFingerprint) }

// idGenerator produces fresh identifiers in the session's active identifier
// space. The space is decided once per reconciliation call and frozen.
type idGenerator func() string

// loadSnapshot fetches the complete stored chunk set for a session and
// derives the identifier generator. A store failure propagates as a
// retryable infrastructure error; an empty snapshot is only ever the genuine
// absence of records.
func loadSnapshot(ctx context.Context, store driven.VectorStore, sessionID string) (*snapshot, idGenerator, error) {
	records, err := store.Scroll(ctx, sessionID, snapshotLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("load snapshot for session %s: %w", sessionID, err)
	}

	byFingerprint := make(map[string]domain.ChunkRecord, len(records))
	for _, rec := range records {
		// Overwrite semantics keyed on fingerprint: fingerprints are
		// session-unique post-reconciliation, so the last record wins.
		byFingerprint[rec.Fingerprint] = rec
	}

	logger.Debug("Snapshot for session %s: %d records", sessionID, len(records))

	return &snapshot{byFingerprint: byFingerprint}, newIDGenerator(records), nil
}

// newIDGenerator scans the existing identifiers. If any parses as an
// integer, the session uses the dense numeric space continued from the
// maximum observed value; otherwise it uses opaque identifiers. New sessions
// default to opaque identifiers.
func newIDGenerator(records []domain.ChunkRecord) idGenerator {
	var (
		numeric bool
		maxSeen uint64
	)
	for _, rec := range records {
		n, err := strconv.ParseUint(rec.ID, 10, 64)
		if err != nil {
			continue
		}
		numeric = true
		if n > maxSeen {
			maxSeen = n
		}
	}

	if numeric {
		next := maxSeen
		return func() string {
			next++
			return strconv.FormatUint(next, 10)
		}
	}

	return func() string {
		return uuid.NewString()
	}
}
