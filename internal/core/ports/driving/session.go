package driving

import (
	"context"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
)

// SessionService manages named chunk collections.
type SessionService interface {
	// Exists reports whether the session has any stored chunks.
	Exists(ctx context.Context, sessionID string) (bool, error)

	// Chunks returns every stored record for the session.
	// Returns domain.ErrSessionNotFound for an unknown session.
	Chunks(ctx context.Context, sessionID string) ([]domain.ChunkRecord, error)

	// Drop removes the session's chunk partition and its metadata.
	Drop(ctx context.Context, sessionID string) error

	// SaveMeta creates or updates session metadata.
	SaveMeta(ctx context.Context, meta domain.SessionMeta) error

	// List returns metadata for all known sessions.
	List(ctx context.Context) ([]domain.SessionMeta, error)
}
