package driven

import (
	"context"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
)

// SessionStore persists session metadata.
// Backed by SQLite; chunk data itself lives in the VectorStore.
type SessionStore interface {
	// Save creates or updates session metadata.
	Save(ctx context.Context, meta domain.SessionMeta) error

	// Get retrieves session metadata by ID.
	// Returns domain.ErrNotFound if no metadata exists.
	Get(ctx context.Context, id string) (*domain.SessionMeta, error)

	// List returns metadata for all known sessions.
	List(ctx context.Context) ([]domain.SessionMeta, error)

	// Delete removes session metadata. Deleting a missing session is a no-op.
	Delete(ctx context.Context, id string) error
}
