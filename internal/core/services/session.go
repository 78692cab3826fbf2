package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
	"github.com/custodia-labs/ragsync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ragsync-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ragsync-cli/internal/logger"
)

// Ensure SessionManager implements the interface.
var _ driving.SessionService = (*SessionManager)(nil)

// SessionManager manages named chunk collections: chunk data in the vector
// store, bookkeeping in the session metadata store.
type SessionManager struct {
	store driven.VectorStore
	meta  driven.SessionStore
}

// NewSessionManager creates a new session manager. The metadata store is
// optional; when nil, sessions are tracked by their stored chunks alone.
func NewSessionManager(store driven.VectorStore, meta driven.SessionStore) *SessionManager {
	return &SessionManager{store: store, meta: meta}
}

// Exists reports whether the session has any stored chunks.
func (m *SessionManager) Exists(ctx context.Context, sessionID string) (bool, error) {
	records, err := m.store.Scroll(ctx, sessionID, 1)
	if err != nil {
		return false, fmt.Errorf("check session %s: %w", sessionID, err)
	}
	return len(records) > 0, nil
}

// Chunks returns every stored record for the session.
func (m *SessionManager) Chunks(ctx context.Context, sessionID string) ([]domain.ChunkRecord, error) {
	records, err := m.store.Scroll(ctx, sessionID, snapshotLimit)
	if err != nil {
		return nil, fmt.Errorf("scroll session %s: %w", sessionID, err)
	}
	if len(records) == 0 {
		return nil, domain.ErrSessionNotFound
	}
	return records, nil
}

// Drop removes the session's chunk partition and its metadata.
func (m *SessionManager) Drop(ctx context.Context, sessionID string) error {
	exists, err := m.Exists(ctx, sessionID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrSessionNotFound
	}

	if err := m.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("drop session %s: %w", sessionID, err)
	}

	if m.meta != nil {
		if err := m.meta.Delete(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("delete session meta %s: %w", sessionID, err)
		}
	}

	logger.Info("Dropped session %s", sessionID)
	return nil
}

// SaveMeta creates or updates session metadata.
func (m *SessionManager) SaveMeta(ctx context.Context, meta domain.SessionMeta) error {
	if m.meta == nil {
		return nil
	}
	if meta.ID == "" {
		return fmt.Errorf("%w: empty session id", domain.ErrInvalidInput)
	}
	return m.meta.Save(ctx, meta)
}

// List returns metadata for all known sessions.
func (m *SessionManager) List(ctx context.Context) ([]domain.SessionMeta, error) {
	if m.meta == nil {
		return nil, nil
	}
	return m.meta.List(ctx)
}
