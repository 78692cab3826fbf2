package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
	"github.com/custodia-labs/ragsync-cli/internal/core/ports/driven"
)

// Ensure sessionStore implements the interface.
var _ driven.SessionStore = (*sessionStore)(nil)

type sessionStore struct {
	store *Store
}

// Save creates or updates session metadata.
func (s *sessionStore) Save(ctx context.Context, meta domain.SessionMeta) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sessions (id, name, archive_name, archive_size, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			archive_name = excluded.archive_name,
			archive_size = excluded.archive_size
	`, meta.ID, meta.Name, meta.ArchiveName, meta.ArchiveSize, meta.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving session %s: %w", meta.ID, err)
	}
	return nil
}

// Get retrieves session metadata by ID.
func (s *sessionStore) Get(ctx context.Context, id string) (*domain.SessionMeta, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, archive_name, archive_size, created_at
		FROM sessions WHERE id = ?
	`, id)

	var meta domain.SessionMeta
	err := row.Scan(&meta.ID, &meta.Name, &meta.ArchiveName, &meta.ArchiveSize, &meta.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting session %s: %w", id, err)
	}
	return &meta, nil
}

// List returns metadata for all known sessions, newest first.
func (s *sessionStore) List(ctx context.Context) ([]domain.SessionMeta, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, archive_name, archive_size, created_at
		FROM sessions ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.SessionMeta
	for rows.Next() {
		var meta domain.SessionMeta
		if err := rows.Scan(&meta.ID, &meta.Name, &meta.ArchiveName, &meta.ArchiveSize, &meta.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, meta)
	}
	return sessions, rows.Err()
}

// Delete removes session metadata. Deleting a missing session is a no-op.
func (s *sessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	return nil
}
