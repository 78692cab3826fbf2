package domain

import "time"

// SessionMeta is the bookkeeping record for one session: a named partition
// of the store holding all chunks for one uploaded dataset. Chunk data lives
// in the vector store; this metadata lives in the local metadata store.
type SessionMeta struct {
	// ID is the session identifier used as the store partition key.
	ID string

	// Name is the human-readable session name.
	Name string

	// ArchiveName and ArchiveSize describe the originally uploaded file set,
	// when the session was created from one.
	ArchiveName string
	ArchiveSize int64

	// CreatedAt is when the session was first created.
	CreatedAt time.Time
}
