package domain

import "time"

// SourceTypeUpload marks records created through the bulk import path.
const SourceTypeUpload = "upload"

// ChunkRecord is a chunk as stored in the backing index. It is the unit the
// snapshot reader returns and the batched writer upserts.
type ChunkRecord struct {
	// ID is the stored-record key in the backing index. Assigned by the
	// engine: either a dense numeric sequence continued from the snapshot or
	// an opaque identifier, never both within one session.
	ID string

	// SessionID is the partition key ("group_id") scoping the record to one
	// named collection.
	SessionID string

	// Fingerprint is the content-addressed identity of the stored chunk.
	Fingerprint string

	// Predecessor is the fingerprint this record replaced, if any.
	Predecessor string

	Filename string
	Filetype string
	Ordinal  int
	Page     int
	Content  string

	// Status is the lifecycle status the record was last written with.
	Status ChunkStatus

	// SourceType is set to SourceTypeUpload for bulk imports.
	SourceType string

	// UploadedAt is the ingestion timestamp for bulk imports.
	UploadedAt time.Time

	// Extra is the open extension map merged into the stored payload.
	Extra map[string]any
}
