package domain

import "reflect"

// ChunkStatus is the caller-asserted lifecycle state of an incoming chunk.
// It is trusted input: the reconciler validates it against the stored
// snapshot and rejects assertions that contradict it.
type ChunkStatus string

// Lifecycle states a caller may assert for a chunk.
const (
	StatusUnchanged ChunkStatus = "unchanged"
	StatusModified  ChunkStatus = "modified"
	StatusNew       ChunkStatus = "new"
	StatusDeleted   ChunkStatus = "deleted"
)

// Valid reports whether s is a known lifecycle status.
func (s ChunkStatus) Valid() bool {
	switch s {
	case StatusUnchanged, StatusModified, StatusNew, StatusDeleted:
		return true
	}
	return false
}

// Chunk is one unit of incoming content submitted for reconciliation.
// The fingerprint is computed upstream by the chunking collaborator using
// Fingerprint; the reconciler never recomputes it.
type Chunk struct {
	// Fingerprint is the content-addressed identity of this chunk.
	Fingerprint string `json:"chunk_hash"`

	// Predecessor is the fingerprint this chunk replaces. Set only when the
	// caller reports an edit to prior content (status "modified").
	Predecessor string `json:"previous_hash,omitempty"`

	// Filename and Filetype record provenance. Not unique on their own.
	Filename string `json:"filename"`
	Filetype string `json:"filetype"`

	// Ordinal is the 1-based position within the source document's
	// chunking pass.
	Ordinal int `json:"chunk_id"`

	// Page is the page the chunk was extracted from, when known.
	Page int `json:"page_number,omitempty"`

	// Content is the text payload to be embedded and searched.
	Content string `json:"page_content"`

	// Status is the caller-asserted lifecycle state.
	Status ChunkStatus `json:"status"`

	// Extra carries arbitrary additional metadata. Every key present here
	// participates in drift comparison against the stored payload.
	Extra map[string]any `json:"extra,omitempty"`
}

// MatchesStored reports whether the chunk's carried metadata matches the
// stored record field-for-field. A false result on an "unchanged" chunk is
// drift: the content hash is identical but the payload is not.
//
// The comparison covers the fixed field set plus every key in Extra. Keys
// present only in the stored record's extension map are ignored, so a store
// that accretes bookkeeping fields does not flag every chunk as drifted.
func (c Chunk) MatchesStored(r ChunkRecord) bool {
	if c.Filename != r.Filename ||
		c.Filetype != r.Filetype ||
		c.Ordinal != r.Ordinal ||
		c.Page != r.Page ||
		c.Content != r.Content ||
		c.Predecessor != r.Predecessor {
		return false
	}
	for k, v := range c.Extra {
		if stored, ok := r.Extra[k]; !ok || !reflect.DeepEqual(stored, v) {
			return false
		}
	}
	return true
}
