package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkStatus_Valid(t *testing.T) {
	assert.True(t, StatusUnchanged.Valid())
	assert.True(t, StatusModified.Valid())
	assert.True(t, StatusNew.Valid())
	assert.True(t, StatusDeleted.Valid())
	assert.False(t, ChunkStatus("").Valid())
	assert.False(t, ChunkStatus("UNCHANGED").Valid())
}

func TestChunk_MatchesStored(t *testing.T) {
	chunk := Chunk{
		Fingerprint: "fp-a",
		Filename:    "doc.txt",
		Filetype:    "txt",
		Ordinal:     2,
		Page:        1,
		Content:     "alpha",
	}
	stored := ChunkRecord{
		Fingerprint: "fp-a",
		Filename:    "doc.txt",
		Filetype:    "txt",
		Ordinal:     2,
		Page:        1,
		Content:     "alpha",
	}

	assert.True(t, chunk.MatchesStored(stored))
}

func TestChunk_MatchesStored_FieldDrift(t *testing.T) {
	stored := ChunkRecord{Filename: "doc.txt", Filetype: "txt", Ordinal: 2, Content: "alpha"}

	drifted := Chunk{Filename: "moved.txt", Filetype: "txt", Ordinal: 2, Content: "alpha"}
	assert.False(t, drifted.MatchesStored(stored))

	drifted = Chunk{Filename: "doc.txt", Filetype: "txt", Ordinal: 3, Content: "alpha"}
	assert.False(t, drifted.MatchesStored(stored))

	drifted = Chunk{Filename: "doc.txt", Filetype: "txt", Ordinal: 2, Content: "beta"}
	assert.False(t, drifted.MatchesStored(stored))
}

func TestChunk_MatchesStored_ExtraKeys(t *testing.T) {
	stored := ChunkRecord{
		Filename: "doc.txt",
		Extra:    map[string]any{"lang": "en", "internal_rev": float64(7)},
	}

	// Incoming keys must match stored values.
	chunk := Chunk{Filename: "doc.txt", Extra: map[string]any{"lang": "en"}}
	assert.True(t, chunk.MatchesStored(stored))

	chunk = Chunk{Filename: "doc.txt", Extra: map[string]any{"lang": "de"}}
	assert.False(t, chunk.MatchesStored(stored))

	chunk = Chunk{Filename: "doc.txt", Extra: map[string]any{"missing": "x"}}
	assert.False(t, chunk.MatchesStored(stored))
}

func TestChunk_MatchesStored_StoredOnlyKeysIgnored(t *testing.T) {
	// A store that accretes bookkeeping fields must not flag drift.
	stored := ChunkRecord{
		Filename: "doc.txt",
		Extra:    map[string]any{"indexed_by": "ragsync", "shard": float64(3)},
	}
	chunk := Chunk{Filename: "doc.txt"}

	assert.True(t, chunk.MatchesStored(stored))
}

func TestChunk_MatchesStored_NestedExtraValues(t *testing.T) {
	stored := ChunkRecord{
		Filename: "doc.txt",
		Extra:    map[string]any{"tags": []any{"a", "b"}},
	}

	chunk := Chunk{Filename: "doc.txt", Extra: map[string]any{"tags": []any{"a", "b"}}}
	assert.True(t, chunk.MatchesStored(stored))

	chunk = Chunk{Filename: "doc.txt", Extra: map[string]any{"tags": []any{"a"}}}
	assert.False(t, chunk.MatchesStored(stored))
}
