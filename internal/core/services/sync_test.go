package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragsync-cli/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/ragsync-cli/internal/adapters/driven/store/memory"
	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
)

// newTestEngine wires the engine against the in-memory store and the
// deterministic local encoder.
func newTestEngine(t *testing.T) (*SyncEngine, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	engine := NewSyncEngine(store, local.NewEncoder())
	return engine, store
}

func seedSession(t *testing.T, engine *SyncEngine, sessionID string, contents ...string) []domain.Chunk {
	t.Helper()
	chunks := make([]domain.Chunk, 0, len(contents))
	for i, content := range contents {
		chunks = append(chunks, domain.Chunk{
			Fingerprint: domain.Fingerprint("doc.txt", "txt", i+1, content),
			Filename:    "doc.txt",
			Filetype:    "txt",
			Ordinal:     i + 1,
			Content:     content,
			Status:      domain.StatusNew,
		})
	}
	report, err := engine.Synchronize(context.Background(), sessionID, chunks, true)
	require.NoError(t, err)
	require.Equal(t, len(contents), report.Applied)
	return chunks
}

func storedFingerprints(t *testing.T, store *memory.Store, sessionID string) map[string]domain.ChunkRecord {
	t.Helper()
	records, err := store.Scroll(context.Background(), sessionID, 10_000)
	require.NoError(t, err)
	out := make(map[string]domain.ChunkRecord, len(records))
	for _, rec := range records {
		out[rec.Fingerprint] = rec
	}
	return out
}

func TestNewSyncEngine(t *testing.T) {
	engine, _ := newTestEngine(t)

	require.NotNil(t, engine)
	assert.Equal(t, DefaultBatchSize, engine.writer.batchSize)
}

func TestSyncEngine_Synchronize_EmptySessionID(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Synchronize(context.Background(), "", nil, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSyncEngine_Synchronize_BulkImport(t *testing.T) {
	engine, store := newTestEngine(t)

	chunks := seedSession(t, engine, "s1", "alpha", "beta", "gamma")

	stored := storedFingerprints(t, store, "s1")
	require.Len(t, stored, 3)
	for _, chunk := range chunks {
		rec, ok := stored[chunk.Fingerprint]
		require.True(t, ok, "chunk %s not stored", chunk.Fingerprint)
		assert.Equal(t, domain.SourceTypeUpload, rec.SourceType)
		assert.False(t, rec.UploadedAt.IsZero())
		assert.Equal(t, "s1", rec.SessionID)
	}
}

func TestSyncEngine_Synchronize_UnchangedIsIdempotent(t *testing.T) {
	engine, _ := newTestEngine(t)
	chunks := seedSession(t, engine, "s1", "alpha", "beta", "gamma")

	for i := range chunks {
		chunks[i].Status = domain.StatusUnchanged
	}
	report, err := engine.Synchronize(context.Background(), "s1", chunks, false)

	require.NoError(t, err)
	assert.Equal(t, 0, report.Applied)
	assert.Equal(t, 3, report.Skipped)
	assert.Empty(t, report.Rejected)
}

func TestSyncEngine_Synchronize_ModifiedKeepsIdentifier(t *testing.T) {
	engine, store := newTestEngine(t)
	chunks := seedSession(t, engine, "s1", "alpha", "beta", "gamma")

	before := storedFingerprints(t, store, "s1")
	oldID := before[chunks[1].Fingerprint].ID

	edited := domain.Chunk{
		Fingerprint: domain.Fingerprint("doc.txt", "txt", 2, "beta revised"),
		Predecessor: chunks[1].Fingerprint,
		Filename:    "doc.txt",
		Filetype:    "txt",
		Ordinal:     2,
		Content:     "beta revised",
		Status:      domain.StatusModified,
	}
	report, err := engine.Synchronize(context.Background(), "s1", []domain.Chunk{edited}, false)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Applied)

	after := storedFingerprints(t, store, "s1")
	require.Len(t, after, 3)
	rec, ok := after[edited.Fingerprint]
	require.True(t, ok)
	assert.Equal(t, oldID, rec.ID, "edit must reuse the predecessor's identifier")
	assert.Equal(t, "beta revised", rec.Content)
	_, stillThere := after[chunks[1].Fingerprint]
	assert.False(t, stillThere, "predecessor record must be replaced")
}

func TestSyncEngine_Synchronize_Delete(t *testing.T) {
	engine, store := newTestEngine(t)
	chunks := seedSession(t, engine, "s1", "alpha", "beta", "gamma")

	report, err := engine.Synchronize(context.Background(), "s1", []domain.Chunk{{
		Fingerprint: chunks[0].Fingerprint,
		Status:      domain.StatusDeleted,
	}}, false)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Deleted)

	after := storedFingerprints(t, store, "s1")
	require.Len(t, after, 2)
	_, gone := after[chunks[0].Fingerprint]
	assert.False(t, gone)
}

func TestSyncEngine_Synchronize_RejectsUnknownPredecessor(t *testing.T) {
	engine, store := newTestEngine(t)
	seedSession(t, engine, "s1", "alpha")

	bad := domain.Chunk{
		Fingerprint: domain.Fingerprint("doc.txt", "txt", 9, "ghost edit"),
		Predecessor: "never-stored",
		Filename:    "doc.txt",
		Filetype:    "txt",
		Ordinal:     9,
		Content:     "ghost edit",
		Status:      domain.StatusModified,
	}
	fresh := domain.Chunk{
		Fingerprint: domain.Fingerprint("doc.txt", "txt", 2, "delta"),
		Filename:    "doc.txt",
		Filetype:    "txt",
		Ordinal:     2,
		Content:     "delta",
		Status:      domain.StatusNew,
	}
	report, err := engine.Synchronize(context.Background(), "s1", []domain.Chunk{bad, fresh}, false)

	require.NoError(t, err, "a rejected chunk must not abort the call")
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, "never-stored", report.Rejected[0].Fingerprint)
	assert.Equal(t, domain.StatusModified, report.Rejected[0].Status)
	assert.Equal(t, 1, report.Applied, "the valid chunk still goes through")

	after := storedFingerprints(t, store, "s1")
	assert.Len(t, after, 2)
}

func TestSyncEngine_Synchronize_ResurrectAfterDelete(t *testing.T) {
	engine, store := newTestEngine(t)
	chunks := seedSession(t, engine, "s1", "alpha", "beta")

	_, err := engine.Synchronize(context.Background(), "s1", []domain.Chunk{{
		Fingerprint: chunks[0].Fingerprint,
		Status:      domain.StatusDeleted,
	}}, false)
	require.NoError(t, err)

	resurrected := chunks[0]
	resurrected.Status = domain.StatusNew
	report, err := engine.Synchronize(context.Background(), "s1", []domain.Chunk{resurrected}, false)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Applied)
	assert.Empty(t, report.Rejected)

	after := storedFingerprints(t, store, "s1")
	_, ok := after[chunks[0].Fingerprint]
	assert.True(t, ok, "deleted content re-submitted as new must be stored again")
}

func TestSyncEngine_Synchronize_DriftRewritesInPlace(t *testing.T) {
	engine, store := newTestEngine(t)
	chunks := seedSession(t, engine, "s1", "alpha")

	before := storedFingerprints(t, store, "s1")
	oldID := before[chunks[0].Fingerprint].ID

	drifted := chunks[0]
	drifted.Status = domain.StatusUnchanged
	drifted.Filename = "renamed.txt"
	report, err := engine.Synchronize(context.Background(), "s1", []domain.Chunk{drifted}, false)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Drifted)
	assert.Equal(t, 1, report.Applied)

	after := storedFingerprints(t, store, "s1")
	rec := after[chunks[0].Fingerprint]
	assert.Equal(t, oldID, rec.ID)
	assert.Equal(t, "renamed.txt", rec.Filename)
}

func TestSyncEngine_Synchronize_SessionIsolation(t *testing.T) {
	engine, store := newTestEngine(t)
	s1 := seedSession(t, engine, "s1", "alpha", "beta")
	seedSession(t, engine, "s2", "alpha", "beta")

	_, err := engine.Synchronize(context.Background(), "s1", []domain.Chunk{{
		Fingerprint: s1[0].Fingerprint,
		Status:      domain.StatusDeleted,
	}}, false)
	require.NoError(t, err)

	assert.Len(t, storedFingerprints(t, store, "s1"), 1)
	assert.Len(t, storedFingerprints(t, store, "s2"), 2, "same fingerprint in another session must survive")
}

func TestSyncEngine_Synchronize_NoOpIssuesNothing(t *testing.T) {
	engine, _ := newTestEngine(t)

	report, err := engine.Synchronize(context.Background(), "s1", nil, false)

	require.NoError(t, err)
	assert.Equal(t, 0, report.Applied)
	assert.Equal(t, 0, report.Deleted)
}
