package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragsync-cli/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
	"github.com/custodia-labs/ragsync-cli/internal/core/ports/driven"
)

func point(t *testing.T, enc *local.Encoder, id, sessionID, fingerprint, content string) driven.Point {
	t.Helper()
	ctx := context.Background()
	dense, err := enc.EmbedDense(ctx, content)
	require.NoError(t, err)
	sparse, err := enc.EmbedSparse(ctx, content)
	require.NoError(t, err)
	late, err := enc.EmbedLate(ctx, content)
	require.NoError(t, err)
	return driven.Point{
		Record: domain.ChunkRecord{
			ID:          id,
			SessionID:   sessionID,
			Fingerprint: fingerprint,
			Content:     content,
		},
		Vectors: domain.Vectors{Dense: dense, Sparse: sparse, Late: late},
	}
}

func TestStore_Scroll_FiltersBySession(t *testing.T) {
	store := NewStore()
	enc := local.NewEncoder()
	require.NoError(t, store.Upsert(context.Background(), []driven.Point{
		point(t, enc, "1", "s1", "fp-a", "alpha"),
		point(t, enc, "2", "s1", "fp-b", "beta"),
		point(t, enc, "3", "s2", "fp-c", "gamma"),
	}))

	records, err := store.Scroll(context.Background(), "s1", 100)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "2", records[1].ID)
}

func TestStore_Scroll_EmptyPartition(t *testing.T) {
	store := NewStore()

	records, err := store.Scroll(context.Background(), "nope", 100)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStore_Scroll_RespectsLimit(t *testing.T) {
	store := NewStore()
	enc := local.NewEncoder()
	require.NoError(t, store.Upsert(context.Background(), []driven.Point{
		point(t, enc, "1", "s1", "fp-a", "alpha"),
		point(t, enc, "2", "s1", "fp-b", "beta"),
	}))

	records, err := store.Scroll(context.Background(), "s1", 1)

	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStore_Upsert_IdempotentByID(t *testing.T) {
	store := NewStore()
	enc := local.NewEncoder()
	require.NoError(t, store.Upsert(context.Background(), []driven.Point{
		point(t, enc, "1", "s1", "fp-a", "alpha"),
	}))
	require.NoError(t, store.Upsert(context.Background(), []driven.Point{
		point(t, enc, "1", "s1", "fp-a2", "alpha revised"),
	}))

	records, err := store.Scroll(context.Background(), "s1", 100)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "fp-a2", records[0].Fingerprint)
	assert.Equal(t, "alpha revised", records[0].Content)
}

func TestStore_DeleteByFingerprints_SessionScoped(t *testing.T) {
	store := NewStore()
	enc := local.NewEncoder()
	require.NoError(t, store.Upsert(context.Background(), []driven.Point{
		point(t, enc, "1", "s1", "fp-a", "alpha"),
		point(t, enc, "2", "s2", "fp-a", "alpha"),
	}))

	require.NoError(t, store.DeleteByFingerprints(context.Background(), "s1", []string{"fp-a"}))

	s1, err := store.Scroll(context.Background(), "s1", 100)
	require.NoError(t, err)
	assert.Empty(t, s1)

	s2, err := store.Scroll(context.Background(), "s2", 100)
	require.NoError(t, err)
	assert.Len(t, s2, 1, "same fingerprint in another session must survive")
}

func TestStore_DeleteSession(t *testing.T) {
	store := NewStore()
	enc := local.NewEncoder()
	require.NoError(t, store.Upsert(context.Background(), []driven.Point{
		point(t, enc, "1", "s1", "fp-a", "alpha"),
		point(t, enc, "2", "s1", "fp-b", "beta"),
		point(t, enc, "3", "s2", "fp-c", "gamma"),
	}))

	require.NoError(t, store.DeleteSession(context.Background(), "s1"))

	s1, err := store.Scroll(context.Background(), "s1", 100)
	require.NoError(t, err)
	assert.Empty(t, s1)
	s2, err := store.Scroll(context.Background(), "s2", 100)
	require.NoError(t, err)
	assert.Len(t, s2, 1)
}

func TestStore_Query_EmptyPartition(t *testing.T) {
	store := NewStore()

	results, err := store.Query(context.Background(), domain.HybridQuery{SessionID: "nope", Limit: 5})

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestStore_Query_RanksRelevantFirst(t *testing.T) {
	store := NewStore()
	enc := local.NewEncoder()
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, []driven.Point{
		point(t, enc, "1", "s1", "fp-a", "the quick brown fox jumps over the lazy dog"),
		point(t, enc, "2", "s1", "fp-b", "quarterly revenue grew across all regions"),
		point(t, enc, "3", "s1", "fp-c", "install dependencies before running the build"),
	}))

	dense, err := enc.EmbedDense(ctx, "quick brown fox")
	require.NoError(t, err)
	sparse, err := enc.EmbedSparse(ctx, "quick brown fox")
	require.NoError(t, err)
	late, err := enc.EmbedLate(ctx, "quick brown fox")
	require.NoError(t, err)

	results, err := store.Query(ctx, domain.HybridQuery{
		SessionID:     "s1",
		Dense:         dense,
		Sparse:        sparse,
		Late:          late,
		Limit:         2,
		PrefetchLimit: 4,
	})

	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "fp-a", results[0].Record.Fingerprint)
	assert.LessOrEqual(t, len(results), 2)
	if len(results) == 2 {
		assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
	}
}

func TestStore_Query_ScopedToSession(t *testing.T) {
	store := NewStore()
	enc := local.NewEncoder()
	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, []driven.Point{
		point(t, enc, "1", "s1", "fp-a", "the quick brown fox"),
		point(t, enc, "2", "s2", "fp-b", "the quick brown fox"),
	}))

	dense, err := enc.EmbedDense(ctx, "quick brown fox")
	require.NoError(t, err)
	sparse, err := enc.EmbedSparse(ctx, "quick brown fox")
	require.NoError(t, err)
	late, err := enc.EmbedLate(ctx, "quick brown fox")
	require.NoError(t, err)

	results, err := store.Query(ctx, domain.HybridQuery{
		SessionID: "s1",
		Dense:     dense,
		Sparse:    sparse,
		Late:      late,
		Limit:     10,
	})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "s1", results[0].Record.SessionID)
}
