package domain

// DefaultSearchLimit is the number of results returned when the caller does
// not specify one.
const DefaultSearchLimit = 10

// HybridQuery is a fully embedded retrieval request: two candidate
// generation passes (dense, sparse) fused by a late-interaction rerank,
// scoped to one session partition.
type HybridQuery struct {
	SessionID string

	Dense  []float32
	Sparse SparseVector
	Late   [][]float32

	// Limit is the number of results after reranking.
	Limit int

	// PrefetchLimit is the candidate pool size for each prefetch pass,
	// conventionally 2*Limit.
	PrefetchLimit int
}

// SearchResult is one ranked retrieval hit with its full stored payload.
type SearchResult struct {
	Record ChunkRecord
	Score  float64
}
