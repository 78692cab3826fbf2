// Package memory provides an in-memory implementation of the vector store
// port. It mirrors the production store's hybrid query semantics: dense and
// sparse candidate generation fused by a late-interaction max-similarity
// rerank. Used by tests and as a zero-dependency local mode.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
	"github.com/custodia-labs/ragsync-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

type storedPoint struct {
	record  domain.ChunkRecord
	vectors domain.Vectors
}

// Store is an in-memory vector store keyed by record identifier.
type Store struct {
	mu     sync.RWMutex
	points map[string]storedPoint
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{points: make(map[string]storedPoint)}
}

// Scroll returns every record in the session partition, up to limit.
func (s *Store) Scroll(_ context.Context, sessionID string, limit int) ([]domain.ChunkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []domain.ChunkRecord
	for _, p := range s.points {
		if p.record.SessionID == sessionID {
			records = append(records, p.record)
		}
	}

	// Stable iteration order for callers that diff snapshots.
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Upsert writes one batch of points, idempotent by record ID.
func (s *Store) Upsert(_ context.Context, points []driven.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		s.points[p.Record.ID] = storedPoint{record: p.Record, vectors: p.Vectors}
	}
	return nil
}

// DeleteByFingerprints removes every record in the session partition whose
// fingerprint is in the set.
func (s *Store) DeleteByFingerprints(_ context.Context, sessionID string, fingerprints []string) error {
	set := make(map[string]bool, len(fingerprints))
	for _, fp := range fingerprints {
		set[fp] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.points {
		if p.record.SessionID == sessionID && set[p.record.Fingerprint] {
			delete(s.points, id)
		}
	}
	return nil
}

// DeleteSession removes every record in the session partition.
func (s *Store) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.points {
		if p.record.SessionID == sessionID {
			delete(s.points, id)
		}
	}
	return nil
}

type candidate struct {
	id    string
	score float64
}

// Query runs the two prefetch passes and the late-interaction rerank.
// The candidate pools are the union of the dense and sparse top lists; the
// final ranking is max-similarity across token vectors. Session filtering
// happens before scoring, so a stricter filter never reorders survivors.
func (s *Store) Query(_ context.Context, q domain.HybridQuery) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var partition []storedPoint
	for _, p := range s.points {
		if p.record.SessionID == q.SessionID {
			partition = append(partition, p)
		}
	}
	if len(partition) == 0 {
		return []domain.SearchResult{}, nil
	}

	prefetch := q.PrefetchLimit
	if prefetch <= 0 {
		prefetch = 2 * q.Limit
	}

	dense := topK(partition, prefetch, func(p storedPoint) float64 {
		return cosine(q.Dense, p.vectors.Dense)
	})
	sparse := topK(partition, prefetch, func(p storedPoint) float64 {
		return sparseDot(q.Sparse, p.vectors.Sparse)
	})

	pool := make(map[string]storedPoint, len(dense)+len(sparse))
	for _, c := range dense {
		pool[c.id] = s.points[c.id]
	}
	for _, c := range sparse {
		pool[c.id] = s.points[c.id]
	}

	reranked := make([]candidate, 0, len(pool))
	for id, p := range pool {
		reranked = append(reranked, candidate{id: id, score: maxSim(q.Late, p.vectors.Late)})
	}
	sort.Slice(reranked, func(i, j int) bool {
		if reranked[i].score != reranked[j].score {
			return reranked[i].score > reranked[j].score
		}
		return reranked[i].id < reranked[j].id
	})

	limit := q.Limit
	if limit <= 0 || limit > len(reranked) {
		limit = len(reranked)
	}

	results := make([]domain.SearchResult, 0, limit)
	for _, c := range reranked[:limit] {
		results = append(results, domain.SearchResult{
			Record: s.points[c.id].record,
			Score:  c.score,
		})
	}
	return results, nil
}

// Close releases resources.
func (s *Store) Close() error { return nil }

func topK(points []storedPoint, k int, score func(storedPoint) float64) []candidate {
	candidates := make([]candidate, 0, len(points))
	for _, p := range points {
		candidates = append(candidates, candidate{id: p.record.ID, score: score(p)})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].id < candidates[j].id
	})
	if k > 0 && len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func sparseDot(a, b domain.SparseVector) float64 {
	weights := make(map[uint32]float64, len(a.Indices))
	for i, idx := range a.Indices {
		weights[idx] = float64(a.Values[i])
	}
	var dot float64
	for i, idx := range b.Indices {
		if w, ok := weights[idx]; ok {
			dot += w * float64(b.Values[i])
		}
	}
	return dot
}

// maxSim aggregates token-level similarity: for every query token vector,
// the best-matching document token vector, summed over query tokens.
func maxSim(query, doc [][]float32) float64 {
	var total float64
	for _, qv := range query {
		best := math.Inf(-1)
		for _, dv := range doc {
			if sim := cosine(qv, dv); sim > best {
				best = sim
			}
		}
		if !math.IsInf(best, -1) {
			total += best
		}
	}
	return total
}
