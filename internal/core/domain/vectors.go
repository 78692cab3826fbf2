package domain

// SparseVector is a lexical (term-frequency weighted) vector. Indices are
// term hashes, Values the corresponding weights. Indices and Values always
// have equal length.
type SparseVector struct {
	Indices []uint32
	Values  []float32
}

// Vectors holds the three representations of one chunk's content.
// They are recomputed from the current content at write time and never
// cached across reconciliation calls.
type Vectors struct {
	// Dense is the semantic embedding.
	Dense []float32

	// Sparse is the lexical vector.
	Sparse SparseVector

	// Late holds per-token vectors for late-interaction reranking
	// (max-similarity aggregation across token vectors).
	Late [][]float32
}
