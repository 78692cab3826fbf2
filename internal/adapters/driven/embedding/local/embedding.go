// Package local provides a deterministic in-process embedding service.
// Dense vectors are feature-hashed bag-of-words embeddings, sparse vectors
// carry log-scaled term frequencies keyed by term hash, and late-interaction
// vectors are one hashed vector per token. No model downloads, no network:
// the same text always maps to the same vectors, which is what the
// content-addressed sync engine needs from a default backend.
package local

import (
	"context"
	"hash/fnv"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
	"github.com/custodia-labs/ragsync-cli/internal/core/ports/driven"
)

// Ensure Encoder implements the interface.
var _ driven.EmbeddingService = (*Encoder)(nil)

// Default vector geometry. DefaultDimensions matches the store's dense
// collection size; token vectors are intentionally small. TokenDimensions
// is exported so store adapters can size their late-interaction space to
// match the encoder.
const (
	DefaultDimensions = 384
	TokenDimensions   = 64
	maxTokens         = 128
)

// Encoder is a deterministic local embedding service.
type Encoder struct {
	dimensions int
}

// Option configures the encoder.
type Option func(*Encoder)

// WithDimensions sets the dense embedding size.
func WithDimensions(d int) Option {
	return func(e *Encoder) {
		if d > 0 {
			e.dimensions = d
		}
	}
}

// NewEncoder creates a new local encoder.
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{dimensions: DefaultDimensions}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EmbedDense generates a feature-hashed bag-of-words embedding,
// L2-normalised.
func (e *Encoder) EmbedDense(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dimensions)
	for _, token := range tokenize(text) {
		h := hash32(token)
		idx := int(h % uint32(e.dimensions))
		// Second hash bit decides the sign so collisions cancel rather
		// than accumulate.
		if h&0x80000000 != 0 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}
	normalize(vec)
	return vec, nil
}

// EmbedSparse generates a term-frequency weighted sparse vector keyed by
// term hash. Values are 1+log(tf); corpus-level weighting (IDF) is the
// store's concern.
func (e *Encoder) EmbedSparse(_ context.Context, text string) (domain.SparseVector, error) {
	tf := make(map[uint32]int)
	for _, token := range tokenize(text) {
		tf[hash32(token)]++
	}

	indices := make([]uint32, 0, len(tf))
	for idx := range tf {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	values := make([]float32, len(indices))
	for i, idx := range indices {
		values[i] = float32(1 + math.Log(float64(tf[idx])))
	}

	return domain.SparseVector{Indices: indices, Values: values}, nil
}

// EmbedLate generates one normalised vector per token, capped at maxTokens.
func (e *Encoder) EmbedLate(_ context.Context, text string) ([][]float32, error) {
	tokens := tokenize(text)
	if len(tokens) > maxTokens {
		tokens = tokens[:maxTokens]
	}

	vectors := make([][]float32, len(tokens))
	for i, token := range tokens {
		vec := make([]float32, TokenDimensions)
		for _, gram := range trigrams(token) {
			h := hash32(gram)
			idx := int(h % uint32(TokenDimensions))
			if h&0x80000000 != 0 {
				vec[idx]--
			} else {
				vec[idx]++
			}
		}
		normalize(vec)
		vectors[i] = vec
	}
	return vectors, nil
}

// Dimensions returns the dense embedding size.
func (e *Encoder) Dimensions() int { return e.dimensions }

// Close releases resources.
func (e *Encoder) Close() error { return nil }

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// trigrams returns the token's character 3-grams, padded so short tokens
// still produce at least one gram.
func trigrams(token string) []string {
	padded := "^" + token + "$"
	if len(padded) < 3 {
		return []string{padded}
	}
	grams := make([]string, 0, len(padded)-2)
	for i := 0; i+3 <= len(padded); i++ {
		grams = append(grams, padded[i:i+3])
	}
	return grams
}

func hash32(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

func normalize(vec []float32) {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= inv
	}
}
