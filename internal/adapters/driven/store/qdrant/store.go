// Package qdrant provides the production vector store adapter backed by a
// Qdrant collection with named vectors: a cosine dense space, an
// IDF-modified sparse space and a max-sim multivector space for
// late-interaction reranking.
package qdrant

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
	"github.com/custodia-labs/ragsync-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Named vector spaces inside the collection.
const (
	denseVector  = "dense"
	sparseVector = "bm25"
	lateVector   = "late"
)

// Default configuration values.
const (
	DefaultHost           = "localhost"
	DefaultPort           = 6334
	DefaultCollection     = "ragsync"
	DefaultTimeout        = 30 * time.Second
	DefaultDimensions     = 384
	DefaultLateDimensions = 64
)

// Config holds configuration for the Qdrant store.
type Config struct {
	// Host and Port locate the Qdrant gRPC endpoint.
	Host string
	Port int

	// APIKey authenticates against Qdrant Cloud. Empty for local instances.
	APIKey string

	// UseTLS enables transport security.
	UseTLS bool

	// Collection is the collection name holding all sessions.
	Collection string

	// Timeout bounds every store call.
	Timeout time.Duration

	// Dimensions is the dense vector size; must match the embedding service.
	Dimensions int

	// LateDimensions is the per-token vector size of the late-interaction
	// space.
	LateDimensions int
}

// Store is a Qdrant-backed vector store.
type Store struct {
	client     *qdrant.Client
	collection string
	timeout    time.Duration
}

// NewStore connects to Qdrant and ensures the hybrid collection exists.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}
	if cfg.LateDimensions == 0 {
		cfg.LateDimensions = DefaultLateDimensions
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("connect qdrant: %w", err)
	}

	s := &Store{
		client:     client,
		collection: cfg.Collection,
		timeout:    cfg.Timeout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := s.ensureCollection(ctx, cfg.Dimensions, cfg.LateDimensions); err != nil {
		client.Close()
		return nil, err
	}

	return s, nil
}

// ensureCollection creates the hybrid collection if it does not exist:
// dense cosine vectors, an IDF-modified sparse space and a multivector
// space compared by max-sim with HNSW disabled (rerank only, never a
// candidate generator).
func (s *Store) ensureCollection(ctx context.Context, dimensions, lateDimensions int) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return s.wrap("check collection", err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfigMap(map[string]*qdrant.VectorParams{
			denseVector: {
				Size:     uint64(dimensions),
				Distance: qdrant.Distance_Cosine,
			},
			lateVector: {
				Size:     uint64(lateDimensions),
				Distance: qdrant.Distance_Cosine,
				MultivectorConfig: &qdrant.MultiVectorConfig{
					Comparator: qdrant.MultiVectorComparator_MaxSim,
				},
				HnswConfig: &qdrant.HnswConfigDiff{
					M: qdrant.PtrOf(uint64(0)),
				},
			},
		}),
		SparseVectorsConfig: qdrant.NewSparseVectorsConfig(map[string]*qdrant.SparseVectorParams{
			sparseVector: {
				Modifier: qdrant.Modifier_Idf.Enum(),
			},
		}),
	})
	if err != nil {
		return s.wrap("create collection", err)
	}
	return nil
}

// Scroll performs a bounded full scan of the session partition.
func (s *Store) Scroll(ctx context.Context, sessionID string, limit int) ([]domain.ChunkRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: s.collection,
		Filter:         sessionFilter(sessionID),
		Limit:          qdrant.PtrOf(uint32(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, s.wrap("scroll", err)
	}

	records := make([]domain.ChunkRecord, 0, len(points))
	for _, point := range points {
		records = append(records, recordFromPayload(pointIDString(point.Id), point.Payload))
	}
	return records, nil
}

// Upsert writes one batch of points in a single bulk call.
func (s *Store) Upsert(ctx context.Context, points []driven.Point) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	structs := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		structs = append(structs, &qdrant.PointStruct{
			Id: pointID(p.Record.ID),
			Vectors: qdrant.NewVectorsMap(map[string]*qdrant.Vector{
				denseVector:  qdrant.NewVector(p.Vectors.Dense...),
				sparseVector: qdrant.NewVectorSparse(p.Vectors.Sparse.Indices, p.Vectors.Sparse.Values),
				lateVector:   qdrant.NewVectorMulti(p.Vectors.Late),
			}),
			Payload: payloadFromRecord(p.Record),
		})
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         structs,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return s.wrap("upsert", err)
	}
	return nil
}

// DeleteByFingerprints bulk-deletes records in the session partition whose
// fingerprint is in the set.
func (s *Store) DeleteByFingerprints(ctx context.Context, sessionID string, fingerprints []string) error {
	if len(fingerprints) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch(fieldSession, sessionID),
			qdrant.NewMatchKeywords(fieldFingerprint, fingerprints...),
		},
	}
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points:         qdrant.NewPointsSelectorFilter(filter),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return s.wrap("delete by fingerprint", err)
	}
	return nil
}

// DeleteSession removes every record in the session partition.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points:         qdrant.NewPointsSelectorFilter(sessionFilter(sessionID)),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return s.wrap("delete session", err)
	}
	return nil
}

// Query runs the two prefetch passes and the late-interaction rerank as one
// Qdrant query. An empty partition yields an empty result.
func (s *Store) Query(ctx context.Context, q domain.HybridQuery) ([]domain.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	filter := sessionFilter(q.SessionID)
	prefetchLimit := uint64(q.PrefetchLimit)
	if prefetchLimit == 0 {
		prefetchLimit = uint64(2 * q.Limit)
	}

	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Prefetch: []*qdrant.PrefetchQuery{
			{
				Query:  qdrant.NewQueryDense(q.Dense),
				Using:  qdrant.PtrOf(denseVector),
				Filter: filter,
				Limit:  qdrant.PtrOf(prefetchLimit),
			},
			{
				Query:  qdrant.NewQuerySparse(q.Sparse.Indices, q.Sparse.Values),
				Using:  qdrant.PtrOf(sparseVector),
				Filter: filter,
				Limit:  qdrant.PtrOf(prefetchLimit),
			},
		},
		Query:       qdrant.NewQueryMulti(q.Late),
		Using:       qdrant.PtrOf(lateVector),
		Filter:      filter,
		Limit:       qdrant.PtrOf(uint64(q.Limit)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, s.wrap("query", err)
	}

	results := make([]domain.SearchResult, 0, len(points))
	for _, point := range points {
		results = append(results, domain.SearchResult{
			Record: recordFromPayload(pointIDString(point.Id), point.Payload),
			Score:  float64(point.Score),
		})
	}
	return results, nil
}

// Close releases the gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// wrap classifies transport failures as retryable infrastructure errors.
func (s *Store) wrap(op string, err error) error {
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unavailable, codes.DeadlineExceeded, codes.Aborted:
			return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func sessionFilter(sessionID string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch(fieldSession, sessionID),
		},
	}
}

// pointID maps engine identifiers onto Qdrant point IDs: dense numeric
// identifiers become numeric point IDs, opaque identifiers become UUIDs.
func pointID(id string) *qdrant.PointId {
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return qdrant.NewIDNum(n)
	}
	return qdrant.NewID(id)
}

func pointIDString(id *qdrant.PointId) string {
	switch v := id.GetPointIdOptions().(type) {
	case *qdrant.PointId_Num:
		return strconv.FormatUint(v.Num, 10)
	case *qdrant.PointId_Uuid:
		return v.Uuid
	}
	return ""
}
