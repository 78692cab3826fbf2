// Package domain defines the core business entities for ragsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: An incoming unit of content with a caller-asserted status
//   - ChunkRecord: A chunk as stored in the backing vector index
//   - Vectors: The three vector representations of a chunk's content
//   - SessionMeta: Bookkeeping for a named chunk collection
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
