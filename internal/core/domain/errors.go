package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSessionNotFound indicates the session has no stored chunks and no
	// metadata.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable indicates the backing store is unreachable or timed
	// out. Always retryable by the caller with backoff, never silently
	// swallowed. An empty snapshot must never be inferred from this error.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)

// Retryable reports whether err is an infrastructure failure the caller
// should retry with backoff.
func Retryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// IntegrityError reports a chunk whose asserted lifecycle status contradicts
// the stored snapshot: a "modified" or "unchanged" assertion against a
// fingerprint the store has never seen. The offending chunk is rejected; the
// rest of the reconciliation proceeds.
type IntegrityError struct {
	// Fingerprint identifies the offending chunk. For "modified" chunks this
	// is the missing predecessor fingerprint.
	Fingerprint string

	// Status is the lifecycle status the caller asserted.
	Status ChunkStatus

	// Reason describes the contradiction.
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation: chunk %s asserted %q: %s", e.Fingerprint, e.Status, e.Reason)
}

// BatchError reports a write batch that failed mid-stream. Batches committed
// before the failure remain committed; the failed batch and all subsequent
// batches are unapplied so the caller can retry just the remainder.
type BatchError struct {
	// Batch is the zero-based index of the failed batch.
	Batch int

	// Committed is the number of records durably written before the failure.
	Committed int

	// Unapplied is the number of records in the failed and subsequent
	// batches.
	Unapplied int

	// Err is the underlying store error.
	Err error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %d failed (%d committed, %d unapplied): %v",
		e.Batch, e.Committed, e.Unapplied, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }
