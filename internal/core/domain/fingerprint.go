package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Fingerprint computes the content-addressed identity of a chunk from its
// provenance and payload. It is a pure function over the UTF-8 concatenation
// of the four fields with "-" separators; callers MUST recompute it with the
// same inputs or reconciliation will treat an existing chunk as new.
func Fingerprint(filename, filetype string, ordinal int, content string) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s-%s-%d-%s", filename, filetype, ordinal, content))
	return hex.EncodeToString(sum[:])
}
