package chunker

import "github.com/custodia-labs/ragsync-cli/internal/core/domain"

// Diff compares a freshly split chunk set against the stored records for a
// session and produces the change set to commit. Identity is the
// fingerprint; a chunk at the same filename and ordinal with a different
// fingerprint is an edit and carries its predecessor.
func Diff(stored []domain.ChunkRecord, incoming []domain.Chunk) []domain.Chunk {
	storedByFP := make(map[string]domain.ChunkRecord, len(stored))
	storedByPos := make(map[position]domain.ChunkRecord, len(stored))
	for _, rec := range stored {
		storedByFP[rec.Fingerprint] = rec
		storedByPos[position{rec.Filename, rec.Ordinal}] = rec
	}

	seen := make(map[string]bool, len(incoming))
	changes := make([]domain.Chunk, 0, len(incoming))

	for _, chunk := range incoming {
		seen[chunk.Fingerprint] = true

		if prev, ok := storedByFP[chunk.Fingerprint]; ok {
			chunk.Status = domain.StatusUnchanged
			chunk.Predecessor = prev.Predecessor
			changes = append(changes, chunk)
			continue
		}
		if prev, ok := storedByPos[position{chunk.Filename, chunk.Ordinal}]; ok {
			chunk.Status = domain.StatusModified
			chunk.Predecessor = prev.Fingerprint
			changes = append(changes, chunk)
			continue
		}
		chunk.Status = domain.StatusNew
		changes = append(changes, chunk)
	}

	for _, rec := range stored {
		if seen[rec.Fingerprint] {
			continue
		}
		// A replaced chunk is already covered by its successor's
		// "modified" entry.
		if replaced(rec, incoming, storedByFP) {
			continue
		}
		changes = append(changes, domain.Chunk{
			Fingerprint: rec.Fingerprint,
			Filename:    rec.Filename,
			Filetype:    rec.Filetype,
			Ordinal:     rec.Ordinal,
			Page:        rec.Page,
			Content:     rec.Content,
			Status:      domain.StatusDeleted,
		})
	}

	return changes
}

type position struct {
	filename string
	ordinal  int
}

func replaced(rec domain.ChunkRecord, incoming []domain.Chunk, storedByFP map[string]domain.ChunkRecord) bool {
	for _, chunk := range incoming {
		if chunk.Filename == rec.Filename && chunk.Ordinal == rec.Ordinal {
			_, unchanged := storedByFP[chunk.Fingerprint]
			return !unchanged
		}
	}
	return false
}
