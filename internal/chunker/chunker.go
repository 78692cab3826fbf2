// Package chunker splits plain-text and markdown documents into
// fingerprinted chunks ready for synchronization. The splitting policy is a
// simple collaborator: fixed character windows or an explicit delimiter.
// Fingerprints are computed here, once, with the identity function the
// reconciler keys on.
package chunker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 512

// Splitter turns raw document text into fingerprinted chunks.
type Splitter struct {
	chunkSize int
	delimiter string
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithDelimiter splits on an explicit delimiter instead of fixed windows.
func WithDelimiter(delimiter string) Option {
	return func(s *Splitter) {
		s.delimiter = delimiter
	}
}

// New creates a new splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Split chunks one document's content. Ordinals are 1-based in split order;
// every chunk is fingerprinted and marked StatusNew.
func (s *Splitter) Split(filename, content string) []domain.Chunk {
	if content == "" {
		return nil
	}

	filetype := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	base := filepath.Base(filename)

	var chunks []domain.Chunk
	ordinal := 1

	appendChunk := func(text string, page int) {
		chunks = append(chunks, domain.Chunk{
			Fingerprint: domain.Fingerprint(base, filetype, ordinal, text),
			Filename:    base,
			Filetype:    filetype,
			Ordinal:     ordinal,
			Page:        page,
			Content:     text,
			Status:      domain.StatusNew,
		})
		ordinal++
	}

	if s.delimiter != "" {
		for i, part := range strings.Split(content, s.delimiter) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			appendChunk(part, i+1)
		}
		return chunks
	}

	for start := 0; start < len(content); start += s.chunkSize {
		end := min(start+s.chunkSize, len(content))
		appendChunk(content[start:end], (start/s.chunkSize)+1)
	}
	return chunks
}

// SplitFile reads and chunks one file from disk.
func (s *Splitter) SplitFile(path string) ([]domain.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.Split(path, string(data)), nil
}

// SplitDir chunks every supported file in a directory, non-recursively.
// Supported filetypes are plain text and markdown; everything else is
// skipped (binary formats are extracted by an upstream collaborator).
func (s *Splitter) SplitDir(dir string) ([]domain.Chunk, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var chunks []domain.Chunk
	for _, entry := range entries {
		if entry.IsDir() || !Supported(entry.Name()) {
			continue
		}
		fileChunks, err := s.SplitFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, fileChunks...)
	}
	return chunks, nil
}

// Supported reports whether the splitter handles the file's type.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md", ".markdown":
		return true
	}
	return false
}
