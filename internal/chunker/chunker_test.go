package chunker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
)

func TestSplitter_Split_FixedWindows(t *testing.T) {
	s := New(WithChunkSize(4))

	chunks := s.Split("doc.txt", "abcdefghij")

	require.Len(t, chunks, 3)
	assert.Equal(t, "abcd", chunks[0].Content)
	assert.Equal(t, "efgh", chunks[1].Content)
	assert.Equal(t, "ij", chunks[2].Content)
	for i, chunk := range chunks {
		assert.Equal(t, i+1, chunk.Ordinal)
		assert.Equal(t, "doc.txt", chunk.Filename)
		assert.Equal(t, "txt", chunk.Filetype)
		assert.Equal(t, domain.StatusNew, chunk.Status)
		assert.Equal(t, domain.Fingerprint("doc.txt", "txt", i+1, chunk.Content), chunk.Fingerprint)
	}
}

func TestSplitter_Split_Delimiter(t *testing.T) {
	s := New(WithDelimiter("\n\n"))

	chunks := s.Split("notes.md", "first paragraph\n\nsecond paragraph\n\n\n\nthird")

	require.Len(t, chunks, 3)
	assert.Equal(t, "first paragraph", chunks[0].Content)
	assert.Equal(t, "second paragraph", chunks[1].Content)
	assert.Equal(t, "third", chunks[2].Content)
	assert.Equal(t, []int{1, 2, 3}, []int{chunks[0].Ordinal, chunks[1].Ordinal, chunks[2].Ordinal})
}

func TestSplitter_Split_Empty(t *testing.T) {
	s := New()

	assert.Nil(t, s.Split("doc.txt", ""))
}

func TestSplitter_Split_UsesBaseName(t *testing.T) {
	s := New()

	chunks := s.Split("/some/deep/path/doc.txt", "alpha")

	require.Len(t, chunks, 1)
	assert.Equal(t, "doc.txt", chunks[0].Filename)
}

func TestSplitter_SplitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 600)), 0o644))

	s := New()
	chunks, err := s.SplitFile(path)

	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0].Content, DefaultChunkSize)
}

func TestSplitter_SplitFile_Missing(t *testing.T) {
	s := New()

	_, err := s.SplitFile(filepath.Join(t.TempDir(), "missing.txt"))

	assert.Error(t, err)
}

func TestSplitter_SplitDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("beta"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.bin"), []byte{0x00, 0x01}, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	s := New()
	chunks, err := s.SplitDir(dir)

	require.NoError(t, err)
	require.Len(t, chunks, 2)
	names := []string{chunks[0].Filename, chunks[1].Filename}
	assert.Contains(t, names, "a.txt")
	assert.Contains(t, names, "b.md")
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.txt"))
	assert.True(t, Supported("a.md"))
	assert.True(t, Supported("A.MARKDOWN"))
	assert.False(t, Supported("a.pdf"))
	assert.False(t, Supported("noext"))
}
