package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragsync-cli/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [session] [question]", searchCmd.Use)
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_RequiresTwoArgs(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "only-session"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestSearchCmd_EmptySession(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "s1", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No results found")
}

func TestSearchCmd_FindsUploadedContent(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	report, err := synchronizer.Synchronize(context.Background(), "s1", []domain.Chunk{{
		Fingerprint: domain.Fingerprint("doc.txt", "txt", 1, "the quick brown fox"),
		Filename:    "doc.txt",
		Filetype:    "txt",
		Ordinal:     1,
		Content:     "the quick brown fox",
		Status:      domain.StatusNew,
	}}, true)
	require.NoError(t, err)
	require.Equal(t, 1, report.Applied)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "s1", "quick brown fox"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err = rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "doc.txt")
}

func TestSearchCmd_ServiceNotConfigured(t *testing.T) {
	oldService := searchService
	searchService = nil
	defer func() { searchService = oldService }()

	err := runSearch(searchCmd, []string{"s1", "question"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search service not configured")
}

func TestOutputSearchJSON_EmptyResults(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	err := outputSearchJSON(rootCmd, []domain.SearchResult{})

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[]")
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", snippet("short", 120))
	assert.Equal(t, "aaaa…", snippet("aaaaaaaaaa", 4))
}
