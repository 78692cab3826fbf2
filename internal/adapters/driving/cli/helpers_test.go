package cli

import (
	"github.com/custodia-labs/ragsync-cli/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/ragsync-cli/internal/adapters/driven/store/memory"
	"github.com/custodia-labs/ragsync-cli/internal/chunker"
	"github.com/custodia-labs/ragsync-cli/internal/core/services"
)

// setupTestServices wires the command tree against the in-memory store and
// returns both the store (for seeding) and a cleanup restoring the previous
// wiring.
func setupTestServices() (*memory.Store, func()) {
	oldSync := synchronizer
	oldSearch := searchService
	oldSession := sessionService
	oldSplitter := splitter

	store := memory.NewStore()
	encoder := local.NewEncoder()
	synchronizer = services.NewSyncEngine(store, encoder)
	searchService = services.NewRetriever(store, encoder)
	sessionService = services.NewSessionManager(store, nil)
	splitter = chunker.New()

	return store, func() {
		synchronizer = oldSync
		searchService = oldSearch
		sessionService = oldSession
		splitter = oldSplitter
	}
}
