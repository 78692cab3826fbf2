// Package cli provides the cobra command tree for the ragsync binary.
// Commands talk to core services exclusively through the driving ports.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/ragsync-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragsync-cli/internal/adapters/driven/embedding/local"
	"github.com/custodia-labs/ragsync-cli/internal/adapters/driven/embedding/ollama"
	memorystore "github.com/custodia-labs/ragsync-cli/internal/adapters/driven/store/memory"
	qdrantstore "github.com/custodia-labs/ragsync-cli/internal/adapters/driven/store/qdrant"
	"github.com/custodia-labs/ragsync-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ragsync-cli/internal/chunker"
	"github.com/custodia-labs/ragsync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ragsync-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ragsync-cli/internal/core/services"
	"github.com/custodia-labs/ragsync-cli/internal/logger"
)

var version = "0.3.0"

var (
	configPath string
	verbose    bool

	cfg *configfile.Config

	synchronizer   driving.Synchronizer
	searchService  driving.SearchService
	sessionService driving.SessionService
	splitter       *chunker.Splitter

	closers []func() error
)

var rootCmd = &cobra.Command{
	Use:   "ragsync",
	Short: "Content-addressed chunk synchronization and hybrid retrieval",
	Long: `ragsync keeps a remote hybrid-search index synchronized with the latest
chunk set for a named session, supporting incremental edits at chunk
granularity, and answers retrieval queries over the indexed content.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
	PersistentPostRunE: func(*cobra.Command, []string) error {
		return closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.ragsync/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a cancellable context, which
// long-running commands such as watch observe.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// initServices loads configuration and wires adapters into core services.
func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	// Version and help need no backing services.
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	// Already wired, either by a previous run or by a test.
	if synchronizer != nil && searchService != nil && sessionService != nil {
		return nil
	}

	var err error
	cfg, err = configfile.Load(configPath)
	if err != nil {
		return err
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}
	closers = append(closers, embedder.Close)

	store, err := buildStore(cfg)
	if err != nil {
		return err
	}
	closers = append(closers, store.Close)

	meta, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open metadata store: %w", err)
	}
	closers = append(closers, meta.Close)

	syncOpts := []services.SyncOption{services.WithBatchSize(cfg.Sync.BatchSize)}
	if cfg.Sync.WriteRate > 0 {
		syncOpts = append(syncOpts, services.WithWriteRate(cfg.Sync.WriteRate))
	}

	synchronizer = services.NewSyncEngine(store, embedder, syncOpts...)
	searchService = services.NewRetriever(store, embedder)
	sessionService = services.NewSessionManager(store, meta.SessionStore())

	chunkOpts := []chunker.Option{chunker.WithChunkSize(cfg.Chunking.ChunkSize)}
	if cfg.Chunking.Delimiter != "" {
		chunkOpts = append(chunkOpts, chunker.WithDelimiter(cfg.Chunking.Delimiter))
	}
	splitter = chunker.New(chunkOpts...)

	return nil
}

func buildStore(cfg *configfile.Config) (driven.VectorStore, error) {
	switch cfg.Store.Backend {
	case "", "memory":
		return memorystore.NewStore(), nil
	case "qdrant":
		return qdrantstore.NewStore(qdrantstore.Config{
			Host:       cfg.Store.Host,
			Port:       cfg.Store.Port,
			APIKey:     cfg.Store.APIKey,
			UseTLS:     cfg.Store.UseTLS,
			Collection: cfg.Store.Collection,
			Timeout:    storeTimeout(cfg),
			Dimensions: cfg.Embedding.Dimensions,
			// Late vectors always come from the local encoder, so the
			// collection's late space must match its token geometry.
			LateDimensions: local.TokenDimensions,
		})
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func buildEmbedder(cfg *configfile.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Backend {
	case "", "local":
		return local.NewEncoder(local.WithDimensions(cfg.Embedding.Dimensions)), nil
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		}), nil
	}
	return nil, fmt.Errorf("unknown embedding backend %q", cfg.Embedding.Backend)
}

func storeTimeout(cfg *configfile.Config) time.Duration {
	if cfg.Store.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(cfg.Store.TimeoutSeconds) * time.Second
}

func closeServices() error {
	var firstErr error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	closers = nil
	return firstErr
}
