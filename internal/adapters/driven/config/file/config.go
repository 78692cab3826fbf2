// Package file provides TOML-backed configuration for the ragsync CLI,
// stored in the ragsync config directory.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full engine configuration. A missing config file yields
// pure defaults: memory store, local embeddings.
type Config struct {
	// DataDir is the directory for local state (metadata database).
	// Defaults to ~/.ragsync/data.
	DataDir string `toml:"data_dir"`

	Store     StoreConfig     `toml:"store"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Sync      SyncConfig      `toml:"sync"`
	Chunking  ChunkingConfig  `toml:"chunking"`
}

// StoreConfig selects and configures the backing vector store.
type StoreConfig struct {
	// Backend is "memory" or "qdrant".
	Backend string `toml:"backend"`

	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	APIKey     string `toml:"api_key"`
	UseTLS     bool   `toml:"use_tls"`
	Collection string `toml:"collection"`

	// TimeoutSeconds bounds every store call.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// EmbeddingConfig selects and configures the embedding service.
type EmbeddingConfig struct {
	// Backend is "local" or "ollama".
	Backend string `toml:"backend"`

	BaseURL    string `toml:"base_url"`
	Model      string `toml:"model"`
	Dimensions int    `toml:"dimensions"`
}

// SyncConfig tunes the batched writer.
type SyncConfig struct {
	// BatchSize is the number of records per bulk write call.
	BatchSize int `toml:"batch_size"`

	// WriteRate caps bulk write calls per second. Zero means unthrottled.
	WriteRate float64 `toml:"write_rate"`
}

// ChunkingConfig tunes the document splitter.
type ChunkingConfig struct {
	ChunkSize int    `toml:"chunk_size"`
	Delimiter string `toml:"delimiter"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:        "memory",
			TimeoutSeconds: 30,
		},
		Embedding: EmbeddingConfig{
			Backend: "local",
		},
		Sync: SyncConfig{
			BatchSize: 20,
		},
	}
}

// Load reads configuration from path. If path is empty, it defaults to
// ~/.ragsync/config.toml. A missing file is not an error: the defaults
// apply.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".ragsync", "config.toml")
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
