// Package file loads application configuration from a TOML file.
// Configuration lives in ~/.scour/config.toml by default; every field
// has a usable zero-config default so the file is optional.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full application configuration.
type Config struct {
	Verbose   bool            `toml:"verbose"`
	Search    SearchConfig    `toml:"search"`
	QASite    QASiteConfig    `toml:"qa_site"`
	CodeHost  CodeHostConfig  `toml:"code_host"`
	Docs      DocsConfig      `toml:"docs"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Storage   StorageConfig   `toml:"storage"`
	Cache     CacheConfig     `toml:"cache"`
}

// SearchConfig tunes the search orchestrator.
type SearchConfig struct {
	// MaxResults is the default result cap per search.
	MaxResults int `toml:"max_results"`

	// TimeoutSeconds bounds a whole search call.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// QASiteConfig configures the Q&A source.
type QASiteConfig struct {
	// Site is the Stack Exchange site slug.
	Site string `toml:"site"`

	// APIKey raises the request quota (optional).
	APIKey string `toml:"api_key"`
}

// CodeHostConfig configures the code host source.
type CodeHostConfig struct {
	// Token is a personal access token (optional).
	Token string `toml:"token"`

	// BaseURL points at an enterprise instance (optional).
	BaseURL string `toml:"base_url"`
}

// DocsConfig configures the documentation source.
type DocsConfig struct {
	// BaseURL is the documentation host root. The docs source is
	// disabled when empty.
	BaseURL string `toml:"base_url"`

	// Project scopes searches to one documentation project (optional).
	Project string `toml:"project"`

	// FetchSnippets enables best-effort page text fetching.
	FetchSnippets bool `toml:"fetch_snippets"`
}

// EmbeddingConfig configures the embedding provider. Persistence of
// search results is disabled when no provider is configured.
type EmbeddingConfig struct {
	// Provider selects the backend: "openai" or "ollama".
	Provider string `toml:"provider"`

	// APIKey authenticates to the provider (openai).
	APIKey string `toml:"api_key"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// Model overrides the embedding model.
	Model string `toml:"model"`
}

// StorageConfig configures the knowledge store.
type StorageConfig struct {
	// Backend selects the store: "sqlite" (default) or "memory".
	Backend string `toml:"backend"`

	// DataDir is where the sqlite database lives
	// (default ~/.scour/data).
	DataDir string `toml:"data_dir"`
}

// CacheConfig tunes the search result cache.
type CacheConfig struct {
	// TTLSeconds is how long cached search results stay fresh.
	TTLSeconds int `toml:"ttl_seconds"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Search: SearchConfig{
			MaxResults:     5,
			TimeoutSeconds: 20,
		},
		QASite: QASiteConfig{
			Site: "stackoverflow",
		},
		Storage: StorageConfig{
			Backend: "sqlite",
		},
		Cache: CacheConfig{
			TTLSeconds: 300,
		},
	}
}

// DefaultPath returns the default config file location,
// ~/.scour/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".scour", "config.toml"), nil
}

// Load reads configuration from path. An empty path means the default
// location; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// Save writes configuration to path, creating the directory if needed.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// applyDefaults fills zero values the file left out.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Search.MaxResults <= 0 {
		cfg.Search.MaxResults = def.Search.MaxResults
	}
	if cfg.Search.TimeoutSeconds <= 0 {
		cfg.Search.TimeoutSeconds = def.Search.TimeoutSeconds
	}
	if cfg.QASite.Site == "" {
		cfg.QASite.Site = def.QASite.Site
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = def.Storage.Backend
	}
	if cfg.Cache.TTLSeconds <= 0 {
		cfg.Cache.TTLSeconds = def.Cache.TTLSeconds
	}
}
