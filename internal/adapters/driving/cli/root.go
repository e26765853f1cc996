// Package cli implements the scour command line interface.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scour/internal/adapters/driven/cache/memory"
	configfile "github.com/custodia-labs/scour/internal/adapters/driven/config/file"
	"github.com/custodia-labs/scour/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/scour/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/scour/internal/adapters/driven/sources/cached"
	"github.com/custodia-labs/scour/internal/adapters/driven/sources/codehost"
	"github.com/custodia-labs/scour/internal/adapters/driven/sources/docs"
	"github.com/custodia-labs/scour/internal/adapters/driven/sources/qasite"
	storagememory "github.com/custodia-labs/scour/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/scour/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/scour/internal/core/ports/driven"
	"github.com/custodia-labs/scour/internal/core/ports/driving"
	"github.com/custodia-labs/scour/internal/core/services"
	"github.com/custodia-labs/scour/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath  string
	verboseFlag bool
)

// Wired services, populated by wire().
var (
	appConfig      *configfile.Config
	resultCache    driven.ResultCache
	sourceAdapters []driven.SourceAdapter
	searchService  driving.SearchService
	indexService   driving.IndexService
	knowledgeStore driven.KnowledgeStore
)

var rootCmd = &cobra.Command{
	Use:   "scour",
	Short: "Multi-source knowledge search for developers",
	Long: `scour searches Q&A sites, code hosts and documentation in one
query, merges and ranks the results, and persists what it finds into a
local knowledge base.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.scour/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output")
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if knowledgeStore != nil {
			_ = knowledgeStore.Close()
		}
	}()
	return rootCmd.Execute()
}

// wire builds the service graph from configuration. Commands that need
// services call it once; commands like version never pay the cost.
func wire() error {
	if searchService != nil {
		return nil
	}

	cfg, err := configfile.Load(configPath)
	if err != nil {
		return err
	}
	appConfig = cfg
	logger.SetVerbose(verboseFlag || cfg.Verbose)

	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	cache := memory.New(cacheTTL)
	resultCache = cache

	adapters, err := buildAdapters(cfg, cache, cacheTTL)
	if err != nil {
		return err
	}
	sourceAdapters = adapters

	indexService = buildIndexer(cfg)

	search := services.NewSearchService(adapters, indexService)
	search.SetTimeout(time.Duration(cfg.Search.TimeoutSeconds) * time.Second)
	searchService = search

	return nil
}

// buildAdapters constructs the configured source adapters, each behind
// the caching decorator.
func buildAdapters(cfg *configfile.Config, cache driven.ResultCache, ttl time.Duration) ([]driven.SourceAdapter, error) {
	var adapters []driven.SourceAdapter

	qa := qasite.New(qasite.Config{
		Site: cfg.QASite.Site,
		Key:  cfg.QASite.APIKey,
	})
	adapters = append(adapters, cached.New(qa, cache, ttl))

	code, err := codehost.New(codehost.Config{
		Token:   cfg.CodeHost.Token,
		BaseURL: cfg.CodeHost.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("configuring code host: %w", err)
	}
	adapters = append(adapters, cached.New(code, cache, ttl))

	// The docs source needs a host to search.
	if cfg.Docs.BaseURL != "" {
		doc := docs.New(docs.Config{
			BaseURL:       cfg.Docs.BaseURL,
			Project:       cfg.Docs.Project,
			FetchSnippets: cfg.Docs.FetchSnippets,
		})
		adapters = append(adapters, cached.New(doc, cache, ttl))
	}

	return adapters, nil
}

// buildIndexer constructs the embedding and persistence pipeline.
// Without an embedding provider search still works, results are just
// not persisted.
func buildIndexer(cfg *configfile.Config) driving.IndexService {
	var embedder driven.EmbeddingService

	switch cfg.Embedding.Provider {
	case "openai":
		svc, err := openai.NewEmbeddingService(openai.Config{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
		if err != nil {
			logger.Warn("embedding disabled: %v", err)
			return nil
		}
		embedder = svc
	case "ollama":
		embedder = ollama.NewEmbeddingService(ollama.Config{
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		})
	case "":
		logger.Debug("no embedding provider configured, persistence disabled")
		return nil
	default:
		logger.Warn("unknown embedding provider %q, persistence disabled", cfg.Embedding.Provider)
		return nil
	}

	store, err := buildStore(cfg)
	if err != nil {
		logger.Warn("knowledge store unavailable: %v", err)
		return nil
	}
	knowledgeStore = store

	return services.NewIndexService(embedder, store)
}

// buildStore opens the configured knowledge store backend.
func buildStore(cfg *configfile.Config) (driven.KnowledgeStore, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return storagememory.NewKnowledgeStore(), nil
	case "sqlite", "":
		return sqlite.NewStore(cfg.Storage.DataDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
