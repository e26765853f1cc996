package cli

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scour/internal/core/domain"
	"github.com/custodia-labs/scour/internal/core/services"
	"github.com/custodia-labs/scour/internal/logger"
)

var kbPreviewMax int

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Inspect the local knowledge base",
}

var kbCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Show how many documents are stored",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := wire(); err != nil {
			return err
		}
		// The store is only opened when an embedding provider is
		// configured; open it directly for a read-only count.
		if knowledgeStore == nil {
			store, err := buildStore(appConfig)
			if err != nil {
				return err
			}
			knowledgeStore = store
		}
		n, err := knowledgeStore.Count(cmd.Context())
		if err != nil {
			return fmt.Errorf("counting documents: %w", err)
		}
		cmd.Printf("%d documents stored\n", n)
		return nil
	},
}

var kbPreviewCmd = &cobra.Command{
	Use:   "preview [query]",
	Short: "Show what a search would persist, without writing",
	Long: `Queries every configured source and reports the rows a real search
would upsert into the knowledge base. Nothing is embedded or written,
so this works without an embedding provider configured.`,
	Args: cobra.ExactArgs(1),
	RunE: runKBPreview,
}

func init() {
	kbPreviewCmd.Flags().IntVarP(&kbPreviewMax, "max-results", "n", 0, "maximum results per source (default from config)")
	kbCmd.AddCommand(kbCountCmd)
	kbCmd.AddCommand(kbPreviewCmd)
	rootCmd.AddCommand(kbCmd)
}

func runKBPreview(cmd *cobra.Command, args []string) error {
	if err := wire(); err != nil {
		return err
	}
	query := args[0]

	maxResults := kbPreviewMax
	if maxResults <= 0 {
		maxResults = appConfig.Search.MaxResults
	}

	var (
		mu   sync.Mutex
		docs []domain.Document
		wg   sync.WaitGroup
	)
	for _, adapter := range sourceAdapters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			found, err := adapter.Search(cmd.Context(), query, maxResults)
			if err != nil {
				logger.Warn("%s search failed: %v", adapter.Type(), err)
				return
			}
			mu.Lock()
			docs = append(docs, found...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	// Dry run never touches the embedder or the store.
	indexer := indexService
	if indexer == nil {
		indexer = services.NewIndexService(nil, nil)
	}
	result, err := indexer.Upsert(cmd.Context(), docs, true)
	if err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}

	cmd.Println(result.Message)
	for _, ref := range result.Results {
		cmd.Printf("  %s\n", ref.Title)
		if ref.URL != "" {
			cmd.Printf("    %s\n", ref.URL)
		}
	}
	return nil
}
