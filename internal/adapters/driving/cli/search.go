package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scour/internal/core/domain"
)

var (
	searchSource     string
	searchContext    string
	searchMaxResults int
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search Q&A sites, code hosts and documentation",
	Long: `Runs the query against every configured source in parallel, then
merges, deduplicates and ranks the results. Use --source to query a
single provider in its native order, or --context to steer source
selection by hand instead of keyword auto-detection.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchSource, "source", "s", "", "source to search: qa_site, code_host, docs or all (default all)")
	searchCmd.Flags().StringVarP(&searchContext, "context", "c", "auto", "query context: auto, error, code_example, documentation, best_practice or all")
	searchCmd.Flags().IntVarP(&searchMaxResults, "max-results", "n", 0, "maximum number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := wire(); err != nil {
		return err
	}
	query := args[0]

	queryCtx := domain.QueryContext(searchContext)
	if !queryCtx.Valid() {
		return fmt.Errorf("unknown context %q", searchContext)
	}

	opts := domain.SearchOptions{
		Context:    queryCtx,
		MaxResults: searchMaxResults,
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = appConfig.Search.MaxResults
	}
	if searchSource != "" {
		source, err := domain.ParseSourceType(searchSource)
		if err != nil {
			return err
		}
		opts.Source = source
	}

	resp, err := searchService.SmartSearch(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, resp)
	}
	return outputSearchText(cmd, resp)
}

func outputSearchJSON(cmd *cobra.Command, resp *domain.SearchResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, resp *domain.SearchResponse) error {
	if resp.Failed() {
		return fmt.Errorf("search failed: %s", resp.Error)
	}
	if len(resp.Results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, result := range resp.Results {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, result.Title, result.Score)
		cmd.Printf("      %s  %s\n", result.Source, result.URL)
		cmd.Println()
	}

	if resp.Metadata != nil {
		cmd.Printf("%d results in %.0fms (context: %s)\n",
			resp.TotalResults, resp.Metadata.ElapsedMS, resp.Metadata.Context)
	}
	return nil
}
