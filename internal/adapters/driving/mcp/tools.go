package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/scour/internal/core/domain"
)

// SearchInput is the input schema for the smart_search tool.
type SearchInput struct {
	Query      string `json:"query" jsonschema:"the search query"`
	Source     string `json:"source,omitempty" jsonschema:"source to search: qa_site, code_host, docs or all (default all)"`
	Context    string `json:"context,omitempty" jsonschema:"query context: auto, error, code_example, documentation, best_practice or all (default auto)"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// SearchOutput is the output schema for the smart_search tool.
type SearchOutput struct {
	Results []SearchResultOutput   `json:"results"`
	Count   int                    `json:"count"`
	Message string                 `json:"message,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Meta    *domain.SearchMetadata `json:"metadata,omitempty"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Source string  `json:"source"`
	Title  string  `json:"title"`
	URL    string  `json:"url"`
	Score  float64 `json:"score"`
}

// CacheStatsInput is the (empty) input schema for the cache_stats tool.
type CacheStatsInput struct{}

// CacheStatsOutput is the output schema for the cache_stats tool.
type CacheStatsOutput struct {
	Size    int     `json:"size"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "smart_search",
		Description: "Search Q&A sites, code hosts and documentation for programming knowledge",
	}, s.handleSearch)

	if s.ports.Cache != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "cache_stats",
			Description: "Report search result cache statistics",
		}, s.handleCacheStats)
	}
}

// handleSearch handles the smart_search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	queryCtx := domain.QueryContext(input.Context)
	if input.Context == "" {
		queryCtx = domain.ContextAuto
	} else if !queryCtx.Valid() {
		return nil, SearchOutput{}, fmt.Errorf("unknown context %q", input.Context)
	}

	var source domain.SourceType
	if input.Source != "" {
		parsed, err := domain.ParseSourceType(input.Source)
		if err != nil {
			return nil, SearchOutput{}, err
		}
		source = parsed
	}

	resp, err := s.ports.Search.SmartSearch(ctx, input.Query, domain.SearchOptions{
		Context:    queryCtx,
		Source:     source,
		MaxResults: input.MaxResults,
	})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(resp.Results)),
		Count:   resp.TotalResults,
		Message: resp.Message,
		Error:   resp.Error,
		Meta:    resp.Metadata,
	}
	for i := range resp.Results {
		output.Results[i] = SearchResultOutput{
			Source: string(resp.Results[i].Source),
			Title:  resp.Results[i].Title,
			URL:    resp.Results[i].URL,
			Score:  resp.Results[i].Score,
		}
	}

	return nil, output, nil
}

// handleCacheStats handles the cache_stats tool invocation.
func (s *Server) handleCacheStats(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ CacheStatsInput,
) (*mcp.CallToolResult, CacheStatsOutput, error) {
	stats := s.ports.Cache.Stats()
	return nil, CacheStatsOutput{
		Size:    stats.Size,
		Hits:    stats.Hits,
		Misses:  stats.Misses,
		HitRate: stats.HitRate(),
	}, nil
}
