// Package qasite searches a Stack Exchange style Q&A API and converts
// questions into documents. Answered questions with high vote scores
// surface first because the provider sorts by relevance and the
// orchestrator folds the vote score into ranking.
package qasite

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/custodia-labs/scour/internal/core/domain"
	"github.com/custodia-labs/scour/internal/core/ports/driven"
	"github.com/custodia-labs/scour/internal/fetch"
	"github.com/custodia-labs/scour/internal/htmltext"
	"github.com/custodia-labs/scour/internal/logger"
)

const (
	// DefaultBaseURL is the public Stack Exchange API endpoint.
	DefaultBaseURL = "https://api.stackexchange.com"

	// DefaultSite is the site searched when none is configured.
	DefaultSite = "stackoverflow"

	// maxConcurrent bounds in-flight requests to the provider.
	maxConcurrent = 5

	searchTimeout = 15 * time.Second
)

// Config holds construction parameters for the adapter.
type Config struct {
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string

	// Site selects the Stack Exchange site (default "stackoverflow").
	Site string

	// Key is an optional API key that raises the request quota.
	Key string

	// Fetcher overrides the HTTP client, mainly for tests.
	Fetcher *fetch.Client
}

// Adapter implements driven.SourceAdapter for Q&A sites.
type Adapter struct {
	baseURL string
	site    string
	key     string
	client  *fetch.Client
	sem     *semaphore.Weighted
}

var _ driven.SourceAdapter = (*Adapter)(nil)

// New creates a Q&A site adapter from the given config, applying
// defaults for any zero field.
func New(cfg Config) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Site == "" {
		cfg.Site = DefaultSite
	}
	if cfg.Fetcher == nil {
		cfg.Fetcher = fetch.NewClient(fetch.Config{Timeout: searchTimeout})
	}
	return &Adapter{
		baseURL: cfg.BaseURL,
		site:    cfg.Site,
		key:     cfg.Key,
		client:  cfg.Fetcher,
		sem:     semaphore.NewWeighted(maxConcurrent),
	}
}

// Type reports the source type served by this adapter.
func (a *Adapter) Type() domain.SourceType {
	return domain.SourceQASite
}

type searchResponse struct {
	Items []questionItem `json:"items"`
}

type questionItem struct {
	QuestionID int      `json:"question_id"`
	Title      string   `json:"title"`
	Link       string   `json:"link"`
	Body       string   `json:"body"`
	Tags       []string `json:"tags"`
	IsAnswered bool     `json:"is_answered"`
	Score      int      `json:"score"`
}

// Search queries the advanced search endpoint sorted by relevance and
// returns up to maxResults question documents.
func (a *Adapter) Search(ctx context.Context, query string, maxResults int) ([]domain.Document, error) {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer a.sem.Release(1)

	params := url.Values{
		"order":    {"desc"},
		"sort":     {"relevance"},
		"q":        {query},
		"site":     {a.site},
		"filter":   {"withbody"},
		"pagesize": {strconv.Itoa(maxResults)},
	}
	if a.key != "" {
		params.Set("key", a.key)
	}

	resp, err := a.client.Get(ctx, a.baseURL+"/2.3/search/advanced", params, nil)
	if err != nil {
		return nil, fmt.Errorf("qa site search: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("qa site search: unexpected status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return nil, fmt.Errorf("qa site search: decode response: %w", err)
	}

	docs := make([]domain.Document, 0, len(parsed.Items))
	now := time.Now().UTC()
	for _, item := range parsed.Items {
		docs = append(docs, domain.Document{
			ID:         uuid.NewString(),
			SourceType: domain.SourceQASite,
			SourceURL:  item.Link,
			Title:      html.UnescapeString(item.Title),
			Content:    htmltext.StripWithoutCode(item.Body),
			Metadata: map[string]any{
				"question_id": item.QuestionID,
				"tags":        item.Tags,
				"is_answered": item.IsAnswered,
				"score":       item.Score,
			},
			FetchedAt: now,
		})
	}
	logger.Debug("qa site returned %d results for %q", len(docs), query)
	return docs, nil
}
