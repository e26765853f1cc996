// Package docs searches a Read the Docs style documentation host. The
// search API returns page sections; when a section has no usable text
// the adapter falls back to fetching a short snippet of the page
// itself, best effort.
package docs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
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
	// maxConcurrent bounds in-flight requests to the provider.
	maxConcurrent = 4

	// snippetLimit caps the text pulled from a documentation page.
	snippetLimit = 1500

	searchTimeout  = 15 * time.Second
	snippetTimeout = 8 * time.Second
)

// Config holds construction parameters for the adapter.
type Config struct {
	// BaseURL is the documentation host root, for example
	// "https://docs.readthedocs.io". Required.
	BaseURL string

	// Project scopes the search to one documentation project when the
	// host serves several.
	Project string

	// Fetcher overrides the HTTP client, mainly for tests.
	Fetcher *fetch.Client

	// FetchSnippets enables fetching page text when a search hit
	// carries no section content.
	FetchSnippets bool
}

// Adapter implements driven.SourceAdapter for documentation hosts.
type Adapter struct {
	baseURL       string
	project       string
	client        *fetch.Client
	snippets      *fetch.Client
	fetchSnippets bool
	sem           *semaphore.Weighted
}

var _ driven.SourceAdapter = (*Adapter)(nil)

// New creates a documentation adapter from the given config.
func New(cfg Config) *Adapter {
	if cfg.Fetcher == nil {
		cfg.Fetcher = fetch.NewClient(fetch.Config{Timeout: searchTimeout})
	}
	return &Adapter{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		project:       cfg.Project,
		client:        cfg.Fetcher,
		snippets:      fetch.NewClient(fetch.Config{Timeout: snippetTimeout, Policy: fetch.RetryPolicy{MaxAttempts: 1}}),
		fetchSnippets: cfg.FetchSnippets,
		sem:           semaphore.NewWeighted(maxConcurrent),
	}
}

// Type reports the source type served by this adapter.
func (a *Adapter) Type() domain.SourceType {
	return domain.SourceDocs
}

type searchResponse struct {
	Results []pageResult `json:"results"`
}

type pageResult struct {
	Title   string      `json:"title"`
	Domain  string      `json:"domain"`
	Path    string      `json:"path"`
	Project projectInfo `json:"project"`
	Blocks  []pageBlock `json:"blocks"`
}

type projectInfo struct {
	Slug string `json:"slug"`
}

type pageBlock struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Search queries the host's search API and returns up to maxResults
// documentation page documents.
func (a *Adapter) Search(ctx context.Context, query string, maxResults int) ([]domain.Document, error) {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer a.sem.Release(1)

	q := query
	if a.project != "" {
		q = fmt.Sprintf("project:%s %s", a.project, query)
	}
	params := url.Values{
		"q":         {q},
		"page_size": {strconv.Itoa(maxResults)},
	}

	resp, err := a.client.Get(ctx, a.baseURL+"/api/v3/search/", params, nil)
	if err != nil {
		return nil, fmt.Errorf("docs search: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("docs search: unexpected status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return nil, fmt.Errorf("docs search: decode response: %w", err)
	}

	docs := make([]domain.Document, 0, len(parsed.Results))
	now := time.Now().UTC()
	for _, page := range parsed.Results {
		if len(docs) >= maxResults {
			break
		}
		pageURL := page.Domain + page.Path
		content := blockText(page.Blocks)
		if content == "" && a.fetchSnippets {
			content = a.pageSnippet(ctx, pageURL)
		}
		docs = append(docs, domain.Document{
			ID:         uuid.NewString(),
			SourceType: domain.SourceDocs,
			SourceURL:  pageURL,
			Title:      page.Title,
			Content:    content,
			Metadata: map[string]any{
				"project": page.Project.Slug,
				"path":    page.Path,
			},
			FetchedAt: now,
		})
	}
	logger.Debug("docs returned %d results for %q", len(docs), query)
	return docs, nil
}

// blockText joins section text from search blocks, stripping any
// residual markup.
func blockText(blocks []pageBlock) string {
	var parts []string
	for _, b := range blocks {
		text := htmltext.Strip(b.Content)
		if text == "" {
			continue
		}
		if b.Title != "" {
			text = b.Title + ": " + text
		}
		parts = append(parts, text)
	}
	return htmltext.Truncate(strings.Join(parts, "\n"), snippetLimit)
}

// pageSnippet fetches the page and returns a short plain-text excerpt.
// Failures are logged and swallowed, the search result stands on its
// own.
func (a *Adapter) pageSnippet(ctx context.Context, pageURL string) string {
	resp, err := a.snippets.Get(ctx, pageURL, nil, nil)
	if err != nil || resp.StatusCode != http.StatusOK {
		logger.Debug("docs snippet fetch failed url=%s err=%v", pageURL, err)
		return ""
	}
	return htmltext.Truncate(htmltext.Strip(string(resp.Body)), snippetLimit)
}
