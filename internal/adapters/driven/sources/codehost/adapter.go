// Package codehost searches a GitHub style code host across three
// result kinds: code files, repositories, and issues. The three
// searches run in parallel and their results are merged in a fixed
// code, repository, issue order so output is stable for a given set of
// provider responses.
package codehost

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/go-github/v80/github"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/sync/semaphore"

	"github.com/custodia-labs/scour/internal/core/domain"
	"github.com/custodia-labs/scour/internal/core/ports/driven"
	"github.com/custodia-labs/scour/internal/fetch"
	"github.com/custodia-labs/scour/internal/htmltext"
	"github.com/custodia-labs/scour/internal/logger"
)

const (
	// maxConcurrent bounds in-flight searches. Code search is the most
	// rate limited provider endpoint, so this sits below the other
	// adapters.
	maxConcurrent = 3

	// minPerKind is the floor for results requested per result kind.
	minPerKind = 3

	issueBodyLimit = 1500
)

// Config holds construction parameters for the adapter.
type Config struct {
	// Token is a personal access token. Unauthenticated searches work
	// but hit much lower rate limits.
	Token string

	// BaseURL points the client at a GitHub Enterprise instance or a
	// test server. Empty means api.github.com.
	BaseURL string

	// HTTPClient overrides the underlying HTTP client, mainly for
	// tests. When nil a retrying transport is used.
	HTTPClient *http.Client
}

// Adapter implements driven.SourceAdapter for code hosts.
type Adapter struct {
	client *github.Client
	sem    *semaphore.Weighted
}

var _ driven.SourceAdapter = (*Adapter)(nil)

// New creates a code host adapter from the given config.
func New(cfg Config) (*Adapter, error) {
	hc := cfg.HTTPClient
	if hc == nil {
		var rt http.RoundTripper = &fetch.Transport{Policy: fetch.DefaultRetryPolicy()}
		if cfg.Token != "" {
			rt = &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
				Base:   rt,
			}
		}
		hc = &http.Client{Transport: rt, Timeout: 30 * time.Second}
	}

	client := github.NewClient(hc)
	if cfg.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(cfg.BaseURL, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("code host base URL: %w", err)
		}
	}

	return &Adapter{
		client: client,
		sem:    semaphore.NewWeighted(maxConcurrent),
	}, nil
}

// Type reports the source type served by this adapter.
func (a *Adapter) Type() domain.SourceType {
	return domain.SourceCodeHost
}

// Search fans out to the code, repository, and issue search endpoints,
// splitting maxResults across the three kinds. A kind that fails is
// skipped; the search errors only when every kind fails.
func (a *Adapter) Search(ctx context.Context, query string, maxResults int) ([]domain.Document, error) {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer a.sem.Release(1)

	perKind := maxResults / 3
	if perKind < minPerKind {
		perKind = minPerKind
	}

	var (
		wg    sync.WaitGroup
		code  []domain.Document
		repos []domain.Document
		iss   []domain.Document
		errs  [3]error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		code, errs[0] = a.searchCode(ctx, query, perKind)
	}()
	go func() {
		defer wg.Done()
		repos, errs[1] = a.searchRepositories(ctx, query, perKind)
	}()
	go func() {
		defer wg.Done()
		iss, errs[2] = a.searchIssues(ctx, query, perKind)
	}()
	wg.Wait()

	var failed int
	for _, err := range errs {
		if err != nil {
			failed++
			logger.Warn("code host partial failure: %v", err)
		}
	}
	if failed == len(errs) {
		return nil, errors.Join(errs[0], errs[1], errs[2])
	}

	docs := make([]domain.Document, 0, len(code)+len(repos)+len(iss))
	docs = append(docs, code...)
	docs = append(docs, repos...)
	docs = append(docs, iss...)
	if len(docs) > maxResults {
		docs = docs[:maxResults]
	}
	logger.Debug("code host returned %d results for %q", len(docs), query)
	return docs, nil
}

func (a *Adapter) searchCode(ctx context.Context, query string, limit int) ([]domain.Document, error) {
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: limit}}
	result, _, err := a.client.Search.Code(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("code search: %w", err)
	}

	now := time.Now().UTC()
	docs := make([]domain.Document, 0, len(result.CodeResults))
	for _, item := range result.CodeResults {
		repo := item.GetRepository().GetFullName()
		docs = append(docs, domain.Document{
			ID:         uuid.NewString(),
			SourceType: domain.SourceCodeHost,
			SourceURL:  item.GetHTMLURL(),
			Title:      fmt.Sprintf("%s: %s", repo, item.GetPath()),
			Content:    fmt.Sprintf("Code file %s in repository %s", item.GetPath(), repo),
			Metadata: map[string]any{
				"type":       "code",
				"path":       item.GetPath(),
				"repository": repo,
			},
			FetchedAt: now,
		})
	}
	return docs, nil
}

func (a *Adapter) searchRepositories(ctx context.Context, query string, limit int) ([]domain.Document, error) {
	opts := &github.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: limit},
	}
	result, _, err := a.client.Search.Repositories(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("repository search: %w", err)
	}

	now := time.Now().UTC()
	docs := make([]domain.Document, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		docs = append(docs, domain.Document{
			ID:         uuid.NewString(),
			SourceType: domain.SourceCodeHost,
			SourceURL:  repo.GetHTMLURL(),
			Title:      repo.GetFullName(),
			Content:    repo.GetDescription(),
			Metadata: map[string]any{
				"type":        "repository",
				"stars":       repo.GetStargazersCount(),
				"language":    repo.GetLanguage(),
				"description": repo.GetDescription(),
			},
			FetchedAt: now,
		})
	}
	return docs, nil
}

func (a *Adapter) searchIssues(ctx context.Context, query string, limit int) ([]domain.Document, error) {
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: limit}}
	result, _, err := a.client.Search.Issues(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("issue search: %w", err)
	}

	now := time.Now().UTC()
	docs := make([]domain.Document, 0, len(result.Issues))
	for _, issue := range result.Issues {
		docs = append(docs, domain.Document{
			ID:         uuid.NewString(),
			SourceType: domain.SourceCodeHost,
			SourceURL:  issue.GetHTMLURL(),
			Title:      issue.GetTitle(),
			Content:    htmltext.Truncate(issue.GetBody(), issueBodyLimit),
			Metadata: map[string]any{
				"type":   "issue",
				"state":  issue.GetState(),
				"number": issue.GetNumber(),
			},
			FetchedAt: now,
		})
	}
	return docs, nil
}
