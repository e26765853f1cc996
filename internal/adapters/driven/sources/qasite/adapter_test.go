package qasite

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scour/internal/core/domain"
	"github.com/custodia-labs/scour/internal/fetch"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{
		BaseURL: srv.URL,
		Fetcher: fetch.NewClient(fetch.Config{Policy: fetch.RetryPolicy{MaxAttempts: 1}}),
	})
}

func TestSearch_ParsesQuestions(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2.3/search/advanced", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "relevance", q.Get("sort"))
		assert.Equal(t, "desc", q.Get("order"))
		assert.Equal(t, "stackoverflow", q.Get("site"))
		assert.Equal(t, "withbody", q.Get("filter"))
		assert.Equal(t, "goroutine deadlock", q.Get("q"))
		assert.Equal(t, "5", q.Get("pagesize"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": [
			{
				"question_id": 42,
				"title": "Why does my goroutine deadlock? &amp; how to fix",
				"link": "https://stackoverflow.com/questions/42",
				"body": "<p>All goroutines are asleep.</p><pre><code>ch := make(chan int)</code></pre>",
				"tags": ["go", "concurrency"],
				"is_answered": true,
				"score": 17
			}
		]}`))
	})

	docs, err := adapter.Search(context.Background(), "goroutine deadlock", 5)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	doc := docs[0]
	assert.Equal(t, domain.SourceQASite, doc.SourceType)
	assert.Equal(t, "Why does my goroutine deadlock? & how to fix", doc.Title)
	assert.Equal(t, "https://stackoverflow.com/questions/42", doc.SourceURL)
	assert.Equal(t, "All goroutines are asleep.", doc.Content)
	assert.Equal(t, 42, doc.Metadata["question_id"])
	assert.Equal(t, true, doc.Metadata["is_answered"])
	assert.Equal(t, 17, doc.Metadata["score"])
	assert.NotEmpty(t, doc.ID)
	assert.False(t, doc.FetchedAt.IsZero())
}

func TestSearch_EmptyResults(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items": []}`))
	})

	docs, err := adapter.Search(context.Background(), "no matches at all", 5)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSearch_ServerError(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "throttled", http.StatusServiceUnavailable)
	})

	_, err := adapter.Search(context.Background(), "anything", 5)
	require.Error(t, err)
}

func TestSearch_BadJSON(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := adapter.Search(context.Background(), "anything", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestSearch_APIKeyForwarded(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer srv.Close()

	adapter := New(Config{BaseURL: srv.URL, Key: "secret"})
	_, err := adapter.Search(context.Background(), "q", 5)
	require.NoError(t, err)
	assert.Equal(t, "secret", gotKey)
}
