package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recipe-extractor/internal/infrastructure/config"
	"recipe-extractor/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, maxChars int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Firecrawl.BaseURL = srv.URL
	cfg.Firecrawl.MaxContentChars = maxChars
	return NewClient(cfg)
}

func TestScrape_Success(t *testing.T) {
	var gotBody scrapeRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/scrape", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer fc-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"markdown":"# Tomato Soup\n\n2 cups tomatoes"}}`))
	}, 0)

	content, err := client.Scrape(context.Background(), "https://example.com/soup", "fc-key")
	require.NoError(t, err)
	assert.Equal(t, "# Tomato Soup\n\n2 cups tomatoes", content)
	assert.Equal(t, "https://example.com/soup", gotBody.URL)
	assert.Equal(t, []string{"markdown"}, gotBody.Formats)
}

func TestScrape_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		target   error
		contains []string
	}{
		{"unauthorized", http.StatusUnauthorized, common.ErrScrapeAuth, []string{"Invalid", "Firecrawl"}},
		{"payment required", http.StatusPaymentRequired, common.ErrScrapeQuotaExceeded, []string{"quota exceeded"}},
		{"server error", http.StatusInternalServerError, common.ErrScrapeFailure, []string{"Failed to scrape page", "upstream exploded"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("upstream exploded"))
			}, 0)

			_, err := client.Scrape(context.Background(), "https://example.com", "fc-key")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
			for _, s := range tt.contains {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}

func TestScrape_Unsuccessful(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"blocked"}`))
	}, 0)

	_, err := client.Scrape(context.Background(), "https://example.com", "fc-key")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrScrapeFailure)
	assert.Contains(t, err.Error(), "blocking scraping")
}

func TestScrape_EmptyMarkdownFallsBackToHTML(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"markdown":"","html":"<h1>Pancakes</h1><p>Mix <strong>flour</strong>.</p>"}}`))
	}, 0)

	content, err := client.Scrape(context.Background(), "https://example.com", "fc-key")
	require.NoError(t, err)
	assert.Contains(t, content, "# Pancakes")
	assert.Contains(t, content, "**flour**")
}

func TestScrape_EmptyContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"markdown":"   "}}`))
	}, 0)

	_, err := client.Scrape(context.Background(), "https://example.com", "fc-key")
	assert.ErrorIs(t, err, common.ErrScrapeEmptyContent)
	assert.Contains(t, err.Error(), "no readable content")
}

func TestScrape_Truncates(t *testing.T) {
	long := strings.Repeat("é", 30)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"markdown":"` + long + `"}}`))
	}, 10)

	content, err := client.Scrape(context.Background(), "https://example.com", "fc-key")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 10)+TruncationMarker, content)
}

func TestScrape_MissingInputs(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	}, 0)

	_, err := client.Scrape(context.Background(), "", "fc-key")
	assert.True(t, common.IsValidationError(err))

	_, err = client.Scrape(context.Background(), "https://example.com", " ")
	assert.ErrorIs(t, err, common.ErrMissingAPIKey)
	assert.Equal(t, 0, calls)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 15000))
	assert.Equal(t, "ab"+TruncationMarker, Truncate("abc", 2))
	assert.Equal(t, "abc", Truncate("abc", 0))
}
