// Package scraper 透過 Firecrawl 取得網頁的 Markdown 內容
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-extractor/internal/infrastructure/config"
	"recipe-extractor/internal/pkg/common"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	serviceName = "Firecrawl"

	// TruncationMarker 內容過長時附加的標記
	TruncationMarker = "\n\n[Content truncated...]"

	defaultMaxChars = 15000
)

// Scraper 網頁爬取介面
type Scraper interface {
	Scrape(ctx context.Context, url, apiKey string) (string, error)
}

// Client Firecrawl 爬取客戶端
type Client struct {
	client   *resty.Client
	maxChars int
}

type scrapeRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Markdown string `json:"markdown"`
		HTML     string `json:"html"`
	} `json:"data"`
}

// NewClient 創建 Firecrawl 客戶端
func NewClient(cfg *config.Config) *Client {
	timeout := cfg.Firecrawl.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxChars := cfg.Firecrawl.MaxContentChars
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Firecrawl.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &Client{
		client:   client,
		maxChars: maxChars,
	}
}

// Scrape 取得頁面 Markdown，超過上限時截斷
func (c *Client) Scrape(ctx context.Context, url, apiKey string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", common.NewValidationError("url is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return "", common.MissingAPIKey(serviceName)
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(apiKey).
		SetBody(scrapeRequest{URL: url, Formats: []string{"markdown"}}).
		Post("/v1/scrape")
	if err != nil {
		return "", common.ScrapeFailure(err.Error(), fmt.Errorf("failed to send request to Firecrawl: %w", err))
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		return "", common.ScrapeAuthError(serviceName)
	case http.StatusPaymentRequired:
		return "", common.ScrapeQuotaExceeded(serviceName)
	}
	if !resp.IsSuccess() {
		return "", common.ScrapeFailure(resp.String(), nil)
	}

	var result scrapeResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return "", common.ScrapeFailure("invalid response body", fmt.Errorf("failed to parse Firecrawl response: %w", err))
	}
	if !result.Success {
		common.LogWarn("Firecrawl reported failure", zap.String("url", url), zap.String("error", result.Error))
		return "", common.ScrapeBlocked(fmt.Errorf("firecrawl reported failure: %s", result.Error))
	}

	content := strings.TrimSpace(result.Data.Markdown)
	if content == "" && strings.TrimSpace(result.Data.HTML) != "" {
		markdown, err := htmltomarkdown.ConvertString(result.Data.HTML)
		if err != nil {
			common.LogWarn("HTML to markdown conversion failed", zap.String("url", url), zap.Error(err))
		} else {
			content = strings.TrimSpace(markdown)
		}
	}
	if content == "" {
		return "", common.ScrapeEmptyContent()
	}

	common.LogInfo("Page scraped",
		zap.String("url", url),
		zap.Int("chars", len([]rune(content))),
		zap.Duration("duration", time.Since(start)),
	)

	return Truncate(content, c.maxChars), nil
}

// Truncate 以字元（rune）計數截斷內容並附加標記
func Truncate(content string, maxChars int) string {
	if maxChars <= 0 {
		return content
	}
	runes := []rune(content)
	if len(runes) <= maxChars {
		return content
	}
	return string(runes[:maxChars]) + TruncationMarker
}
