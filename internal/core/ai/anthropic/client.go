// Package anthropic 實作 Anthropic Messages API 的結構化輸出（強制工具呼叫）
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"recipe-extractor/internal/core/ai/provider"
	"recipe-extractor/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	apiVersion       = "2023-06-01"
	defaultMaxTokens = 4096
)

// Client Anthropic 客戶端
type Client struct {
	client *resty.Client
}

// Message 對話消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Tool 工具定義
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

// ToolChoice 工具選擇
type ToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// Request Messages 請求
type Request struct {
	Model       string      `json:"model"`
	MaxTokens   int         `json:"max_tokens"`
	System      string      `json:"system,omitempty"`
	Messages    []Message   `json:"messages"`
	Temperature float64     `json:"temperature"`
	Tools       []Tool      `json:"tools,omitempty"`
	ToolChoice  *ToolChoice `json:"tool_choice,omitempty"`
}

// ContentBlock 回應內容區塊
type ContentBlock struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Name  string `json:"name,omitempty"`
	Input any    `json:"input,omitempty"`
}

// Response Messages 回應
type Response struct {
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// NewClient 創建 Anthropic 客戶端
func NewClient(cfg provider.Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("anthropic-version", apiVersion)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &Client{client: client}
}

// Name 供應商名稱
func (c *Client) Name() common.ProviderName {
	return common.ProviderAnthropic
}

// GenerateStructured 以強制工具呼叫取得符合 schema 的輸入物件
func (c *Client) GenerateStructured(ctx context.Context, req *provider.Request) (any, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	body := Request{
		Model:       req.Model,
		MaxTokens:   maxTokens,
		System:      req.System,
		Messages:    []Message{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
	}
	if req.Schema != nil {
		name := req.SchemaName
		if name == "" {
			name = "structured_output"
		}
		body.Tools = []Tool{{
			Name:        name,
			Description: "Record the structured result.",
			InputSchema: req.Schema,
		}}
		body.ToolChoice = &ToolChoice{Type: "tool", Name: name}
	}

	start := time.Now()
	result, err := c.send(ctx, &body)
	common.LogAICall(string(c.Name()), req.Model, time.Since(start), err)
	return result, err
}

func (c *Client) send(ctx context.Context, body *Request) (any, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/v1/messages")
	if err != nil {
		return nil, provider.TransportError(c.Name(), err)
	}
	if !resp.IsSuccess() {
		return nil, provider.StatusError(c.Name(), resp.StatusCode(), resp.String(),
			resp.StatusCode() == http.StatusUnauthorized)
	}

	var result Response
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, common.LLMProviderError(c.Name().DisplayName(), "invalid response body",
			fmt.Errorf("failed to parse Anthropic response: %w", err))
	}

	var text strings.Builder
	for _, block := range result.Content {
		switch block.Type {
		case "tool_use":
			if block.Input != nil {
				return block.Input, nil
			}
		case "text":
			text.WriteString(block.Text)
		}
	}

	if strings.TrimSpace(text.String()) == "" {
		return nil, common.LLMEmptyResponse(c.Name().DisplayName())
	}
	return provider.ExtractJSON(text.String())
}
