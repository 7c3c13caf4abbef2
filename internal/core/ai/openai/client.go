// Package openai 實作 OpenAI Chat Completions 的結構化輸出
package openai

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

const defaultBaseURL = "https://api.openai.com"

// Client OpenAI 客戶端
type Client struct {
	client *resty.Client
}

// Message 對話消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// JSONSchema 結構化輸出定義
type JSONSchema struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	Strict bool           `json:"strict"`
}

// ResponseFormat 回應格式
type ResponseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *JSONSchema `json:"json_schema,omitempty"`
}

// Request Chat Completions 請求
type Request struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

// Response Chat Completions 回應
type Response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// NewClient 創建 OpenAI 客戶端
func NewClient(cfg provider.Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.APIKey)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &Client{client: client}
}

// Name 供應商名稱
func (c *Client) Name() common.ProviderName {
	return common.ProviderOpenAI
}

// GenerateStructured 以 json_schema 回應格式取得結構化輸出
func (c *Client) GenerateStructured(ctx context.Context, req *provider.Request) (any, error) {
	body := Request{
		Model: req.Model,
		Messages: []Message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.Schema != nil {
		body.ResponseFormat = &ResponseFormat{
			Type: "json_schema",
			JSONSchema: &JSONSchema{
				Name:   req.SchemaName,
				Schema: req.Schema,
			},
		}
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
		Post("/v1/chat/completions")
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
			fmt.Errorf("failed to parse OpenAI response: %w", err))
	}
	if len(result.Choices) == 0 {
		return nil, common.LLMEmptyResponse(c.Name().DisplayName())
	}

	msg := result.Choices[0].Message
	if strings.TrimSpace(msg.Content) == "" {
		if msg.Refusal != "" {
			return nil, common.LLMProviderError(c.Name().DisplayName(), msg.Refusal, nil)
		}
		return nil, common.LLMEmptyResponse(c.Name().DisplayName())
	}

	return provider.ExtractJSON(msg.Content)
}
