// Package gemini 實作 Google Gemini generateContent 的結構化輸出
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipe-extractor/internal/core/ai/provider"
	"recipe-extractor/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Client Gemini 客戶端
type Client struct {
	client *resty.Client
}

// Part 內容片段
type Part struct {
	Text string `json:"text"`
}

// Content 對話內容
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig 生成參數
type GenerationConfig struct {
	Temperature      float64        `json:"temperature"`
	MaxOutputTokens  int            `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

// Request generateContent 請求
type Request struct {
	SystemInstruction *Content         `json:"systemInstruction,omitempty"`
	Contents          []Content        `json:"contents"`
	GenerationConfig  GenerationConfig `json:"generationConfig"`
}

// Response generateContent 回應
type Response struct {
	Candidates []struct {
		Content      Content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// NewClient 創建 Gemini 客戶端
func NewClient(cfg provider.Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", cfg.APIKey)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &Client{client: client}
}

// Name 供應商名稱
func (c *Client) Name() common.ProviderName {
	return common.ProviderGoogle
}

// GenerateStructured 以 responseSchema 取得 JSON 輸出
func (c *Client) GenerateStructured(ctx context.Context, req *provider.Request) (any, error) {
	body := Request{
		Contents: []Content{
			{Role: "user", Parts: []Part{{Text: req.Prompt}}},
		},
		GenerationConfig: GenerationConfig{
			Temperature:      req.Temperature,
			MaxOutputTokens:  req.MaxTokens,
			ResponseMimeType: "application/json",
		},
	}
	if req.System != "" {
		body.SystemInstruction = &Content{Parts: []Part{{Text: req.System}}}
	}
	if req.Schema != nil {
		body.GenerationConfig.ResponseSchema = ToSchema(req.Schema)
	}

	start := time.Now()
	result, err := c.send(ctx, req.Model, &body)
	common.LogAICall(string(c.Name()), req.Model, time.Since(start), err)
	return result, err
}

func (c *Client) send(ctx context.Context, model string, body *Request) (any, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", url.PathEscape(model)))
	if err != nil {
		return nil, provider.TransportError(c.Name(), err)
	}
	if !resp.IsSuccess() {
		return nil, provider.StatusError(c.Name(), resp.StatusCode(), resp.String(),
			isAuthFailure(resp.StatusCode(), resp.String()))
	}

	var result Response
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, common.LLMProviderError(c.Name().DisplayName(), "invalid response body",
			fmt.Errorf("failed to parse Gemini response: %w", err))
	}
	if result.PromptFeedback.BlockReason != "" {
		return nil, common.LLMProviderError(c.Name().DisplayName(),
			"request blocked: "+result.PromptFeedback.BlockReason, nil)
	}
	if len(result.Candidates) == 0 {
		return nil, common.LLMEmptyResponse(c.Name().DisplayName())
	}

	var text strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, common.LLMEmptyResponse(c.Name().DisplayName())
	}

	return provider.ExtractJSON(text.String())
}

// isAuthFailure Gemini 對無效金鑰回傳 400（API_KEY_INVALID）
func isAuthFailure(status int, body string) bool {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	case http.StatusBadRequest:
		b := strings.ToLower(body)
		return strings.Contains(b, "api_key_invalid") || strings.Contains(b, "api key not valid")
	default:
		return false
	}
}

// ToSchema 將 JSON Schema 轉為 Gemini 的 OpenAPI 子集（型別大寫、移除不支援的關鍵字）
func ToSchema(schema map[string]any) map[string]any {
	out := make(map[string]any, len(schema))
	for k, v := range schema {
		switch k {
		case "additionalProperties", "$schema", "title":
			continue
		case "type":
			if s, ok := v.(string); ok {
				out[k] = strings.ToUpper(s)
				continue
			}
			out[k] = v
		case "properties":
			props, ok := v.(map[string]any)
			if !ok {
				out[k] = v
				continue
			}
			converted := make(map[string]any, len(props))
			for name, p := range props {
				if pm, ok := p.(map[string]any); ok {
					converted[name] = ToSchema(pm)
				} else {
					converted[name] = p
				}
			}
			out[k] = converted
		case "items":
			if im, ok := v.(map[string]any); ok {
				out[k] = ToSchema(im)
				continue
			}
			out[k] = v
		default:
			out[k] = v
		}
	}
	return out
}
