package provider

import (
	"context"
	"time"

	"recipe-extractor/internal/pkg/common"
)

// Request 表示發送到 AI 提供者的結構化輸出請求
type Request struct {
	Model       string         `json:"model"`
	System      string         `json:"system"`
	Prompt      string         `json:"prompt"`
	SchemaName  string         `json:"schema_name"`
	Schema      map[string]any `json:"schema"`
	MaxTokens   int            `json:"max_tokens,omitempty"`
	Temperature float64        `json:"temperature,omitempty"`
}

// Provider 定義 AI 提供者介面
type Provider interface {
	// Name 供應商名稱
	Name() common.ProviderName

	// GenerateStructured 依 schema 產生結構化 JSON，回傳泛型值（map[string]any / []any）
	GenerateStructured(ctx context.Context, req *Request) (any, error)
}

// Config 定義 AI 提供者配置
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}
