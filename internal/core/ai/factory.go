// Package ai 依供應商名稱建立模型客戶端
package ai

import (
	"strings"

	"recipe-extractor/internal/core/ai/anthropic"
	"recipe-extractor/internal/core/ai/gemini"
	"recipe-extractor/internal/core/ai/openai"
	"recipe-extractor/internal/core/ai/provider"
	"recipe-extractor/internal/infrastructure/config"
	"recipe-extractor/internal/pkg/common"
)

// Factory 模型客戶端工廠
type Factory struct {
	config *config.Config
}

// NewFactory 創建工廠
func NewFactory(cfg *config.Config) *Factory {
	return &Factory{config: cfg}
}

// New 依供應商建立客戶端；金鑰由呼叫端（使用者設定）提供
func (f *Factory) New(name common.ProviderName, apiKey string) (provider.Provider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, common.MissingAPIKey(name.DisplayName())
	}

	cfg := provider.Config{
		APIKey:  apiKey,
		BaseURL: f.config.BaseURL(name),
		Timeout: f.config.Providers.Timeout,
	}

	switch name {
	case common.ProviderOpenAI:
		return openai.NewClient(cfg), nil
	case common.ProviderGoogle:
		return gemini.NewClient(cfg), nil
	case common.ProviderAnthropic:
		return anthropic.NewClient(cfg), nil
	default:
		return nil, common.UnsupportedProvider(string(name))
	}
}
