package provider

import (
	"strings"

	"recipe-extractor/internal/pkg/common"
)

// Model 可選用的模型
type Model struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Provider common.ProviderName `json:"provider"`
}

// ModelAvailability 模型與是否已設定對應金鑰
type ModelAvailability struct {
	Model
	Available bool `json:"available"`
}

// Models 支援的模型清單（順序即顯示順序）
var Models = []Model{
	{ID: "gpt-4o", Name: "GPT-4o", Provider: common.ProviderOpenAI},
	{ID: "gpt-4.1", Name: "GPT-4.1", Provider: common.ProviderOpenAI},
	{ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash", Provider: common.ProviderGoogle},
	{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro", Provider: common.ProviderGoogle},
	{ID: "claude-sonnet-4-20250514", Name: "Claude 4 Sonnet", Provider: common.ProviderAnthropic},
	{ID: "claude-opus-4-20250514", Name: "Claude 4 Opus", Provider: common.ProviderAnthropic},
	{ID: "claude-4-haiku", Name: "Claude 4 Haiku", Provider: common.ProviderAnthropic},
}

// Providers 支援的供應商
var Providers = []common.ProviderName{
	common.ProviderOpenAI,
	common.ProviderGoogle,
	common.ProviderAnthropic,
}

// LookupModel 依 ID 查詢模型
func LookupModel(id string) (Model, bool) {
	id = strings.TrimSpace(id)
	for _, m := range Models {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// ProviderForModel 取得模型所屬供應商
func ProviderForModel(id string) (common.ProviderName, error) {
	m, ok := LookupModel(id)
	if !ok {
		return "", common.UnsupportedProvider(id)
	}
	return m.Provider, nil
}

// ParseProviderName 驗證供應商名稱
func ParseProviderName(name string) (common.ProviderName, error) {
	p := common.ProviderName(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Providers {
		if p == known {
			return p, nil
		}
	}
	return "", common.UnsupportedProvider(name)
}

// AvailableModels 依已設定的金鑰標示可用模型
func AvailableModels(keys map[common.ProviderName]string) []ModelAvailability {
	out := make([]ModelAvailability, 0, len(Models))
	for _, m := range Models {
		out = append(out, ModelAvailability{
			Model:     m,
			Available: strings.TrimSpace(keys[m.Provider]) != "",
		})
	}
	return out
}
