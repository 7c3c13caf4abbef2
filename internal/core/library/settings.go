package library

import (
	"context"
	"strings"

	"recipe-extractor/internal/core/ai/provider"
	"recipe-extractor/internal/pkg/common"

	"go.uber.org/zap"
)

// SettingsUpdate 部分更新設定；nil 欄位不變，金鑰為空字串代表移除
type SettingsUpdate struct {
	Firecrawl     *string                        `json:"firecrawl"`
	ProviderKeys  map[common.ProviderName]string `json:"providerKeys"`
	SelectedModel *string                        `json:"selectedModel"`
}

// Settings 取得設定；優先讀取新格式，其次轉換舊版單一金鑰格式，最後使用預設值
func (l *Library) Settings(ctx context.Context) (common.AppSettings, error) {
	s, err := l.storedSettings(ctx)
	if err != nil {
		return common.AppSettings{}, err
	}
	return l.withDefaults(s), nil
}

// storedSettings 取得使用者自行儲存的設定（不含環境變數預設值）
func (l *Library) storedSettings(ctx context.Context) (common.AppSettings, error) {
	var s common.AppSettings
	ok, err := l.readJSON(ctx, KeySettings, &s)
	if err != nil {
		return common.AppSettings{}, err
	}
	if ok {
		return s, nil
	}

	var legacy common.LegacyAPIKeys
	ok, err = l.readJSON(ctx, KeyLegacyAPIKeys, &legacy)
	if err != nil {
		return common.AppSettings{}, err
	}
	if ok {
		migrated := common.AppSettings{
			Firecrawl:     legacy.Firecrawl,
			ProviderKeys:  map[common.ProviderName]string{},
			SelectedModel: legacy.LLMModel,
		}
		if legacy.LLMProvider != "" && legacy.LLMKey != "" {
			migrated.ProviderKeys[legacy.LLMProvider] = legacy.LLMKey
		}
		if err := l.writeJSON(ctx, KeySettings, migrated); err != nil {
			return common.AppSettings{}, err
		}
		common.LogInfo("Migrated legacy API key settings",
			zap.String("provider", string(legacy.LLMProvider)),
			zap.String("model", legacy.LLMModel),
		)
		return migrated, nil
	}

	return common.AppSettings{}, nil
}

// withDefaults 以預設值補齊未設定的欄位
func (l *Library) withDefaults(s common.AppSettings) common.AppSettings {
	keys := make(map[common.ProviderName]string, len(l.defaults.ProviderKeys)+len(s.ProviderKeys))
	for p, k := range l.defaults.ProviderKeys {
		keys[p] = k
	}
	for p, k := range s.ProviderKeys {
		if strings.TrimSpace(k) != "" {
			keys[p] = k
		}
	}
	s.ProviderKeys = keys
	if s.Firecrawl == "" {
		s.Firecrawl = l.defaults.Firecrawl
	}
	if s.SelectedModel == "" {
		s.SelectedModel = l.defaults.SelectedModel
	}
	return s
}

// SaveSettings 驗證並儲存設定
func (l *Library) SaveSettings(ctx context.Context, s common.AppSettings) error {
	s.Firecrawl = strings.TrimSpace(s.Firecrawl)
	s.SelectedModel = strings.TrimSpace(s.SelectedModel)
	if s.SelectedModel != "" {
		if _, ok := provider.LookupModel(s.SelectedModel); !ok {
			return common.UnsupportedProvider(s.SelectedModel)
		}
	}

	keys := make(map[common.ProviderName]string, len(s.ProviderKeys))
	for p, k := range s.ProviderKeys {
		name, err := provider.ParseProviderName(string(p))
		if err != nil {
			return err
		}
		if k = strings.TrimSpace(k); k != "" {
			keys[name] = k
		}
	}
	s.ProviderKeys = keys

	return l.writeJSON(ctx, KeySettings, s)
}

// UpdateSettings 套用部分更新並回傳結果；只寫入使用者明確設定的值，環境變數預設值不落地
func (l *Library) UpdateSettings(ctx context.Context, u SettingsUpdate) (common.AppSettings, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, err := l.storedSettings(ctx)
	if err != nil {
		return common.AppSettings{}, err
	}
	if s.ProviderKeys == nil {
		s.ProviderKeys = map[common.ProviderName]string{}
	}
	if u.Firecrawl != nil {
		s.Firecrawl = *u.Firecrawl
	}
	for p, k := range u.ProviderKeys {
		name, err := provider.ParseProviderName(string(p))
		if err != nil {
			return common.AppSettings{}, err
		}
		if strings.TrimSpace(k) == "" {
			delete(s.ProviderKeys, name)
		} else {
			s.ProviderKeys[name] = k
		}
	}
	if u.SelectedModel != nil {
		s.SelectedModel = *u.SelectedModel
	}

	if err := l.SaveSettings(ctx, s); err != nil {
		return common.AppSettings{}, err
	}
	return l.Settings(ctx)
}

// SetSelectedModel 更新選用的模型
func (l *Library) SetSelectedModel(ctx context.Context, modelID string) error {
	_, err := l.UpdateSettings(ctx, SettingsUpdate{SelectedModel: &modelID})
	return err
}

// MaskedSettings 遮罩金鑰後的設定（供顯示）
func MaskedSettings(s common.AppSettings) common.AppSettings {
	masked := common.AppSettings{
		Firecrawl:     common.MaskAPIKey(s.Firecrawl),
		ProviderKeys:  make(map[common.ProviderName]string, len(s.ProviderKeys)),
		SelectedModel: s.SelectedModel,
	}
	for p, k := range s.ProviderKeys {
		masked.ProviderKeys[p] = common.MaskAPIKey(k)
	}
	return masked
}
