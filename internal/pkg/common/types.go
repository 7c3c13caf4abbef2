package common

import (
	"time"
)

// ProviderName 模型供應商
type ProviderName string

const (
	ProviderOpenAI    ProviderName = "openai"
	ProviderGoogle    ProviderName = "google"
	ProviderAnthropic ProviderName = "anthropic"
)

// DisplayName 供應商顯示名稱（用於錯誤訊息）
func (p ProviderName) DisplayName() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderGoogle:
		return "Google AI"
	case ProviderAnthropic:
		return "Anthropic"
	default:
		return string(p)
	}
}

// AlternativeMeasurement 替代計量
// Exact=true 為固定比例換算；false 為依密度估算
type AlternativeMeasurement struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Exact    bool    `json:"exact"`
	Note     string  `json:"note,omitempty"`
}

// Ingredient 食材
// Quantity 為 0 代表「適量」，說明放在 Notes
type Ingredient struct {
	Name         string                   `json:"name"`
	Quantity     float64                  `json:"quantity"`
	Unit         string                   `json:"unit"`
	Notes        string                   `json:"notes,omitempty"`
	Alternatives []AlternativeMeasurement `json:"alternatives,omitempty"`
}

// RecipeStep 食譜步驟
type RecipeStep struct {
	Title       string `json:"title"`
	Instruction string `json:"instruction"`
	Details     string `json:"details"`
	Duration    string `json:"duration"`
}

// Recipe 食譜
type Recipe struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	SourceURL    string       `json:"sourceUrl"`
	BaseServings int          `json:"baseServings"`
	Ingredients  []Ingredient `json:"ingredients"`
	Steps        []RecipeStep `json:"steps"`
	Warnings     []string     `json:"warnings"`
	ExtractedAt  time.Time    `json:"extractedAt"`
}

// AppSettings 使用者設定
type AppSettings struct {
	Firecrawl     string                  `json:"firecrawl"`
	ProviderKeys  map[ProviderName]string `json:"providerKeys"`
	SelectedModel string                  `json:"selectedModel"`
}

// LegacyAPIKeys 舊版單一供應商金鑰格式
type LegacyAPIKeys struct {
	Firecrawl   string       `json:"firecrawl"`
	LLMProvider ProviderName `json:"llmProvider"`
	LLMModel    string       `json:"llmModel"`
	LLMKey      string       `json:"llmKey"`
}

// ViewMode 食譜檢視模式
type ViewMode string

const (
	ModeOverview ViewMode = "overview"
	ModeCooking  ViewMode = "cooking"
)

// Valid 檢查模式是否合法
func (m ViewMode) Valid() bool {
	return m == ModeOverview || m == ModeCooking
}

// RecipeProgress 單一食譜的烹飪進度
type RecipeProgress struct {
	Servings           int       `json:"servings"`
	CheckedIngredients []int     `json:"checkedIngredients"`
	CompletedSteps     []int     `json:"completedSteps"`
	CookingStepIndex   int       `json:"cookingStepIndex"`
	LastMode           ViewMode  `json:"lastMode"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// CurrentSession 目前開啟的食譜
type CurrentSession struct {
	RecipeID  string    `json:"recipeId"`
	Mode      ViewMode  `json:"mode"`
	UpdatedAt time.Time `json:"updatedAt"`
}
