package recipe

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"recipe-extractor/internal/core/ai/provider"
	"recipe-extractor/internal/core/scraper"
	"recipe-extractor/internal/infrastructure/config"
	"recipe-extractor/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	recipeSchemaName       = "recipe"
	alternativesSchemaName = "ingredient_alternatives"
)

// ProviderFactory 依供應商與金鑰建立模型客戶端
type ProviderFactory interface {
	New(name common.ProviderName, apiKey string) (provider.Provider, error)
}

// Credentials 單次擷取所需的金鑰與模型
type Credentials struct {
	Firecrawl string
	Provider  common.ProviderName
	Model     string
	APIKey    string
}

// CredentialsFromSettings 由使用者設定解析擷取金鑰；model 為空時使用已選模型
func CredentialsFromSettings(s common.AppSettings, model string) (Credentials, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		model = strings.TrimSpace(s.SelectedModel)
	}
	if model == "" {
		return Credentials{}, common.NewValidationError("no model selected")
	}

	p, err := provider.ProviderForModel(model)
	if err != nil {
		return Credentials{}, err
	}

	key := strings.TrimSpace(s.ProviderKeys[p])
	if key == "" {
		return Credentials{}, common.MissingAPIKey(p.DisplayName())
	}
	firecrawl := strings.TrimSpace(s.Firecrawl)
	if firecrawl == "" {
		return Credentials{}, common.MissingAPIKey("Firecrawl")
	}

	return Credentials{
		Firecrawl: firecrawl,
		Provider:  p,
		Model:     model,
		APIKey:    key,
	}, nil
}

// ExtractionService 食譜擷取流程：爬取、模型擷取、正規化、補充替代計量
type ExtractionService struct {
	scraper     scraper.Scraper
	factory     ProviderFactory
	maxTokens   int
	temperature float64
	enrich      bool
	now         func() time.Time
}

// NewExtractionService 創建擷取服務
func NewExtractionService(cfg *config.Config, s scraper.Scraper, factory ProviderFactory) *ExtractionService {
	return &ExtractionService{
		scraper:     s,
		factory:     factory,
		maxTokens:   cfg.Providers.MaxTokens,
		temperature: cfg.Providers.Temperature,
		enrich:      cfg.Extraction.EnrichAlternatives,
		now:         time.Now,
	}
}

// ExtractFromContent 以指定模型從頁面內容擷取食譜，回傳通過驗證的原始結構
func (s *ExtractionService) ExtractFromContent(ctx context.Context, content string, name common.ProviderName, model, apiKey string) (any, error) {
	client, err := s.factory.New(name, apiKey)
	if err != nil {
		return nil, err
	}

	raw, err := client.GenerateStructured(ctx, &provider.Request{
		Model:       model,
		System:      ExtractionSystemPrompt,
		Prompt:      BuildExtractionPrompt(content),
		SchemaName:  recipeSchemaName,
		Schema:      RecipeSchema(),
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		return nil, err
	}

	if err := ValidateRecipe(raw); err != nil {
		common.LogWarn("Model output failed recipe validation",
			zap.String("provider", string(name)),
			zap.String("model", model),
			zap.Error(err),
			zap.NamedError("cause", errors.Unwrap(err)),
		)
		return nil, err
	}
	return raw, nil
}

// Extract 完整擷取流程；任一步驟失敗即回傳錯誤，不產生部分結果
func (s *ExtractionService) Extract(ctx context.Context, rawURL string, creds Credentials) (*common.Recipe, error) {
	pageURL, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	start := s.now()
	content, err := s.scraper.Scrape(ctx, pageURL, creds.Firecrawl)
	if err != nil {
		return nil, err
	}

	raw, err := s.ExtractFromContent(ctx, content, creds.Provider, creds.Model, creds.APIKey)
	if err != nil {
		return nil, err
	}

	r := Normalize(raw)

	if s.enrich && len(r.Ingredients) > 0 {
		outcome := s.enrichAlternatives(ctx, creds, r)
		if outcome.err != nil {
			common.LogWarn("Alternative measurements skipped",
				zap.String("url", pageURL),
				zap.String("model", creds.Model),
				zap.Error(outcome.err),
			)
		} else {
			r.Ingredients = outcome.ingredients
		}
	}

	r.ID = common.GenerateUUID()
	r.SourceURL = pageURL
	r.ExtractedAt = s.now().UTC()

	common.LogInfo("食譜擷取完成",
		zap.String("id", r.ID),
		zap.String("url", pageURL),
		zap.String("model", creds.Model),
		zap.Int("ingredients", len(r.Ingredients)),
		zap.Int("steps", len(r.Steps)),
		zap.Duration("duration", s.now().Sub(start)),
	)

	return &r, nil
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", common.NewValidationError("Please enter a recipe URL")
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", common.NewValidationError("Please enter a valid URL")
	}
	return raw, nil
}
