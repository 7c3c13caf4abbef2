// Package app 組裝擷取流程所需的服務，供 HTTP 與命令列共用
package app

import (
	"fmt"

	"recipe-extractor/internal/core/ai"
	"recipe-extractor/internal/core/library"
	"recipe-extractor/internal/core/recipe"
	"recipe-extractor/internal/core/scraper"
	"recipe-extractor/internal/core/store"
	"recipe-extractor/internal/infrastructure/config"
	"recipe-extractor/internal/pkg/common"

	"go.uber.org/zap"
)

// App 已初始化的服務
type App struct {
	Config    *config.Config
	Store     store.Store
	Library   *library.Library
	Extractor *recipe.ExtractionService
}

// New 依設定初始化儲存與擷取服務
func New(cfg *config.Config) (*App, error) {
	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}

	extractor := recipe.NewExtractionService(cfg, scraper.NewClient(cfg), ai.NewFactory(cfg))

	common.LogInfo("Services initialized",
		zap.String("store", cfg.Store.Backend),
		zap.Bool("enrich_alternatives", cfg.Extraction.EnrichAlternatives),
		zap.String("default_model", cfg.Providers.DefaultModel),
		zap.Int("max_content_chars", cfg.Firecrawl.MaxContentChars),
	)

	return &App{
		Config:    cfg,
		Store:     st,
		Library:   library.New(st, cfg.DefaultSettings()),
		Extractor: extractor,
	}, nil
}

// Close 關閉儲存
func (a *App) Close() error {
	return a.Store.Close()
}
