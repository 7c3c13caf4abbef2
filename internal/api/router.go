package api

import (
	"time"

	"recipe-extractor/internal/api/handlers/health"
	recipeHandler "recipe-extractor/internal/api/handlers/recipe"
	settingsHandler "recipe-extractor/internal/api/handlers/settings"
	unitsHandler "recipe-extractor/internal/api/handlers/units"
	"recipe-extractor/internal/api/middleware"
	"recipe-extractor/internal/core/library"
	"recipe-extractor/internal/core/store"
	"recipe-extractor/internal/infrastructure/config"
	"recipe-extractor/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由所需的服務
type Dependencies struct {
	Store     store.Store
	Library   *library.Library
	Extractor recipeHandler.Extractor
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.String("store", cfg.Store.Backend),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	// CORS 設置（僅允許本機瀏覽器前端）
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowWildcard:    true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, deps.Store)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	recipes := recipeHandler.NewHandler(deps.Library, deps.Extractor)
	settings := settingsHandler.NewHandler(deps.Library)
	dedup := middleware.NewDeduplicator(cfg.DedupWindow)

	// API 路由組
	api := router.Group("/api/v1")
	{
		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.POST("/extract",
				dedup.Middleware(),
				middleware.RateLimit(cfg.Extraction.RateLimit, cfg.Extraction.RateWindow),
				recipes.HandleExtract,
			)
			recipeGroup.GET("", recipes.HandleList)
			recipeGroup.GET("/:id", recipes.HandleGet)
			recipeGroup.DELETE("/:id", recipes.HandleDelete)

			recipeGroup.GET("/:id/progress", recipes.HandleGetProgress)
			recipeGroup.PUT("/:id/progress", recipes.HandleSaveProgress)
			recipeGroup.DELETE("/:id/progress", recipes.HandleClearProgress)
		}

		api.GET("/session", recipes.HandleGetSession)
		api.PUT("/session", recipes.HandleSaveSession)
		api.DELETE("/session", recipes.HandleClearSession)

		api.GET("/settings", settings.HandleGet)
		api.PUT("/settings", settings.HandleUpdate)
		api.PUT("/settings/model", settings.HandleSetModel)
		api.GET("/models", settings.HandleModels)

		api.GET("/units/convert", unitsHandler.HandleConvert)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
		zap.Duration("dedup_window", cfg.DedupWindow),
		zap.Int("extract_rate_limit", cfg.Extraction.RateLimit),
	)

	return router
}
