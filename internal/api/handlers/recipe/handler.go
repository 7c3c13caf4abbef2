// Package recipe 食譜擷取、歷史、烹飪進度與目前開啟食譜的路由處理器
package recipe

import (
	"context"
	"net/http"
	"strconv"

	"recipe-extractor/internal/api/handlers"
	"recipe-extractor/internal/core/library"
	recipeService "recipe-extractor/internal/core/recipe"
	"recipe-extractor/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Extractor 擷取流程
type Extractor interface {
	Extract(ctx context.Context, url string, creds recipeService.Credentials) (*common.Recipe, error)
}

// Handler 食譜處理器
type Handler struct {
	library   *library.Library
	extractor Extractor
}

// NewHandler 創建食譜處理器
func NewHandler(lib *library.Library, extractor Extractor) *Handler {
	return &Handler{
		library:   lib,
		extractor: extractor,
	}
}

// ExtractRequest 擷取請求
type ExtractRequest struct {
	URL   string `json:"url" binding:"required"`
	Model string `json:"model,omitempty"` // 空白時使用已選模型
}

// RecipeResponse 食譜與依份量計算的顯示資料
type RecipeResponse struct {
	Recipe   common.Recipe            `json:"recipe"`
	View     recipeService.RecipeView `json:"view"`
	Progress *common.RecipeProgress   `json:"progress,omitempty"`
}

// HandleExtract 從網址擷取食譜並存入歷史紀錄
func (h *Handler) HandleExtract(c *gin.Context) {
	var req ExtractRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	common.LogInfo("開始處理食譜擷取請求",
		zap.String("request_id", requestid.Get(c)),
		zap.String("url", req.URL),
		zap.String("model", req.Model),
	)

	settings, err := h.library.Settings(ctx)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	creds, err := recipeService.CredentialsFromSettings(settings, req.Model)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	r, err := h.extractor.Extract(ctx, req.URL, creds)
	if err != nil {
		common.LogError("食譜擷取失敗",
			zap.String("request_id", requestid.Get(c)),
			zap.String("url", req.URL),
			zap.Error(err),
		)
		handlers.RespondError(c, err)
		return
	}

	if err := h.library.SaveRecipe(ctx, *r); err != nil {
		handlers.RespondError(c, err)
		return
	}
	if err := h.library.SaveCurrentSession(ctx, r.ID, common.ModeOverview); err != nil {
		common.LogWarn("Failed to save current session", zap.String("recipe_id", r.ID), zap.Error(err))
	}

	c.JSON(http.StatusCreated, RecipeResponse{
		Recipe: *r,
		View:   recipeService.BuildView(*r, r.BaseServings),
	})
}

// HandleList 列出歷史食譜（新到舊）
func (h *Handler) HandleList(c *gin.Context) {
	recipes, err := h.library.Recipes(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// HandleGet 取得食譜；servings 未指定時沿用已儲存的進度
func (h *Handler) HandleGet(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	r, err := h.library.Recipe(ctx, id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	progress, err := h.library.Progress(ctx, id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	servings := 0
	if raw := c.Query("servings"); raw != "" {
		servings, err = strconv.Atoi(raw)
		if err != nil {
			handlers.RespondError(c, common.NewValidationError("servings must be an integer"))
			return
		}
	} else if progress != nil {
		servings = progress.Servings
	}

	c.JSON(http.StatusOK, RecipeResponse{
		Recipe:   r,
		View:     recipeService.BuildView(r, servings),
		Progress: progress,
	})
}

// HandleDelete 刪除食譜
func (h *Handler) HandleDelete(c *gin.Context) {
	if err := h.library.DeleteRecipe(c.Request.Context(), c.Param("id")); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
