// Package settings 金鑰與模型設定的路由處理器
package settings

import (
	"net/http"

	"recipe-extractor/internal/api/handlers"
	"recipe-extractor/internal/core/ai/provider"
	"recipe-extractor/internal/core/library"

	"github.com/gin-gonic/gin"
)

// Handler 設定處理器
type Handler struct {
	library *library.Library
}

// NewHandler 創建設定處理器
func NewHandler(lib *library.Library) *Handler {
	return &Handler{library: lib}
}

// ModelRequest 選擇模型
type ModelRequest struct {
	Model string `json:"model" binding:"required"`
}

// ModelsResponse 模型清單
type ModelsResponse struct {
	Models   []provider.ModelAvailability `json:"models"`
	Selected string                       `json:"selected"`
}

// HandleGet 取得設定（金鑰已遮罩）
func (h *Handler) HandleGet(c *gin.Context) {
	s, err := h.library.Settings(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, library.MaskedSettings(s))
}

// HandleUpdate 部分更新設定
func (h *Handler) HandleUpdate(c *gin.Context) {
	var req library.SettingsUpdate
	if !handlers.BindJSON(c, &req) {
		return
	}

	s, err := h.library.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, library.MaskedSettings(s))
}

// HandleSetModel 更新選用的模型
func (h *Handler) HandleSetModel(c *gin.Context) {
	var req ModelRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if err := h.library.SetSelectedModel(ctx, req.Model); err != nil {
		handlers.RespondError(c, err)
		return
	}
	s, err := h.library.Settings(ctx)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, library.MaskedSettings(s))
}

// HandleModels 列出模型與是否已設定金鑰
func (h *Handler) HandleModels(c *gin.Context) {
	ctx := c.Request.Context()
	s, err := h.library.Settings(ctx)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ModelsResponse{
		Models:   provider.AvailableModels(s.ProviderKeys),
		Selected: s.SelectedModel,
	})
}
