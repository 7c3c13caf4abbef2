package recipe

import (
	"net/http"

	"recipe-extractor/internal/api/handlers"
	"recipe-extractor/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// SessionRequest 目前開啟的食譜
type SessionRequest struct {
	RecipeID string          `json:"recipeId" binding:"required"`
	Mode     common.ViewMode `json:"mode"`
}

// HandleGetSession 取得目前開啟的食譜；食譜已不存在時一併清除
func (h *Handler) HandleGetSession(c *gin.Context) {
	ctx := c.Request.Context()

	s, err := h.library.CurrentSession(ctx)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if s != nil {
		if _, err := h.library.Recipe(ctx, s.RecipeID); err != nil {
			if err := h.library.ClearCurrentSession(ctx); err != nil {
				handlers.RespondError(c, err)
				return
			}
			s = nil
		}
	}
	c.JSON(http.StatusOK, gin.H{"session": s})
}

// HandleSaveSession 記錄目前開啟的食譜與檢視模式
func (h *Handler) HandleSaveSession(c *gin.Context) {
	var req SessionRequest
	if !handlers.BindJSON(c, &req) {
		return
	}
	if req.Mode == "" {
		req.Mode = common.ModeOverview
	}

	ctx := c.Request.Context()
	if _, err := h.library.Recipe(ctx, req.RecipeID); err != nil {
		handlers.RespondError(c, err)
		return
	}
	if err := h.library.SaveCurrentSession(ctx, req.RecipeID, req.Mode); err != nil {
		handlers.RespondError(c, err)
		return
	}

	s, err := h.library.CurrentSession(ctx)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": s})
}

// HandleClearSession 清除目前開啟的食譜
func (h *Handler) HandleClearSession(c *gin.Context) {
	if err := h.library.ClearCurrentSession(c.Request.Context()); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
