package recipe

import (
	"net/http"

	"recipe-extractor/internal/api/handlers"
	recipeService "recipe-extractor/internal/core/recipe"
	"recipe-extractor/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// ProgressRequest 烹飪進度
type ProgressRequest struct {
	Servings           int             `json:"servings"`
	CheckedIngredients []int           `json:"checkedIngredients"`
	CompletedSteps     []int           `json:"completedSteps"`
	CookingStepIndex   int             `json:"cookingStepIndex"`
	LastMode           common.ViewMode `json:"lastMode"`
}

// HandleGetProgress 取得烹飪進度
func (h *Handler) HandleGetProgress(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if _, err := h.library.Recipe(ctx, id); err != nil {
		handlers.RespondError(c, err)
		return
	}
	p, err := h.library.Progress(ctx, id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": p})
}

// HandleSaveProgress 儲存烹飪進度；與初始狀態相同時清除紀錄
func (h *Handler) HandleSaveProgress(c *gin.Context) {
	var req ProgressRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")

	r, err := h.library.Recipe(ctx, id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	if req.Servings != 0 && (req.Servings < recipeService.MinServings || req.Servings > recipeService.MaxServings) {
		handlers.RespondError(c, common.NewValidationError("servings must be between 1 and 99"))
		return
	}
	if err := validIndexes(req.CheckedIngredients, len(r.Ingredients)); err != nil {
		handlers.RespondError(c, err)
		return
	}
	if err := validIndexes(req.CompletedSteps, len(r.Steps)); err != nil {
		handlers.RespondError(c, err)
		return
	}
	if len(r.Steps) > 0 && req.CookingStepIndex >= len(r.Steps) {
		handlers.RespondError(c, common.NewValidationError("cooking step index out of range"))
		return
	}

	err = h.library.SaveProgress(ctx, id, r.BaseServings, common.RecipeProgress{
		Servings:           req.Servings,
		CheckedIngredients: req.CheckedIngredients,
		CompletedSteps:     req.CompletedSteps,
		CookingStepIndex:   req.CookingStepIndex,
		LastMode:           req.LastMode,
	})
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	p, err := h.library.Progress(ctx, id)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": p})
}

// HandleClearProgress 清除烹飪進度
func (h *Handler) HandleClearProgress(c *gin.Context) {
	if err := h.library.ClearProgress(c.Request.Context(), c.Param("id")); err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func validIndexes(indexes []int, n int) error {
	for _, i := range indexes {
		if i < 0 || i >= n {
			return common.NewValidationError("index out of range")
		}
	}
	return nil
}
