package library

import (
	"context"
	"strings"

	"recipe-extractor/internal/pkg/common"
)

// CurrentSession 取得目前開啟的食譜；沒有時回傳 nil
func (l *Library) CurrentSession(ctx context.Context) (*common.CurrentSession, error) {
	var s common.CurrentSession
	ok, err := l.readJSON(ctx, KeyCurrentSession, &s)
	if err != nil {
		return nil, err
	}
	if !ok || s.RecipeID == "" {
		return nil, nil
	}
	return &s, nil
}

// SaveCurrentSession 記錄目前開啟的食譜與檢視模式
func (l *Library) SaveCurrentSession(ctx context.Context, recipeID string, mode common.ViewMode) error {
	if strings.TrimSpace(recipeID) == "" {
		return common.NewValidationError("recipe id is required")
	}
	if !mode.Valid() {
		return common.NewValidationError("mode must be overview or cooking")
	}
	return l.writeJSON(ctx, KeyCurrentSession, common.CurrentSession{
		RecipeID:  recipeID,
		Mode:      mode,
		UpdatedAt: l.now().UTC(),
	})
}

// ClearCurrentSession 清除目前開啟的食譜
func (l *Library) ClearCurrentSession(ctx context.Context) error {
	return l.store.Delete(ctx, KeyCurrentSession)
}
