package library

import (
	"context"
	"sort"
	"strings"

	"recipe-extractor/internal/pkg/common"
)

func (l *Library) readProgressMap(ctx context.Context) (map[string]common.RecipeProgress, error) {
	m := map[string]common.RecipeProgress{}
	ok, err := l.readJSON(ctx, KeyProgress, &m)
	if err != nil {
		return nil, err
	}
	if !ok || m == nil {
		return map[string]common.RecipeProgress{}, nil
	}
	return m, nil
}

// Progress 取得食譜的烹飪進度；沒有紀錄時回傳 nil
func (l *Library) Progress(ctx context.Context, recipeID string) (*common.RecipeProgress, error) {
	m, err := l.readProgressMap(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := m[recipeID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// IsTrivialProgress 進度與初始狀態相同（原份量、未勾選、未完成、第一步、概覽模式）
func IsTrivialProgress(p common.RecipeProgress, baseServings int) bool {
	return (p.Servings == 0 || p.Servings == baseServings) &&
		len(p.CheckedIngredients) == 0 &&
		len(p.CompletedSteps) == 0 &&
		p.CookingStepIndex == 0 &&
		(p.LastMode == "" || p.LastMode == common.ModeOverview)
}

// SaveProgress 儲存進度；與初始狀態相同時改為刪除紀錄
func (l *Library) SaveProgress(ctx context.Context, recipeID string, baseServings int, p common.RecipeProgress) error {
	if strings.TrimSpace(recipeID) == "" {
		return common.NewValidationError("recipe id is required")
	}
	if p.LastMode != "" && !p.LastMode.Valid() {
		return common.NewValidationError("mode must be overview or cooking")
	}
	if p.Servings < 0 || p.CookingStepIndex < 0 {
		return common.NewValidationError("servings and step index must not be negative")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if IsTrivialProgress(p, baseServings) {
		return l.clearProgress(ctx, recipeID)
	}

	m, err := l.readProgressMap(ctx)
	if err != nil {
		return err
	}
	if p.LastMode == "" {
		p.LastMode = common.ModeOverview
	}
	p.CheckedIngredients = uniqueSorted(p.CheckedIngredients)
	p.CompletedSteps = uniqueSorted(p.CompletedSteps)
	p.UpdatedAt = l.now().UTC()
	m[recipeID] = p
	return l.writeJSON(ctx, KeyProgress, m)
}

// ClearProgress 清除食譜進度
func (l *Library) ClearProgress(ctx context.Context, recipeID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.clearProgress(ctx, recipeID)
}

func (l *Library) clearProgress(ctx context.Context, recipeID string) error {
	m, err := l.readProgressMap(ctx)
	if err != nil {
		return err
	}
	if _, ok := m[recipeID]; !ok {
		return nil
	}
	delete(m, recipeID)
	return l.writeJSON(ctx, KeyProgress, m)
}

func uniqueSorted(in []int) []int {
	out := make([]int, 0, len(in))
	seen := map[int]bool{}
	for _, v := range in {
		if v < 0 || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
