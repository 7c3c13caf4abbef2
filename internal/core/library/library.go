// Package library 管理使用者設定、食譜歷史、烹飪進度與目前開啟的食譜
package library

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"recipe-extractor/internal/core/ai/provider"
	"recipe-extractor/internal/core/recipe"
	"recipe-extractor/internal/core/store"
	"recipe-extractor/internal/pkg/common"

	"go.uber.org/zap"
)

// 儲存鍵
const (
	KeyLegacyAPIKeys  = "recipe-extractor-api-keys"
	KeySettings       = "recipe-extractor-settings-v2"
	KeyRecipes        = "recipe-extractor-recipes"
	KeyProgress       = "recipe-extractor-progress-v1"
	KeyCurrentSession = "recipe-extractor-current-session"
)

// MaxRecipes 歷史紀錄保留筆數
const MaxRecipes = 20

// ErrRecipeNotFound 找不到食譜
var ErrRecipeNotFound = common.NewError(common.ErrCodeNotFound, "Recipe not found", http.StatusNotFound, nil)

// Library 本機資料存取
type Library struct {
	store    store.Store
	defaults common.AppSettings
	mu       sync.Mutex
	now      func() time.Time
}

// New 創建 Library；defaults 為未儲存設定時的初始值（通常來自環境變數）
func New(s store.Store, defaults common.AppSettings) *Library {
	return &Library{
		store:    s,
		defaults: defaults,
		now:      time.Now,
	}
}

// readJSON 讀取並解析；不存在或內容損毀時 ok 為 false
func (l *Library) readJSON(ctx context.Context, key string, v interface{}) (bool, error) {
	raw, ok, err := l.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return false, nil
	}
	if err := common.ParseJSON(raw, v); err != nil {
		common.LogWarn("Ignoring corrupt stored value", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (l *Library) writeJSON(ctx context.Context, key string, v interface{}) error {
	data, err := common.ToJSON(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := l.store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Recipes 取得歷史食譜（每筆皆經過正規化，資料損毀時回傳空清單）
func (l *Library) Recipes(ctx context.Context) ([]common.Recipe, error) {
	var raw []any
	ok, err := l.readJSON(ctx, KeyRecipes, &raw)
	if err != nil {
		return nil, err
	}
	recipes := make([]common.Recipe, 0, len(raw))
	if !ok {
		return recipes, nil
	}
	for _, item := range raw {
		recipes = append(recipes, recipe.Normalize(item))
	}
	return recipes, nil
}

// Recipe 依 ID 取得食譜
func (l *Library) Recipe(ctx context.Context, id string) (common.Recipe, error) {
	recipes, err := l.Recipes(ctx)
	if err != nil {
		return common.Recipe{}, err
	}
	for _, r := range recipes {
		if r.ID == id {
			return r, nil
		}
	}
	return common.Recipe{}, ErrRecipeNotFound
}

// SaveRecipe 儲存食譜：相同來源網址則原位置取代，否則加到最前面；最多保留 20 筆
func (l *Library) SaveRecipe(ctx context.Context, r common.Recipe) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	recipes, err := l.Recipes(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range recipes {
		if recipes[i].SourceURL == r.SourceURL {
			if recipes[i].ID != r.ID {
				if err := l.clearProgress(ctx, recipes[i].ID); err != nil {
					return err
				}
			}
			recipes[i] = r
			replaced = true
			break
		}
	}
	if !replaced {
		recipes = append([]common.Recipe{r}, recipes...)
	}

	if len(recipes) > MaxRecipes {
		for _, evicted := range recipes[MaxRecipes:] {
			if err := l.clearProgress(ctx, evicted.ID); err != nil {
				return err
			}
		}
		recipes = recipes[:MaxRecipes]
	}

	return l.writeJSON(ctx, KeyRecipes, recipes)
}

// DeleteRecipe 刪除食譜並清除其進度與目前開啟狀態
func (l *Library) DeleteRecipe(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	recipes, err := l.Recipes(ctx)
	if err != nil {
		return err
	}

	filtered := make([]common.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if r.ID != id {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == len(recipes) {
		return ErrRecipeNotFound
	}

	if err := l.writeJSON(ctx, KeyRecipes, filtered); err != nil {
		return err
	}
	if err := l.clearProgress(ctx, id); err != nil {
		return err
	}

	session, err := l.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if session != nil && session.RecipeID == id {
		return l.ClearCurrentSession(ctx)
	}
	return nil
}

// AvailableModels 依目前設定標示可用模型
func (l *Library) AvailableModels(ctx context.Context) ([]provider.ModelAvailability, error) {
	s, err := l.Settings(ctx)
	if err != nil {
		return nil, err
	}
	return provider.AvailableModels(s.ProviderKeys), nil
}
