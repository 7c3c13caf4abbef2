package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recipe-extractor/internal/core/library"
	recipeService "recipe-extractor/internal/core/recipe"
	"recipe-extractor/internal/core/store"
	"recipe-extractor/internal/infrastructure/config"
	"recipe-extractor/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	err   error
	creds []recipeService.Credentials
}

func (f *fakeExtractor) Extract(ctx context.Context, url string, creds recipeService.Credentials) (*common.Recipe, error) {
	f.creds = append(f.creds, creds)
	if f.err != nil {
		return nil, f.err
	}
	return &common.Recipe{
		ID:           "r-" + url[len(url)-1:],
		Title:        "Pancakes",
		SourceURL:    url,
		BaseServings: 4,
		Ingredients: []common.Ingredient{
			{Name: "flour", Quantity: 200, Unit: "g"},
			{Name: "milk", Quantity: 1.5, Unit: "cups"},
			{Name: "salt", Quantity: 0, Unit: "", Notes: "pinch"},
		},
		Steps: []common.RecipeStep{
			{Title: "Mix", Instruction: "Mix everything"},
			{Title: "Cook", Instruction: "Cook on a hot pan"},
		},
		Warnings:    []string{"Contains gluten"},
		ExtractedAt: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
	}, nil
}

func newTestRouter(t *testing.T, ex *fakeExtractor) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.App.Debug = true
	cfg.App.Version = "test"
	cfg.Store.Backend = "memory"
	cfg.Server.MaxBodyBytes = 1 << 20
	cfg.Server.RequestTimeout = 5 * time.Second
	cfg.Server.AllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	cfg.DedupWindow = time.Millisecond

	st := store.NewMemoryStore()
	return SetupRouter(cfg, Dependencies{
		Store:     st,
		Library:   library.New(st, common.AppSettings{}),
		Extractor: ex,
	})
}

func request(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func configureKeys(t *testing.T, r http.Handler) {
	t.Helper()
	w := request(t, r, http.MethodPut, "/api/v1/settings",
		`{"firecrawl":"fc-1234567890","providerKeys":{"google":"g-1234567890"},"selectedModel":"gemini-2.0-flash"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestHealthRoutes(t *testing.T) {
	r := newTestRouter(t, &fakeExtractor{})

	for _, path := range []string{"/health", "/ready", "/live"} {
		w := request(t, r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
	assert.NotEmpty(t, request(t, r, http.MethodGet, "/live", "").Header().Get("X-Request-ID"))
}

func TestCORS_OnlyLocalOrigins(t *testing.T) {
	r := newTestRouter(t, &fakeExtractor{})

	send := func(method, origin string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/api/v1/settings", strings.NewReader(`{"firecrawl":"fc-evil"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Origin", origin)
		if method == http.MethodOptions {
			req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		}
		r.ServeHTTP(w, req)
		return w
	}

	w := send(http.MethodOptions, "http://localhost:3000")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = send(http.MethodOptions, "https://evil.example.com")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = send(http.MethodPut, "https://evil.example.com")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = request(t, r, http.MethodGet, "/api/v1/settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "fc-e")
}

func TestExtract_RequiresSettings(t *testing.T) {
	ex := &fakeExtractor{}
	r := newTestRouter(t, ex)

	w := request(t, r, http.MethodPost, "/api/v1/recipes/extract", `{"url":"https://example.com/a"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no model selected")

	w = request(t, r, http.MethodPost, "/api/v1/recipes/extract", `{"url":"https://example.com/a","model":"gpt-4o"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeMissingAPIKey)

	w = request(t, r, http.MethodPost, "/api/v1/recipes/extract", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeInvalidRequest)

	assert.Empty(t, ex.creds)
}

func TestExtract_ErrorMapping(t *testing.T) {
	ex := &fakeExtractor{err: common.ScrapeAuthError("Firecrawl")}
	r := newTestRouter(t, ex)
	configureKeys(t, r)

	w := request(t, r, http.MethodPost, "/api/v1/recipes/extract", `{"url":"https://example.com/a"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body common.ErrorResponse
	decode(t, w, &body)
	assert.Equal(t, common.ErrCodeScrapeAuth, body.Code)
	assert.Contains(t, body.Message, "Firecrawl")

	require.Len(t, ex.creds, 1)
	assert.Equal(t, common.ProviderGoogle, ex.creds[0].Provider)
	assert.Equal(t, "g-1234567890", ex.creds[0].APIKey)
}

func TestRecipeLifecycle(t *testing.T) {
	r := newTestRouter(t, &fakeExtractor{})
	configureKeys(t, r)

	w := request(t, r, http.MethodPost, "/api/v1/recipes/extract", `{"url":"https://example.com/a"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Recipe common.Recipe            `json:"recipe"`
		View   recipeService.RecipeView `json:"view"`
	}
	decode(t, w, &created)
	assert.Equal(t, "r-a", created.Recipe.ID)
	assert.Equal(t, 4, created.View.Servings)
	assert.Equal(t, "200", created.View.Ingredients[0].Quantity)

	// 擷取後成為目前開啟的食譜
	w = request(t, r, http.MethodGet, "/api/v1/session", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"recipeId":"r-a"`)

	w = request(t, r, http.MethodGet, "/api/v1/recipes", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Recipes []common.Recipe `json:"recipes"`
	}
	decode(t, w, &list)
	require.Len(t, list.Recipes, 1)

	w = request(t, r, http.MethodGet, "/api/v1/recipes/r-a?servings=8", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		View recipeService.RecipeView `json:"view"`
	}
	decode(t, w, &got)
	assert.Equal(t, 8, got.View.Servings)
	assert.Equal(t, "400", got.View.Ingredients[0].Quantity)
	assert.Equal(t, "3", got.View.Ingredients[1].Quantity)

	assert.Equal(t, http.StatusBadRequest, request(t, r, http.MethodGet, "/api/v1/recipes/r-a?servings=lots", "").Code)

	// 進度
	w = request(t, r, http.MethodPut, "/api/v1/recipes/r-a/progress",
		`{"servings":2,"checkedIngredients":[0],"completedSteps":[],"cookingStepIndex":1,"lastMode":"cooking"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"cookingStepIndex":1`)

	w = request(t, r, http.MethodGet, "/api/v1/recipes/r-a", "")
	decode(t, w, &got)
	assert.Equal(t, 2, got.View.Servings)

	w = request(t, r, http.MethodPut, "/api/v1/recipes/r-a/progress", `{"checkedIngredients":[7]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(t, r, http.MethodPut, "/api/v1/recipes/r-a/progress", `{"servings":4,"lastMode":"overview"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"progress":null}`, w.Body.String())

	// 刪除
	assert.Equal(t, http.StatusNoContent, request(t, r, http.MethodDelete, "/api/v1/recipes/r-a", "").Code)
	w = request(t, r, http.MethodGet, "/api/v1/recipes/r-a", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeNotFound)

	w = request(t, r, http.MethodGet, "/api/v1/session", "")
	assert.JSONEq(t, `{"session":null}`, w.Body.String())
}

func TestSessionRoutes(t *testing.T) {
	r := newTestRouter(t, &fakeExtractor{})
	configureKeys(t, r)
	require.Equal(t, http.StatusCreated, request(t, r, http.MethodPost, "/api/v1/recipes/extract", `{"url":"https://example.com/b"}`).Code)

	w := request(t, r, http.MethodPut, "/api/v1/session", `{"recipeId":"r-b","mode":"cooking"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"mode":"cooking"`)

	assert.Equal(t, http.StatusNotFound, request(t, r, http.MethodPut, "/api/v1/session", `{"recipeId":"missing"}`).Code)
	assert.Equal(t, http.StatusBadRequest, request(t, r, http.MethodPut, "/api/v1/session", `{"recipeId":"r-b","mode":"reading"}`).Code)

	assert.Equal(t, http.StatusNoContent, request(t, r, http.MethodDelete, "/api/v1/session", "").Code)
	assert.JSONEq(t, `{"session":null}`, request(t, r, http.MethodGet, "/api/v1/session", "").Body.String())
}

func TestSettingsRoutes(t *testing.T) {
	r := newTestRouter(t, &fakeExtractor{})
	configureKeys(t, r)

	w := request(t, r, http.MethodGet, "/api/v1/settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	var s common.AppSettings
	decode(t, w, &s)
	assert.Equal(t, "fc-1...7890", s.Firecrawl)
	assert.Equal(t, "g-12...7890", s.ProviderKeys[common.ProviderGoogle])
	assert.NotContains(t, w.Body.String(), "fc-1234567890")

	w = request(t, r, http.MethodPut, "/api/v1/settings/model", `{"model":"claude-opus-4-20250514"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"selectedModel":"claude-opus-4-20250514"`)

	w = request(t, r, http.MethodPut, "/api/v1/settings/model", `{"model":"llama-3"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeUnsupportedProvider)

	w = request(t, r, http.MethodGet, "/api/v1/models", "")
	require.Equal(t, http.StatusOK, w.Code)
	var models struct {
		Models []struct {
			ID        string              `json:"id"`
			Provider  common.ProviderName `json:"provider"`
			Available bool                `json:"available"`
		} `json:"models"`
		Selected string `json:"selected"`
	}
	decode(t, w, &models)
	assert.Equal(t, "claude-opus-4-20250514", models.Selected)
	require.NotEmpty(t, models.Models)
	for _, m := range models.Models {
		assert.Equal(t, m.Provider == common.ProviderGoogle, m.Available, m.ID)
	}
}

func TestUnitsConvertRoute(t *testing.T) {
	r := newTestRouter(t, &fakeExtractor{})

	w := request(t, r, http.MethodGet, "/api/v1/units/convert?quantity=1&unit=tbsp", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Alternatives []struct {
			Quantity float64 `json:"quantity"`
			Display  string  `json:"display"`
			Unit     string  `json:"unit"`
		} `json:"alternatives"`
	}
	decode(t, w, &resp)
	require.Len(t, resp.Alternatives, 2)
	assert.Equal(t, "ml", resp.Alternatives[0].Unit)
	assert.Equal(t, "15", resp.Alternatives[0].Display)

	assert.Equal(t, http.StatusBadRequest, request(t, r, http.MethodGet, "/api/v1/units/convert?quantity=abc&unit=g", "").Code)
	assert.Equal(t, http.StatusBadRequest, request(t, r, http.MethodGet, "/api/v1/units/convert?quantity=1", "").Code)

	w = request(t, r, http.MethodGet, "/api/v1/units/convert?quantity=2&unit=pinch", "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &resp)
	assert.Empty(t, resp.Alternatives)
}
