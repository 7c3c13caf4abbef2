package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.POST("/extract", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/recipes", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	r.ServeHTTP(w, req)
	return w
}

func TestDeduplication(t *testing.T) {
	d := NewDeduplicator(time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }
	r := newEngine(d.Middleware())

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/extract", `{"url":"https://a"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/extract", `{"url":"https://a"}`).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/extract", `{"url":"https://b"}`).Code)

	// GET 不受影響
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/recipes", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/recipes", "").Code)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/extract", `{"url":"https://a"}`).Code)
}

func TestDeduplication_FailedRequestCanBeRetried(t *testing.T) {
	d := NewDeduplicator(time.Minute)
	failing := true
	r := gin.New()
	r.Use(d.Middleware())
	r.POST("/extract", func(c *gin.Context) {
		if failing {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusCreated)
	})

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/extract", `{"url":"https://a"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/extract", `{"url":"https://a"}`).Code)

	failing = false
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/extract", `{"url":"https://a"}`).Code)
	w := do(r, http.MethodPost, "/extract", `{"url":"https://a"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "just completed")
}

func TestDeduplication_InFlight(t *testing.T) {
	d := NewDeduplicator(time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	r := gin.New()
	r.Use(d.Middleware())
	r.POST("/extract", func(c *gin.Context) {
		close(started)
		<-release
		c.Status(http.StatusBadRequest)
	})

	done := make(chan int)
	go func() {
		done <- do(r, http.MethodPost, "/extract", `{"url":"https://a"}`).Code
	}()
	<-started

	w := do(r, http.MethodPost, "/extract", `{"url":"https://a"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "already being processed")

	close(release)
	assert.Equal(t, http.StatusBadRequest, <-done)

	// 失敗後指紋已釋放
	d.mu.Lock()
	defer d.mu.Unlock()
	assert.Empty(t, d.requests)
}

func TestRateLimit(t *testing.T) {
	r := newEngine(RateLimit(2, time.Hour))

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/extract", "1").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/extract", "2").Code)
	w := do(r, http.MethodPost, "/extract", "3")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")

	unlimited := newEngine(RateLimit(0, time.Minute))
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(unlimited, http.MethodPost, "/extract", "x").Code)
	}
}

func TestRateLimiter_Refill(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.lastTime = now
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())

	now = now.Add(500 * time.Millisecond)
	assert.False(t, rl.Allow())
	now = now.Add(500 * time.Millisecond)
	assert.True(t, rl.Allow())
}

func TestBodySizeLimit(t *testing.T) {
	r := newEngine(BodySizeLimit(8))

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/extract", "small").Code)
	w := do(r, http.MethodPost, "/extract", "this body is too large")
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
}

func TestRecovery(t *testing.T) {
	r := newEngine(Recovery(), Logger())

	w := do(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":"INTERNAL_ERROR","error":"Internal server error"}`, w.Body.String())
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := do(r, http.MethodGet, "/slow", "")
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "REQUEST_TIMEOUT")
}
