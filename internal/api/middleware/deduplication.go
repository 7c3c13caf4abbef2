package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"recipe-extractor/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deduplicator 拒絕處理中的相同寫入請求，成功完成後在時間窗內仍視為重複；失敗的請求可立即重送
type Deduplicator struct {
	mu       sync.Mutex
	window   time.Duration
	requests map[string]*dedupEntry
	now      func() time.Time
}

type dedupEntry struct {
	inFlight bool
	doneAt   time.Time
}

// NewDeduplicator 創建去重器；window <= 0 時使用 1 秒
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = time.Second
	}
	return &Deduplicator{
		window:   window,
		requests: make(map[string]*dedupEntry),
		now:      time.Now,
	}
}

// begin 登記指紋；已有相同請求處理中或剛完成時回傳拒絕訊息
func (d *Deduplicator) begin(fingerprint string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for k, e := range d.requests {
		if !e.inFlight && now.Sub(e.doneAt) > d.window {
			delete(d.requests, k)
		}
	}

	if e, ok := d.requests[fingerprint]; ok {
		if e.inFlight {
			return "This request is already being processed", false
		}
		return "This request was just completed, please wait before resubmitting", false
	}
	d.requests[fingerprint] = &dedupEntry{inFlight: true}
	return "", true
}

// finish 結束請求；失敗時移除指紋
func (d *Deduplicator) finish(fingerprint string, succeeded bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !succeeded {
		delete(d.requests, fingerprint)
		return
	}
	if e, ok := d.requests[fingerprint]; ok {
		e.inFlight = false
		e.doneAt = d.now()
	}
}

// Middleware 請求去重中間件（只處理 POST）
func (d *Deduplicator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		// 計算請求體哈希
		bodyHash := ""
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.LogError("Failed to read request body", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusBadRequest, common.ErrorResponse{
					Code:    common.ErrCodeInvalidRequest,
					Message: "Failed to read request body",
				})
				return
			}

			hash := sha256.Sum256(body)
			bodyHash = hex.EncodeToString(hash[:])

			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
		}

		// 生成請求指紋
		fingerprint := c.Request.Method + ":" + c.Request.URL.Path + ":" + bodyHash

		reason, ok := d.begin(fingerprint)
		if !ok {
			common.LogWarn("Duplicate request rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("reason", reason),
				zap.Duration("window", d.window),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Code:    common.ErrCodeTooManyRequests,
				Message: reason,
			})
			return
		}

		completed := false
		defer func() {
			d.finish(fingerprint, completed && c.Writer.Status() < http.StatusBadRequest)
		}()

		c.Next()
		completed = true
	}
}
