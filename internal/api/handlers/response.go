// Package handlers 提供各路由處理器共用的回應輔助函式
package handlers

import (
	"context"
	"errors"
	"net/http"

	"recipe-extractor/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError 將錯誤轉為 {code, error} 回應；訊息可直接顯示給使用者
func RespondError(c *gin.Context, err error) {
	_ = c.Error(err)

	if ce, ok := common.AsCustomError(err); ok {
		status := ce.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		c.AbortWithStatusJSON(status, common.ErrorResponse{
			Code:    ce.Code,
			Message: ce.Error(),
		})
		return
	}

	if common.IsValidationError(err) {
		c.AbortWithStatusJSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: err.Error(),
		})
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		c.AbortWithStatusJSON(http.StatusGatewayTimeout, common.ErrorResponse{
			Code:    common.ErrCodeRequestTimeout,
			Message: "Request timeout",
		})
		return
	}

	common.LogError("Unhandled error",
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestid.Get(c)),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(http.StatusInternalServerError, common.ErrorResponse{
		Code:    common.ErrCodeInternalError,
		Message: common.ErrInternalError.Message,
	})
}

// BindJSON 解析請求體；失敗時回應 400 並回傳 false
func BindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		common.LogWarn("請求格式無效",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", requestid.Get(c)),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: common.ErrInvalidRequest.Message + ": " + err.Error(),
		})
		return false
	}
	return true
}
