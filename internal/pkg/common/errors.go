package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`              // 錯誤代碼
	Message string `json:"error"`             // 錯誤信息
	Details string `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息（可直接顯示給使用者）
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

// Unwrap 取得原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對，讓 errors.Is(err, ErrScrapeAuth) 成立
func (e *CustomError) Is(target error) bool {
	var t *CustomError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ValidationError 表示驗證錯誤
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// 預定義錯誤代碼
const (
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"   // 408
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429
	ErrCodeInternalError   = "INTERNAL_ERROR"    // 500
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE" // 413

	// 擷取流程錯誤
	ErrCodeScrapeAuth          = "SCRAPE_AUTH_ERROR"
	ErrCodeScrapeQuotaExceeded = "SCRAPE_QUOTA_EXCEEDED"
	ErrCodeScrapeFailure       = "SCRAPE_FAILURE"
	ErrCodeScrapeEmptyContent  = "SCRAPE_EMPTY_CONTENT"
	ErrCodeLLMAuth             = "LLM_AUTH_ERROR"
	ErrCodeLLMProvider         = "LLM_PROVIDER_ERROR"
	ErrCodeExtractionParse     = "EXTRACTION_PARSE_ERROR"
	ErrCodeUnsupportedProvider = "UNSUPPORTED_PROVIDER"
	ErrCodeMissingAPIKey       = "MISSING_API_KEY"
)

// 預定義錯誤（作為 errors.Is 的比對目標）
var (
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "Invalid request", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "Resource not found", http.StatusNotFound, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "Too many extraction requests, try again later", http.StatusTooManyRequests, nil)
	ErrInternalError   = NewError(ErrCodeInternalError, "Internal server error", http.StatusInternalServerError, nil)

	ErrScrapeAuth          = NewError(ErrCodeScrapeAuth, "", http.StatusUnauthorized, nil)
	ErrScrapeQuotaExceeded = NewError(ErrCodeScrapeQuotaExceeded, "", http.StatusPaymentRequired, nil)
	ErrScrapeFailure       = NewError(ErrCodeScrapeFailure, "", http.StatusBadGateway, nil)
	ErrScrapeEmptyContent  = NewError(ErrCodeScrapeEmptyContent, "", http.StatusUnprocessableEntity, nil)
	ErrLLMAuth             = NewError(ErrCodeLLMAuth, "", http.StatusUnauthorized, nil)
	ErrLLMProvider         = NewError(ErrCodeLLMProvider, "", http.StatusBadGateway, nil)
	ErrExtractionParse     = NewError(ErrCodeExtractionParse, "", http.StatusUnprocessableEntity, nil)
	ErrUnsupportedProvider = NewError(ErrCodeUnsupportedProvider, "", http.StatusBadRequest, nil)
	ErrMissingAPIKey       = NewError(ErrCodeMissingAPIKey, "", http.StatusBadRequest, nil)
)

// ScrapeAuthError 爬取服務金鑰無效
func ScrapeAuthError(service string) *CustomError {
	return NewError(ErrCodeScrapeAuth,
		fmt.Sprintf("Invalid %s API key. Please check your key and try again.", service),
		http.StatusUnauthorized, nil)
}

// ScrapeQuotaExceeded 爬取服務額度用盡
func ScrapeQuotaExceeded(service string) *CustomError {
	return NewError(ErrCodeScrapeQuotaExceeded,
		fmt.Sprintf("%s API quota exceeded. Please check your plan limits.", service),
		http.StatusPaymentRequired, nil)
}

// ScrapeFailure 爬取失敗（網站封鎖或非 2xx）
func ScrapeFailure(detail string, err error) *CustomError {
	return NewError(ErrCodeScrapeFailure,
		fmt.Sprintf("Failed to scrape page: %s", detail),
		http.StatusBadGateway, err)
}

// ScrapeBlocked 爬取服務回報失敗，多半是網站封鎖
func ScrapeBlocked(err error) *CustomError {
	return NewError(ErrCodeScrapeFailure,
		"Failed to extract content from the page. The site may be blocking scraping.",
		http.StatusBadGateway, err)
}

// ScrapeEmptyContent 爬取成功但沒有可用文字
func ScrapeEmptyContent() *CustomError {
	return NewError(ErrCodeScrapeEmptyContent,
		"The page was scraped but no readable content was found.",
		http.StatusUnprocessableEntity, nil)
}

// LLMAuthError 模型供應商金鑰無效
func LLMAuthError(provider string) *CustomError {
	return NewError(ErrCodeLLMAuth,
		fmt.Sprintf("Invalid %s API key. Please check your key and try again.", provider),
		http.StatusUnauthorized, nil)
}

// LLMProviderError 模型供應商非授權類錯誤
func LLMProviderError(provider, detail string, err error) *CustomError {
	return NewError(ErrCodeLLMProvider,
		fmt.Sprintf("%s API error: %s", provider, detail),
		http.StatusBadGateway, err)
}

// LLMEmptyResponse 模型供應商回應中沒有內容
func LLMEmptyResponse(provider string) *CustomError {
	return NewError(ErrCodeLLMProvider,
		fmt.Sprintf("No response from %s", provider),
		http.StatusBadGateway, nil)
}

// ExtractionParseError 模型輸出無法解析為食譜
func ExtractionParseError(err error) *CustomError {
	return NewError(ErrCodeExtractionParse,
		"Failed to parse recipe from AI response. The content might not contain a valid recipe.",
		http.StatusUnprocessableEntity, err)
}

// UnsupportedProvider 不支援的供應商或模型
func UnsupportedProvider(name string) *CustomError {
	return NewError(ErrCodeUnsupportedProvider,
		fmt.Sprintf("Unknown LLM provider or model: %q", name),
		http.StatusBadRequest, nil)
}

// MissingAPIKey 尚未設定金鑰
func MissingAPIKey(service string) *CustomError {
	return NewError(ErrCodeMissingAPIKey,
		fmt.Sprintf("No %s API key configured. Add it in settings first.", service),
		http.StatusBadRequest, nil)
}

// AsCustomError 取出錯誤鏈中的 CustomError
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
