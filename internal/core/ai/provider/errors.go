package provider

import (
	"fmt"
	"net/http"
	"strings"

	"recipe-extractor/internal/pkg/common"
)

// maxErrorBody 錯誤訊息中保留的回應內容長度
const maxErrorBody = 1000

// StatusError 將非 2xx 回應轉換為對應錯誤；auth 為 true 時視為金鑰無效
func StatusError(name common.ProviderName, status int, body string, auth bool) error {
	if auth {
		return common.LLMAuthError(name.DisplayName())
	}
	detail := strings.TrimSpace(body)
	if detail == "" {
		detail = fmt.Sprintf("%d %s", status, http.StatusText(status))
	}
	if r := []rune(detail); len(r) > maxErrorBody {
		detail = string(r[:maxErrorBody]) + "..."
	}
	return common.LLMProviderError(name.DisplayName(), detail, nil)
}

// TransportError 請求未送達或逾時
func TransportError(name common.ProviderName, err error) error {
	return common.LLMProviderError(name.DisplayName(), err.Error(), err)
}
