package provider

import (
	"fmt"
	"regexp"
	"strings"

	"recipe-extractor/internal/pkg/common"

	"github.com/kaptinlin/jsonrepair"
	"go.uber.org/zap"
)

var fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

// ExtractJSON 從模型文字輸出中取出 JSON：去除 markdown 區塊、擷取最外層物件，失敗時嘗試修復
func ExtractJSON(text string) (any, error) {
	body := strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(body); m != nil {
		body = strings.TrimSpace(m[1])
	}

	candidates := spans(body)
	if len(candidates) == 0 {
		return nil, common.ExtractionParseError(fmt.Errorf("no JSON found in model output"))
	}

	var firstErr error
	for _, c := range candidates {
		v, err := common.ParseAny(c)
		if err == nil {
			return v, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, c := range candidates {
		repaired, err := jsonrepair.JSONRepair(c)
		if err != nil {
			continue
		}
		if v, err := common.ParseAny(repaired); err == nil {
			common.LogDebug("Model output required JSON repair", zap.Int("length", len(c)))
			return v, nil
		}
	}

	return nil, common.ExtractionParseError(fmt.Errorf("failed to parse JSON: %w", firstErr))
}

// spans 候選片段：由最先出現的 '{' 或 '[' 取到最後一個對應結尾；若開頭為陣列再補上物件片段
func spans(s string) []string {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return nil
	}
	out := []string{span(s, start)}
	if s[start] == '[' {
		if obj := strings.Index(s, "{"); obj > start {
			out = append(out, span(s, obj))
		}
	}
	return out
}

func span(s string, start int) string {
	closer := "}"
	if s[start] == '[' {
		closer = "]"
	}
	if end := strings.LastIndex(s, closer); end > start {
		return s[start : end+1]
	}
	// 只有開頭沒有結尾，交給 jsonrepair 補齊
	return s[start:]
}
