package recipe

import (
	"math"
	"strconv"
	"strings"
	"time"

	"recipe-extractor/internal/core/units"
	"recipe-extractor/internal/pkg/common"

	"github.com/spf13/cast"
)

const (
	// DefaultServings 份量缺漏或不合法時的預設值
	DefaultServings = 4

	// MaxIngredientAlternatives 每個食材保留的替代計量上限
	MaxIngredientAlternatives = 4
)

// Normalize 將任意形狀的食譜資料整理為完整的 Recipe；永不失敗，且重複呼叫結果不變
func Normalize(raw any) common.Recipe {
	m := toMap(raw)

	r := common.Recipe{
		ID:           toString(m["id"]),
		Title:        toString(m["title"]),
		Description:  toString(m["description"]),
		SourceURL:    toString(m["sourceUrl"]),
		BaseServings: normalizeServings(m["baseServings"]),
		Ingredients:  normalizeIngredients(m["ingredients"]),
		Steps:        normalizeSteps(m["steps"]),
		Warnings:     normalizeWarnings(m["warnings"]),
	}

	if s := toString(m["extractedAt"]); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			r.ExtractedAt = t
		}
	}

	return r
}

func toMap(raw any) map[string]any {
	var v any
	switch x := raw.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return x
	case string:
		parsed, err := common.ParseAny(x)
		if err != nil {
			return map[string]any{}
		}
		v = parsed
	case []byte:
		parsed, err := common.ParseAny(string(x))
		if err != nil {
			return map[string]any{}
		}
		v = parsed
	default:
		generic, err := common.ToGeneric(x)
		if err != nil {
			return map[string]any{}
		}
		v = generic
	}

	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func normalizeServings(v any) int {
	f := toFloat(v)
	n := int(math.Round(f))
	if n < 1 {
		return DefaultServings
	}
	return n
}

func normalizeIngredients(v any) []common.Ingredient {
	items, _ := v.([]any)
	out := make([]common.Ingredient, 0, len(items))
	for _, item := range items {
		switch x := item.(type) {
		case string:
			if name := strings.TrimSpace(x); name != "" {
				out = append(out, common.Ingredient{Name: name})
			}
		case map[string]any:
			ing := common.Ingredient{
				Name:     toString(x["name"]),
				Quantity: parseQuantity(x["quantity"]),
				Unit:     toString(x["unit"]),
				Notes:    toString(x["notes"]),
			}
			ing.Alternatives = sanitizeAlternatives(parseAlternatives(x["alternatives"]), ing.Unit)
			out = append(out, ing)
		}
	}
	return out
}

func parseAlternatives(v any) []common.AlternativeMeasurement {
	items, _ := v.([]any)
	var out []common.AlternativeMeasurement
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, toAlternative(m))
		}
	}
	return out
}

// sanitizeAlternatives 過濾無效、重複或與原單位相同的替代計量，最多保留 4 筆
func sanitizeAlternatives(alts []common.AlternativeMeasurement, unit string) []common.AlternativeMeasurement {
	var out []common.AlternativeMeasurement
	seen := map[string]bool{}
	for _, a := range alts {
		a.Unit = strings.TrimSpace(a.Unit)
		a.Note = strings.TrimSpace(a.Note)
		if a.Quantity <= 0 || math.IsNaN(a.Quantity) || math.IsInf(a.Quantity, 0) || a.Unit == "" {
			continue
		}
		if unit != "" && units.SameUnit(a.Unit, unit) {
			continue
		}
		key := strings.ToLower(a.Unit)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
		if len(out) == MaxIngredientAlternatives {
			break
		}
	}
	return out
}

func normalizeSteps(v any) []common.RecipeStep {
	items, _ := v.([]any)
	out := make([]common.RecipeStep, 0, len(items))
	for _, item := range items {
		var step common.RecipeStep
		switch x := item.(type) {
		case string:
			step.Instruction = strings.TrimSpace(x)
		case map[string]any:
			step = common.RecipeStep{
				Title:       firstNonEmpty(x, "title", "summary"),
				Instruction: firstNonEmpty(x, "instruction", "summary", "description", "text"),
				Details:     stringField(x["details"]),
				Duration:    stringField(x["duration"]),
			}
		default:
			continue
		}
		if step.Title == "" && step.Instruction == "" {
			continue
		}
		out = append(out, step)
	}
	return out
}

func normalizeWarnings(v any) []string {
	out := []string{}
	switch x := v.(type) {
	case string:
		if s := strings.TrimSpace(x); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, item := range x {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func firstNonEmpty(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := toString(m[k]); s != "" {
			return s
		}
	}
	return ""
}

// stringField 只接受字串，其他型別視為空
func stringField(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case map[string]any, []any:
		return ""
	default:
		return strings.TrimSpace(cast.ToString(toPlain(x)))
	}
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case nil, bool:
		return 0
	case string:
		f, err := cast.ToFloat64E(strings.TrimSpace(x))
		if err != nil {
			return 0
		}
		return f
	default:
		f, err := cast.ToFloat64E(toPlain(x))
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	}
}

// parseQuantity 數量需為有限且非負；接受「1/2」「1 1/2」「2-3」（取下限）等字串
func parseQuantity(v any) float64 {
	if s, ok := v.(string); ok {
		return parseQuantityString(s)
	}
	f := toFloat(v)
	if f < 0 {
		return 0
	}
	return f
}

func parseQuantityString(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0
	}
	if i := strings.IndexAny(s, "-–"); i > 0 {
		s = strings.TrimSpace(s[:i])
	}

	total := 0.0
	for _, part := range strings.Fields(s) {
		if num, den, ok := strings.Cut(part, "/"); ok {
			n, err1 := strconv.ParseFloat(num, 64)
			d, err2 := strconv.ParseFloat(den, 64)
			if err1 != nil || err2 != nil || d == 0 {
				return 0
			}
			total += n / d
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0
		}
		total += f
	}

	if total < 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return 0
	}
	return total
}
