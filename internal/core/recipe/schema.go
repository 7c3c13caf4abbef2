package recipe

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"recipe-extractor/internal/pkg/common"

	"github.com/spf13/cast"
)

func alternativeSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"quantity": map[string]any{"type": "number"},
			"unit":     map[string]any{"type": "string"},
			"exact": map[string]any{
				"type":        "boolean",
				"description": "true for fixed-ratio conversions (volume to volume, weight to weight), false for density-based estimates",
			},
			"note": map[string]any{"type": "string"},
		},
		"required": []string{"quantity", "unit", "exact"},
	}
}

// RecipeSchema 食譜擷取的 JSON Schema
func RecipeSchema() map[string]any {
	ingredient := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":     map[string]any{"type": "string"},
			"quantity": map[string]any{"type": "number", "description": "Decimal number; 0 when the amount is 'to taste'"},
			"unit":     map[string]any{"type": "string"},
			"notes":    map[string]any{"type": "string"},
			"alternatives": map[string]any{
				"type":  "array",
				"items": alternativeSchema(),
			},
		},
		"required": []string{"name", "quantity", "unit"},
	}

	step := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       map[string]any{"type": "string"},
			"instruction": map[string]any{"type": "string"},
			"details":     map[string]any{"type": "string"},
			"duration":    map[string]any{"type": "string"},
		},
		"required": []string{"title", "instruction"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":        map[string]any{"type": "string"},
			"description":  map[string]any{"type": "string"},
			"baseServings": map[string]any{"type": "integer"},
			"ingredients":  map[string]any{"type": "array", "items": ingredient},
			"steps":        map[string]any{"type": "array", "items": step},
			"warnings":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"title", "baseServings", "ingredients", "steps", "warnings"},
	}
}

// AlternativesSchema 替代計量補充的 JSON Schema（最外層需為物件）
func AlternativesSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"alternatives": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"index": map[string]any{"type": "integer"},
						"alternatives": map[string]any{
							"type":  "array",
							"items": alternativeSchema(),
						},
					},
					"required": []string{"index", "alternatives"},
				},
			},
		},
		"required": []string{"alternatives"},
	}
}

// ValidateRecipe 檢查模型輸出是否符合食譜結構
func ValidateRecipe(raw any) error {
	if err := validateRecipe(raw); err != nil {
		return common.ExtractionParseError(err)
	}
	return nil
}

func validateRecipe(raw any) error {
	obj, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("recipe must be a JSON object, got %T", raw)
	}

	title, ok := obj["title"].(string)
	if !ok || strings.TrimSpace(title) == "" {
		return fmt.Errorf("missing recipe title")
	}

	ingredients, ok := obj["ingredients"].([]any)
	if !ok {
		return fmt.Errorf("missing ingredients array")
	}
	steps, ok := obj["steps"].([]any)
	if !ok {
		return fmt.Errorf("missing steps array")
	}

	if v, present := obj["description"]; present && v != nil {
		if _, ok := v.(string); !ok {
			return fmt.Errorf("description must be a string")
		}
	}
	if v, present := obj["baseServings"]; present && v != nil && !isNumber(v) {
		return fmt.Errorf("baseServings must be a number")
	}
	if v, present := obj["warnings"]; present && v != nil {
		if _, ok := v.([]any); !ok {
			return fmt.Errorf("warnings must be an array")
		}
	}

	for i, item := range ingredients {
		if err := validateIngredient(item); err != nil {
			return fmt.Errorf("ingredient %d: %w", i, err)
		}
	}
	for i, item := range steps {
		switch item.(type) {
		case map[string]any, string:
		default:
			return fmt.Errorf("step %d must be an object", i)
		}
	}

	return nil
}

func validateIngredient(item any) error {
	if _, ok := item.(string); ok {
		return nil
	}
	ing, ok := item.(map[string]any)
	if !ok {
		return fmt.Errorf("must be an object")
	}
	for _, key := range []string{"name", "unit", "notes"} {
		if v, present := ing[key]; present && v != nil {
			if _, ok := v.(string); !ok {
				return fmt.Errorf("%s must be a string", key)
			}
		}
	}
	if v, present := ing["quantity"]; present && v != nil && !isNumber(v) {
		return fmt.Errorf("quantity must be a number")
	}
	if v, present := ing["alternatives"]; present && v != nil {
		alts, ok := v.([]any)
		if !ok {
			return fmt.Errorf("alternatives must be an array")
		}
		for j, a := range alts {
			if err := validateAlternative(a); err != nil {
				return fmt.Errorf("alternative %d: %w", j, err)
			}
		}
	}
	return nil
}

func validateAlternative(item any) error {
	alt, ok := item.(map[string]any)
	if !ok {
		return fmt.Errorf("must be an object")
	}
	if !isNumber(alt["quantity"]) {
		return fmt.Errorf("quantity must be a number")
	}
	if _, ok := alt["unit"].(string); !ok {
		return fmt.Errorf("unit must be a string")
	}
	if v, present := alt["exact"]; present && v != nil {
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("exact must be a boolean")
		}
	}
	return nil
}

// ValidateAlternatives 解析替代計量回應；數量不符或順序錯亂時整批拒絕
func ValidateAlternatives(raw any, count int) ([][]common.AlternativeMeasurement, error) {
	if obj, ok := raw.(map[string]any); ok {
		raw = obj["alternatives"]
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, common.ExtractionParseError(fmt.Errorf("alternatives must be an array, got %T", raw))
	}
	if len(entries) != count {
		return nil, common.ExtractionParseError(
			fmt.Errorf("alternatives count mismatch: got %d, want %d", len(entries), count))
	}

	out := make([][]common.AlternativeMeasurement, count)
	for i, entry := range entries {
		var list any
		switch e := entry.(type) {
		case nil:
			continue
		case []any:
			list = e
		case map[string]any:
			if idx, present := e["index"]; present && idx != nil {
				n, err := cast.ToIntE(toPlain(idx))
				if err != nil || n != i {
					return nil, common.ExtractionParseError(
						fmt.Errorf("alternatives entry %d has index %v", i, idx))
				}
			}
			list = e["alternatives"]
		default:
			return nil, common.ExtractionParseError(fmt.Errorf("alternatives entry %d is %T", i, entry))
		}

		if list == nil {
			continue
		}
		items, ok := list.([]any)
		if !ok {
			return nil, common.ExtractionParseError(fmt.Errorf("alternatives entry %d is not a list", i))
		}
		for _, item := range items {
			alt, ok := item.(map[string]any)
			if !ok {
				return nil, common.ExtractionParseError(fmt.Errorf("alternatives entry %d contains %T", i, item))
			}
			out[i] = append(out[i], toAlternative(alt))
		}
	}
	return out, nil
}

func toAlternative(m map[string]any) common.AlternativeMeasurement {
	return common.AlternativeMeasurement{
		Quantity: toFloat(m["quantity"]),
		Unit:     toString(m["unit"]),
		Exact:    cast.ToBool(m["exact"]),
		Note:     toString(m["note"]),
	}
}

// isNumber 接受 JSON 數字與可解析的數字字串
func isNumber(v any) bool {
	switch n := v.(type) {
	case nil, bool:
		return false
	case string:
		_, err := cast.ToFloat64E(strings.TrimSpace(n))
		return err == nil
	default:
		f, err := cast.ToFloat64E(toPlain(v))
		return err == nil && !math.IsNaN(f)
	}
}

// toPlain 將 json.Number 轉為 cast 可處理的值
func toPlain(v any) any {
	if n, ok := v.(json.Number); ok {
		return n.String()
	}
	return v
}
