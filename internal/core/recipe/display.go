package recipe

import (
	"recipe-extractor/internal/core/quantity"
	"recipe-extractor/internal/core/units"
	"recipe-extractor/internal/pkg/common"
)

// 份量調整範圍
const (
	MinServings = 1
	MaxServings = 99
)

// AlternativeView 顯示用替代計量
type AlternativeView struct {
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Exact    bool   `json:"exact"`
	Note     string `json:"note,omitempty"`
}

// IngredientView 顯示用食材（已依份量縮放）
type IngredientView struct {
	Name         string            `json:"name"`
	Quantity     string            `json:"quantity"`
	Unit         string            `json:"unit"`
	Notes        string            `json:"notes,omitempty"`
	Scaled       bool              `json:"scaled"`
	Alternatives []AlternativeView `json:"alternatives,omitempty"`
}

// RecipeView 依指定份量計算的食譜顯示資料
type RecipeView struct {
	Servings     int              `json:"servings"`
	BaseServings int              `json:"baseServings"`
	Scale        float64          `json:"scale"`
	Ingredients  []IngredientView `json:"ingredients"`
}

// ClampServings 限制份量範圍；0 代表使用原始份量
func ClampServings(servings, base int) int {
	if servings == 0 {
		servings = base
	}
	if servings < MinServings {
		return MinServings
	}
	if servings > MaxServings {
		return MaxServings
	}
	return servings
}

// BuildView 依份量縮放食材；模型提供的替代計量優先，否則使用固定比例換算
func BuildView(r common.Recipe, servings int) RecipeView {
	base := r.BaseServings
	if base <= 0 {
		base = DefaultServings
	}
	servings = ClampServings(servings, base)
	scale := quantity.Scale(base, servings)

	view := RecipeView{
		Servings:     servings,
		BaseServings: base,
		Scale:        scale,
		Ingredients:  make([]IngredientView, 0, len(r.Ingredients)),
	}

	for _, ing := range r.Ingredients {
		iv := IngredientView{
			Name:     ing.Name,
			Quantity: quantity.Format(ing.Quantity, scale),
			Unit:     ing.Unit,
			Notes:    ing.Notes,
			Scaled:   scale != 1 && ing.Quantity > 0,
		}

		if ing.Quantity > 0 {
			alts := ing.Alternatives
			scaled := make([]common.AlternativeMeasurement, 0, len(alts))
			for _, a := range alts {
				a.Quantity *= scale
				scaled = append(scaled, a)
			}
			if len(scaled) == 0 {
				scaled = units.Convert(ing.Quantity*scale, ing.Unit)
			}
			for _, a := range scaled {
				iv.Alternatives = append(iv.Alternatives, AlternativeView{
					Quantity: units.FormatAltValue(a.Quantity, a.Unit),
					Unit:     a.Unit,
					Exact:    a.Exact,
					Note:     a.Note,
				})
			}
		}

		view.Ingredients = append(view.Ingredients, iv)
	}

	return view
}
