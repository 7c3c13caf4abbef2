package recipe

import (
	"fmt"
	"strings"

	"recipe-extractor/internal/core/quantity"
	"recipe-extractor/internal/pkg/common"
)

// ExtractionSystemPrompt 食譜擷取指示
const ExtractionSystemPrompt = `You are a recipe extraction assistant. Extract the recipe from the provided web page content and return it as JSON matching the provided schema.

Language and units:
- Keep every text field in the same language as the source page. Do not translate.
- Keep the original units exactly as written in the source (e.g. "cucchiai", "g", "cups"). Do not convert units.

Fields:
- "title": concise recipe title.
- "description": brief description of the dish (1-2 sentences).
- "baseServings": number of servings as an integer. If not stated, estimate it from the recipe.
- "ingredients": name, quantity, unit and optional notes such as "diced" or "room temperature".
- "steps": "title" is a short label (e.g. "Cook the pasta"); "instruction" is complete and actionable on its own; "details" holds optional tips, substitutions, technique notes or troubleshooting; "duration" is an estimate like "5 minutes".
- "warnings": allergens, equipment needed, prep time requirements, items that need advance preparation.

Guidelines:
- Use decimal numbers for "quantity" (0.5 instead of 1/2, 0.25 instead of 1/4, 0.333 instead of 1/3).
- For ranges like "2-3 cloves garlic", use the lower number (2) and put the range in notes.
- For "to taste" or "as needed", use 0 for quantity and put the description in notes.
- Keep "title" under 6 words.
- Do not include alternatives in this pass.`

// AlternativesSystemPrompt 替代計量補充指示
const AlternativesSystemPrompt = `You add alternative measurements to recipe ingredients.

For each ingredient, in the same order and with the same zero-based "index", return up to 4 alternative measurements:
- Fixed-ratio conversions (volume to volume, weight to weight) have "exact": true.
- Density-based estimates (volume to weight or weight to volume) have "exact": false and a short "note" such as "approx., sifted".
- Never repeat the ingredient's own unit.
- Keep unit names in the same language as the ingredient's unit.
- Return an empty list for ingredients with quantity 0 or uncountable units (pinch, clove, piece).
Return exactly one entry per ingredient.`

// BuildExtractionPrompt 組合擷取提示（頁面內容已截斷）
func BuildExtractionPrompt(content string) string {
	return "Extract the recipe from the following content:\n\n" + content
}

// BuildAlternativesPrompt 列出食材（含索引）供補充替代計量
func BuildAlternativesPrompt(r common.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recipe: %s\nIngredients (%d):\n", r.Title, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		amount := quantity.TrimDecimal(ing.Quantity, 3)
		line := strings.TrimSpace(fmt.Sprintf("%s %s %s", amount, ing.Unit, ing.Name))
		fmt.Fprintf(&b, "%d. %s\n", i, line)
	}
	return b.String()
}
