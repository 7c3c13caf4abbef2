package recipe

import (
	"testing"

	"recipe-extractor/internal/core/ai/provider"
	"recipe-extractor/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, s string) any {
	t.Helper()
	v, err := provider.ExtractJSON(s)
	require.NoError(t, err)
	return v
}

func TestValidateRecipe_Valid(t *testing.T) {
	raw := parse(t, `{
		"title": "Tomato Soup",
		"baseServings": "4",
		"ingredients": [
			{"name": "tomatoes", "quantity": 800, "unit": "g", "alternatives": [{"quantity": 1.76, "unit": "lb", "exact": true}]},
			{"name": "salt", "quantity": "0", "unit": ""},
			"basil"
		],
		"steps": [{"title": "Simmer", "instruction": "Simmer for 20 minutes."}, "Blend."],
		"warnings": []
	}`)
	assert.NoError(t, ValidateRecipe(raw))
}

func TestValidateRecipe_Invalid(t *testing.T) {
	tests := map[string]string{
		"not an object":        `[1, 2, 3]`,
		"missing title":        `{"ingredients": [], "steps": []}`,
		"blank title":          `{"title": "  ", "ingredients": [], "steps": []}`,
		"missing ingredients":  `{"title": "Soup", "steps": []}`,
		"steps not array":      `{"title": "Soup", "ingredients": [], "steps": "boil"}`,
		"bad quantity":         `{"title": "Soup", "ingredients": [{"name": "salt", "quantity": "a pinch"}], "steps": []}`,
		"bad servings":         `{"title": "Soup", "baseServings": "many", "ingredients": [], "steps": []}`,
		"warnings not array":   `{"title": "Soup", "ingredients": [], "steps": [], "warnings": 3}`,
		"bad alternative unit": `{"title": "Soup", "ingredients": [{"name": "milk", "quantity": 1, "unit": "cup", "alternatives": [{"quantity": 240, "unit": 5}]}], "steps": []}`,
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			err := ValidateRecipe(parse(t, input))
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrExtractionParse)
			assert.Equal(t, "Failed to parse recipe from AI response. The content might not contain a valid recipe.", err.Error())
		})
	}
}

func TestValidateAlternatives_Shapes(t *testing.T) {
	bare := parse(t, `[[{"quantity": 240, "unit": "ml", "exact": true}], []]`)
	alts, err := ValidateAlternatives(bare, 2)
	require.NoError(t, err)
	require.Len(t, alts, 2)
	assert.Equal(t, common.AlternativeMeasurement{Quantity: 240, Unit: "ml", Exact: true}, alts[0][0])
	assert.Empty(t, alts[1])

	wrapped := parse(t, `{"alternatives": [
		{"index": 0, "alternatives": [{"quantity": 125, "unit": "g", "exact": false, "note": "approx."}]},
		{"index": 1, "alternatives": []}
	]}`)
	alts, err = ValidateAlternatives(wrapped, 2)
	require.NoError(t, err)
	assert.Equal(t, "approx.", alts[0][0].Note)
	assert.False(t, alts[0][0].Exact)
}

func TestValidateAlternatives_Rejects(t *testing.T) {
	_, err := ValidateAlternatives(parse(t, `[[], []]`), 3)
	assert.ErrorIs(t, err, common.ErrExtractionParse)

	reordered := parse(t, `{"alternatives": [{"index": 1, "alternatives": []}, {"index": 0, "alternatives": []}]}`)
	_, err = ValidateAlternatives(reordered, 2)
	assert.ErrorIs(t, err, common.ErrExtractionParse)

	_, err = ValidateAlternatives(parse(t, `{"alternatives": "none"}`), 1)
	assert.ErrorIs(t, err, common.ErrExtractionParse)

	_, err = ValidateAlternatives(parse(t, `[["240 ml"]]`), 1)
	assert.ErrorIs(t, err, common.ErrExtractionParse)
}

func TestSchemas_TopLevelObjects(t *testing.T) {
	assert.Equal(t, "object", RecipeSchema()["type"])
	assert.Equal(t, "object", AlternativesSchema()["type"])
	assert.Contains(t, RecipeSchema()["required"], "title")
}
