package provider

import (
	"encoding/json"
	"testing"

	"recipe-extractor/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_Fenced(t *testing.T) {
	text := "Here you go:\n```json\n{\"title\":\"Tomato Soup\",\"baseServings\":4}\n```\nEnjoy!"

	v, err := ExtractJSON(text)
	require.NoError(t, err)

	obj, ok := v.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Tomato Soup", obj["title"])
	assert.Equal(t, json.Number("4"), obj["baseServings"])
}

func TestExtractJSON_SurroundingProse(t *testing.T) {
	v, err := ExtractJSON(`Sure! {"title":"Pancakes","steps":[]} Let me know.`)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", v.(map[string]any)["title"])
}

func TestExtractJSON_BareArray(t *testing.T) {
	v, err := ExtractJSON(`[{"quantity":15,"unit":"ml"}]`)
	require.NoError(t, err)
	arr, ok := v.([]any)
	require.True(t, ok)
	assert.Len(t, arr, 1)
}

func TestExtractJSON_BracketedProseBeforeObject(t *testing.T) {
	v, err := ExtractJSON(`[v2] {"title":"Soup","ingredients":[{"name":"salt"}]}`)
	require.NoError(t, err)
	assert.Equal(t, "Soup", v.(map[string]any)["title"])
}

func TestExtractJSON_Repairs(t *testing.T) {
	v, err := ExtractJSON(`{"title": "Soup", "warnings": ["hot",],}`)
	require.NoError(t, err)
	obj := v.(map[string]any)
	assert.Equal(t, "Soup", obj["title"])
	assert.Equal(t, []any{"hot"}, obj["warnings"])
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON("I could not find a recipe on this page.")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrExtractionParse)
	assert.Contains(t, err.Error(), "Failed to parse recipe from AI response")
}
