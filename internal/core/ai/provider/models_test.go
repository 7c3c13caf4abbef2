package provider

import (
	"testing"

	"recipe-extractor/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderForModel(t *testing.T) {
	tests := map[string]common.ProviderName{
		"gpt-4o":                   common.ProviderOpenAI,
		"gpt-4.1":                  common.ProviderOpenAI,
		"gemini-2.0-flash":         common.ProviderGoogle,
		"gemini-2.5-pro":           common.ProviderGoogle,
		"claude-sonnet-4-20250514": common.ProviderAnthropic,
		"claude-opus-4-20250514":   common.ProviderAnthropic,
		"claude-4-haiku":           common.ProviderAnthropic,
	}
	for id, want := range tests {
		got, err := ProviderForModel(id)
		require.NoError(t, err, id)
		assert.Equal(t, want, got, id)
	}

	_, err := ProviderForModel("llama-3")
	assert.ErrorIs(t, err, common.ErrUnsupportedProvider)
}

func TestParseProviderName(t *testing.T) {
	p, err := ParseProviderName(" Anthropic ")
	require.NoError(t, err)
	assert.Equal(t, common.ProviderAnthropic, p)

	_, err = ParseProviderName("mistral")
	assert.ErrorIs(t, err, common.ErrUnsupportedProvider)
}

func TestAvailableModels(t *testing.T) {
	models := AvailableModels(map[common.ProviderName]string{
		common.ProviderGoogle:    "g-key",
		common.ProviderAnthropic: "   ",
	})
	require.Len(t, models, len(Models))

	for _, m := range models {
		assert.Equal(t, m.Provider == common.ProviderGoogle, m.Available, m.ID)
	}
}
