package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"recipe-extractor/internal/core/library"
	"recipe-extractor/internal/core/recipe"
	"recipe-extractor/internal/core/store"
	"recipe-extractor/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type fakeExtractor struct {
	err error
}

func (f *fakeExtractor) Extract(ctx context.Context, url string, creds recipe.Credentials) (*common.Recipe, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &common.Recipe{
		ID:           "r1",
		Title:        "Pasta al pomodoro",
		SourceURL:    url,
		BaseServings: 2,
		Ingredients: []common.Ingredient{
			{Name: "spaghetti", Quantity: 200, Unit: "g"},
			{Name: "olio", Quantity: 2, Unit: "cucchiai"},
			{Name: "sale", Notes: "q.b."},
		},
		Steps: []common.RecipeStep{
			{Title: "Cuocere la pasta", Instruction: "Cuocere in acqua salata.", Duration: "10 minuti"},
		},
		Warnings:    []string{"Contiene glutine"},
		ExtractedAt: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
	}, nil
}

func newTestRoot(t *testing.T, ex Extractor) (*RootCommand, *bytes.Buffer) {
	t.Helper()
	root := NewRootCommand()
	root.library = library.New(store.NewMemoryStore(), common.AppSettings{
		Firecrawl:     "fc-1234567890",
		ProviderKeys:  map[common.ProviderName]string{common.ProviderOpenAI: "sk-1234567890"},
		SelectedModel: "gpt-4o",
	})
	root.extractor = ex
	buf := &bytes.Buffer{}
	root.opts.Writer = buf
	root.cmd.SetOut(buf)
	root.cmd.SetErr(buf)
	return root, buf
}

func run(t *testing.T, root *RootCommand, args ...string) error {
	t.Helper()
	root.cmd.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestRootCommand_Commands(t *testing.T) {
	root := NewRootCommand()
	names := []string{}
	for _, c := range root.Command().Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"extract", "history", "show", "delete", "models", "settings", "convert"} {
		assert.Contains(t, names, want)
	}

	flag := root.Command().PersistentFlags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, "o", flag.Shorthand)
}

func TestExtractAndShow(t *testing.T) {
	root, buf := newTestRoot(t, &fakeExtractor{})

	require.NoError(t, run(t, root, "extract", "https://example.com/pasta", "--servings", "4"))
	out := buf.String()
	assert.Contains(t, out, "Pasta al pomodoro")
	assert.Contains(t, out, "Servings: 4 (original 2)")
	assert.Contains(t, out, "400 g spaghetti")
	assert.Contains(t, out, "4 cucchiai olio [60 ml, 12 cucchiaini]")
	assert.Contains(t, out, "sale (q.b.)")
	assert.Contains(t, out, "1. Cuocere la pasta (10 minuti)")
	assert.Contains(t, out, "! Contiene glutine")

	buf.Reset()
	require.NoError(t, run(t, root, "history"))
	assert.Contains(t, buf.String(), "r1")
	assert.Contains(t, buf.String(), "https://example.com/pasta")

	buf.Reset()
	require.NoError(t, run(t, root, "show", "r1", "-o", "json"))
	var out2 struct {
		Recipe common.Recipe     `json:"recipe"`
		View   recipe.RecipeView `json:"view"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out2))
	assert.Equal(t, "r1", out2.Recipe.ID)
	assert.Equal(t, 2, out2.View.Servings)

	buf.Reset()
	require.NoError(t, run(t, root, "delete", "r1", "-o", "text"))
	assert.Contains(t, buf.String(), "Deleted r1")

	err := run(t, root, "show", "r1")
	assert.ErrorIs(t, err, library.ErrRecipeNotFound)
}

func TestExtract_Errors(t *testing.T) {
	root, _ := newTestRoot(t, &fakeExtractor{err: common.ScrapeQuotaExceeded("Firecrawl")})
	err := run(t, root, "extract", "https://example.com/pasta")
	assert.ErrorIs(t, err, common.ErrScrapeQuotaExceeded)

	root, _ = newTestRoot(t, &fakeExtractor{})
	err = run(t, root, "extract", "https://example.com/pasta", "--model", "claude-opus-4-20250514")
	assert.ErrorIs(t, err, common.ErrMissingAPIKey)
}

func TestSettingsCommands(t *testing.T) {
	root, buf := newTestRoot(t, &fakeExtractor{})

	require.NoError(t, run(t, root, "settings", "set-key", "anthropic", "sk-ant-1234567890"))
	assert.Contains(t, buf.String(), "sk-a...7890")
	assert.NotContains(t, buf.String(), "sk-ant-1234567890")

	buf.Reset()
	require.NoError(t, run(t, root, "settings", "model", "claude-sonnet-4-20250514"))
	assert.Contains(t, buf.String(), "claude-sonnet-4-20250514")

	assert.ErrorIs(t, run(t, root, "settings", "model", "llama-3"), common.ErrUnsupportedProvider)
	assert.ErrorIs(t, run(t, root, "settings", "set-key", "mistral", "k"), common.ErrUnsupportedProvider)

	buf.Reset()
	require.NoError(t, run(t, root, "settings", "-o", "yaml"))
	var s map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &s))
	assert.Equal(t, "claude-sonnet-4-20250514", s["selectedModel"])

	buf.Reset()
	require.NoError(t, run(t, root, "models", "-o", "text"))
	assert.Contains(t, buf.String(), "* ")
	assert.Contains(t, buf.String(), "claude-sonnet-4-20250514")
}

func TestConvertCommand(t *testing.T) {
	root, buf := newTestRoot(t, &fakeExtractor{})

	require.NoError(t, run(t, root, "convert", "1000", "g", "-o", "text"))
	assert.Contains(t, buf.String(), "1 kg")

	buf.Reset()
	require.NoError(t, run(t, root, "convert", "2", "pinch"))
	assert.Contains(t, buf.String(), "No conversions")

	assert.Error(t, run(t, root, "convert", "lots", "g"))
	assert.Error(t, run(t, root, "-o", "xml", "convert", "1", "g"))
}

func TestParseOutputFormat(t *testing.T) {
	f, err := ParseOutputFormat("")
	require.NoError(t, err)
	assert.Equal(t, OutputText, f)

	f, err = ParseOutputFormat("yaml")
	require.NoError(t, err)
	assert.Equal(t, OutputYAML, f)

	_, err = ParseOutputFormat("xml")
	assert.Error(t, err)
}
