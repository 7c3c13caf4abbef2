package recipe

import (
	"context"
	"fmt"

	"recipe-extractor/internal/core/ai/provider"
	"recipe-extractor/internal/pkg/common"
)

// enrichmentOutcome 補充替代計量的結果；err 不為 nil 時 ingredients 不可使用
type enrichmentOutcome struct {
	ingredients []common.Ingredient
	err         error
}

// enrichAlternatives 第二次模型呼叫，為每個食材補充替代計量；失敗不影響擷取結果
func (s *ExtractionService) enrichAlternatives(ctx context.Context, creds Credentials, r common.Recipe) enrichmentOutcome {
	client, err := s.factory.New(creds.Provider, creds.APIKey)
	if err != nil {
		return enrichmentOutcome{err: err}
	}

	raw, err := client.GenerateStructured(ctx, &provider.Request{
		Model:       creds.Model,
		System:      AlternativesSystemPrompt,
		Prompt:      BuildAlternativesPrompt(r),
		SchemaName:  alternativesSchemaName,
		Schema:      AlternativesSchema(),
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		return enrichmentOutcome{err: err}
	}

	alts, err := ValidateAlternatives(raw, len(r.Ingredients))
	if err != nil {
		return enrichmentOutcome{err: causeOf(err)}
	}

	merged, ok := MergeAlternatives(r.Ingredients, alts)
	if !ok {
		return enrichmentOutcome{err: fmt.Errorf("alternatives do not match ingredients")}
	}
	return enrichmentOutcome{ingredients: merged}
}

// MergeAlternatives 依索引合併替代計量；筆數不符時原樣回傳且 ok 為 false
func MergeAlternatives(ingredients []common.Ingredient, alts [][]common.AlternativeMeasurement) ([]common.Ingredient, bool) {
	if len(alts) != len(ingredients) {
		return ingredients, false
	}

	out := make([]common.Ingredient, len(ingredients))
	for i, ing := range ingredients {
		out[i] = ing
		if ing.Quantity <= 0 || len(alts[i]) == 0 {
			continue
		}
		combined := make([]common.AlternativeMeasurement, 0, len(ing.Alternatives)+len(alts[i]))
		combined = append(combined, ing.Alternatives...)
		combined = append(combined, alts[i]...)
		out[i].Alternatives = sanitizeAlternatives(combined, ing.Unit)
	}
	return out, true
}

// causeOf 取出驗證失敗的具體原因
func causeOf(err error) error {
	if ce, ok := common.AsCustomError(err); ok && ce.Err != nil {
		return ce.Err
	}
	return err
}
