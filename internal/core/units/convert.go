package units

import (
	"math"
	"strings"

	"recipe-extractor/internal/core/quantity"
	"recipe-extractor/internal/pkg/common"
)

// MaxAlternatives 每個食材最多保留的換算結果
const MaxAlternatives = 3

type candidate struct {
	unit  Unit
	value float64
}

// candidates 依來源單位列出換算目標（含門檻條件）
func candidates(q float64, from Unit) []candidate {
	switch from {
	case Teaspoon:
		ml := q * mlPerTeaspoon
		return []candidate{{Milliliter, ml}, {Tablespoon, ml / mlPerTablespoon}}
	case Tablespoon:
		ml := q * mlPerTablespoon
		return []candidate{{Milliliter, ml}, {Teaspoon, ml / mlPerTeaspoon}}
	case Cup:
		ml := q * mlPerCup
		return []candidate{{Milliliter, ml}, {Tablespoon, ml / mlPerTablespoon}}
	case Milliliter:
		var out []candidate
		if q < mlPerCup {
			out = append(out, candidate{Tablespoon, q / mlPerTablespoon})
		}
		if q < mlPerTablespoon {
			out = append(out, candidate{Teaspoon, q / mlPerTeaspoon})
		}
		if q >= mlPerCup/4 {
			out = append(out, candidate{Cup, q / mlPerCup})
		}
		if q >= mlPerLiter {
			out = append(out, candidate{Liter, q / mlPerLiter})
		}
		return out
	case Liter:
		ml := q * mlPerLiter
		return []candidate{{Milliliter, ml}, {Cup, ml / mlPerCup}}
	case Gram:
		out := []candidate{{Ounce, q / gramsPerOunce}}
		if q >= gramsPerKilo {
			out = append(out, candidate{Kilogram, q / gramsPerKilo})
		}
		if q >= 453.592 {
			out = append(out, candidate{Pound, q / gramsPerPound})
		}
		return out
	case Kilogram:
		g := q * gramsPerKilo
		return []candidate{{Gram, g}, {Ounce, g / gramsPerOunce}, {Pound, g / gramsPerPound}}
	case Ounce:
		g := q * gramsPerOunce
		out := []candidate{{Gram, g}}
		if q >= 16 {
			out = append(out, candidate{Pound, g / gramsPerPound})
		}
		return out
	case Pound:
		g := q * gramsPerPound
		out := []candidate{{Gram, g}}
		if g >= gramsPerKilo {
			out = append(out, candidate{Kilogram, g / gramsPerKilo})
		}
		return append(out, candidate{Ounce, g / gramsPerOunce})
	default:
		return nil
	}
}

// Convert 依固定比例產生替代計量；不跨體積與重量，不回傳來源單位，最多 3 筆
func Convert(q float64, rawUnit string) []common.AlternativeMeasurement {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return nil
	}
	src, ok := lookup(rawUnit)
	if !ok {
		return nil
	}

	seen := map[string]bool{}
	out := make([]common.AlternativeMeasurement, 0, MaxAlternatives)
	for _, c := range candidates(q, src.unit) {
		if c.unit == src.unit || c.unit.Dimension() != src.unit.Dimension() {
			continue
		}
		value := round(c.value, 3)
		if value <= 0 {
			continue
		}
		label := Label(c.unit, src.region, value)
		key := strings.ToLower(label)
		if seen[key] || SameUnit(label, rawUnit) {
			continue
		}
		seen[key] = true
		out = append(out, common.AlternativeMeasurement{
			Quantity: value,
			Unit:     label,
			Exact:    true,
		})
		if len(out) == MaxAlternatives {
			break
		}
	}
	return out
}

// FormatAltValue 依單位格式化替代計量數值
func FormatAltValue(value float64, rawUnit string) string {
	u, _ := Normalize(rawUnit)
	switch u {
	case Milliliter, Gram:
		step := 1.0
		if value < 50 {
			step = 0.5
		}
		return quantity.TrimDecimal(math.Round(value/step)*step, 1)
	case Liter, Kilogram:
		return quantity.TrimDecimal(round(value, 2), 2)
	default:
		return quantity.Format(value, 1)
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
