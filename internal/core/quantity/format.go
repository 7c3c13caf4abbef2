// Package quantity 將食材數量轉為易讀字串（整數、常見分數或小數）
package quantity

import (
	"math"
	"strconv"
	"strings"
)

// fractionTolerance 小數部分與常見分數的最大容許差距
const fractionTolerance = 0.05

type fraction struct {
	value   float64
	display string
}

// 常見烹飪分數
var fractions = []fraction{
	{0.125, "1/8"},
	{0.25, "1/4"},
	{0.333, "1/3"},
	{0.375, "3/8"},
	{0.5, "1/2"},
	{0.625, "5/8"},
	{0.666, "2/3"},
	{0.75, "3/4"},
	{0.875, "7/8"},
}

// Format 依比例縮放後格式化數量；結果為 0 時回傳空字串（例如「適量」）
func Format(quantity, scale float64) string {
	scaled := quantity * scale

	if scaled == 0 {
		return ""
	}
	if math.IsNaN(scaled) || math.IsInf(scaled, 0) {
		return ""
	}

	if scaled == math.Trunc(scaled) {
		return strconv.FormatFloat(scaled, 'f', -1, 64)
	}

	whole := math.Floor(scaled)
	remainder := scaled - whole

	closest := ""
	closestDiff := 1.0
	for _, f := range fractions {
		diff := math.Abs(remainder - f.value)
		if diff < closestDiff && diff < fractionTolerance {
			closestDiff = diff
			closest = f.display
		}
	}

	if closest != "" {
		if whole == 0 {
			return closest
		}
		return strconv.FormatFloat(whole, 'f', -1, 64) + " " + closest
	}

	return TrimDecimal(scaled, 2)
}

// TrimDecimal 以固定小數位輸出並移除尾端的 0 與小數點
func TrimDecimal(value float64, places int) string {
	s := strconv.FormatFloat(value, 'f', places, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

// Scale 計算份量縮放比例；base 不合法時視為 1
func Scale(baseServings, currentServings int) float64 {
	if baseServings <= 0 || currentServings <= 0 {
		return 1
	}
	return float64(currentServings) / float64(baseServings)
}
