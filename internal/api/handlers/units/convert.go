// Package units 單位換算的路由處理器
package units

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"recipe-extractor/internal/api/handlers"
	"recipe-extractor/internal/core/quantity"
	"recipe-extractor/internal/core/units"
	"recipe-extractor/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Alternative 換算結果
type Alternative struct {
	Quantity float64 `json:"quantity"`
	Display  string  `json:"display"`
	Unit     string  `json:"unit"`
	Exact    bool    `json:"exact"`
}

// ConvertResponse 換算回應
type ConvertResponse struct {
	Quantity     float64       `json:"quantity"`
	Display      string        `json:"display"`
	Unit         string        `json:"unit"`
	Alternatives []Alternative `json:"alternatives"`
}

// HandleConvert 以固定比例換算 quantity + unit
func HandleConvert(c *gin.Context) {
	q, err := strconv.ParseFloat(strings.ReplaceAll(c.Query("quantity"), ",", "."), 64)
	if err != nil || math.IsNaN(q) || math.IsInf(q, 0) {
		handlers.RespondError(c, common.NewValidationError("quantity must be a number"))
		return
	}
	unit := strings.TrimSpace(c.Query("unit"))
	if unit == "" {
		handlers.RespondError(c, common.NewValidationError("unit is required"))
		return
	}

	resp := ConvertResponse{
		Quantity:     q,
		Display:      quantity.Format(q, 1),
		Unit:         unit,
		Alternatives: []Alternative{},
	}
	for _, a := range units.Convert(q, unit) {
		resp.Alternatives = append(resp.Alternatives, Alternative{
			Quantity: a.Quantity,
			Display:  units.FormatAltValue(a.Quantity, a.Unit),
			Unit:     a.Unit,
			Exact:    a.Exact,
		})
	}
	c.JSON(http.StatusOK, resp)
}
