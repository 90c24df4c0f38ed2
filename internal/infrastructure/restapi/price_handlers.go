package restapi

import (
	"net/http"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PriceHandler serves the price table endpoint.
type PriceHandler struct {
	prices port.TokenPriceService
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(ps port.TokenPriceService) *PriceHandler {
	return &PriceHandler{prices: ps}
}

// GetPrices handles GET /prices?symbols=A,B&addresses=0x..,0x..
func (h *PriceHandler) GetPrices(c *gin.Context) {
	symbols := utils.SplitCSV(c.Query("symbols"))
	addresses := utils.SplitCSV(c.Query("addresses"))

	prices, err := h.prices.GetPrices(c.Request.Context(), symbols, addresses)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prices": prices})
}
