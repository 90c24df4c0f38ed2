package restapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/infrastructure/configloader"

	"github.com/gin-gonic/gin"
)

// WalletHandler serves per-address balance, transfer and portfolio lookups.
type WalletHandler struct {
	balances  port.BalanceResolver
	transfers port.TransferReconciler
	wallets   port.WalletService
	cfg       configloader.TransactionsConfig
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(br port.BalanceResolver, tr port.TransferReconciler, ws port.WalletService, cfg configloader.TransactionsConfig) *WalletHandler {
	return &WalletHandler{
		balances:  br,
		transfers: tr,
		wallets:   ws,
		cfg:       cfg,
	}
}

// GetBalances handles GET /wallets/:address/balances.
func (h *WalletHandler) GetBalances(c *gin.Context) {
	address, err := addressParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	balances, err := h.balances.Resolve(c.Request.Context(), address)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balances": balances})
}

// GetTransactions handles GET /wallets/:address/transactions?limit=N.
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	address, err := addressParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	limit, err := h.parseLimit(c)
	if err != nil {
		respondError(c, err)
		return
	}
	transactions, err := h.transfers.Reconcile(c.Request.Context(), address, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}

// GetPortfolio handles GET /wallets/:address/portfolio?limit=N.
func (h *WalletHandler) GetPortfolio(c *gin.Context) {
	address, err := addressParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	limit, err := h.parseLimit(c)
	if err != nil {
		respondError(c, err)
		return
	}
	lookup, err := h.wallets.Lookup(c.Request.Context(), address, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lookup)
}

// addressParam reads the wallet address from the path, or from ?address= on the flat routes.
func addressParam(c *gin.Context) (string, error) {
	address := strings.TrimSpace(c.Param("address"))
	if address == "" {
		address = strings.TrimSpace(c.Query("address"))
	}
	if address == "" {
		return "", fmt.Errorf("%w: Address is required", entity.ErrInvalidInput)
	}
	return address, nil
}

func (h *WalletHandler) parseLimit(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return h.cfg.DefaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", entity.ErrInvalidInput)
	}
	if h.cfg.MaxLimit > 0 && limit > h.cfg.MaxLimit {
		return 0, fmt.Errorf("%w: limit must be at most %d", entity.ErrInvalidInput, h.cfg.MaxLimit)
	}
	return limit, nil
}
