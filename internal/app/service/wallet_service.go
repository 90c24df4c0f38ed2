package service

import (
	"context"
	"fmt"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// WalletServiceImpl implements port.WalletService.
type WalletServiceImpl struct {
	balances  port.BalanceResolver
	transfers port.TransferReconciler
	prices    port.TokenPriceService
	logger    port.Logger
}

// NewWalletService creates a new instance of WalletServiceImpl.
func NewWalletService(
	br port.BalanceResolver,
	tr port.TransferReconciler,
	tps port.TokenPriceService,
	l port.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		balances:  br,
		transfers: tr,
		prices:    tps,
		logger:    l.With("component", "WalletService"),
	}
}

// Lookup resolves balances and transfers in parallel, prices the balances and values them.
// A balance or transfer failure fails the lookup; a price failure leaves assets unpriced.
func (s *WalletServiceImpl) Lookup(ctx context.Context, walletAddress string, transferLimit int) (*entity.WalletLookup, error) {
	wallet, err := entity.NormalizeAddress(walletAddress)
	if err != nil {
		return nil, err
	}
	if transferLimit <= 0 {
		return nil, fmt.Errorf("%w: limit must be a positive integer, got %d", entity.ErrInvalidInput, transferLimit)
	}
	s.logger.Debug("Starting wallet lookup", "wallet", wallet, "transfer_limit", transferLimit)

	var (
		balances  []entity.AssetBalance
		transfers []entity.TransferRecord
		eg        errgroup.Group
	)
	eg.Go(func() error {
		v, err := s.balances.Resolve(ctx, wallet)
		if err != nil {
			return err
		}
		balances = v
		return nil
	})
	eg.Go(func() error {
		v, err := s.transfers.Reconcile(ctx, wallet, transferLimit)
		if err != nil {
			return err
		}
		transfers = v
		return nil
	})
	if err := eg.Wait(); err != nil {
		s.logger.Error("Wallet lookup failed", "wallet", wallet, "error", err)
		return nil, err
	}

	symbols, addresses := PriceQuery(balances)
	prices, err := s.prices.GetPrices(ctx, symbols, addresses)
	if err != nil {
		s.logger.Warn("Price lookup failed, continuing without prices", "wallet", wallet, "error", err)
		prices = entity.PriceTable{}
	}

	portfolio := ValuePortfolio(balances, prices)
	holdings := SortHoldingsByValue(portfolio.Holdings)

	s.logger.Info("Wallet lookup complete", "wallet", wallet, "assets", len(holdings),
		"transactions", len(transfers), "total_value_usd", portfolio.TotalValue)
	return &entity.WalletLookup{
		Address:      wallet,
		Holdings:     holdings,
		TotalValue:   portfolio.TotalValue,
		DisplayTotal: FormatUSD(portfolio.TotalValue),
		Allocation:   BuildAllocation(holdings),
		Prices:       prices,
		Transactions: transfers,
	}, nil
}

// PriceQuery lists the symbols (minus UNKNOWN) and real contract addresses to price for balances.
func PriceQuery(balances []entity.AssetBalance) (symbols, addresses []string) {
	for _, ab := range balances {
		if ab.Symbol != "" && ab.Symbol != entity.UnknownTokenSymbol {
			symbols = append(symbols, ab.Symbol)
		}
		if !ab.IsNative() && entity.IsValidAddress(ab.ContractAddress) {
			addresses = append(addresses, ab.ContractAddress)
		}
	}
	return utils.UniqueStrings(symbols), utils.UniqueStrings(addresses)
}
