package service

import (
	"context"
	"fmt"
	"math/big"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/metrics"
	"wallet_dashboard/internal/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// BalanceResolverImpl implements port.BalanceResolver.
type BalanceResolverImpl struct {
	source                port.BalanceSource
	logger                port.Logger
	maxConcurrentRoutines int
}

// NewBalanceResolver creates a new instance of BalanceResolverImpl. maxRoutines bounds the
// number of metadata lookups in flight; values <= 0 mean unbounded.
func NewBalanceResolver(source port.BalanceSource, l port.Logger, maxRoutines int) *BalanceResolverImpl {
	return &BalanceResolverImpl{
		source:                source,
		logger:                l.With("component", "BalanceResolver"),
		maxConcurrentRoutines: maxRoutines,
	}
}

// Resolve returns the native balance first, then every non-zero token balance in the order
// the source reported them. Tokens whose metadata lookup fails are dropped.
func (r *BalanceResolverImpl) Resolve(ctx context.Context, walletAddress string) ([]entity.AssetBalance, error) {
	wallet, err := entity.NormalizeAddress(walletAddress)
	if err != nil {
		return nil, err
	}

	var (
		nativeRaw *big.Int
		tokenRaw  []entity.RawTokenBalance
		eg        errgroup.Group
	)
	// No shared cancellation: each fetch runs to completion or fails on its own.
	eg.Go(func() error {
		v, err := r.source.GetNativeBalance(ctx, wallet)
		if err != nil {
			return fmt.Errorf("native balance: %w", err)
		}
		nativeRaw = v
		return nil
	})
	eg.Go(func() error {
		v, err := r.source.GetTokenBalances(ctx, wallet)
		if err != nil {
			return fmt.Errorf("token balances: %w", err)
		}
		tokenRaw = v
		return nil
	})
	if err := eg.Wait(); err != nil {
		r.logger.Error("Failed to fetch balances", "wallet", wallet, "error", err)
		return nil, err
	}

	nonZero := make([]entity.RawTokenBalance, 0, len(tokenRaw))
	for _, tb := range tokenRaw {
		if tb.RawBalance == nil || tb.RawBalance.Sign() <= 0 {
			continue
		}
		nonZero = append(nonZero, tb)
	}

	// Each slot is written by exactly one goroutine; nil marks a dropped token.
	resolved := make([]*entity.AssetBalance, len(nonZero))
	var metaGroup errgroup.Group
	if r.maxConcurrentRoutines > 0 {
		metaGroup.SetLimit(r.maxConcurrentRoutines)
	}
	for i, tb := range nonZero {
		metaGroup.Go(func() error {
			md, err := r.source.GetTokenMetadata(ctx, tb.ContractAddress)
			if err != nil {
				r.logger.Warn("Dropping token after metadata failure", "wallet", wallet, "contract", tb.ContractAddress, "error", err)
				metrics.DroppedTokensTotal.Inc()
				return nil
			}
			ab := buildTokenBalance(tb, md)
			resolved[i] = &ab
			return nil
		})
	}
	_ = metaGroup.Wait()

	balances := make([]entity.AssetBalance, 0, len(resolved)+1)
	balances = append(balances, entity.AssetBalance{
		ContractAddress: entity.NativeAssetAddress,
		Symbol:          entity.NativeAssetSymbol,
		Name:            entity.NativeAssetName,
		Balance:         utils.ToHumanAmount(nativeRaw, entity.NativeDecimals),
		Decimals:        entity.NativeDecimals,
	})
	for _, ab := range resolved {
		if ab != nil {
			balances = append(balances, *ab)
		}
	}

	r.logger.Debug("Resolved balances", "wallet", wallet, "tokens_reported", len(tokenRaw),
		"tokens_non_zero", len(nonZero), "tokens_returned", len(balances)-1)
	return balances, nil
}

func buildTokenBalance(tb entity.RawTokenBalance, md entity.TokenMetadata) entity.AssetBalance {
	decimals := entity.DefaultTokenDecimals
	if md.Decimals != nil {
		decimals = *md.Decimals
	}
	symbol := md.Symbol
	if symbol == "" {
		symbol = entity.UnknownTokenSymbol
	}
	name := md.Name
	if name == "" {
		name = entity.UnknownTokenName
	}
	return entity.AssetBalance{
		ContractAddress: tb.ContractAddress,
		Symbol:          symbol,
		Name:            name,
		Balance:         utils.ToHumanAmount(tb.RawBalance, decimals),
		Decimals:        decimals,
	}
}
