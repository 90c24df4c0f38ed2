package port

import (
	"context"
	"math/big"

	"wallet_dashboard/internal/domain/entity"
)

// BalanceSource is the upstream that knows native and token balances and token metadata.
type BalanceSource interface {
	// GetNativeBalance returns the native-asset balance in base units.
	GetNativeBalance(ctx context.Context, walletAddress string) (*big.Int, error)

	// GetTokenBalances returns every (contract, raw balance) pair the source tracks for the wallet,
	// in source order.
	GetTokenBalances(ctx context.Context, walletAddress string) ([]entity.RawTokenBalance, error)

	// GetTokenMetadata returns symbol, name and decimals for a contract.
	GetTokenMetadata(ctx context.Context, contractAddress string) (entity.TokenMetadata, error)
}

// TransferSource returns asset transfers where the address plays the given role.
type TransferSource interface {
	GetAssetTransfers(ctx context.Context, walletAddress string, role entity.TransferRole, maxCount int) ([]entity.RawTransfer, error)
}
