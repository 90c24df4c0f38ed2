package port

import (
	"context"

	"wallet_dashboard/internal/domain/entity"
)

// BalanceResolver returns the native balance followed by non-zero token balances.
type BalanceResolver interface {
	Resolve(ctx context.Context, walletAddress string) ([]entity.AssetBalance, error)
}

// TransferReconciler returns the merged, deduplicated, newest-first transfer list.
type TransferReconciler interface {
	Reconcile(ctx context.Context, walletAddress string, limit int) ([]entity.TransferRecord, error)
}

// WalletService runs a full dashboard lookup for one address.
type WalletService interface {
	Lookup(ctx context.Context, walletAddress string, transferLimit int) (*entity.WalletLookup, error)
}
