package port

import (
	"context"

	"wallet_dashboard/internal/domain/entity"
)

// FavoritesStore persists favorite wallets. Addresses passed in are already normalized.
type FavoritesStore interface {
	// Add stores fav, filling CreatedAt. It returns entity.ErrAlreadyExists for a duplicate (UserID, Address).
	Add(ctx context.Context, fav entity.FavoriteWallet) (entity.FavoriteWallet, error)
	// Remove deletes the favorite if present.
	Remove(ctx context.Context, userID, address string) error
	// List returns the user's favorites, newest first.
	List(ctx context.Context, userID string) ([]entity.FavoriteWallet, error)
}

// FavoritesService validates requests and delegates to a FavoritesStore.
type FavoritesService interface {
	Add(ctx context.Context, userID, address, label string) (entity.FavoriteWallet, error)
	Remove(ctx context.Context, userID, address string) error
	List(ctx context.Context, userID string) ([]entity.FavoriteWallet, error)
}
