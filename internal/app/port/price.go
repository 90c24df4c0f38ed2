package port

import (
	"context"

	"wallet_dashboard/internal/domain/entity"
)

// TokenPriceClient prices ERC-20 contracts by address.
type TokenPriceClient interface {
	// GetTokenPriceUSD returns the USD price of the contract. A zero price with a nil error
	// means the source knows the token but reports no price.
	GetTokenPriceUSD(ctx context.Context, contractAddress string) (float64, error)
}

// SimplePriceClient prices assets by a provider-specific id (e.g. "ethereum", "usd-coin").
type SimplePriceClient interface {
	GetSimplePricesUSD(ctx context.Context, ids []string) (map[string]float64, error)
}

// TokenPriceService builds a Price Table for the requested symbols and contract addresses.
type TokenPriceService interface {
	GetPrices(ctx context.Context, symbols []string, addresses []string) (entity.PriceTable, error)
}
