package client

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/metrics"
	"wallet_dashboard/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/time/rate"
)

const providerName = "alchemy"

// AlchemyClient talks JSON-RPC to an Alchemy endpoint. It serves as both the
// balance source and the transfer source.
type AlchemyClient struct {
	rpcClient      *rpc.Client
	requestTimeout time.Duration
	limiter        *rate.Limiter
	logger         port.Logger
}

var (
	_ port.BalanceSource  = (*AlchemyClient)(nil)
	_ port.TransferSource = (*AlchemyClient)(nil)
)

// AlchemyEndpoint joins the network base URL and the API key.
func AlchemyEndpoint(baseURL, apiKey string) string {
	return strings.TrimRight(baseURL, "/") + "/" + apiKey
}

// NewAlchemyClient creates a client for the given endpoint. A nil limiter disables rate limiting.
func NewAlchemyClient(ctx context.Context, endpoint string, requestTimeout time.Duration, limiter *rate.Limiter, logger port.Logger) (*AlchemyClient, error) {
	rpcClient, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create RPC client: %w", err)
	}
	return &AlchemyClient{
		rpcClient:      rpcClient,
		requestTimeout: requestTimeout,
		limiter:        limiter,
		logger:         logger.With("component", "AlchemyClient"),
	}, nil
}

// Close releases the underlying RPC client.
func (c *AlchemyClient) Close() {
	c.rpcClient.Close()
}

func (c *AlchemyClient) call(ctx context.Context, result any, method string, args ...any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %s: rate limiter: %w", entity.ErrUpstreamUnavailable, method, err)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	start := time.Now()
	err := c.rpcClient.CallContext(callCtx, result, method, args...)
	metrics.ObserveUpstream(providerName, method, start, err)
	if err != nil {
		c.logger.Debug("RPC call failed", "method", method, "error", err)
		return fmt.Errorf("%w: %s: %w", entity.ErrUpstreamUnavailable, method, err)
	}
	return nil
}

// GetNativeBalance implements port.BalanceSource.
func (c *AlchemyClient) GetNativeBalance(ctx context.Context, walletAddress string) (*big.Int, error) {
	var result *hexutil.Big
	if err := c.call(ctx, &result, "eth_getBalance", walletAddress, "latest"); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("%w: eth_getBalance returned null", entity.ErrUpstreamUnavailable)
	}
	return (*big.Int)(result), nil
}

// GetTokenBalances implements port.BalanceSource. Entries carrying a per-token error
// or an undecodable balance are reported as zero so that callers skip them.
func (c *AlchemyClient) GetTokenBalances(ctx context.Context, walletAddress string) ([]entity.RawTokenBalance, error) {
	var result *tokenBalancesResult
	if err := c.call(ctx, &result, "alchemy_getTokenBalances", walletAddress); err != nil {
		return nil, err
	}
	if result == nil || result.TokenBalances == nil {
		return nil, fmt.Errorf("%w: alchemy_getTokenBalances: missing tokenBalances", entity.ErrUpstreamUnavailable)
	}

	balances := make([]entity.RawTokenBalance, 0, len(*result.TokenBalances))
	for _, item := range *result.TokenBalances {
		if !entity.IsValidAddress(item.ContractAddress) {
			c.logger.Warn("Skipping token balance with invalid contract address", "contract", item.ContractAddress)
			continue
		}
		raw := new(big.Int)
		switch {
		case item.Error != nil:
			c.logger.Warn("Token balance entry reported an error", "contract", item.ContractAddress, "error", item.Error)
		case item.TokenBalance == nil:
		default:
			parsed, err := utils.ParseHexBigInt(*item.TokenBalance)
			if err != nil {
				c.logger.Warn("Undecodable token balance", "contract", item.ContractAddress, "raw", *item.TokenBalance, "error", err)
			} else {
				raw = parsed
			}
		}
		balances = append(balances, entity.RawTokenBalance{
			ContractAddress: strings.ToLower(item.ContractAddress),
			RawBalance:      raw,
		})
	}
	return balances, nil
}

// GetTokenMetadata implements port.BalanceSource.
func (c *AlchemyClient) GetTokenMetadata(ctx context.Context, contractAddress string) (entity.TokenMetadata, error) {
	var result *tokenMetadataResult
	if err := c.call(ctx, &result, "alchemy_getTokenMetadata", contractAddress); err != nil {
		return entity.TokenMetadata{}, err
	}
	md, err := result.toEntity()
	if err != nil {
		return entity.TokenMetadata{}, fmt.Errorf("%w: alchemy_getTokenMetadata %s: %w", entity.ErrUpstreamUnavailable, contractAddress, err)
	}
	return md, nil
}

// GetAssetTransfers implements port.TransferSource.
func (c *AlchemyClient) GetAssetTransfers(ctx context.Context, walletAddress string, role entity.TransferRole, maxCount int) ([]entity.RawTransfer, error) {
	params := assetTransfersParams{
		FromBlock:        "0x0",
		ToBlock:          "latest",
		ExcludeZeroValue: false,
		Category:         entity.TransferCategories,
		MaxCount:         hexutil.EncodeUint64(uint64(maxCount)),
		WithMetadata:     true,
	}
	switch role {
	case entity.RoleRecipient:
		params.ToAddress = walletAddress
	case entity.RoleSender:
		params.FromAddress = walletAddress
	default:
		return nil, fmt.Errorf("%w: unknown transfer role %d", entity.ErrInvalidInput, role)
	}

	var result *assetTransfersResult
	if err := c.call(ctx, &result, "alchemy_getAssetTransfers", params); err != nil {
		return nil, err
	}
	if result == nil || result.Transfers == nil {
		return nil, fmt.Errorf("%w: alchemy_getAssetTransfers: missing transfers", entity.ErrUpstreamUnavailable)
	}

	transfers := make([]entity.RawTransfer, 0, len(*result.Transfers))
	for _, t := range *result.Transfers {
		rt, err := t.toEntity()
		if err != nil {
			c.logger.Warn("Dropping malformed transfer", "role", role.String(), "error", err)
			continue
		}
		transfers = append(transfers, rt)
	}
	c.logger.Debug("Fetched asset transfers", "wallet", walletAddress, "role", role.String(), "count", len(transfers))
	return transfers, nil
}
