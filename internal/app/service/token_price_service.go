package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/infrastructure/configloader"
	"wallet_dashboard/internal/pkg/utils"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

const (
	// WETHAddress is priced in place of native ETH.
	WETHAddress = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	// coinGeckoEthereumID is the fallback id for native ETH.
	coinGeckoEthereumID = "ethereum"
)

// SymbolFallbackIDs maps the well-known symbols priced by id when no address price exists.
var SymbolFallbackIDs = map[string]string{
	"USDT": "tether",
	"USDC": "usd-coin",
	"DAI":  "dai",
	"WBTC": "wrapped-bitcoin",
	"LINK": "chainlink",
	"UNI":  "uniswap",
	"AAVE": "aave",
}

// TokenPriceServiceImpl implements port.TokenPriceService.
type TokenPriceServiceImpl struct {
	tokenClient  port.TokenPriceClient
	simpleClient port.SimplePriceClient
	logger       port.Logger
	pricesCache  *cache.Cache // "addr:<lowercase address>" or "sym:<UPPERCASE symbol>" -> float64
	maxRoutines  int
}

// NewTokenPriceService creates a new instance of TokenPriceServiceImpl.
func NewTokenPriceService(
	tc port.TokenPriceClient,
	sc port.SimplePriceClient,
	l port.Logger,
	cfg *configloader.Config,
) *TokenPriceServiceImpl {
	ttl := time.Duration(cfg.TokenPriceSvc.CacheTTLMinutes) * time.Minute
	cleanup := time.Duration(cfg.TokenPriceSvc.CleanupIntervalMinutes) * time.Minute
	s := &TokenPriceServiceImpl{
		tokenClient:  tc,
		simpleClient: sc,
		logger:       l.With("component", "TokenPriceService"),
		pricesCache:  cache.New(ttl, cleanup),
		maxRoutines:  cfg.TokenPriceSvc.MaxConcurrentRequests,
	}
	s.logger.Info("TokenPriceService initialized", "cache_ttl", ttl.String(), "max_concurrent_requests", s.maxRoutines)
	return s
}

func addressKey(addr string) string  { return "addr:" + addr }
func symbolKey(symbol string) string { return "sym:" + symbol }

func (s *TokenPriceServiceImpl) cached(key string) (float64, bool) {
	if v, ok := s.pricesCache.Get(key); ok {
		if p, ok := v.(float64); ok {
			return p, true
		}
	}
	return 0, false
}

// GetPrices builds a Price Table for the requested symbols and contract addresses.
// Upstream failures are logged and leave their keys out; only empty input is an error.
func (s *TokenPriceServiceImpl) GetPrices(ctx context.Context, symbols []string, addresses []string) (entity.PriceTable, error) {
	if len(symbols) == 0 && len(addresses) == 0 {
		return nil, fmt.Errorf("%w: symbols or addresses are required", entity.ErrInvalidInput)
	}

	prices := make(entity.PriceTable)

	if wantsNativePrice(symbols) {
		if p := s.nativePrice(ctx); p > 0 {
			prices[entity.NativeAssetSymbol] = p
		}
	}

	s.fetchAddressPrices(ctx, normalizePriceAddresses(addresses), prices)
	s.fetchSymbolPrices(ctx, normalizePriceSymbols(symbols), prices)

	s.logger.Debug("Built price table", "symbols", len(symbols), "addresses", len(addresses), "priced", len(prices))
	return prices, nil
}

// wantsNativePrice reports whether any requested symbol mentions eth, case-insensitively.
func wantsNativePrice(symbols []string) bool {
	for _, s := range symbols {
		if strings.Contains(strings.ToLower(s), "eth") {
			return true
		}
	}
	return false
}

func normalizePriceAddresses(addresses []string) []string {
	out := make([]string, 0, len(addresses))
	for _, a := range addresses {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" || a == "eth" || !strings.HasPrefix(a, "0x") {
			continue
		}
		out = append(out, a)
	}
	return utils.UniqueStrings(out)
}

func normalizePriceSymbols(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" || sym == entity.NativeAssetSymbol {
			continue
		}
		out = append(out, sym)
	}
	return utils.UniqueStrings(out)
}

// nativePrice prices ETH through WETH, falling back to the simple price source.
func (s *TokenPriceServiceImpl) nativePrice(ctx context.Context) float64 {
	key := symbolKey(entity.NativeAssetSymbol)
	if p, ok := s.cached(key); ok {
		return p
	}

	p, err := s.tokenClient.GetTokenPriceUSD(ctx, strings.ToLower(WETHAddress))
	if err != nil {
		s.logger.Warn("Failed to fetch ETH price by WETH address", "error", err)
	}
	if err != nil || p <= 0 {
		fallback, fbErr := s.simpleClient.GetSimplePricesUSD(ctx, []string{coinGeckoEthereumID})
		if fbErr != nil {
			s.logger.Warn("Fallback ETH price fetch failed", "error", fbErr)
			return 0
		}
		p = fallback[coinGeckoEthereumID]
	}
	if p > 0 {
		s.pricesCache.Set(key, p, cache.DefaultExpiration)
	}
	return p
}

func (s *TokenPriceServiceImpl) fetchAddressPrices(ctx context.Context, addresses []string, prices entity.PriceTable) {
	var (
		eg errgroup.Group
		mu sync.Mutex
	)
	if s.maxRoutines > 0 {
		eg.SetLimit(s.maxRoutines)
	}
	for _, addr := range addresses {
		if p, ok := s.cached(addressKey(addr)); ok {
			mu.Lock()
			prices[addr] = p
			mu.Unlock()
			continue
		}
		eg.Go(func() error {
			p, err := s.tokenClient.GetTokenPriceUSD(ctx, addr)
			if err != nil {
				s.logger.Warn("Failed to fetch token price", "address", addr, "error", err)
				return nil
			}
			if p <= 0 {
				return nil
			}
			s.pricesCache.Set(addressKey(addr), p, cache.DefaultExpiration)
			mu.Lock()
			prices[addr] = p
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()
}

// fetchSymbolPrices prices allow-listed symbols that are still missing in one batched call.
func (s *TokenPriceServiceImpl) fetchSymbolPrices(ctx context.Context, symbols []string, prices entity.PriceTable) {
	idToSymbols := make(map[string][]string)
	var ids []string
	for _, sym := range symbols {
		if _, ok := prices[sym]; ok {
			continue
		}
		if p, ok := s.cached(symbolKey(sym)); ok {
			prices[sym] = p
			continue
		}
		id, ok := SymbolFallbackIDs[sym]
		if !ok {
			continue
		}
		if _, seen := idToSymbols[id]; !seen {
			ids = append(ids, id)
		}
		idToSymbols[id] = append(idToSymbols[id], sym)
	}
	if len(ids) == 0 {
		return
	}

	byID, err := s.simpleClient.GetSimplePricesUSD(ctx, ids)
	if err != nil {
		s.logger.Warn("Failed to fetch fallback symbol prices", "ids", ids, "error", err)
		return
	}
	for id, syms := range idToSymbols {
		p, ok := byID[id]
		if !ok {
			continue
		}
		for _, sym := range syms {
			prices[sym] = p
			s.pricesCache.Set(symbolKey(sym), p, cache.DefaultExpiration)
		}
	}
}
