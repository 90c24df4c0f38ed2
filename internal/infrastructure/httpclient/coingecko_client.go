package httpclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// CoinGeckoClient reads USD prices from the CoinGecko simple/price endpoint.
type CoinGeckoClient struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	logger  *zap.Logger
}

var _ port.SimplePriceClient = (*CoinGeckoClient)(nil)

// NewCoinGeckoClient creates a new CoinGeckoClient. apiKey may be empty for the public tier.
func NewCoinGeckoClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *CoinGeckoClient {
	return &CoinGeckoClient{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		logger:  logger.Named("CoinGeckoClient"),
	}
}

type simplePriceEntry struct {
	USD *float64 `json:"usd"`
}

// GetSimplePricesUSD implements port.SimplePriceClient. Ids the provider does not know
// are absent from the result.
func (c *CoinGeckoClient) GetSimplePricesUSD(ctx context.Context, ids []string) (map[string]float64, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: ids cannot be empty", entity.ErrInvalidInput)
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", "usd")
	requestURL := c.baseURL + "/simple/price?" + q.Encode()
	c.logger.Debug("Requesting simple prices", zap.Strings("ids", ids))

	var headers map[string]string
	if c.apiKey != "" {
		headers = map[string]string{"x-cg-demo-api-key": c.apiKey}
	}

	var body map[string]simplePriceEntry
	if err := getJSON(ctx, c.client, c.logger, "coingecko", "simple_price", requestURL, headers, c.timeout, &body); err != nil {
		return nil, err
	}

	prices := make(map[string]float64, len(body))
	for id, entry := range body {
		if entry.USD == nil || *entry.USD < 0 {
			continue
		}
		prices[id] = *entry.USD
	}
	return prices, nil
}
