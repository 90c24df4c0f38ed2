package httpclient

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// MoralisClient prices ERC-20 contracts through the Moralis erc20 price endpoint.
type MoralisClient struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	chain   string
	timeout time.Duration
	logger  *zap.Logger
}

var _ port.TokenPriceClient = (*MoralisClient)(nil)

// NewMoralisClient creates a new MoralisClient.
func NewMoralisClient(baseURL, apiKey, chain string, timeout time.Duration, logger *zap.Logger) *MoralisClient {
	return &MoralisClient{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		chain:   chain,
		timeout: timeout,
		logger:  logger.Named("MoralisClient"),
	}
}

// moralisPriceResponse is the subset of the erc20 price payload the dashboard uses.
// usdPrice arrives either as a number or as a numeric string.
type moralisPriceResponse struct {
	TokenSymbol *string `json:"tokenSymbol"`
	UsdPrice    any     `json:"usdPrice"`
}

func (r moralisPriceResponse) price() (float64, error) {
	switch v := r.UsdPrice.(type) {
	case nil:
		return 0, nil
	case float64:
		return finite(v)
	case string:
		if v == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, err
		}
		return finite(f)
	default:
		return 0, fmt.Errorf("unexpected usdPrice type %T", v)
	}
}

func finite(f float64) (float64, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("non-finite usdPrice %v", f)
	}
	return f, nil
}

// GetTokenPriceUSD implements port.TokenPriceClient.
func (c *MoralisClient) GetTokenPriceUSD(ctx context.Context, contractAddress string) (float64, error) {
	if !entity.IsValidAddress(contractAddress) {
		return 0, fmt.Errorf("%w: invalid contract address %q", entity.ErrInvalidInput, contractAddress)
	}
	requestURL := fmt.Sprintf("%s/erc20/%s/price?chain=%s", c.baseURL, contractAddress, url.QueryEscape(c.chain))
	c.logger.Debug("Requesting token price", zap.String("contract", contractAddress))

	var body moralisPriceResponse
	headers := map[string]string{"X-API-Key": c.apiKey}
	if err := getJSON(ctx, c.client, c.logger, "moralis", "erc20_price", requestURL, headers, c.timeout, &body); err != nil {
		return 0, err
	}

	p, err := body.price()
	if err != nil || p < 0 {
		c.logger.Warn("Unusable usdPrice in response", zap.String("contract", contractAddress), zap.Any("usdPrice", body.UsdPrice))
		return 0, fmt.Errorf("%w: moralis: unusable usdPrice for %s", entity.ErrUpstreamUnavailable, contractAddress)
	}
	return p, nil
}
