package httpclient

import (
	"context"
	"fmt"
	"time"

	"wallet_dashboard/internal/domain/entity"
	"wallet_dashboard/internal/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// getJSON performs a GET against requestURL and decodes a 200 response into out.
// The context deadline wins over the client default timeout when present.
func getJSON(ctx context.Context, client *fasthttp.Client, logger *zap.Logger, provider, method, requestURL string,
	headers map[string]string, timeout time.Duration, out any) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(provider, method, start, err) }()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", entity.ErrUpstreamUnavailable, provider, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		err = client.DoDeadline(req, resp, deadline)
	} else {
		err = client.DoTimeout(req, resp, timeout)
	}
	if err != nil {
		logger.Error("Request failed", zap.String("method", method), zap.Error(err))
		return fmt.Errorf("%w: %s %s: %w", entity.ErrUpstreamUnavailable, provider, method, err)
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		logger.Warn("Non-OK response",
			zap.String("method", method),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody),
		)
		return fmt.Errorf("%w: %s %s returned status %d", entity.ErrUpstreamUnavailable, provider, method, resp.StatusCode())
	}

	if err = json.Unmarshal(rawBody, out); err != nil {
		logger.Error("Failed to decode response",
			zap.String("method", method),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %s %s: decode: %w", entity.ErrUpstreamUnavailable, provider, method, err)
	}
	return nil
}
