package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// UpstreamRequestsTotal counts calls to third-party providers by outcome.
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wallet_dashboard",
			Name:      "upstream_requests_total",
			Help:      "Upstream provider requests by provider, method and status.",
		},
		[]string{"provider", "method", "status"},
	)

	// UpstreamRequestDuration observes upstream latency in seconds.
	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wallet_dashboard",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream provider request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider", "method"},
	)

	// DroppedTokensTotal counts tokens dropped because their metadata lookup failed.
	DroppedTokensTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wallet_dashboard",
			Name:      "dropped_tokens_total",
			Help:      "Tokens dropped from balance results after a metadata failure.",
		},
	)

	registerOnce sync.Once
)

// MustRegisterMetrics registers all collectors with the default registry. Safe to call more than once.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(UpstreamRequestsTotal, UpstreamRequestDuration, DroppedTokensTotal)
	})
}

// ObserveUpstream records one upstream call that started at start.
func ObserveUpstream(provider, method string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(provider, method, status).Inc()
	UpstreamRequestDuration.WithLabelValues(provider, method).Observe(time.Since(start).Seconds())
}
