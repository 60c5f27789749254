// Package metrics exposes Prometheus counters for the API transport, for
// embedders that run the SDK inside an instrumented service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector records transport-level activity. A nil *Collector is a valid
// no-op so the transport can run uninstrumented.
type Collector struct {
	requests     *prometheus.CounterVec
	retries      prometheus.Counter
	authExpiries prometheus.Counter
	latency      prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skillnet_client_requests_total",
			Help: "API requests by method and response status.",
		}, []string{"method", "status"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillnet_client_refresh_retries_total",
			Help: "Requests replayed after a successful token refresh.",
		}),
		authExpiries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skillnet_client_auth_expiries_total",
			Help: "Sessions terminated by a failed refresh or a 403.",
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "skillnet_client_request_seconds",
			Help:    "API request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.requests, c.retries, c.authExpiries, c.latency)
	return c
}

// RecordRequest counts a completed request. status 0 means the request never
// reached the server.
func (c *Collector) RecordRequest(method string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	label := "network_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	c.requests.WithLabelValues(method, label).Inc()
	c.latency.Observe(elapsed.Seconds())
}

// RecordRetry counts a request replay after token refresh.
func (c *Collector) RecordRetry() {
	if c == nil {
		return
	}
	c.retries.Inc()
}

// RecordAuthExpiry counts a session termination.
func (c *Collector) RecordAuthExpiry() {
	if c == nil {
		return
	}
	c.authExpiries.Inc()
}
