// Package metrics collects and exposes Prometheus metrics for the
// server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the service and HTTP layers record
// through.
type Recorder interface {
	RecordHTTPRequest(method, path string, statusCode int, duration time.Duration)
	RecordLogin(success bool)
	RecordSignup()
	RecordBookMutation(op string)
	RecordRateLimited()
}

// Collector is the Prometheus-backed Recorder implementation.
type Collector struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	loginSuccess  prometheus.Counter
	loginFailure  prometheus.Counter
	signups       prometheus.Counter
	bookMutations *prometheus.CounterVec
	rateLimited   prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with the
// given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shelfmark_http_requests_total",
			Help: "HTTP requests by method, route, and status code.",
		}, []string{"method", "path", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shelfmark_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shelfmark_login_success_total",
			Help: "Successful logins.",
		}),
		loginFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shelfmark_login_failure_total",
			Help: "Failed login attempts.",
		}),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shelfmark_signups_total",
			Help: "Accounts created.",
		}),
		bookMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shelfmark_book_mutations_total",
			Help: "Book writes by operation.",
		}, []string{"op"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shelfmark_rate_limited_total",
			Help: "Requests rejected by the auth rate limiter.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.loginSuccess,
		c.loginFailure,
		c.signups,
		c.bookMutations,
		c.rateLimited,
	)

	return c
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	c.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordLogin records a login attempt outcome.
func (c *Collector) RecordLogin(success bool) {
	if success {
		c.loginSuccess.Inc()
	} else {
		c.loginFailure.Inc()
	}
}

// RecordSignup records an account creation.
func (c *Collector) RecordSignup() {
	c.signups.Inc()
}

// RecordBookMutation records a book write. op is one of create,
// update, or delete.
func (c *Collector) RecordBookMutation(op string) {
	c.bookMutations.WithLabelValues(op).Inc()
}

// RecordRateLimited records a request rejected by the rate limiter.
func (c *Collector) RecordRateLimited() {
	c.rateLimited.Inc()
}

// Handler returns the HTTP handler serving the scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Noop is a Recorder that discards everything. Used in tests.
type Noop struct{}

func (Noop) RecordHTTPRequest(string, string, int, time.Duration) {}
func (Noop) RecordLogin(bool)                                     {}
func (Noop) RecordSignup()                                        {}
func (Noop) RecordBookMutation(string)                            {}
func (Noop) RecordRateLimited()                                   {}
