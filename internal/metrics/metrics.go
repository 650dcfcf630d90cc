// Package metrics exposes Prometheus collectors for the acquisition service.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the service records. Collectors are bound to
// the registerer passed at construction, so tests and multi-instance setups
// never collide on the default registry.
type Metrics struct {
	registry prometheus.Gatherer

	searchesTotal          *prometheus.CounterVec
	searchDurationSeconds  *prometheus.HistogramVec
	adapterAttemptsTotal   *prometheus.CounterVec
	adapterDurationSeconds *prometheus.HistogramVec
	statusChecksTotal      *prometheus.CounterVec
	crawlURLsTotal         *prometheus.CounterVec
	httpRequestsTotal      *prometheus.CounterVec
	httpDurationSeconds    *prometheus.HistogramVec
	rateLimitDelaySeconds  *prometheus.HistogramVec
}

// New registers all collectors against reg. Pass a fresh
// prometheus.NewRegistry() per instance.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		searchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ipsearch_searches_total",
				Help: "Total orchestrated searches, labeled by kind and winning source.",
			},
			[]string{"kind", "source"},
		),
		searchDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ipsearch_search_duration_seconds",
				Help:    "Histogram of end-to-end search latencies, labeled by kind.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 30, 60},
			},
			[]string{"kind"},
		),
		adapterAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ipsearch_adapter_attempts_total",
				Help: "Total adapter attempts, labeled by adapter and outcome.",
			},
			[]string{"adapter", "outcome"},
		),
		adapterDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ipsearch_adapter_duration_seconds",
				Help:    "Histogram of per-adapter attempt latencies.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 30, 60},
			},
			[]string{"adapter"},
		),
		statusChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ipsearch_status_checks_total",
				Help: "Total status checks, labeled by kind and source.",
			},
			[]string{"kind", "source"},
		),
		crawlURLsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ipsearch_crawl_urls_total",
				Help: "Total delegated crawl URLs, labeled by outcome.",
			},
			[]string{"outcome"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ipsearch_http_requests_total",
				Help: "Total HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		),
		httpDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ipsearch_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		),
		rateLimitDelaySeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ipsearch_rate_limit_delay_seconds",
				Help:    "Histogram of per-host rate limit wait durations.",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"host"},
		),
	}
}

// Handler exposes the bound registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSearch records one completed orchestrated search.
func (m *Metrics) ObserveSearch(kind, source string, duration time.Duration) {
	m.searchesTotal.WithLabelValues(kind, source).Inc()
	m.searchDurationSeconds.WithLabelValues(kind).Observe(duration.Seconds())
}

// ObserveAdapter records one adapter attempt.
func (m *Metrics) ObserveAdapter(adapter, outcome string, duration time.Duration) {
	m.adapterAttemptsTotal.WithLabelValues(adapter, outcome).Inc()
	m.adapterDurationSeconds.WithLabelValues(adapter).Observe(duration.Seconds())
}

// ObserveStatusCheck records one status lookup.
func (m *Metrics) ObserveStatusCheck(kind, source string) {
	m.statusChecksTotal.WithLabelValues(kind, source).Inc()
}

// ObserveCrawl records one delegated crawl URL outcome.
func (m *Metrics) ObserveCrawl(success bool) {
	outcome := "failed"
	if success {
		outcome = "ok"
	}
	m.crawlURLsTotal.WithLabelValues(outcome).Inc()
}

// ObserveHTTPRequest records one served HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.httpDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveRateLimitDelay records a rate limit wait against a host.
func (m *Metrics) ObserveRateLimitDelay(host string, duration time.Duration) {
	m.rateLimitDelaySeconds.WithLabelValues(sanitizeHost(host)).Observe(duration.Seconds())
}

func sanitizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return "unknown"
	}
	return host
}
