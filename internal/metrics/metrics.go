package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for agent turns.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Collector owns a private registry so several servers can live in one process
// (and in tests) without clashing on the default registerer.
type Collector struct {
	registry *prometheus.Registry

	catalogRequests *prometheus.CounterVec
	catalogDuration *prometheus.HistogramVec
	catalogResults  prometheus.Histogram

	agentTurns        *prometheus.CounterVec
	agentTurnDuration *prometheus.HistogramVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		catalogRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_requests_total",
				Help: "Catalog HTTP requests by endpoint and status code",
			},
			[]string{"endpoint", "status"},
		),
		catalogDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_request_duration_seconds",
				Help:    "Catalog HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		catalogResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "catalog_search_results",
				Help:    "Number of items returned per search",
				Buckets: prometheus.LinearBuckets(0, 5, 5),
			},
		),
		agentTurns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agent_turns_total",
				Help: "Agent turns by planned action and outcome",
			},
			[]string{"action", "outcome"},
		),
		agentTurnDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agent_turn_duration_seconds",
				Help:    "End-to-end latency of one agent turn",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"outcome"},
		),
	}

	c.registry.MustRegister(
		c.catalogRequests,
		c.catalogDuration,
		c.catalogResults,
		c.agentTurns,
		c.agentTurnDuration,
	)
	return c
}

// Registry exposes the underlying registry, mostly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request count and latency for every route.
func (c *Collector) GinMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		endpoint := ctx.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		c.catalogRequests.WithLabelValues(endpoint, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.catalogDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}

func (c *Collector) ObserveSearchResults(n int) {
	c.catalogResults.Observe(float64(n))
}

// ObserveTurn records one agent turn. action may be empty when planning never ran.
func (c *Collector) ObserveTurn(action, outcome string, d time.Duration) {
	if action == "" {
		action = "none"
	}
	c.agentTurns.WithLabelValues(action, outcome).Inc()
	c.agentTurnDuration.WithLabelValues(outcome).Observe(d.Seconds())
}
