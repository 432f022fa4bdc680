package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rickgao/arbwatch/internal/api"
	"github.com/rickgao/arbwatch/internal/poller"
)

// DefaultNamespace prefixes every metric name when none is given.
const DefaultNamespace = "arbwatch"

// Collector records poller activity. It implements poller.Recorder.
type Collector struct {
	registry *prometheus.Registry

	attempts      *prometheus.CounterVec
	attemptTime   *prometheus.HistogramVec
	discards      *prometheus.CounterVec
	status        prometheus.Gauge
	opportunities prometheus.Gauge
	coins         prometheus.Gauge
	lastSuccess   prometheus.Gauge
}

// NewCollector creates a Collector with its own registry.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.attempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "attempts_total",
			Help:      "Total refresh attempts by outcome (ok, network, response, shape, unknown).",
		},
		[]string{"outcome"},
	)

	c.attemptTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "attempt_duration_seconds",
			Help:      "Duration of refresh attempts.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		[]string{"outcome"},
	)

	c.discards = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "discarded_total",
			Help:      "Attempt results dropped without being applied.",
		},
		[]string{"reason"},
	)

	c.status = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "refresh",
		Name:      "status",
		Help:      "Current refresh status (0=loading, 1=ready, 2=degraded, 3=failed).",
	})

	c.opportunities = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "snapshot",
		Name:      "opportunities",
		Help:      "Number of opportunities in the last applied snapshot.",
	})

	c.coins = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "snapshot",
		Name:      "coins",
		Help:      "Number of tracked coins in the last applied snapshot.",
	})

	c.lastSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "snapshot",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix time the last snapshot was received.",
	})

	c.registry.MustRegister(
		c.attempts,
		c.attemptTime,
		c.discards,
		c.status,
		c.opportunities,
		c.coins,
		c.lastSuccess,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)

	return c
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler exposing the registered metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveAttempt records one finished attempt.
func (c *Collector) ObserveAttempt(err error, d time.Duration) {
	outcome := outcomeLabel(err)
	c.attempts.WithLabelValues(outcome).Inc()
	c.attemptTime.WithLabelValues(outcome).Observe(d.Seconds())
}

// ObserveDiscard records a dropped result.
func (c *Collector) ObserveDiscard(reason string) {
	c.discards.WithLabelValues(reason).Inc()
}

// ObserveState records an applied state.
func (c *Collector) ObserveState(s poller.State) {
	c.status.Set(float64(s.Status))
	if s.Snapshot == nil {
		return
	}
	c.opportunities.Set(float64(s.Snapshot.NumOpportunities()))
	c.coins.Set(float64(s.Snapshot.NumQuotes()))
	c.lastSuccess.Set(float64(s.LastSuccess.Unix()))
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return string(api.Kind(err))
}
