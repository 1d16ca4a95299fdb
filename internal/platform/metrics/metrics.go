// Package metrics exposes Prometheus instruments for the ingestion pipeline.
// Every method is safe on a nil *Manager so callers never branch on whether
// metrics are enabled.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultNamespace = "rift_ledger"
)

type Option func(*Manager)

func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithGoCollectors adds Go runtime and process collectors to the registry.
func WithGoCollectors() Option {
	return func(m *Manager) {
		m.goCollectors = true
	}
}

type Manager struct {
	namespace    string
	goCollectors bool
	registry     *prometheus.Registry

	ingestionBatches        *prometheus.CounterVec
	ingestionBatchDuration  prometheus.Histogram
	matchesByOutcome        *prometheus.CounterVec
	identityWrites          *prometheus.CounterVec
	timelineBuilds          *prometheus.CounterVec
	upstreamRequests        *prometheus.CounterVec
	upstreamRequestDuration *prometheus.HistogramVec
	breakerState            *prometheus.GaugeVec
	backlogSize             prometheus.Gauge
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: defaultNamespace,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.goCollectors {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m.initialize()
	return m
}

func (m *Manager) initialize() {
	auto := promauto.With(m.registry)

	m.ingestionBatches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ingestion",
		Name:      "batches_total",
		Help:      "Ingestion batches processed, by result.",
	}, []string{"result"})

	m.ingestionBatchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "ingestion",
		Name:      "batch_duration_seconds",
		Help:      "Wall time of one ingestion batch.",
		Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})

	m.matchesByOutcome = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ingestion",
		Name:      "matches_total",
		Help:      "Matches handled by the ingestion pipeline, by outcome (populated, trashed, pending, discovered, fetch_failed).",
	}, []string{"outcome"})

	m.identityWrites = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "identity",
		Name:      "reconciled_total",
		Help:      "Identity reconciliation decisions, by action.",
	}, []string{"action"})

	m.timelineBuilds = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "timeline",
		Name:      "builds_total",
		Help:      "Timeline reconstructions, by result.",
	}, []string{"result"})

	m.upstreamRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Requests sent to the game statistics API, by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	m.upstreamRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Latency of game statistics API requests including retries.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	m.breakerState = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "upstream",
		Name:      "circuit_open",
		Help:      "1 when the named circuit breaker is open or half open.",
	}, []string{"breaker"})

	m.backlogSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "ingestion",
		Name:      "last_batch_size",
		Help:      "Stub matches pulled by the most recent tick.",
	})
}

func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Manager) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Manager) ObserveBatch(result string, took time.Duration, size int) {
	if m == nil {
		return
	}
	m.ingestionBatches.WithLabelValues(result).Inc()
	m.ingestionBatchDuration.Observe(took.Seconds())
	m.backlogSize.Set(float64(size))
}

func (m *Manager) AddMatches(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.matchesByOutcome.WithLabelValues(outcome).Add(float64(n))
}

func (m *Manager) AddIdentityActions(action string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.identityWrites.WithLabelValues(action).Add(float64(n))
}

func (m *Manager) IncTimelineBuild(result string) {
	if m == nil {
		return
	}
	m.timelineBuilds.WithLabelValues(result).Inc()
}

func (m *Manager) ObserveUpstream(endpoint, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	m.upstreamRequestDuration.WithLabelValues(endpoint).Observe(took.Seconds())
}

func (m *Manager) SetBreakerOpen(name string, open bool) {
	if m == nil {
		return
	}
	value := 0.0
	if open {
		value = 1
	}
	m.breakerState.WithLabelValues(name).Set(value)
}
