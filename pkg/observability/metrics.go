// Package observability exposes Prometheus instrumentation for stream
// evaluation. Hosts that mount an HTTP surface get these series on
// /metrics; embedded users can pass their own registerer.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Evaluation outcome labels.
const (
	StatusOK        = "ok"
	StatusError     = "error"
	StatusExhausted = "exhausted"
)

// Metrics holds the instrument set for one registry/evaluator pair.
type Metrics struct {
	evaluations    *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	factsCertified prometheus.Counter
	domainChecks   *prometheus.CounterVec
	registrySize   prometheus.Gauge
}

// NewMetrics builds and registers the instrument set. A nil registerer
// yields unregistered (but usable) collectors, which keeps tests isolated.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streamspec",
			Name:      "evaluations_total",
			Help:      "Generator invocations by stream and outcome.",
		}, []string{"stream", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "streamspec",
			Name:      "evaluation_duration_seconds",
			Help:      "Wall time of generator invocations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stream"}),
		factsCertified: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "streamspec",
			Name:      "facts_certified_total",
			Help:      "Facts asserted into the evaluation base by Certify.",
		}),
		domainChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "streamspec",
			Name:      "domain_checks_total",
			Help:      "Domain condition checks by stream and result.",
		}, []string{"stream", "result"}),
		registrySize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "streamspec",
			Name:      "registry_generators",
			Help:      "Generator factories currently registered.",
		}),
	}
}

// ObserveEvaluation records one generator invocation.
func (m *Metrics) ObserveEvaluation(stream, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(stream, status).Inc()
	m.duration.WithLabelValues(stream).Observe(elapsed.Seconds())
}

// ObserveCertified records facts asserted by Certify.
func (m *Metrics) ObserveCertified(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.factsCertified.Add(float64(count))
}

// SetRegistrySize publishes the number of registered generator factories.
func (m *Metrics) SetRegistrySize(n int) {
	if m == nil {
		return
	}
	m.registrySize.Set(float64(n))
}

// ObserveDomainCheck records one CheckDomain outcome.
func (m *Metrics) ObserveDomainCheck(stream string, satisfied bool) {
	if m == nil {
		return
	}
	result := "satisfied"
	if !satisfied {
		result = "unsatisfied"
	}
	m.domainChecks.WithLabelValues(stream, result).Inc()
}
