// Package metrics provides internal metrics collection for the turn
// orchestrator. This package is internal and should not be imported by
// external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Collector holds the engine's Prometheus instruments.
type Collector struct {
	turnsTotal         prometheus.Counter
	turnDuration       prometheus.Histogram
	responsesTotal     *prometheus.CounterVec
	generationFailures *prometheus.CounterVec
	storeFailures      *prometheus.CounterVec
	queueDepth         *prometheus.HistogramVec

	logger *zap.Logger
}

// NewCollector builds and registers the instruments on the given
// registerer; pass prometheus.DefaultRegisterer in production and a fresh
// registry in tests so repeated construction never double-registers.
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.turnsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "turns_total",
		Help:      "Total number of conversation turns processed",
	})

	c.turnDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "turn_duration_seconds",
		Help:      "End-to-end turn processing duration in seconds",
		Buckets:   prometheus.DefBuckets,
	})

	c.responsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Character responses produced, by speaking role",
		},
		[]string{"role"},
	)

	c.generationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_failures_total",
			Help:      "LLM generation failures, by speaking role",
		},
		[]string{"role"},
	)

	c.storeFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_write_failures_total",
			Help:      "State write-back failures, by operation",
		},
		[]string{"operation"},
	)

	c.queueDepth = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "queue_partition_size",
			Help:      "Characters per speaking-queue partition",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		},
		[]string{"partition"},
	)

	for _, col := range []prometheus.Collector{
		c.turnsTotal, c.turnDuration, c.responsesTotal,
		c.generationFailures, c.storeFailures, c.queueDepth,
	} {
		if err := reg.Register(col); err != nil {
			c.logger.Warn("metric registration failed", zap.Error(err))
		}
	}
	return c
}

// ObserveTurn records one completed turn.
func (c *Collector) ObserveTurn(d time.Duration) {
	c.turnsTotal.Inc()
	c.turnDuration.Observe(d.Seconds())
}

// ObserveResponse records one produced response.
func (c *Collector) ObserveResponse(role string) {
	c.responsesTotal.WithLabelValues(role).Inc()
}

// ObserveGenerationFailure records one failed LLM call.
func (c *Collector) ObserveGenerationFailure(role string) {
	c.generationFailures.WithLabelValues(role).Inc()
}

// ObserveStoreFailure records one failed state write-back.
func (c *Collector) ObserveStoreFailure(operation string) {
	c.storeFailures.WithLabelValues(operation).Inc()
}

// ObserveQueue records the partition sizes of one built queue.
func (c *Collector) ObserveQueue(secondary, silent int) {
	c.queueDepth.WithLabelValues("secondary").Observe(float64(secondary))
	c.queueDepth.WithLabelValues("silent").Observe(float64(silent))
}
