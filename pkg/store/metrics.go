package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	operationsTotal   *prometheus.CounterVec
	operationErrors   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	objectSizeBytes   *prometheus.HistogramVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
	cachedWheels      prometheus.Gauge
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of wheel store operations performed",
		}, []string{"operation", "backend"}),

		operationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_errors_total",
			Help:      "Total number of wheel store operation errors",
		}, []string{"operation", "backend"}),

		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Time taken to perform wheel store operations",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		}, []string{"operation", "backend"}),

		objectSizeBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "object_size_bytes",
			Help:      "Size of persisted wheels",
			Buckets:   []float64{128, 512, 1024, 4 * 1024, 16 * 1024},
		}, []string{"backend"}),

		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "cache_hits_total",
			Help:      "Total number of wheel lookups served from the cache",
		}),

		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "cache_misses_total",
			Help:      "Total number of wheel lookups loaded from the backend",
		}),

		cachedWheels: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "cached_wheels",
			Help:      "Number of guild wheels held in the cache",
		}),
	}

	prometheus.MustRegister(
		m.operationsTotal,
		m.operationErrors,
		m.operationDuration,
		m.objectSizeBytes,
		m.cacheHits,
		m.cacheMisses,
		m.cachedWheels,
	)

	return m
}

// observe records the outcome of a backend operation that started at start.
// A nil receiver is a no-op so repositories can run without metrics.
func (m *Metrics) observe(backend Backend, operation string, start time.Time, err error) {
	if m == nil {
		return
	}

	m.operationsTotal.WithLabelValues(operation, string(backend)).Inc()
	m.operationDuration.WithLabelValues(operation, string(backend)).Observe(time.Since(start).Seconds())

	if err != nil {
		m.operationErrors.WithLabelValues(operation, string(backend)).Inc()
	}
}

func (m *Metrics) observeSize(backend Backend, size int) {
	if m == nil {
		return
	}

	m.objectSizeBytes.WithLabelValues(string(backend)).Observe(float64(size))
}

func (m *Metrics) cacheLookup(hit bool) {
	if m == nil {
		return
	}

	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

func (m *Metrics) setCached(n int) {
	if m == nil {
		return
	}

	m.cachedWheels.Set(float64(n))
}
