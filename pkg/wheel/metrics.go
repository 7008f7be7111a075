package wheel

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	operationsTotal *prometheus.CounterVec
	spinsTotal      *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wheel",
			Name:      "operations_total",
			Help:      "Total number of wheel mutations by outcome",
		}, []string{"operation", "outcome"}),

		spinsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wheel",
			Name:      "spins_total",
			Help:      "Total number of spins by result",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.operationsTotal,
		m.spinsTotal,
	)

	return m
}
