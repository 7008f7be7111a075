package discord

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks slash command usage.
type Metrics struct {
	commandsTotal     *prometheus.CounterVec
	autocompleteTotal *prometheus.CounterVec
	commandErrors     *prometheus.CounterVec
	commandDuration   *prometheus.HistogramVec
	lastCommandTS     *prometheus.GaugeVec
}

// NewMetrics creates and registers the command metrics.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discord",
			Name:      "commands_total",
			Help:      "Total number of commands executed",
		}, []string{"command", "subcommand"}),

		autocompleteTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discord",
			Name:      "autocomplete_requests_total",
			Help:      "Total number of autocomplete requests answered",
		}, []string{"command", "subcommand"}),

		commandErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discord",
			Name:      "command_errors_total",
			Help:      "Total number of command errors",
		}, []string{"command", "subcommand", "error_type"}),

		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "discord",
			Name:      "command_duration_seconds",
			Help:      "Time taken to execute commands",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"command", "subcommand"}),

		lastCommandTS: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "discord",
			Name:      "last_command_timestamp",
			Help:      "Timestamp of last command execution",
		}, []string{"command", "subcommand"}),
	}

	prometheus.MustRegister(
		m.commandsTotal,
		m.autocompleteTotal,
		m.commandErrors,
		m.commandDuration,
		m.lastCommandTS,
	)

	return m
}

// RecordCommandExecution increments the command execution counter.
func (m *Metrics) RecordCommandExecution(command, subcommand string) {
	if m == nil {
		return
	}

	m.commandsTotal.WithLabelValues(command, subcommand).Inc()
}

func (m *Metrics) RecordAutocomplete(command, subcommand string) {
	if m == nil {
		return
	}

	m.autocompleteTotal.WithLabelValues(command, subcommand).Inc()
}

// RecordCommandError increments the command error counter.
func (m *Metrics) RecordCommandError(command, subcommand, errorType string) {
	if m == nil {
		return
	}

	m.commandErrors.WithLabelValues(command, subcommand, errorType).Inc()
}

// ObserveCommandDuration records the duration of a command execution.
func (m *Metrics) ObserveCommandDuration(command, subcommand string, duration float64) {
	if m == nil {
		return
	}

	m.commandDuration.WithLabelValues(command, subcommand).Observe(duration)
}

// SetLastCommandTimestamp sets the timestamp of the last command execution.
func (m *Metrics) SetLastCommandTimestamp(command, subcommand string, timestamp float64) {
	if m == nil {
		return
	}

	m.lastCommandTS.WithLabelValues(command, subcommand).Set(timestamp)
}
