// Package metrics exposes poller telemetry as prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/carlosrabelo/ifpoll/domain/entities"
)

const namespace = "ifpoll"

// Metrics groups the collectors updated while polling
type Metrics struct {
	walks        *prometheus.CounterVec
	walkDuration *prometheus.HistogramVec
	skippedLines *prometheus.CounterVec
	devices      *prometheus.CounterVec
	interfaces   *prometheus.GaugeVec
}

// New creates the collectors and registers them with registry
func New(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		walks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "walks_total",
			Help:      "SNMP walks by grammar and outcome",
		}, []string{"grammar", "outcome"}),
		walkDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "walk_duration_seconds",
			Help:      "Duration of SNMP walks",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"grammar"}),
		skippedLines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "walk_skipped_lines_total",
			Help:      "Walk output lines that did not match the grammar",
		}, []string{"grammar"}),
		devices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "devices_polled_total",
			Help:      "Polled devices by result",
		}, []string{"result"}),
		interfaces: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "device_interfaces",
			Help:      "Interfaces assembled per device and table",
		}, []string{"target", "table"}),
	}
	registry.MustRegister(m.walks, m.walkDuration, m.skippedLines, m.devices, m.interfaces)
	return m
}

// ObserveWalk records one walk
func (m *Metrics) ObserveWalk(grammar string, status entities.WalkStatus, took time.Duration, skipped int) {
	m.walks.WithLabelValues(grammar, status.String()).Inc()
	m.walkDuration.WithLabelValues(grammar).Observe(took.Seconds())
	if skipped > 0 {
		m.skippedLines.WithLabelValues(grammar).Add(float64(skipped))
	}
}

// ObservePoll records the outcome of one device poll
func (m *Metrics) ObservePoll(result entities.PollResult) {
	switch {
	case result.Failed():
		m.devices.WithLabelValues("fatal").Inc()
	case len(result.Warnings) > 0:
		m.devices.WithLabelValues("warning").Inc()
	default:
		m.devices.WithLabelValues("ok").Inc()
	}
	m.interfaces.WithLabelValues(result.Target, "physical").Set(float64(len(result.Interfaces)))
	m.interfaces.WithLabelValues(result.Target, "virtual").Set(float64(len(result.VirtualInterfaces)))
}

// WriteFile dumps the gathered metrics in text exposition format
func WriteFile(path string, gatherer prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, gatherer)
}
