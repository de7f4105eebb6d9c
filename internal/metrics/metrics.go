// Package metrics exposes prometheus metrics for the graph editor.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "nodegraph"

// Metrics contains the editor metrics. A nil *Metrics records nothing.
type Metrics struct {
	Mutations           *prometheus.CounterVec
	Nodes               prometheus.Gauge
	Connections         prometheus.Gauge
	PersistenceTotal    *prometheus.CounterVec
	PersistenceDuration *prometheus.HistogramVec
	registry            *prometheus.Registry
}

// New creates the metrics and registers them, with Go runtime collectors,
// on a dedicated registry
func New() *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "graph",
				Name:      "mutations_total",
				Help:      "Total number of applied graph intents",
			},
			[]string{"op", "status"},
		),

		Nodes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "graph",
				Name:      "nodes",
				Help:      "Number of nodes in the graph",
			},
		),

		Connections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "graph",
				Name:      "connections",
				Help:      "Number of connections in the graph",
			},
		),

		PersistenceTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "operations_total",
				Help:      "Total number of save and load operations",
			},
			[]string{"op", "status"},
		),

		PersistenceDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "duration_seconds",
				Help:      "Save and load duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),

		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.Mutations,
		m.Nodes,
		m.Connections,
		m.PersistenceTotal,
		m.PersistenceDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the prometheus registry holding these metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordMutation counts an intent by outcome
func (m *Metrics) RecordMutation(op string, err error) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op, status(err)).Inc()
}

// RecordGraphSize updates the node and connection gauges
func (m *Metrics) RecordGraphSize(nodes, connections int) {
	if m == nil {
		return
	}
	m.Nodes.Set(float64(nodes))
	m.Connections.Set(float64(connections))
}

// RecordPersistence counts a save or load and records its duration
func (m *Metrics) RecordPersistence(op string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.PersistenceTotal.WithLabelValues(op, status(err)).Inc()
	m.PersistenceDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
