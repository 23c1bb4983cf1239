// Package metrics exports dataset gauges in the Prometheus text format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nibzard/clientdesk/internal/clients"
	"github.com/nibzard/clientdesk/internal/query"
)

const namespace = "clientdesk"

// Exporter holds the gauges derived from one dataset snapshot and a counter
// of mutations seen by this process.
type Exporter struct {
	reg          *prometheus.Registry
	clients      prometheus.Gauge
	tasks        prometheus.Gauge
	overdue      prometheus.Gauge
	dueToday     prometheus.Gauge
	future       prometheus.Gauge
	byStatus     *prometheus.GaugeVec
	mutations    *prometheus.CounterVec
	lastMutation prometheus.Gauge
}

// New returns an exporter with its own registry.
func New() *Exporter {
	e := &Exporter{
		reg: prometheus.NewRegistry(),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "clients", Help: "Number of registered clients.",
		}),
		tasks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "tasks", Help: "Number of tasks across all clients.",
		}),
		overdue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "tasks_overdue", Help: "Tasks due before the reference date and not completed.",
		}),
		dueToday: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "tasks_due_today", Help: "Tasks due on the reference date.",
		}),
		future: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "tasks_future", Help: "Tasks due after the reference date.",
		}),
		byStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "tasks_by_status", Help: "Tasks per stored status.",
		}, []string{"status"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "mutations_total", Help: "Committed mutations by operation.",
		}, []string{"op"}),
		lastMutation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "last_mutation_timestamp_seconds", Help: "Unix time of the last committed mutation.",
		}),
	}
	e.reg.MustRegister(e.clients, e.tasks, e.overdue, e.dueToday, e.future, e.byStatus, e.mutations, e.lastMutation)
	return e
}

// Registry returns the exporter's registry.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.reg
}

// Observe sets every gauge from list as of today.
func (e *Exporter) Observe(list []clients.Client, today string) {
	q := query.New(list)
	e.clients.Set(float64(len(list)))
	e.tasks.Set(float64(len(q.AllTasks())))
	e.overdue.Set(float64(q.CountOverdue(today)))
	e.dueToday.Set(float64(len(q.DueToday(today))))
	e.future.Set(float64(len(q.Future(today))))
	e.byStatus.Reset()
	for status, n := range q.StatusCounts() {
		e.byStatus.WithLabelValues(string(status)).Set(float64(n))
	}
}

// RecordMutation counts one committed mutation at unix time ts.
func (e *Exporter) RecordMutation(op string, ts float64) {
	e.mutations.WithLabelValues(op).Inc()
	e.lastMutation.Set(ts)
}

// WriteTextfile writes the current values to path for the node exporter
// textfile collector.
func (e *Exporter) WriteTextfile(path string) error {
	if path == "" {
		return fmt.Errorf("metrics file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, e.reg); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
