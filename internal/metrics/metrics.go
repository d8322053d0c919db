// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records backend call durations and outcomes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusSuccess = "success"
	statusFailure = "failure"
)

// Recorder owns a private registry so repeated construction in tests and
// CLI runs never collides with the global one.
type Recorder struct {
	registry *prometheus.Registry

	CallDuration *prometheus.HistogramVec
	CallsTotal   *prometheus.CounterVec
}

// NewRecorder creates and registers the backend collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		CallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rag_compare_backend_call_seconds",
				Help:    "Wall-clock duration of generation backend calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"backend"},
		),
		CallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rag_compare_backend_calls_total",
				Help: "Total generation backend calls by outcome",
			},
			[]string{"backend", "status"},
		),
	}
	r.registry.MustRegister(r.CallDuration, r.CallsTotal)
	return r
}

// Observe records one backend call. Failed calls only count toward
// CallsTotal; their duration is not meaningful.
func (r *Recorder) Observe(backend string, elapsed time.Duration, err error) {
	if err != nil {
		r.CallsTotal.WithLabelValues(backend, statusFailure).Inc()
		return
	}
	r.CallsTotal.WithLabelValues(backend, statusSuccess).Inc()
	r.CallDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
}

// Gatherer exposes the registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the current metrics in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
