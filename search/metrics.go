package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"dahu/internal/errors"
)

// Metrics counts the work of the search drivers. A nil *Metrics records
// nothing.
type Metrics struct {
	reg        *prometheus.Registry
	candidates prometheus.Counter
	resilient  prometheus.Counter
	found      prometheus.Counter
	progress   prometheus.Gauge
}

// NewMetrics registers the search metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		candidates: f.NewCounter(prometheus.CounterOpts{
			Name: "dahu_candidates_total",
			Help: "Candidate functions examined",
		}),
		resilient: f.NewCounter(prometheus.CounterOpts{
			Name: "dahu_resilient_total",
			Help: "Candidates passing the resiliency check",
		}),
		found: f.NewCounter(prometheus.CounterOpts{
			Name: "dahu_found_total",
			Help: "Candidates passing both checks",
		}),
		progress: f.NewGauge(prometheus.GaugeOpts{
			Name: "dahu_progress_ratio",
			Help: "Fraction of the enumeration done",
		}),
	}
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) candidate() {
	if m != nil {
		m.candidates.Inc()
	}
}

func (m *Metrics) resilientHit() {
	if m != nil {
		m.resilient.Inc()
	}
}

func (m *Metrics) hit() {
	if m != nil {
		m.found.Inc()
	}
}

func (m *Metrics) setProgress(p float64) {
	if m != nil {
		m.progress.Set(p)
	}
}

// WriteTextfile exports the metrics in the node exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return errors.Wrap(prometheus.WriteToTextfile(path, m.reg), "write metrics")
}
