package measureutil

import (
	"github.com/prometheus/client_golang/prometheus"

	"dahu/internal/errors"
)

// Snapshot gathers the counters and gauges registered on g into a map keyed
// by metric name. Metrics with labels are summed over their label values.
func Snapshot(g prometheus.Gatherer) (map[string]float64, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, errors.Wrap(err, "gather metrics")
	}
	out := make(map[string]float64, len(families))
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				out[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[mf.GetName()] += m.GetGauge().GetValue()
			}
		}
	}
	return out, nil
}
