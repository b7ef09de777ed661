package dashboard

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts finished dashboard loads by end state. A nil *Metrics
// records nothing.
type Metrics struct {
	runs *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "repbot",
			Name:      "dashboard_runs_total",
			Help:      "Dashboard loads by end state.",
		}, []string{"state"}),
	}
	reg.MustRegister(m.runs)
	return m
}

func (m *Metrics) observe(state string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(state).Inc()
}
