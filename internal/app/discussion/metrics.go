package discussion

import "github.com/prometheus/client_golang/prometheus"

// Sync outcomes recorded per action.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeDropped = "dropped"
)

// Metrics counts discussion sync outcomes.
type Metrics struct {
	syncs *prometheus.CounterVec
}

// NewMetrics registers the sync counters with reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		syncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courses",
			Subsystem: "discussion",
			Name:      "sync_total",
			Help:      "Discussion Service sync attempts by action and outcome.",
		}, []string{"action", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.syncs)
	}
	return m
}

func (m *Metrics) observe(action Action, outcome string) {
	if m == nil {
		return
	}
	m.syncs.WithLabelValues(string(action), outcome).Inc()
}
