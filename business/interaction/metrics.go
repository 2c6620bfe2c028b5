package interaction

import "github.com/prometheus/client_golang/prometheus"

var InteractionsTrackedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "interactions_tracked_total",
		Help: "Interactions stored, by interaction type.",
	},
	[]string{"interaction_type"},
)

func init() {
	prometheus.MustRegister(InteractionsTrackedTotal)
}
