package evolve

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	simulationDuration prometheus.Histogram
	unservedCustomers  prometheus.Counter
	dedupHits          prometheus.Counter
)

// newCollectors creates new metric collectors.
func newCollectors() (prometheus.Histogram, prometheus.Counter, prometheus.Counter) {
	dur := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gproute_simulation_duration_seconds",
			Help:    "Duration of one policy evaluation over the training set",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
	)
	uns := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gproute_unserved_customers_total",
			Help: "Customers left unserved by the generation best on the base instance",
		},
	)
	dup := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gproute_evaluation_dedup_hits_total",
			Help: "Evaluations skipped because an identical policy was already evaluated",
		},
	)
	return dur, uns, dup
}

func init() {
	simulationDuration, unservedCustomers, dedupHits = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers evolution metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(simulationDuration, unservedCustomers, dedupHits)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	simulationDuration, unservedCustomers, dedupHits = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
