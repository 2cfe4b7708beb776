package metrics

import (
	coremetrics "github.com/kilianp07/gproute/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink exposes generation statistics as Prometheus metrics.
type PromSink struct {
	fitness      *prometheus.GaugeVec
	unserved     prometheus.Gauge
	generation   prometheus.Gauge
	evaluations  prometheus.Counter
	fallbacks    prometheus.Counter
	improvements prometheus.Counter
	duration     prometheus.Histogram
}

// NewPromSink registers evolution metrics on the default Prometheus registerer.
// The Prometheus server should be started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// register registers c on reg, reusing an identical collector registered
// earlier.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	var (
		s   PromSink
		err error
	)
	if s.fitness, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "gproute_fitness",
		Help: "Fitness statistics of the last evaluated generation",
	}, []string{"stat"})); err != nil {
		return nil, err
	}
	if s.unserved, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gproute_generation_best_unserved",
		Help: "Customers left unserved by the generation best on the base instance",
	})); err != nil {
		return nil, err
	}
	if s.generation, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gproute_generation",
		Help: "Index of the last evaluated generation",
	})); err != nil {
		return nil, err
	}
	if s.evaluations, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gproute_evaluations_total",
		Help: "Number of policies simulated over the training set",
	})); err != nil {
		return nil, err
	}
	if s.fallbacks, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gproute_crossover_fallbacks_total",
		Help: "Number of crossovers that fell back to a parent copy",
	})); err != nil {
		return nil, err
	}
	if s.improvements, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gproute_best_improvements_total",
		Help: "Number of times the best-of-run policy improved",
	})); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gproute_generation_duration_seconds",
		Help:    "Wall time spent evaluating one generation",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})); err != nil {
		return nil, err
	}
	return &s, nil
}

// RecordGeneration updates the gauges and counters.
func (s *PromSink) RecordGeneration(st coremetrics.GenerationStats) error {
	s.fitness.WithLabelValues("best").Set(st.Best)
	s.fitness.WithLabelValues("mean").Set(st.Mean)
	s.fitness.WithLabelValues("median").Set(st.Median)
	s.fitness.WithLabelValues("worst").Set(st.Worst)
	s.fitness.WithLabelValues("best_of_run").Set(st.BestOfRun)
	s.fitness.WithLabelValues("full_cost").Set(st.FullCost)
	s.unserved.Set(float64(st.Unserved))
	s.generation.Set(float64(st.Generation))
	s.evaluations.Add(float64(st.Evaluations))
	s.fallbacks.Add(float64(st.Fallbacks))
	s.duration.Observe(st.Duration.Seconds())
	return nil
}

// RecordImprovement counts a best-of-run improvement.
func (s *PromSink) RecordImprovement() {
	s.improvements.Inc()
}
