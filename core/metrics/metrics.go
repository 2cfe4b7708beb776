package metrics

import (
	"errors"
	"time"
)

// GenerationStats summarises one evaluated generation.
type GenerationStats struct {
	RunID      string
	Generation int
	Best       float64
	Mean       float64
	Median     float64
	Std        float64
	Worst      float64
	// BestOfRun is the best fitness seen since the start of the run.
	BestOfRun float64
	// FullCost is the cost of the generation best on the base instance.
	FullCost    float64
	Unserved    int
	Evaluations int
	Fallbacks   int
	Duration    time.Duration
	Time        time.Time
}

// Sink records generation statistics.
type Sink interface {
	RecordGeneration(GenerationStats) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordGeneration(GenerationStats) error { return nil }

// MultiSink fans statistics out to several sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink { return &MultiSink{Sinks: sinks} }

// RecordGeneration forwards to every sink and joins their errors.
func (m *MultiSink) RecordGeneration(s GenerationStats) error {
	var errs []error
	for _, sink := range m.Sinks {
		if err := sink.RecordGeneration(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close releases every sink holding resources and joins their errors.
func (m *MultiSink) Close() error {
	var errs []error
	for _, sink := range m.Sinks {
		if err := Close(sink); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close releases s if it implements Close() or Close() error.
func Close(s Sink) error {
	switch c := s.(type) {
	case interface{ Close() error }:
		return c.Close()
	case interface{ Close() }:
		c.Close()
	}
	return nil
}
