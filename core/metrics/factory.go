package metrics

import (
	"fmt"

	"github.com/kilianp07/gproute/core/factory"
)

var registry = factory.NewRegistry[Sink]()

// RegisterMetricsSink makes a sink type available to NewMetricsSink.
func RegisterMetricsSink(name string, f factory.Factory[Sink]) error {
	return registry.Register(name, f)
}

// NewMetricsSink builds the sinks declared in cfgs. No declaration yields
// NopSink and a single one is returned unwrapped. When a declaration fails
// the sinks already built are closed.
func NewMetricsSink(cfgs []factory.ModuleConfig) (Sink, error) {
	built := make([]Sink, 0, len(cfgs))
	for i, c := range cfgs {
		s, err := registry.Create(c)
		if err != nil {
			_ = NewMultiSink(built...).Close()
			return nil, fmt.Errorf("metrics sink %d: %w", i, err)
		}
		built = append(built, s)
	}
	switch len(built) {
	case 0:
		return NopSink{}, nil
	case 1:
		return built[0], nil
	}
	return NewMultiSink(built...), nil
}
