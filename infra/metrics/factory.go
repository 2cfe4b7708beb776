package metrics

import (
	"github.com/kilianp07/gproute/core/factory"
	coremetrics "github.com/kilianp07/gproute/core/metrics"
)

type none struct{}

func init() {
	mustRegister("nop", factory.Typed(func(none) (coremetrics.Sink, error) {
		return coremetrics.NopSink{}, nil
	}))
	mustRegister("prometheus", factory.Typed(func(none) (coremetrics.Sink, error) {
		return NewPromSink()
	}))
	mustRegister("influx", factory.Typed(func(c InfluxConfig) (coremetrics.Sink, error) {
		return NewInfluxSinkWithFallback(c), nil
	}))
}

func mustRegister(name string, f factory.Factory[coremetrics.Sink]) {
	if err := coremetrics.RegisterMetricsSink(name, f); err != nil {
		panic(err)
	}
}
