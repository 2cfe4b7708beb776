package records

import (
	"fmt"

	"github.com/kilianp07/gproute/core/factory"
)

// SinkConfig declares one sink and the kinds it receives.
type SinkConfig struct {
	Type  string         `json:"type"`
	Kinds []Kind         `json:"kinds"`
	Conf  map[string]any `json:"conf"`
}

var sinkRegistry = factory.NewRegistry[Sink]()

// RegisterSink adds a sink factory identified by name.
func RegisterSink(name string, f factory.Factory[Sink]) error {
	return sinkRegistry.Register(name, f)
}

// NewSink builds the router described by cfgs. With no configuration
// records are written nowhere.
func NewSink(cfgs []SinkConfig) (Sink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	router := NewRouter()
	for _, c := range cfgs {
		for _, k := range c.Kinds {
			if !k.Valid() {
				_ = router.Close()
				return nil, fmt.Errorf("records: unknown kind %q for sink %s", k, c.Type)
			}
		}
		s, err := sinkRegistry.Create(factory.ModuleConfig{Type: c.Type, Conf: c.Conf})
		if err != nil {
			_ = router.Close()
			return nil, err
		}
		router.Route(s, c.Kinds...)
	}
	return router, nil
}
