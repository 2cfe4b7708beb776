package config

import (
	"fmt"

	"github.com/kilianp07/gproute/core/factory"
)

// MetricsConfig lists metrics sinks and the optional Prometheus endpoint.
type MetricsConfig struct {
	Sinks      []factory.ModuleConfig `json:"sinks"`
	Prometheus PrometheusConfig       `json:"prometheus"`
}

// PrometheusConfig exposes /metrics on Port when Enabled.
type PrometheusConfig struct {
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}

// Addr returns the listen address.
func (c PrometheusConfig) Addr() string { return fmt.Sprintf(":%d", c.Port) }

func (c MetricsConfig) Validate() error {
	if c.Prometheus.Enabled && (c.Prometheus.Port <= 0 || c.Prometheus.Port > 65535) {
		return fmt.Errorf("prometheus port %d out of range", c.Prometheus.Port)
	}
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics sink %d has no type", i)
		}
	}
	return nil
}
