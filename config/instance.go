package config

import (
	"github.com/kilianp07/gproute/infra/instance"
)

// InstanceConfig locates the problem instance and supplies the fleet
// parameters absent from CSV files.
type InstanceConfig struct {
	Path          string  `json:"path"`
	Capacity      float64 `json:"capacity"`
	Vehicles      int     `json:"vehicles"`
	Speed         float64 `json:"speed"`
	Service       float64 `json:"service"`
	ServiceColumn bool    `json:"service_column"`
}

func DefaultInstanceConfig() InstanceConfig {
	o := instance.DefaultOptions()
	return InstanceConfig{Capacity: o.Capacity, Vehicles: o.Vehicles, Speed: o.Speed, Service: o.Service}
}

func (c *InstanceConfig) SetDefaults() {
	d := DefaultInstanceConfig()
	if c.Speed == 0 {
		c.Speed = d.Speed
	}
	if c.Capacity == 0 {
		c.Capacity = d.Capacity
	}
}

// Options converts the section to loader options.
func (c InstanceConfig) Options() instance.Options {
	return instance.Options{
		Capacity:      c.Capacity,
		Vehicles:      c.Vehicles,
		Speed:         c.Speed,
		Service:       c.Service,
		ServiceColumn: c.ServiceColumn,
	}
}

// Validate checks the fleet parameters. The path is checked by the command
// that needs it.
func (c InstanceConfig) Validate() error {
	return c.Options().Validate()
}
