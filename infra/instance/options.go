// Package instance loads DVRPTW instances from disk.
package instance

import (
	"fmt"

	"github.com/kilianp07/gproute/core/model"
)

// DefaultService is the service duration applied to CSV customers.
const DefaultService = 10.0

// Options supplies the fleet parameters the CSV layout does not carry.
// YAML and JSON documents use them only for fields they leave unset.
type Options struct {
	Capacity float64 `json:"capacity"`
	Vehicles int     `json:"vehicles"`
	Speed    float64 `json:"speed"`
	// Service overrides the service duration of every CSV customer.
	Service float64 `json:"service"`
	// ServiceColumn reads the sixth CSV column instead of using Service.
	ServiceColumn bool `json:"service_column"`
}

// DefaultOptions returns the fleet used by the reference benchmark.
func DefaultOptions() Options {
	return Options{Capacity: 1300, Vehicles: 10, Speed: 1, Service: DefaultService}
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", model.ErrInstance)
	}
	if o.Speed <= 0 {
		return fmt.Errorf("%w: speed must be positive", model.ErrInstance)
	}
	if o.Vehicles < 0 {
		return fmt.Errorf("%w: negative vehicle count", model.ErrInstance)
	}
	if o.Service < 0 {
		return fmt.Errorf("%w: negative service duration", model.ErrInstance)
	}
	return nil
}
