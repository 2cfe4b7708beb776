package model

import (
	"errors"
	"fmt"
)

// ErrInstance is wrapped by every instance validation error.
var ErrInstance = errors.New("invalid instance")

// Instance is one DVRPTW problem. It is loaded once and shared read-only by
// all evaluations of a run.
type Instance struct {
	Name string `json:"name" yaml:"name"`
	// Depot is the start and end of every route; Depot.Latest is the
	// planning horizon.
	Depot    Customer `json:"depot" yaml:"depot"`
	Capacity float64  `json:"capacity" yaml:"capacity"`
	// Vehicles bounds the number of routes. Zero means an unlimited fleet.
	Vehicles  int        `json:"vehicles" yaml:"vehicles"`
	Speed     float64    `json:"speed" yaml:"speed"`
	Customers []Customer `json:"customers" yaml:"customers"`
}

// Horizon returns the end of the planning period.
func (in *Instance) Horizon() float64 { return in.Depot.Latest }

// Distance returns the travel distance between two locations.
func (in *Instance) Distance(a, b Point) float64 { return a.Dist(b) }

// TravelTime returns the driving time between two locations.
func (in *Instance) TravelTime(a, b Point) float64 {
	return a.Dist(b) / in.Speed
}

// TotalDemand sums the demand of all customers.
func (in *Instance) TotalDemand() float64 {
	var sum float64
	for _, c := range in.Customers {
		sum += c.Demand
	}
	return sum
}

// WithReleases returns a copy of the instance where every customer release
// time is replaced by fn(customer). The receiver is left untouched.
func (in *Instance) WithReleases(fn func(Customer) float64) *Instance {
	cp := *in
	cp.Customers = make([]Customer, len(in.Customers))
	for i, c := range in.Customers {
		c.Release = fn(c)
		cp.Customers[i] = c
	}
	return &cp
}

// Validate checks the structural invariants of the instance.
//
//gocyclo:ignore
func (in *Instance) Validate() error {
	if in == nil {
		return fmt.Errorf("%w: nil instance", ErrInstance)
	}
	if len(in.Customers) == 0 {
		return fmt.Errorf("%w: no customers", ErrInstance)
	}
	if in.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %v", ErrInstance, in.Capacity)
	}
	if in.Speed <= 0 {
		return fmt.Errorf("%w: speed must be positive, got %v", ErrInstance, in.Speed)
	}
	if in.Vehicles < 0 {
		return fmt.Errorf("%w: negative vehicle count %d", ErrInstance, in.Vehicles)
	}
	if in.Horizon() <= 0 {
		return fmt.Errorf("%w: depot latest (horizon) must be positive", ErrInstance)
	}
	seen := make(map[int]bool, len(in.Customers))
	for _, c := range in.Customers {
		if seen[c.ID] {
			return fmt.Errorf("%w: duplicate customer id %d", ErrInstance, c.ID)
		}
		seen[c.ID] = true
		if c.ID == in.Depot.ID {
			return fmt.Errorf("%w: customer id %d collides with the depot", ErrInstance, c.ID)
		}
		if c.Demand < 0 || c.Service < 0 || c.Release < 0 {
			return fmt.Errorf("%w: customer %d has negative demand, service or release", ErrInstance, c.ID)
		}
		if c.Earliest > c.Latest {
			return fmt.Errorf("%w: customer %d window [%v, %v] is empty", ErrInstance, c.ID, c.Earliest, c.Latest)
		}
	}
	return nil
}
