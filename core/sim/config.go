// Package sim replays a dynamic vehicle routing instance slot by slot and
// lets a routing/sequencing policy pair decide where every newly known
// customer goes. The resulting cost is the fitness of the policy.
package sim

import (
	"errors"
	"fmt"
)

// ErrConfig is wrapped by simulator configuration errors.
var ErrConfig = errors.New("invalid simulation config")

// Config holds the simulator parameters.
type Config struct {
	// TimeSlots splits the horizon into equal slots; customers become known
	// at slot boundaries.
	TimeSlots int `json:"time_slots"`
	// Weight balances distance against time-window violation in the cost.
	Weight float64 `json:"weight"`
	// Slack is the tolerated lateness on customer arrivals. Zero makes time
	// windows hard.
	Slack           float64 `json:"slack"`
	UnservedPenalty float64 `json:"unserved_penalty"`
}

// SetDefaults fills zero values with defaults.
func (c *Config) SetDefaults() {
	if c.TimeSlots == 0 {
		c.TimeSlots = 50
	}
	if c.UnservedPenalty == 0 {
		c.UnservedPenalty = 1000
	}
}

// Validate checks parameter ranges.
func (c Config) Validate() error {
	if c.TimeSlots <= 0 {
		return fmt.Errorf("%w: time_slots must be positive, got %d", ErrConfig, c.TimeSlots)
	}
	if c.Weight < 0 || c.Weight > 1 {
		return fmt.Errorf("%w: weight must be in [0,1], got %v", ErrConfig, c.Weight)
	}
	if c.Slack < 0 {
		return fmt.Errorf("%w: slack must be non-negative, got %v", ErrConfig, c.Slack)
	}
	if c.UnservedPenalty < 0 {
		return fmt.Errorf("%w: unserved_penalty must be non-negative, got %v", ErrConfig, c.UnservedPenalty)
	}
	return nil
}
