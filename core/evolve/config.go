package evolve

import (
	"errors"
	"fmt"
	"runtime"
)

var (
	// ErrConfig is wrapped by evolution configuration errors.
	ErrConfig = errors.New("invalid evolution config")
	// ErrInvariantViolation reports an individual breaking a structural
	// invariant. It aborts the run.
	ErrInvariantViolation = errors.New("invariant violation")
)

// Config holds the evolution parameters.
type Config struct {
	PopSize     int `json:"pop_size"`
	Generations int `json:"generations"`
	MaxDepth    int `json:"max_depth"`

	CrossoverRate     float64 `json:"crossover_rate"`
	MutationRate      float64 `json:"mutation_rate"`
	PointMutationRate float64 `json:"point_mutation_rate"`
	ConstMutationRate float64 `json:"const_mutation_rate"`
	ConstDelta        float64 `json:"const_delta"`
	FullProbability   float64 `json:"full_probability"`

	TournamentSize       int `json:"tournament_size"`
	MaxCrossoverAttempts int `json:"max_crossover_attempts"`

	// TrainFactor is the number of perturbed replications per evaluation.
	TrainFactor int     `json:"train_factor"`
	Stress      float64 `json:"stress"`
	// Jitter bounds the release delay of dynamic customers, in slots.
	Jitter float64 `json:"jitter"`
	// Resample draws a new training set every generation.
	Resample bool `json:"resample"`

	// Workers bounds evaluation parallelism. Zero uses GOMAXPROCS.
	Workers int    `json:"workers"`
	Seed    uint64 `json:"seed"`
}

// DefaultConfig returns the default parameters.
func DefaultConfig() Config {
	return Config{
		PopSize:              100,
		Generations:          100,
		MaxDepth:             6,
		CrossoverRate:        0.8,
		MutationRate:         0.1,
		PointMutationRate:    0.3,
		ConstMutationRate:    0.1,
		ConstDelta:           0.1,
		FullProbability:      0.5,
		TournamentSize:       8,
		MaxCrossoverAttempts: 8,
		TrainFactor:          1,
		Stress:               1,
		Jitter:               0.5,
		Seed:                 1,
	}
}

// SetDefaults fills zero sizes. Rates are left as given since zero is a
// meaningful value for them.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.PopSize == 0 {
		c.PopSize = d.PopSize
	}
	if c.Generations == 0 {
		c.Generations = d.Generations
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = d.MaxDepth
	}
	if c.TournamentSize == 0 {
		c.TournamentSize = d.TournamentSize
	}
	if c.MaxCrossoverAttempts == 0 {
		c.MaxCrossoverAttempts = d.MaxCrossoverAttempts
	}
	if c.TrainFactor == 0 {
		c.TrainFactor = d.TrainFactor
	}
	if c.Stress == 0 {
		c.Stress = d.Stress
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
}

// Validate checks parameter ranges.
//
//gocyclo:ignore
func (c Config) Validate() error {
	if c.PopSize < 1 {
		return fmt.Errorf("%w: pop_size must be positive, got %d", ErrConfig, c.PopSize)
	}
	if c.Generations < 1 {
		return fmt.Errorf("%w: generations must be positive, got %d", ErrConfig, c.Generations)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("%w: max_depth must be positive, got %d", ErrConfig, c.MaxDepth)
	}
	rates := []struct {
		name string
		v    float64
	}{
		{"crossover_rate", c.CrossoverRate},
		{"mutation_rate", c.MutationRate},
		{"point_mutation_rate", c.PointMutationRate},
		{"const_mutation_rate", c.ConstMutationRate},
		{"full_probability", c.FullProbability},
	}
	for _, r := range rates {
		if r.v < 0 || r.v > 1 {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrConfig, r.name, r.v)
		}
	}
	if c.ConstDelta < 0 {
		return fmt.Errorf("%w: const_delta must be non-negative, got %v", ErrConfig, c.ConstDelta)
	}
	if c.TournamentSize < 1 {
		return fmt.Errorf("%w: tournament_size must be positive, got %d", ErrConfig, c.TournamentSize)
	}
	if c.MaxCrossoverAttempts < 1 {
		return fmt.Errorf("%w: max_crossover_attempts must be positive, got %d", ErrConfig, c.MaxCrossoverAttempts)
	}
	if c.TrainFactor < 1 {
		return fmt.Errorf("%w: train_factor must be positive, got %d", ErrConfig, c.TrainFactor)
	}
	if c.Stress <= 0 {
		return fmt.Errorf("%w: stress must be positive, got %v", ErrConfig, c.Stress)
	}
	if c.Jitter < 0 {
		return fmt.Errorf("%w: jitter must be non-negative, got %v", ErrConfig, c.Jitter)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative, got %d", ErrConfig, c.Workers)
	}
	return nil
}
