package events

import "time"

// GenerationEvent is published after each generation is evaluated.
type GenerationEvent struct {
	RunID      string
	Generation int
	Best       float64
	Mean       float64
	Duration   time.Duration
}

// BestEvent is published when a strictly better policy is found.
type BestEvent struct {
	RunID      string
	Generation int
	Fitness    float64
	Routing    string
	Sequencing string
}

// FallbackEvent is published when crossover exhausted its attempts.
// Tree is "routing" or "sequencing".
type FallbackEvent struct {
	Generation int
	Tree       string
	Count      int
}

// StatusEvent is published once when the run stops.
type StatusEvent struct {
	RunID  string
	Status string
	Err    error
}
