package evolve

import (
	"context"
	"fmt"

	"github.com/kilianp07/gproute/core/gp"
	"github.com/kilianp07/gproute/core/model"
	"github.com/kilianp07/gproute/core/records"
	"github.com/kilianp07/gproute/core/sim"
)

// Heuristic is a fixed baseline policy.
type Heuristic struct {
	Name       string
	Routing    string
	Sequencing string
}

// Heuristics returns the baseline policies: nearest vehicle with shortest
// leg, cheapest insertion, and most remaining time-window slack.
func Heuristics() []Heuristic {
	return []Heuristic{
		{Name: "nearest", Routing: "travel", Sequencing: "dist_prev"},
		{Name: "cheapest", Routing: "insert_cost", Sequencing: "detour"},
		{Name: "slack", Routing: "sub(0, slack)", Sequencing: "sub(0, return_slack)"},
	}
}

// Policy parses the heuristic trees.
func (h Heuristic) Policy() (*gp.Policy, error) {
	p, err := gp.ParsePolicy(h.Routing, h.Sequencing)
	if err != nil {
		return nil, fmt.Errorf("heuristic %s: %w", h.Name, err)
	}
	return p, nil
}

// HeuristicResult is the payload of heuristic records.
type HeuristicResult struct {
	Name       string  `json:"name"`
	Routing    string  `json:"routing"`
	Sequencing string  `json:"sequencing"`
	Cost       float64 `json:"cost"`
	Distance   float64 `json:"distance"`
	Violation  float64 `json:"violation"`
	Unserved   int     `json:"unserved"`
	Routes     int     `json:"routes"`
}

// RunHeuristics simulates every baseline on inst and emits one heuristic
// record each.
func (d *Driver) RunHeuristics(ctx context.Context, inst *model.Instance) ([]HeuristicResult, error) {
	if err := d.simCfg.Validate(); err != nil {
		return nil, err
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	runID := RunID(d.cfg.Seed, inst.Name)
	simulator := sim.New(d.simCfg)
	var out []HeuristicResult
	for _, h := range Heuristics() {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		p, err := h.Policy()
		if err != nil {
			return out, err
		}
		r := simulator.Simulate(inst, p, d.cfg.Stress)
		hr := HeuristicResult{
			Name:       h.Name,
			Routing:    h.Routing,
			Sequencing: h.Sequencing,
			Cost:       r.Cost,
			Distance:   r.Distance,
			Violation:  r.Violation,
			Unserved:   r.Unserved,
			Routes:     len(r.Routes),
		}
		d.emit(ctx, runID, records.KindHeuristic, 0, hr)
		d.log.Infof("heuristic %s: cost %.4f distance %.4f unserved %d", h.Name, r.Cost, r.Distance, r.Unserved)
		out = append(out, hr)
	}
	return out, nil
}
