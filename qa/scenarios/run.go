package scenarios

import (
	"math"
	"testing"

	"github.com/kilianp07/gproute/core/sim"
)

const tolerance = 1e-6

func RunScenario(t *testing.T, sc *Scenario) sim.Result {
	t.Helper()
	inst, err := sc.BuildInstance()
	if err != nil {
		t.Fatalf("instance: %v", err)
	}
	policy, err := sc.Policy.ToModel()
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	simulator := sim.New(sc.Simulation.ToConfig())
	res := simulator.Simulate(inst, policy, sc.Simulation.Stress)

	if res.Unserved != sc.Expected.Unserved {
		t.Errorf("unserved: expected %d, got %d (%v)", sc.Expected.Unserved, res.Unserved, res.UnservedIDs)
	}
	if c := sc.Expected.Cost; c != nil && math.Abs(res.Cost-*c) > tolerance {
		t.Errorf("cost: expected %v, got %v", *c, res.Cost)
	}
	if d := sc.Expected.Distance; d != nil && math.Abs(res.Distance-*d) > tolerance {
		t.Errorf("distance: expected %v, got %v", *d, res.Distance)
	}
	if sc.Expected.Routes != nil {
		if len(res.Routes) != len(sc.Expected.Routes) {
			t.Fatalf("routes: expected %d, got %d", len(sc.Expected.Routes), len(res.Routes))
		}
		for i, want := range sc.Expected.Routes {
			got := res.Routes[i].CustomerIDs()
			if !equalIDs(got, want) {
				t.Errorf("route %d: expected %v, got %v", i, want, got)
			}
		}
	}
	return res
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
