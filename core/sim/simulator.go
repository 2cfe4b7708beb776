package sim

import (
	"math"
	"sort"

	"github.com/kilianp07/gproute/core/gp"
	"github.com/kilianp07/gproute/core/model"
)

// Result is the outcome of one simulation.
type Result struct {
	Cost        float64 `json:"cost"`
	Distance    float64 `json:"distance"`
	Violation   float64 `json:"violation"`
	Unserved    int     `json:"unserved"`
	UnservedIDs []int   `json:"unserved_ids,omitempty"`
	Routes      []Route `json:"routes"`
}

// Simulator evaluates policies on instances. It holds no mutable state and is
// safe for concurrent use.
type Simulator struct {
	cfg Config
}

// New returns a simulator for cfg. cfg is expected to be valid.
func New(cfg Config) *Simulator {
	return &Simulator{cfg: cfg}
}

// Config returns the simulator configuration.
func (s *Simulator) Config() Config { return s.cfg }

// SlotLength returns the duration of one time slot on inst.
func (s *Simulator) SlotLength(inst *model.Instance) float64 {
	return inst.Horizon() / float64(s.cfg.TimeSlots)
}

// Slot returns the slot at whose boundary a customer released at release
// becomes known.
func (s *Simulator) Slot(inst *model.Instance, release float64) int {
	if release <= 0 {
		return 0
	}
	k := int(math.Ceil(release / s.SlotLength(inst)))
	return min(k, s.cfg.TimeSlots)
}

// Simulate runs policy p on inst. Releases are divided by stress, so values
// above 1 make customers appear earlier.
func (s *Simulator) Simulate(inst *model.Instance, p *gp.Policy, stress float64) Result {
	if stress <= 0 {
		stress = 1
	}
	order := make([]model.Customer, len(inst.Customers))
	copy(order, inst.Customers)
	for i := range order {
		order[i].Release /= stress
	}
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].Release != order[j].Release {
			return order[i].Release < order[j].Release
		}
		return order[i].ID < order[j].ID
	})

	run := &run{
		sim:        s,
		inst:       inst,
		routing:    p.Routing(),
		sequencing: p.Sequencing(),
		rf:         make([]float64, gp.NumRouteFeatures),
		sf:         make([]float64, gp.NumSeqFeatures),
	}
	slotLen := s.SlotLength(inst)
	next := 0
	for slot := 0; slot <= s.cfg.TimeSlots; slot++ {
		now := float64(slot) * slotLen
		for next < len(order) && s.Slot(inst, order[next].Release) <= slot {
			run.dispatch(order[next], now)
			next++
		}
	}
	return run.result()
}

type run struct {
	sim        *Simulator
	inst       *model.Instance
	routing    gp.Tree
	sequencing gp.Tree

	routes   []*Route
	unserved []int
	scratch  []Visit
	rf, sf   []float64
}

// dispatch places one newly known customer, or records it as unserved.
func (r *run) dispatch(c model.Customer, now float64) {
	var (
		best      *Route
		bestIns   []insertion
		bestScore = math.Inf(1)
	)
	consider := func(route *Route) {
		var ins []insertion
		ins, r.scratch = r.sim.insertions(r.inst, route, c, now, r.scratch)
		if len(ins) == 0 {
			return
		}
		routingFeatures(r.rf, r.inst, route, c, now, ins)
		if score := r.routing.Evaluate(r.rf); best == nil || score < bestScore {
			best, bestIns, bestScore = route, ins, score
		}
	}
	for _, route := range r.routes {
		consider(route)
	}
	var fresh *Route
	if v := r.inst.Vehicles; v == 0 || len(r.routes) < v {
		fresh = &Route{ID: len(r.routes)}
		consider(fresh)
	}
	if best == nil {
		r.unserved = append(r.unserved, c.ID)
		return
	}

	pick, pickScore := bestIns[0], math.Inf(1)
	for i, in := range bestIns {
		sequencingFeatures(r.sf, r.inst, best, c, now, in)
		if score := r.sequencing.Evaluate(r.sf); i == 0 || score < pickScore {
			pick, pickScore = in, score
		}
	}
	r.sim.insert(r.inst, best, c, now, pick.pos)
	if best == fresh {
		r.routes = append(r.routes, fresh)
	}
}

func (r *run) result() Result {
	cfg := r.sim.cfg
	res := Result{
		Unserved:    len(r.unserved),
		UnservedIDs: r.unserved,
		Routes:      make([]Route, 0, len(r.routes)),
	}
	depotClose := r.inst.Depot.Latest
	for _, route := range r.routes {
		res.Distance += route.Length(r.inst)
		for _, v := range route.Visits {
			res.Violation += max(0, v.Arrival-v.Customer.Latest)
		}
		res.Violation += max(0, route.Return-depotClose)
		res.Routes = append(res.Routes, *route)
	}
	res.Cost = cfg.Weight*res.Distance + (1-cfg.Weight)*res.Violation + cfg.UnservedPenalty*float64(res.Unserved)
	return res
}

// Evaluate returns the mean cost of p over every instance of the set.
func (s *Simulator) Evaluate(p *gp.Policy, set *TrainingSet) float64 {
	if len(set.Instances) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for _, inst := range set.Instances {
		sum += s.Simulate(inst, p, set.Stress).Cost
	}
	return sum / float64(len(set.Instances))
}
