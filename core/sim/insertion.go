package sim

import "github.com/kilianp07/gproute/core/model"

// insertion describes placing a customer at position pos of a route.
type insertion struct {
	pos       int
	arrival   float64
	start     float64
	departure float64
	// detour is the extra distance caused by the insertion.
	detour   float64
	distPrev float64
	distNext float64
	// shift is how much later the following visit starts.
	shift float64
	ret   float64
}

// insertions returns every feasible position for c in r at time now, in
// position order. Positions inside the committed prefix are never offered.
func (s *Simulator) insertions(inst *model.Instance, r *Route, c model.Customer, now float64, scratch []Visit) ([]insertion, []Visit) {
	if r.Load+c.Demand > inst.Capacity {
		return nil, scratch
	}
	var out []insertion
	for p := r.committed(now); p <= len(r.Visits); p++ {
		loc, dep := r.origin(inst, p)
		scratch = append(scratch[:0], Visit{Customer: c, KnownAt: now})
		scratch = append(scratch, r.Visits[p:]...)
		ret, ok := schedule(inst, loc, dep, scratch, s.cfg.Slack)
		if !ok {
			continue
		}
		next := inst.Depot.Location
		if p < len(r.Visits) {
			next = r.Visits[p].Customer.Location
		}
		ins := insertion{
			pos:       p,
			arrival:   scratch[0].Arrival,
			start:     scratch[0].Start,
			departure: scratch[0].Departure,
			distPrev:  inst.Distance(loc, c.Location),
			distNext:  inst.Distance(c.Location, next),
			ret:       ret,
		}
		ins.detour = ins.distPrev + ins.distNext - inst.Distance(loc, next)
		if p < len(r.Visits) {
			ins.shift = scratch[1].Start - r.Visits[p].Start
		}
		out = append(out, ins)
	}
	return out, scratch
}

// insert commits c at position pos and reschedules the tail.
func (s *Simulator) insert(inst *model.Instance, r *Route, c model.Customer, now float64, pos int) {
	r.Visits = append(r.Visits, Visit{})
	copy(r.Visits[pos+1:], r.Visits[pos:])
	r.Visits[pos] = Visit{Customer: c, KnownAt: now}
	r.Load += c.Demand
	loc, dep := r.origin(inst, pos)
	r.Return, _ = schedule(inst, loc, dep, r.Visits[pos:], s.cfg.Slack)
}
