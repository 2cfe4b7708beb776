package sim

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/gproute/core/gp"
	"github.com/kilianp07/gproute/core/model"
)

// routingFeatures fills f with the routing view of placing c on r. ins are
// the feasible insertions of c in r and must not be empty.
func routingFeatures(f []float64, inst *model.Instance, r *Route, c model.Customer, now float64, ins []insertion) {
	h := inst.Horizon()
	committed := r.committed(now)
	pending := len(r.Visits) - committed

	last, free := inst.Depot.Location, now
	if n := len(r.Visits); n > 0 {
		last = r.Visits[n-1].Customer.Location
		free = max(now, r.Visits[n-1].Departure)
	}

	var travel []float64
	for _, v := range r.Visits[committed:] {
		travel = append(travel, inst.TravelTime(c.Location, v.Customer.Location))
	}
	var median float64
	if len(travel) > 0 {
		sort.Float64s(travel)
		median = stat.Quantile(0.5, stat.Empirical, travel, nil)
	}

	cheapest, earliest := ins[0].detour, ins[0].arrival
	for _, in := range ins[1:] {
		cheapest = min(cheapest, in.detour)
		earliest = min(earliest, in.arrival)
	}

	f[gp.RoutePending] = float64(pending) / float64(len(inst.Customers))
	f[gp.RouteLoad] = r.Load / inst.Capacity
	f[gp.RouteBusy] = (free - now) / h
	f[gp.RouteTravel] = inst.TravelTime(last, c.Location) / h
	f[gp.RouteMedianTravel] = median / h
	f[gp.RouteNow] = now / h
	f[gp.RouteDemand] = c.Demand / inst.Capacity
	f[gp.RouteRelease] = c.Release / h
	f[gp.RouteService] = c.Service / h
	f[gp.RouteOpen] = c.Earliest / h
	f[gp.RouteClose] = c.Latest / h
	f[gp.RouteSlack] = (c.Latest - earliest) / h
	f[gp.RouteInsertCost] = cheapest / (inst.Speed * h)
	f[gp.RouteSpareCapacity] = (inst.Capacity - r.Load - c.Demand) / inst.Capacity
}

// sequencingFeatures fills f with the view of one insertion position.
func sequencingFeatures(f []float64, inst *model.Instance, r *Route, c model.Customer, now float64, in insertion) {
	h := inst.Horizon()
	scale := inst.Speed * h
	f[gp.SeqDetour] = in.detour / scale
	f[gp.SeqArrival] = in.arrival / h
	f[gp.SeqWait] = (in.start - in.arrival) / h
	f[gp.SeqSlack] = (c.Latest - in.arrival) / h
	f[gp.SeqPosition] = float64(in.pos) / float64(len(r.Visits)+1)
	f[gp.SeqShift] = in.shift / h
	f[gp.SeqReturnSlack] = (inst.Depot.Latest - in.ret) / h
	f[gp.SeqNow] = now / h
	f[gp.SeqDemand] = c.Demand / inst.Capacity
	f[gp.SeqDistPrev] = in.distPrev / scale
	f[gp.SeqDistNext] = in.distNext / scale
	f[gp.SeqLoad] = r.Load / inst.Capacity
}
