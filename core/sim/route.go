package sim

import "github.com/kilianp07/gproute/core/model"

// Visit is one planned or completed stop of a vehicle.
type Visit struct {
	Customer model.Customer `json:"customer"`
	// KnownAt is the slot boundary at which the customer was revealed.
	KnownAt float64 `json:"known_at"`
	// Leave is when the vehicle leaves its previous location towards this
	// customer. A visit with Leave <= now is committed.
	Leave     float64 `json:"leave"`
	Arrival   float64 `json:"arrival"`
	Start     float64 `json:"start"`
	Departure float64 `json:"departure"`
}

// Route is the plan of one vehicle.
type Route struct {
	// ID is the creation order of the route.
	ID     int     `json:"id"`
	Visits []Visit `json:"visits"`
	Load   float64 `json:"load"`
	// Return is the arrival time back at the depot.
	Return float64 `json:"return"`
}

// CustomerIDs lists the customers of the route in visiting order.
func (r *Route) CustomerIDs() []int {
	ids := make([]int, len(r.Visits))
	for i, v := range r.Visits {
		ids[i] = v.Customer.ID
	}
	return ids
}

// Length returns the distance of the closed tour depot -> visits -> depot.
func (r *Route) Length(inst *model.Instance) float64 {
	prev := inst.Depot.Location
	var d float64
	for _, v := range r.Visits {
		d += inst.Distance(prev, v.Customer.Location)
		prev = v.Customer.Location
	}
	return d + inst.Distance(prev, inst.Depot.Location)
}

// committed returns the number of leading visits the vehicle has already
// left for at time now.
func (r *Route) committed(now float64) int {
	n := 0
	for n < len(r.Visits) && r.Visits[n].Leave <= now {
		n++
	}
	return n
}

// origin returns the location and departure time preceding visit i.
func (r *Route) origin(inst *model.Instance, i int) (model.Point, float64) {
	if i == 0 {
		return inst.Depot.Location, inst.Depot.Earliest
	}
	v := r.Visits[i-1]
	return v.Customer.Location, v.Departure
}

// schedule recomputes the timing of visits in place, starting from loc at
// time dep. It reports the depot return time and whether every arrival
// stays within latest+slack.
func schedule(inst *model.Instance, loc model.Point, dep float64, visits []Visit, slack float64) (float64, bool) {
	ok := true
	for i := range visits {
		v := &visits[i]
		v.Leave = max(dep, v.KnownAt)
		v.Arrival = v.Leave + inst.TravelTime(loc, v.Customer.Location)
		v.Start = max(v.Arrival, v.Customer.Earliest)
		v.Departure = v.Start + v.Customer.Service
		if v.Arrival > v.Customer.Latest+slack {
			ok = false
		}
		loc, dep = v.Customer.Location, v.Departure
	}
	return dep + inst.TravelTime(loc, inst.Depot.Location), ok
}
