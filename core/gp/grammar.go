package gp

// Grammar names the terminal features a tree may read and bounds its random
// constants.
type Grammar struct {
	Name     string
	Features []string
	ConstMin float64
	ConstMax float64
}

// NumFeatures returns the size of the feature vector expected by Evaluate.
func (g Grammar) NumFeatures() int { return len(g.Features) }

func (g Grammar) featureIndex(name string) (int, bool) {
	for i, f := range g.Features {
		if f == name {
			return i, true
		}
	}
	return 0, false
}

// Routing features, scored once per candidate route of a new customer.
const (
	RoutePending = iota
	RouteLoad
	RouteBusy
	RouteTravel
	RouteMedianTravel
	RouteNow
	RouteDemand
	RouteRelease
	RouteService
	RouteOpen
	RouteClose
	RouteSlack
	RouteInsertCost
	RouteSpareCapacity
	NumRouteFeatures
)

// Sequencing features, scored once per feasible insertion position.
const (
	SeqDetour = iota
	SeqArrival
	SeqWait
	SeqSlack
	SeqPosition
	SeqShift
	SeqReturnSlack
	SeqNow
	SeqDemand
	SeqDistPrev
	SeqDistNext
	SeqLoad
	NumSeqFeatures
)

// RoutingGrammar is the grammar of routing trees.
var RoutingGrammar = Grammar{
	Name: "routing",
	Features: []string{
		"pending", "load", "busy", "travel", "median_travel", "now", "demand",
		"release", "service", "open", "close", "slack", "insert_cost", "spare_capacity",
	},
	ConstMin: -1,
	ConstMax: 1,
}

// SequencingGrammar is the grammar of sequencing trees.
var SequencingGrammar = Grammar{
	Name: "sequencing",
	Features: []string{
		"detour", "arrival", "wait", "slack", "position", "shift", "return_slack",
		"now", "demand", "dist_prev", "dist_next", "load",
	},
	ConstMin: -1,
	ConstMax: 1,
}
