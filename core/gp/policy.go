package gp

// Policy pairs a routing tree with a sequencing tree. The cached fitness is
// tagged with the evaluation epoch it was computed against and is only
// reported back for that epoch.
type Policy struct {
	routing    Tree
	sequencing Tree

	fitness float64
	epoch   int64
	valid   bool
}

// NewPolicy returns a policy owning copies of both trees and no fitness.
func NewPolicy(routing, sequencing Tree) *Policy {
	return &Policy{routing: routing.Clone(), sequencing: sequencing.Clone()}
}

// Routing returns the routing tree.
func (p *Policy) Routing() Tree { return p.routing }

// Sequencing returns the sequencing tree.
func (p *Policy) Sequencing() Tree { return p.sequencing }

// Fitness returns the cached fitness if it was computed for epoch.
func (p *Policy) Fitness(epoch int64) (float64, bool) {
	if !p.valid || p.epoch != epoch {
		return 0, false
	}
	return p.fitness, true
}

// LastFitness returns the most recent fitness regardless of epoch.
func (p *Policy) LastFitness() (float64, bool) { return p.fitness, p.valid }

// SetFitness caches f for epoch.
func (p *Policy) SetFitness(epoch int64, f float64) {
	p.fitness, p.epoch, p.valid = f, epoch, true
}

// Clone deep copies both trees and keeps the cached fitness.
func (p *Policy) Clone() *Policy {
	c := *p
	c.routing = p.routing.Clone()
	c.sequencing = p.sequencing.Clone()
	return &c
}

// Depth returns the depth of the deeper tree.
func (p *Policy) Depth() int {
	if d := p.sequencing.Depth(); d > p.routing.Depth() {
		return d
	}
	return p.routing.Depth()
}

// Equal reports whether both trees match.
func (p *Policy) Equal(o *Policy) bool {
	return p.routing.Equal(o.routing) && p.sequencing.Equal(o.sequencing)
}

// RoutingString formats the routing tree.
func (p *Policy) RoutingString() string { return p.routing.Format(RoutingGrammar) }

// SequencingString formats the sequencing tree.
func (p *Policy) SequencingString() string { return p.sequencing.Format(SequencingGrammar) }

// Key identifies the policy by its two formatted trees.
func (p *Policy) Key() string { return p.RoutingString() + "|" + p.SequencingString() }

// ParsePolicy builds a policy from the textual form of both trees.
func ParsePolicy(routing, sequencing string) (*Policy, error) {
	r, err := Parse(RoutingGrammar, routing)
	if err != nil {
		return nil, err
	}
	s, err := Parse(SequencingGrammar, sequencing)
	if err != nil {
		return nil, err
	}
	return &Policy{routing: r, sequencing: s}, nil
}
