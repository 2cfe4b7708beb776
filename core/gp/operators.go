package gp

import (
	"math"
	"math/rand/v2"
)

// OperatorConfig parameterises the genetic operators.
type OperatorConfig struct {
	MaxDepth             int
	MaxCrossoverAttempts int
	FullProbability      float64
	// PointMutationRate is the chance Mutate performs a point mutation
	// instead of a subtree mutation.
	PointMutationRate float64
	// ConstDelta bounds the perturbation applied by constant mutation.
	ConstDelta float64
}

// Operators applies the genetic operators for one grammar.
type Operators struct {
	cfg OperatorConfig
	gen *Generator
	rng *rand.Rand
}

// NewOperators returns operators for grammar g drawing from rng.
func NewOperators(g Grammar, cfg OperatorConfig, rng *rand.Rand) *Operators {
	if cfg.MaxCrossoverAttempts <= 0 {
		cfg.MaxCrossoverAttempts = 1
	}
	return &Operators{cfg: cfg, gen: NewGenerator(g, cfg.FullProbability, rng), rng: rng}
}

// Generator exposes the tree generator sharing the operators' stream.
func (o *Operators) Generator() *Generator { return o.gen }

// Crossover grafts a random subtree of b onto a random node of a copy of a.
// Attempts exceeding MaxDepth are discarded; after MaxCrossoverAttempts
// failures an exact copy of a is returned with ok == false.
func (o *Operators) Crossover(a, b Tree) (child Tree, ok bool) {
	for attempt := 0; attempt < o.cfg.MaxCrossoverAttempts; attempt++ {
		i := o.rng.IntN(a.Size())
		j := o.rng.IntN(b.Size())
		c := a.ReplaceSubtreeAt(i, b.CloneSubtreeAt(j))
		if c.Depth() <= o.cfg.MaxDepth {
			return c, true
		}
	}
	return a.Clone(), false
}

// Mutate applies a point mutation with probability PointMutationRate and a
// subtree mutation otherwise.
func (o *Operators) Mutate(t Tree) Tree {
	if o.rng.Float64() < o.cfg.PointMutationRate {
		return o.PointMutation(t)
	}
	return o.SubtreeMutation(t)
}

// SubtreeMutation replaces a random subtree by a ramped tree small enough to
// keep the whole tree within MaxDepth.
func (o *Operators) SubtreeMutation(t Tree) Tree {
	i := o.rng.IntN(t.Size())
	room := o.cfg.MaxDepth - t.DepthAt(i)
	return t.ReplaceSubtreeAt(i, o.gen.Ramped(room))
}

// PointMutation changes the content of one random node without touching the
// shape: an operator becomes another operator, a leaf another leaf.
func (o *Operators) PointMutation(t Tree) Tree {
	i := o.rng.IntN(t.Size())
	n := t.Node(i)
	switch n.Kind {
	case KindFunction:
		n.Op = Op((int(n.Op) + 1 + o.rng.IntN(int(numOps)-1)) % int(numOps))
	default:
		n = o.gen.leaf()
	}
	return t.withNode(i, n)
}

// PerturbConstants shifts every constant by U(-ConstDelta, ConstDelta),
// clamped to the grammar range. ok is false when the tree has no constant.
func (o *Operators) PerturbConstants(t Tree) (Tree, bool) {
	idx := t.constants()
	if len(idx) == 0 {
		return t, false
	}
	c := t.Clone()
	lo, hi := o.gen.Grammar.ConstMin, o.gen.Grammar.ConstMax
	for _, i := range idx {
		delta := (o.rng.Float64()*2 - 1) * o.cfg.ConstDelta
		c.nodes[i].Value = math.Min(hi, math.Max(lo, c.nodes[i].Value+delta))
	}
	return c, true
}
