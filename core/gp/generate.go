package gp

import "math/rand/v2"

// Generator builds random trees for one grammar. It is not safe for
// concurrent use; each goroutine needs its own stream.
type Generator struct {
	Grammar Grammar
	// FullProbability is the chance that Ramped builds a full tree.
	FullProbability float64
	rng             *rand.Rand
}

// NewGenerator returns a generator drawing from rng.
func NewGenerator(g Grammar, fullProbability float64, rng *rand.Rand) *Generator {
	return &Generator{Grammar: g, FullProbability: fullProbability, rng: rng}
}

// Ramped builds one tree of depth at most maxDepth: a full tree of exactly
// maxDepth with probability FullProbability, otherwise a grow tree whose
// target depth is uniform in [1, maxDepth].
func (g *Generator) Ramped(maxDepth int) Tree {
	if maxDepth <= 0 {
		return Tree{nodes: []Node{g.leaf()}}
	}
	if g.rng.Float64() < g.FullProbability {
		return g.Full(maxDepth)
	}
	return g.Grow(1 + g.rng.IntN(maxDepth))
}

// Full builds a tree where every leaf sits at exactly depth.
func (g *Generator) Full(depth int) Tree {
	var nodes []Node
	g.full(&nodes, depth)
	return Tree{nodes: nodes}
}

func (g *Generator) full(nodes *[]Node, depth int) {
	if depth <= 0 {
		*nodes = append(*nodes, g.leaf())
		return
	}
	*nodes = append(*nodes, g.function())
	for k := 0; k < Arity; k++ {
		g.full(nodes, depth-1)
	}
}

// Grow builds a tree no deeper than target. A node at depth k becomes a leaf
// with probability k/target, so branches thin out as they deepen.
func (g *Generator) Grow(target int) Tree {
	var nodes []Node
	g.grow(&nodes, 0, target)
	return Tree{nodes: nodes}
}

func (g *Generator) grow(nodes *[]Node, depth, target int) {
	if depth >= target || (depth > 0 && g.rng.Float64() < float64(depth)/float64(target)) {
		*nodes = append(*nodes, g.leaf())
		return
	}
	*nodes = append(*nodes, g.function())
	for k := 0; k < Arity; k++ {
		g.grow(nodes, depth+1, target)
	}
}

func (g *Generator) function() Node {
	return Node{Kind: KindFunction, Op: Op(g.rng.IntN(int(numOps)))}
}

// leaf draws a feature terminal, or a constant with probability
// 1/(features+1).
func (g *Generator) leaf() Node {
	n := g.Grammar.NumFeatures()
	pick := g.rng.IntN(n + 1)
	if pick == n {
		return g.constant()
	}
	return Node{Kind: KindTerminal, Feature: pick}
}

func (g *Generator) constant() Node {
	lo, hi := g.Grammar.ConstMin, g.Grammar.ConstMax
	return Node{Kind: KindConstant, Value: lo + g.rng.Float64()*(hi-lo)}
}
