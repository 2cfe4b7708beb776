package gp

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOperators(seed uint64, maxDepth int) *Operators {
	return NewOperators(RoutingGrammar, OperatorConfig{
		MaxDepth:             maxDepth,
		MaxCrossoverAttempts: 8,
		FullProbability:      0.5,
		PointMutationRate:    0.3,
		ConstDelta:           0.1,
	}, rand.New(rand.NewPCG(seed, 99)))
}

func TestCrossoverRespectsDepth(t *testing.T) {
	for seed := uint64(0); seed < 30; seed++ {
		ops := testOperators(seed, 4)
		gen := ops.Generator()
		for i := 0; i < 20; i++ {
			a, b := gen.Ramped(4), gen.Ramped(4)
			child, ok := ops.Crossover(a, b)
			require.LessOrEqual(t, child.Depth(), 4)
			if !ok {
				require.True(t, child.Equal(a))
			}
		}
	}
}

func TestCrossoverFallbackCopiesFirstParent(t *testing.T) {
	// no graft fits a negative depth bound
	ops := testOperators(1, -1)
	a := Func(OpAdd, Func(OpMul, Leaf(0), Leaf(1)), Leaf(2))
	b := Func(OpSub, Leaf(4), Leaf(5))
	child, ok := ops.Crossover(a, b)
	assert.False(t, ok)
	assert.True(t, child.Equal(a))
}

func TestCrossoverDoesNotAliasParents(t *testing.T) {
	ops := testOperators(2, 6)
	a := Func(OpAdd, Leaf(0), Const(0.5))
	b := Func(OpSub, Leaf(1), Const(-0.5))
	for i := 0; i < 20; i++ {
		child, _ := ops.Crossover(a, b)
		_, _ = ops.PerturbConstants(child)
		_ = ops.PointMutation(child)
	}
	assert.True(t, a.Equal(Func(OpAdd, Leaf(0), Const(0.5))))
	assert.True(t, b.Equal(Func(OpSub, Leaf(1), Const(-0.5))))
}

func TestMutationRespectsDepth(t *testing.T) {
	for seed := uint64(0); seed < 30; seed++ {
		ops := testOperators(seed, 5)
		tr := ops.Generator().Ramped(5)
		for i := 0; i < 50; i++ {
			tr = ops.Mutate(tr)
			require.LessOrEqual(t, tr.Depth(), 5)
		}
	}
}

func TestPointMutationKeepsShape(t *testing.T) {
	ops := testOperators(3, 6)
	tr := Func(OpAdd, Leaf(0), Func(OpMin, Leaf(1), Const(0.2)))
	for i := 0; i < 50; i++ {
		m := ops.PointMutation(tr)
		require.Equal(t, tr.Size(), m.Size())
		require.Equal(t, tr.Depth(), m.Depth())
		diff := 0
		for j := 0; j < tr.Size(); j++ {
			if tr.Node(j) != m.Node(j) {
				diff++
			}
		}
		require.LessOrEqual(t, diff, 1)
	}
}

func TestPerturbConstants(t *testing.T) {
	ops := testOperators(4, 6)
	tr := Func(OpAdd, Const(0.95), Func(OpMul, Leaf(0), Const(-0.3)))
	for i := 0; i < 100; i++ {
		m, ok := ops.PerturbConstants(tr)
		require.True(t, ok)
		require.Equal(t, tr.Size(), m.Size())
		for j, n := range m.Nodes() {
			orig := tr.Node(j)
			if n.Kind != KindConstant {
				require.Equal(t, orig, n)
				continue
			}
			require.LessOrEqual(t, n.Value, 1.0)
			require.GreaterOrEqual(t, n.Value, -1.0)
			require.InDelta(t, orig.Value, n.Value, 0.1+1e-12)
		}
	}

	_, ok := ops.PerturbConstants(Leaf(0))
	assert.False(t, ok)
}
