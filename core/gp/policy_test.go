package gp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyFitnessEpoch(t *testing.T) {
	p := NewPolicy(Leaf(RouteTravel), Leaf(SeqDetour))
	_, ok := p.Fitness(0)
	assert.False(t, ok)

	p.SetFitness(3, 12.5)
	f, ok := p.Fitness(3)
	require.True(t, ok)
	assert.Equal(t, 12.5, f)
	_, ok = p.Fitness(4)
	assert.False(t, ok)

	c := p.Clone()
	f, ok = c.Fitness(3)
	require.True(t, ok)
	assert.Equal(t, 12.5, f)

	c.SetFitness(4, 1)
	_, ok = c.Fitness(3)
	assert.False(t, ok)
	f, ok = p.Fitness(3)
	assert.True(t, ok)
	assert.Equal(t, 12.5, f)
}

func TestPolicyKeyAndParse(t *testing.T) {
	p := NewPolicy(Func(OpAdd, Leaf(RouteTravel), Const(0.5)), Leaf(SeqDetour))
	assert.Equal(t, "add(travel, 0.5)|detour", p.Key())

	back, err := ParsePolicy(p.RoutingString(), p.SequencingString())
	require.NoError(t, err)
	assert.True(t, p.Equal(back))
	assert.Equal(t, 1, back.Depth())

	_, err = ParsePolicy("travel", "travel")
	assert.Error(t, err)
}
