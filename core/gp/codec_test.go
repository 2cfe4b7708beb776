package gp

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tr := Func(OpMax, Leaf(RouteTravel), Func(OpSub, Leaf(RouteNow), Const(0.25)))
	assert.Equal(t, "max(travel, sub(now, 0.25))", tr.Format(RoutingGrammar))
}

func TestParseRoundTrip(t *testing.T) {
	gen := NewGenerator(RoutingGrammar, 0.5, rand.New(rand.NewPCG(5, 6)))
	for i := 0; i < 100; i++ {
		tr := gen.Ramped(6)
		back, err := Parse(RoutingGrammar, tr.Format(RoutingGrammar))
		require.NoError(t, err)
		require.True(t, tr.Equal(back), tr.Format(RoutingGrammar))
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"unknown operator": "pow(now, 1)",
		"unknown feature":  "add(now, nope)",
		"trailing":         "now now",
		"missing paren":    "add(now, 1",
		"empty":            "",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(RoutingGrammar, src)
			assert.Error(t, err)
		})
	}
}

func TestParseNegativeConstant(t *testing.T) {
	tr, err := Parse(SequencingGrammar, "add(-0.5, detour)")
	require.NoError(t, err)
	assert.InDelta(t, 1.5, tr.Evaluate([]float64{2}), 1e-12)
}
