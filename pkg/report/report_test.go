package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gproute/core/evolve"
	"github.com/kilianp07/gproute/core/records"
)

func runRecords(t *testing.T) []records.Record {
	t.Helper()
	var recs []records.Record
	for _, gen := range []int{2, 0, 1} {
		rec, err := records.New("run", records.KindGeneration, gen, evolve.Summary{
			Generation: gen, Best: float64(10 - gen), Mean: 20, BestOfRun: float64(10 - gen), FullCost: 12,
		})
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	h, err := records.New("run", records.KindHeuristic, 0, evolve.HeuristicResult{Name: "nearest", Cost: 30})
	require.NoError(t, err)
	return append(recs, h)
}

func TestFromRecordsOrdersGenerations(t *testing.T) {
	run, err := FromRecords("run", runRecords(t))
	require.NoError(t, err)
	require.Len(t, run.Summaries, 3)
	for i, s := range run.Summaries {
		assert.Equal(t, i, s.Generation)
	}
	require.Len(t, run.Heuristics, 1)
	assert.Equal(t, "nearest", run.Heuristics[0].Name)
}

func TestRender(t *testing.T) {
	run, err := FromRecords("run", runRecords(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, run))
	html := buf.String()
	assert.Contains(t, html, "Convergence")
	assert.Contains(t, html, "Baselines")
	assert.Contains(t, html, "Best of run")
}

func TestRenderEmptyRun(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Render(&buf, Run{RunID: "empty"}))
}
