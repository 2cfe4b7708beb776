package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gproute/core/evolve"
	"github.com/kilianp07/gproute/core/model"
	"github.com/kilianp07/gproute/core/records"
	"github.com/kilianp07/gproute/core/sim"
	"github.com/kilianp07/gproute/infra/instance"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

// isolate runs the command from an empty directory so no .env or config
// file leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func seedStore(t *testing.T, path string) {
	t.Helper()
	store, err := records.NewJSONLStore(path)
	require.NoError(t, err)
	ctx := context.Background()
	emit := func(kind records.Kind, gen int, data any) {
		rec, err := records.New("run-a", kind, gen, data)
		require.NoError(t, err)
		require.NoError(t, store.Emit(ctx, rec))
	}
	for gen := 0; gen < 3; gen++ {
		emit(records.KindGeneration, gen, evolve.Summary{Generation: gen, Best: float64(5 - gen), Mean: 9, BestOfRun: float64(5 - gen)})
	}
	emit(records.KindBest, 2, evolve.BestRecord{
		PolicyRecord: evolve.PolicyRecord{Routing: "0", Sequencing: "0"},
		Cost:         40,
	})
	emit(records.KindLastRoute, 2, evolve.RouteRecord{Route: 0, Customers: []int{1, 2}, Visits: []sim.Visit{
		{Customer: model.Customer{ID: 1}, Arrival: 10, Start: 10, Departure: 10},
		{Customer: model.Customer{ID: 2}, Arrival: 20, Start: 20, Departure: 20},
	}})
	require.NoError(t, store.Close())
}

func TestReportCommand(t *testing.T) {
	dir := isolate(t)
	store := filepath.Join(dir, "runs.jsonl")
	seedStore(t, store)
	out := filepath.Join(dir, "report.html")

	_, err := execute(t, "report", "--records", store, "--out", out)
	require.NoError(t, err)
	html, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(html), "run-a")
}

func TestReplayStoredRoutes(t *testing.T) {
	dir := isolate(t)
	store := filepath.Join(dir, "runs.jsonl")
	seedStore(t, store)

	out, err := execute(t, "replay", "--records", store, "--run", "run-a", "--format", "csv", "--out", "")
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewBufferString(out)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestReplayResimulates(t *testing.T) {
	dir := isolate(t)
	store := filepath.Join(dir, "runs.jsonl")
	seedStore(t, store)
	inst := filepath.Join(dir, "line.yaml")
	require.NoError(t, os.WriteFile(inst, []byte(`depot: {location: {x: 0, y: 0}, latest: 1000}
capacity: 100
vehicles: 1
customers:
  - {id: 1, location: {x: 10, y: 0}, demand: 10, latest: 1000}
  - {id: 2, location: {x: 20, y: 0}, demand: 10, latest: 1000}
`), 0o644))
	outFile := filepath.Join(dir, "routes.json")

	_, err := execute(t, "replay", inst, "--records", store, "--run", "", "--format", "json", "--out", outFile)
	require.NoError(t, err)
	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"customers": [`)
	assert.Contains(t, string(data), `"length": 40`)
}

func TestConvertNumbersAndWritesYAML(t *testing.T) {
	dir := isolate(t)
	in := filepath.Join(dir, "mixed.yaml")
	require.NoError(t, os.WriteFile(in, []byte(`depot: {latest: 1000}
customers:
  - {location: {x: 10}, demand: 4, latest: 1000}
  - {id: 1, location: {x: 20}, demand: 6, latest: 1000}
`), 0o644))
	out := filepath.Join(dir, "out.yaml")

	_, err := execute(t, "convert", in, out)
	require.NoError(t, err)
	back, err := instance.Load(out, instance.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, back.Customers, 2)
	assert.Equal(t, 2, back.Customers[0].ID)
	assert.Equal(t, 1, back.Customers[1].ID)
	assert.Equal(t, 10.0, back.TotalDemand())
}

func TestReplayMissingStore(t *testing.T) {
	dir := isolate(t)
	_, err := execute(t, "replay", "--records", filepath.Join(dir, "none.jsonl"), "--out", "")
	assert.Error(t, err)
}
