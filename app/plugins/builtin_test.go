package plugins

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gproute/core/records"
)

func TestBuiltinStores(t *testing.T) {
	dir := t.TempDir()
	cfgs := []records.SinkConfig{
		{Type: "jsonl", Kinds: []records.Kind{records.KindGeneration}, Conf: map[string]any{"path": filepath.Join(dir, "gen.jsonl")}},
		{Type: "rotating_jsonl", Kinds: []records.Kind{records.KindBest}, Conf: map[string]any{"path": filepath.Join(dir, "best.jsonl"), "max_size_mb": "1"}},
		{Type: "sqlite", Kinds: records.Kinds(), Conf: map[string]any{"path": filepath.Join(dir, "runs.db")}},
		{Type: "nop", Kinds: records.Kinds()},
	}
	sink, err := records.NewSink(cfgs)
	require.NoError(t, err)

	ctx := context.Background()
	for gen := 0; gen < 3; gen++ {
		rec, err := records.New("run", records.KindGeneration, gen, map[string]int{"gen": gen})
		require.NoError(t, err)
		require.NoError(t, sink.Emit(ctx, rec))
	}
	best, err := records.New("run", records.KindBest, 2, map[string]string{"routing": "travel"})
	require.NoError(t, err)
	require.NoError(t, sink.Emit(ctx, best))
	require.NoError(t, sink.Close())

	jsonl, err := records.NewJSONLStore(filepath.Join(dir, "gen.jsonl"))
	require.NoError(t, err)
	got, err := jsonl.Query(ctx, records.Query{RunID: "run"})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	db, err := records.NewSQLiteStore(filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	got, err = db.Query(ctx, records.Query{Kind: records.KindBest})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Generation)
}

func TestBuiltinRequiresPath(t *testing.T) {
	for _, typ := range []string{"jsonl", "rotating_jsonl", "sqlite"} {
		_, err := records.NewSink([]records.SinkConfig{{Type: typ, Kinds: records.Kinds()}})
		assert.Error(t, err, typ)
	}
}

func TestUnknownSinkType(t *testing.T) {
	_, err := records.NewSink([]records.SinkConfig{{Type: "kafka", Kinds: records.Kinds()}})
	assert.ErrorContains(t, err, "kafka")
}

func TestBuiltinRejectsUnknownSettings(t *testing.T) {
	conf := map[string]any{"path": filepath.Join(t.TempDir(), "runs.jsonl"), "max_size": 10}
	_, err := records.NewSink([]records.SinkConfig{{Type: "jsonl", Kinds: records.Kinds(), Conf: conf}})
	assert.ErrorContains(t, err, "max_size")

	_, err = records.NewSink([]records.SinkConfig{{Type: "rotating_jsonl", Kinds: records.Kinds(),
		Conf: map[string]any{"path": "x.jsonl", "max_backups": -1}}})
	assert.Error(t, err)
}
