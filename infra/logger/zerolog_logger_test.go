package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("evolve", &buf)
	l.Debugw("generation", map[string]any{"gen": 3, "best": 1.5})

	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &line))
	assert.Equal(t, "evolve", line["component"])
	assert.Equal(t, "generation", line["message"])
	assert.EqualValues(t, 3, line["gen"])
}

func TestZerologLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter("evolve", &buf)
	base.With(map[string]any{"run_id": "r-1"}).Infof("generation %d", 2)
	base.Infof("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var first, second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "r-1", first["run_id"])
	assert.Equal(t, "evolve", first["component"])
	assert.NotContains(t, second, "run_id")
}

func TestSetLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)
	require.NoError(t, SetLevel("warn"))
	var buf bytes.Buffer
	l := NewWithWriter("x", &buf)
	l.Infof("hidden")
	assert.Empty(t, buf.String())
	l.Warnf("shown")
	assert.Contains(t, buf.String(), "shown")

	assert.Error(t, SetLevel("loud"))
	assert.NoError(t, SetLevel(""))
}
