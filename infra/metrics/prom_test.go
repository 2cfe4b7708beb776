package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gproute/core/events"
	coremetrics "github.com/kilianp07/gproute/core/metrics"
	"github.com/kilianp07/gproute/internal/eventbus"
)

func TestPromSinkRecordGeneration(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	st := coremetrics.GenerationStats{Generation: 2, Best: 10, Mean: 14, BestOfRun: 9, Unserved: 3, Evaluations: 40, Fallbacks: 2, Duration: time.Second}
	require.NoError(t, sink.RecordGeneration(st))
	require.NoError(t, sink.RecordGeneration(st))

	assert.Equal(t, 10.0, testutil.ToFloat64(sink.fitness.WithLabelValues("best")))
	assert.Equal(t, 9.0, testutil.ToFloat64(sink.fitness.WithLabelValues("best_of_run")))
	assert.Equal(t, 3.0, testutil.ToFloat64(sink.unserved))
	assert.Equal(t, 80.0, testutil.ToFloat64(sink.evaluations))
	assert.Equal(t, 4.0, testutil.ToFloat64(sink.fallbacks))
	var m dto.Metric
	require.NoError(t, sink.duration.Write(&m))
	assert.EqualValues(t, 2, m.GetHistogram().GetSampleCount())
	assert.InDelta(t, 2.0, m.GetHistogram().GetSampleSum(), 1e-9)
}

func TestPromSinkReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	b, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	require.NoError(t, a.RecordGeneration(coremetrics.GenerationStats{Evaluations: 5}))
	assert.Equal(t, 5.0, testutil.ToFloat64(b.evaluations))
}

func TestEventCollectorCountsImprovements(t *testing.T) {
	sink, err := NewPromSinkWithRegistry(prometheus.NewRegistry())
	require.NoError(t, err)
	bus := eventbus.New()
	done := StartEventCollector(context.Background(), bus, sink)

	bus.Publish(events.GenerationEvent{})
	bus.Publish(events.BestEvent{Fitness: 1})
	bus.Publish(events.BestEvent{Fitness: 0.5})
	bus.Close()
	<-done
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.improvements))
}
