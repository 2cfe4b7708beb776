package metrics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/gproute/core/metrics"
	"github.com/kilianp07/gproute/infra/logger"
)

// InfluxConfig locates the bucket generation points are written to.
type InfluxConfig struct {
	URL     string        `json:"url"`
	Token   string        `json:"token"`
	Org     string        `json:"org"`
	Bucket  string        `json:"bucket"`
	Timeout time.Duration `json:"timeout"`
}

// Validate requires an endpoint and a bucket. A zero timeout becomes 5s.
func (c *InfluxConfig) Validate() error {
	if c.URL == "" || c.Bucket == "" {
		return errors.New("influx: url and bucket are required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("influx: negative timeout %s", c.Timeout)
	}
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Second
	}
	return nil
}

// InfluxSink writes one point per generation with blocking writes.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	timeout  time.Duration
	log      logger.Logger
}

// NewInfluxSink creates a sink for cfg. A write endpoint URL is accepted.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		timeout:  cfg.Timeout,
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback returns a NopSink when the health check fails,
// so a missing InfluxDB never stops a run.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), sink.timeout)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// generationPoint converts statistics to a line protocol point.
func generationPoint(st coremetrics.GenerationStats) *write.Point {
	return write.NewPointWithMeasurement("generation").
		AddTag("run_id", st.RunID).
		AddTag("generation", strconv.Itoa(st.Generation)).
		AddField("best", round3(st.Best)).
		AddField("mean", round3(st.Mean)).
		AddField("median", round3(st.Median)).
		AddField("std", round3(st.Std)).
		AddField("worst", round3(st.Worst)).
		AddField("best_of_run", round3(st.BestOfRun)).
		AddField("full_cost", round3(st.FullCost)).
		AddField("unserved", st.Unserved).
		AddField("evaluations", st.Evaluations).
		AddField("fallbacks", st.Fallbacks).
		AddField("duration_ms", round3(st.Duration.Seconds()*1000)).
		SetTime(st.Time)
}

// RecordGeneration writes one point per generation.
func (s *InfluxSink) RecordGeneration(st coremetrics.GenerationStats) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, generationPoint(st))
}

// Close releases the client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return math.Round(f*1000) / 1000
}
