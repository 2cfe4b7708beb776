// Package e2e runs the evolution service against real brokers and
// databases started with testcontainers.
package e2e

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// InfluxClient is a small query helper around the official InfluxDB v2
// client. It hides token/org/bucket plumbing.
type InfluxClient struct {
	org    string
	bucket string
	client influxdb2.Client
	query  api.QueryAPI
}

// NewInfluxClient creates a new client for the given parameters. It assumes
// the server is already running and reachable.
func NewInfluxClient(url, org, bucket, token string) *InfluxClient {
	c := influxdb2.NewClient(url, token)
	return &InfluxClient{org: org, bucket: bucket, client: c, query: c.QueryAPI(org)}
}

// CountGenerations returns the number of distinct generations written for
// runID.
func (c *InfluxClient) CountGenerations(ctx context.Context, runID string) (int, error) {
	flux := fmt.Sprintf(`from(bucket:%q)
  |> range(start: -1h)
  |> filter(fn: (r) => r._measurement == "generation" and r.run_id == %q and r._field == "best")`, c.bucket, runID)
	res, err := c.query.Query(ctx, flux)
	if err != nil {
		return 0, err
	}
	defer func() { _ = res.Close() }()
	seen := map[any]bool{}
	for res.Next() {
		seen[res.Record().ValueByKey("generation")] = true
	}
	if res.Err() != nil {
		return 0, res.Err()
	}
	return len(seen), nil
}

// Close releases the underlying client resources.
func (c *InfluxClient) Close() { c.client.Close() }
