package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gproute/core/evolve"
	"github.com/kilianp07/gproute/core/model"
	"github.com/kilianp07/gproute/core/records"
	"github.com/kilianp07/gproute/core/sim"
)

func sampleRoutes() []evolve.RouteRecord {
	return []evolve.RouteRecord{
		{Route: 0, Customers: []int{1, 2}, Load: 20, Length: 40, Visits: []sim.Visit{
			{Customer: model.Customer{ID: 1}, Arrival: 10, Start: 10, Departure: 20},
			{Customer: model.Customer{ID: 2}, KnownAt: 5, Leave: 20, Arrival: 30, Start: 30, Departure: 40.5},
		}},
		{Route: 1, Customers: []int{3}, Visits: []sim.Visit{
			{Customer: model.Customer{ID: 3}, Arrival: 7, Start: 8, Departure: 18},
		}},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRoutes()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"route", "position", "customer", "known_at", "arrival", "start", "departure"}, rows[0])
	assert.Equal(t, []string{"0", "1", "2", "5", "30", "30", "40.5"}, rows[2])
	assert.Equal(t, "1", rows[3][0])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "json", sampleRoutes()))
	var out []evolve.RouteRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, []int{1, 2}, out[0].Customers)

	assert.Error(t, Write(&buf, "xml", nil))
}

func TestRoutesFromRecords(t *testing.T) {
	routes := sampleRoutes()
	var recs []records.Record
	for i := len(routes) - 1; i >= 0; i-- {
		rec, err := records.New("run", records.KindLastRoute, 4, routes[i])
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	other, err := records.New("run", records.KindBest, 4, map[string]int{"x": 1})
	require.NoError(t, err)
	recs = append(recs, other)

	out, err := RoutesFromRecords(recs)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 0, out[0].Route)
	assert.Equal(t, 1, out[1].Route)
}
