package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInstance() *Instance {
	return &Instance{
		Name:     "sample",
		Depot:    Customer{ID: 0, Latest: 1000},
		Capacity: 100,
		Vehicles: 2,
		Speed:    1,
		Customers: []Customer{
			{ID: 1, Location: Point{X: 3, Y: 4}, Demand: 10, Latest: 500},
			{ID: 2, Location: Point{X: 6, Y: 8}, Demand: 20, Latest: 800, Release: 100},
		},
	}
}

func TestInstanceValidate(t *testing.T) {
	require.NoError(t, sampleInstance().Validate())

	cases := map[string]func(*Instance){
		"no customers":   func(in *Instance) { in.Customers = nil },
		"capacity":       func(in *Instance) { in.Capacity = 0 },
		"speed":          func(in *Instance) { in.Speed = -1 },
		"vehicles":       func(in *Instance) { in.Vehicles = -1 },
		"horizon":        func(in *Instance) { in.Depot.Latest = 0 },
		"duplicate":      func(in *Instance) { in.Customers[1].ID = 1 },
		"depot clash":    func(in *Instance) { in.Customers[0].ID = 0 },
		"negative":       func(in *Instance) { in.Customers[0].Demand = -1 },
		"empty window":   func(in *Instance) { in.Customers[0].Earliest = 600 },
		"negative relea": func(in *Instance) { in.Customers[1].Release = -5 },
	}
	for name, mutate := range cases {
		in := sampleInstance()
		mutate(in)
		err := in.Validate()
		if !errors.Is(err, ErrInstance) {
			t.Errorf("%s: expected ErrInstance, got %v", name, err)
		}
	}
	var nilInst *Instance
	assert.ErrorIs(t, nilInst.Validate(), ErrInstance)
}

func TestInstanceHelpers(t *testing.T) {
	in := sampleInstance()
	assert.Equal(t, 1000.0, in.Horizon())
	assert.InDelta(t, 5.0, in.Distance(in.Depot.Location, in.Customers[0].Location), 1e-9)
	in.Speed = 2
	assert.InDelta(t, 2.5, in.TravelTime(in.Depot.Location, in.Customers[0].Location), 1e-9)
	assert.Equal(t, 30.0, in.TotalDemand())
	assert.False(t, in.Customers[0].Dynamic())
	assert.True(t, in.Customers[1].Dynamic())
}

func TestWithReleasesCopies(t *testing.T) {
	in := sampleInstance()
	cp := in.WithReleases(func(c Customer) float64 { return c.Release + 1 })
	assert.Equal(t, 0.0, in.Customers[0].Release)
	assert.Equal(t, 1.0, cp.Customers[0].Release)
	assert.Equal(t, 101.0, cp.Customers[1].Release)
	assert.Equal(t, in.Capacity, cp.Capacity)
}
