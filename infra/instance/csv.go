package instance

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/gproute/core/model"
)

// CSV columns. Column 6 is ignored.
const (
	colX = iota
	colY
	colDemand
	colReady
	colDue
	colService
	_
	colRelease
	minColumns = colDue + 1
)

// ReadCSV parses the benchmark layout: a header row, then one row per
// request with the depot first. Customers are numbered by row from 1.
func ReadCSV(r io.Reader, name string, opts Options) (*model.Instance, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s is empty", model.ErrInstance, name)
		}
		return nil, fmt.Errorf("%w: read header: %v", model.ErrInstance, err)
	}

	inst := &model.Instance{Name: name, Capacity: opts.Capacity, Vehicles: opts.Vehicles, Speed: opts.Speed}
	row := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrInstance, err)
		}
		c, err := parseRow(rec, row, opts)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d: %v", model.ErrInstance, line, err)
		}
		if row == 0 {
			inst.Depot = c
		} else {
			inst.Customers = append(inst.Customers, c)
		}
		row++
	}
	if row == 0 {
		return nil, fmt.Errorf("%w: %s has no depot row", model.ErrInstance, name)
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

func parseRow(rec []string, id int, opts Options) (model.Customer, error) {
	if len(rec) < minColumns {
		return model.Customer{}, fmt.Errorf("expected at least %d columns, got %d", minColumns, len(rec))
	}
	field := func(i int) (float64, error) {
		if i >= len(rec) || strings.TrimSpace(rec[i]) == "" {
			return 0, nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
		if err != nil {
			return 0, fmt.Errorf("column %d: %w", i+1, err)
		}
		return v, nil
	}
	var vals [colRelease + 1]float64
	for _, i := range []int{colX, colY, colDemand, colReady, colDue, colRelease} {
		v, err := field(i)
		if err != nil {
			return model.Customer{}, err
		}
		vals[i] = v
	}
	service := opts.Service
	if opts.ServiceColumn && colService < len(rec) {
		v, err := field(colService)
		if err != nil {
			return model.Customer{}, err
		}
		service = v
	}
	return model.Customer{
		ID:       id,
		Location: model.Point{X: vals[colX], Y: vals[colY]},
		Demand:   vals[colDemand],
		Earliest: vals[colReady],
		Latest:   vals[colDue],
		Service:  service,
		Release:  vals[colRelease],
	}, nil
}
