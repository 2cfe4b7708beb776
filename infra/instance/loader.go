package instance

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/gproute/core/model"
)

// Load reads the instance at path, choosing the format from its extension.
func Load(path string, opts Options) (*model.Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInstance, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return ReadCSV(bytes.NewReader(data), name, opts)
	case ".yaml", ".yml", ".json":
		return Decode(data, name, opts)
	default:
		return nil, fmt.Errorf("%w: unsupported instance format %q", model.ErrInstance, filepath.Ext(path))
	}
}

type document struct {
	Name      string           `yaml:"name"`
	Depot     model.Customer   `yaml:"depot"`
	Capacity  *float64         `yaml:"capacity"`
	Vehicles  *int             `yaml:"vehicles"`
	Speed     *float64         `yaml:"speed"`
	Customers []model.Customer `yaml:"customers"`
}

// Decode parses a YAML or JSON document. JSON is read through the YAML
// decoder. Fleet fields absent from the document take their value from
// opts, and customers without an id are numbered after every explicit id.
func Decode(data []byte, name string, opts Options) (*model.Instance, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", model.ErrInstance, name, err)
	}
	inst := &model.Instance{
		Name:      doc.Name,
		Depot:     doc.Depot,
		Capacity:  opts.Capacity,
		Vehicles:  opts.Vehicles,
		Speed:     opts.Speed,
		Customers: doc.Customers,
	}
	if inst.Name == "" {
		inst.Name = name
	}
	if doc.Capacity != nil {
		inst.Capacity = *doc.Capacity
	}
	if doc.Vehicles != nil {
		inst.Vehicles = *doc.Vehicles
	}
	if doc.Speed != nil {
		inst.Speed = *doc.Speed
	}
	numberCustomers(inst.Depot.ID, inst.Customers)
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// numberCustomers gives customers without an id the next ids after the
// highest explicit one, depot included, in document order.
func numberCustomers(depot int, cs []model.Customer) {
	next := depot
	for _, c := range cs {
		next = max(next, c.ID)
	}
	for i := range cs {
		if cs[i].ID == 0 {
			next++
			cs[i].ID = next
		}
	}
}

// Write encodes inst as YAML.
func Write(path string, inst *model.Instance) error {
	data, err := yaml.Marshal(inst)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
