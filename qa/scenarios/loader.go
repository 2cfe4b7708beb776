// Package scenarios replays hand-checked simulator scenarios described in
// YAML files.
package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/gproute/core/gp"
	"github.com/kilianp07/gproute/core/model"
	"github.com/kilianp07/gproute/core/sim"
	"github.com/kilianp07/gproute/infra/instance"
)

type PolicyDef struct {
	Routing    string `yaml:"routing"`
	Sequencing string `yaml:"sequencing"`
}

func (p PolicyDef) ToModel() (*gp.Policy, error) {
	return gp.ParsePolicy(p.Routing, p.Sequencing)
}

type SimulationDef struct {
	Weight          float64 `yaml:"weight"`
	TimeSlots       int     `yaml:"time_slots"`
	Slack           float64 `yaml:"slack"`
	UnservedPenalty float64 `yaml:"unserved_penalty"`
	Stress          float64 `yaml:"stress"`
}

func (s SimulationDef) ToConfig() sim.Config {
	cfg := sim.Config{Weight: s.Weight, TimeSlots: s.TimeSlots, Slack: s.Slack, UnservedPenalty: s.UnservedPenalty}
	cfg.SetDefaults()
	return cfg
}

type Expected struct {
	Cost     *float64 `yaml:"cost,omitempty"`
	Distance *float64 `yaml:"distance,omitempty"`
	Unserved int      `yaml:"unserved"`
	Routes   [][]int  `yaml:"routes,omitempty"`
}

type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Instance    yaml.Node     `yaml:"instance"`
	Policy      PolicyDef     `yaml:"policy"`
	Simulation  SimulationDef `yaml:"simulation"`
	Expected    Expected      `yaml:"expected"`
}

// BuildInstance decodes the embedded instance document.
func (s *Scenario) BuildInstance() (*model.Instance, error) {
	raw, err := yaml.Marshal(&s.Instance)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return instance.Decode(raw, s.Name, instance.DefaultOptions())
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Simulation.Stress == 0 {
		sc.Simulation.Stress = 1
	}
	return &sc, nil
}
