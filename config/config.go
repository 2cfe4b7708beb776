// Package config loads the run configuration from defaults, an optional
// file, a .env file and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/gproute/core/evolve"
	"github.com/kilianp07/gproute/core/records"
	"github.com/kilianp07/gproute/core/sim"
)

// ErrInvalid is wrapped by every configuration error.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix prefixes environment overrides: GPR_EVOLUTION__POP_SIZE sets
// evolution.pop_size.
const EnvPrefix = "GPR_"

type Config struct {
	Evolution  evolve.Config        `json:"evolution"`
	Simulation sim.Config           `json:"simulation"`
	Instance   InstanceConfig       `json:"instance"`
	Records    []records.SinkConfig `json:"records"`
	Metrics    MetricsConfig        `json:"metrics"`
	Logging    LoggingConfig        `json:"logging"`
	Sentry     SentryConfig         `json:"sentry"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	simCfg := sim.Config{Weight: 0.1}
	simCfg.SetDefaults()
	return Config{
		Evolution:  evolve.DefaultConfig(),
		Simulation: simCfg,
		Instance:   DefaultInstanceConfig(),
		Metrics:    MetricsConfig{Prometheus: PrometheusConfig{Port: 2112}},
		Logging:    LoggingConfig{Level: "info"},
	}
}

// SetDefaults fills the sections that are empty after loading.
func (c *Config) SetDefaults() {
	if len(c.Records) == 0 {
		c.Records = []records.SinkConfig{{Type: "stdout", Kinds: records.Kinds()}}
	}
	c.Logging.SetDefaults()
	c.Instance.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"evolution", c.Evolution.Validate},
		{"simulation", c.Simulation.Validate},
		{"instance", c.Instance.Validate},
		{"records", c.validateRecords},
		{"metrics", c.Metrics.Validate},
		{"logging", c.Logging.Validate},
		{"sentry", c.Sentry.Validate},
	}
	for _, ch := range checks {
		if err := ch.fn(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, ch.name, err)
		}
	}
	return nil
}

func (c Config) validateRecords() error {
	for i, s := range c.Records {
		if s.Type == "" {
			return fmt.Errorf("sink %d has no type", i)
		}
		for _, k := range s.Kinds {
			if !k.Valid() {
				return fmt.Errorf("sink %d (%s): unknown kind %q", i, s.Type, k)
			}
		}
	}
	return nil
}

// Load builds the configuration. path may be empty. Sources are applied in
// order: defaults, the file, legacy variables, then GPR_ variables. A .env
// file in the working directory is read first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: .env: %w", ErrInvalid, err)
	}
	k := koanf.New(".")
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
		}
	}
	if err := k.Load(legacyProvider(), nil); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported config format: %s", ErrInvalid, filepath.Ext(path))
	}
}
