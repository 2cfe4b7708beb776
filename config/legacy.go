package config

import (
	"github.com/knadh/koanf/providers/env"
)

// legacyKeys maps the historical flat variable names to config keys.
var legacyKeys = map[string]string{
	"WEIGHT":              "simulation.weight",
	"TIME_SLOT":           "simulation.time_slots",
	"NUM_GEN":             "evolution.generations",
	"POP_SIZE":            "evolution.pop_size",
	"MAX_DEPTH":           "evolution.max_depth",
	"CROSSOVER_RATE":      "evolution.crossover_rate",
	"MUTATION_RATE":       "evolution.mutation_rate",
	"CONST_MUTATION_RATE": "evolution.const_mutation_rate",
	"TRAIN_FACTOR":        "evolution.train_factor",
	"STRESS_FACTOR":       "evolution.stress",
	"SEED":                "evolution.seed",
}

// legacyProvider reads only the variables listed in legacyKeys.
func legacyProvider() *env.Env {
	return env.Provider("", ".", func(s string) string {
		return legacyKeys[s]
	})
}
