package config

import "fmt"

// SentryConfig enables exception reporting when DSN is set. Tags are added
// to every reported event, next to the run and generation tags.
type SentryConfig struct {
	DSN              string            `json:"dsn"`
	Environment      string            `json:"environment"`
	Release          string            `json:"release"`
	ServerName       string            `json:"server_name"`
	SampleRate       float64           `json:"sample_rate"`
	TracesSampleRate float64           `json:"traces_sample_rate"`
	Debug            bool              `json:"debug"`
	Tags             map[string]string `json:"tags"`
}

// Validate checks the sampling rates.
func (c SentryConfig) Validate() error {
	for name, r := range map[string]float64{"sample_rate": c.SampleRate, "traces_sample_rate": c.TracesSampleRate} {
		if r < 0 || r > 1 {
			return fmt.Errorf("%s %g outside [0, 1]", name, r)
		}
	}
	return nil
}
