// Package plugins registers the built-in record sinks. Import it for its
// side effects.
package plugins

import (
	"errors"
	"os"

	"github.com/kilianp07/gproute/core/factory"
	"github.com/kilianp07/gproute/core/records"
	"github.com/kilianp07/gproute/infra/mqtt"
)

var errNoPath = errors.New("path is required")

type fileConf struct {
	Path string `json:"path"`
}

func (c *fileConf) Validate() error {
	if c.Path == "" {
		return errNoPath
	}
	return nil
}

type rotatingConf struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

func (c *rotatingConf) Validate() error {
	if c.Path == "" {
		return errNoPath
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return errors.New("rotation limits must not be negative")
	}
	return nil
}

type none struct{}

func init() {
	mustRegister("nop", factory.Typed(func(none) (records.Sink, error) {
		return records.NopSink{}, nil
	}))
	mustRegister("stdout", factory.Typed(func(none) (records.Sink, error) {
		return records.NewWriterSink(os.Stdout, true), nil
	}))
	mustRegister("stderr", factory.Typed(func(none) (records.Sink, error) {
		return records.NewWriterSink(os.Stderr, true), nil
	}))
	mustRegister("jsonl", factory.Typed(func(c fileConf) (records.Sink, error) {
		return records.NewJSONLStore(c.Path)
	}))
	mustRegister("rotating_jsonl", factory.Typed(func(c rotatingConf) (records.Sink, error) {
		return records.NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	}))
	mustRegister("sqlite", factory.Typed(func(c fileConf) (records.Sink, error) {
		return records.NewSQLiteStore(c.Path)
	}))
	mustRegister("mqtt", factory.Typed(func(c mqtt.Config) (records.Sink, error) {
		return mqtt.NewRecordSink(c)
	}))
}

func mustRegister(name string, f factory.Factory[records.Sink]) {
	if err := records.RegisterSink(name, f); err != nil {
		panic(err)
	}
}
