// Package monitoring reports run failures to Sentry.
package monitoring

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/kilianp07/gproute/config"
	coremon "github.com/kilianp07/gproute/core/monitoring"
)

const appTag = "gproute"

// NewSentryMonitor initializes the Sentry client described by cfg. Without
// a DSN it returns the no-op monitor.
func NewSentryMonitor(cfg config.SentryConfig) (coremon.Monitor, error) {
	if cfg.DSN == "" {
		return coremon.NopMonitor{}, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := sentry.NewClient(clientOptions(cfg))
	if err != nil {
		return nil, err
	}
	hub := sentry.CurrentHub()
	hub.BindClient(client)
	return newSentryMonitor(hub, cfg.Tags), nil
}

func clientOptions(cfg config.SentryConfig) sentry.ClientOptions {
	opts := sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		ServerName:       cfg.ServerName,
		SampleRate:       cfg.SampleRate,
		TracesSampleRate: cfg.TracesSampleRate,
		Debug:            cfg.Debug,
	}
	if opts.SampleRate == 0 {
		opts.SampleRate = 1
	}
	return opts
}

type sentryMonitor struct {
	hub *sentry.Hub
}

// newSentryMonitor tags the hub scope once so every event carries the
// application and configured tags.
func newSentryMonitor(hub *sentry.Hub, tags map[string]string) *sentryMonitor {
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("app", appTag)
		scope.SetTags(tags)
	})
	return &sentryMonitor{hub: hub}
}

func (s *sentryMonitor) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	s.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		s.hub.CaptureException(err)
	})
}

func (s *sentryMonitor) CapturePanic(v any) {
	s.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelFatal)
		s.hub.Recover(v)
	})
}

func (s *sentryMonitor) Flush(timeout time.Duration) { s.hub.Flush(timeout) }
