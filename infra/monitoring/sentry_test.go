package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gproute/config"
	coremon "github.com/kilianp07/gproute/core/monitoring"
)

type captureTransport struct {
	events []*sentry.Event
}

func (t *captureTransport) Configure(sentry.ClientOptions)         {}
func (t *captureTransport) SendEvent(e *sentry.Event)              { t.events = append(t.events, e) }
func (t *captureTransport) Flush(time.Duration) bool               { return true }
func (t *captureTransport) FlushWithContext(context.Context) bool { return true }
func (t *captureTransport) Close()                                 {}

func newTestMonitor(t *testing.T, tags map[string]string) (*sentryMonitor, *captureTransport) {
	t.Helper()
	tr := &captureTransport{}
	client, err := sentry.NewClient(sentry.ClientOptions{Transport: tr})
	require.NoError(t, err)
	return newSentryMonitor(sentry.NewHub(client, sentry.NewScope()), tags), tr
}

func TestNewSentryMonitorWithoutDSN(t *testing.T) {
	m, err := NewSentryMonitor(config.SentryConfig{})
	require.NoError(t, err)
	assert.IsType(t, coremon.NopMonitor{}, m)
}

func TestNewSentryMonitorRejectsBadRate(t *testing.T) {
	_, err := NewSentryMonitor(config.SentryConfig{DSN: "https://key@example.com/1", SampleRate: 2})
	assert.ErrorContains(t, err, "sample_rate")
}

func TestClientOptions(t *testing.T) {
	opts := clientOptions(config.SentryConfig{DSN: "d", ServerName: "worker-1", Environment: "ci"})
	assert.Equal(t, 1.0, opts.SampleRate)
	assert.Equal(t, "worker-1", opts.ServerName)
	assert.Equal(t, 0.5, clientOptions(config.SentryConfig{SampleRate: 0.5}).SampleRate)
}

func TestSentryMonitorCapturesTags(t *testing.T) {
	m, tr := newTestMonitor(t, map[string]string{"instance": "c101"})

	m.CaptureException(errors.New("depth exceeded"), map[string]string{"generation": "3"})
	m.CaptureException(nil, nil)
	m.CapturePanic("boom")
	require.Len(t, tr.events, 2)
	assert.Equal(t, "3", tr.events[0].Tags["generation"])
	assert.Equal(t, "c101", tr.events[0].Tags["instance"])
	assert.Equal(t, appTag, tr.events[0].Tags["app"])
	assert.Equal(t, sentry.LevelFatal, tr.events[1].Level)
	assert.NotContains(t, tr.events[1].Tags, "generation")
}
