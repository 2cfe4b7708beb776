// Package monitoring reports unexpected failures (invariant violations,
// panics in evaluation workers) to an exception tracker. The default is a
// no-op; infra/monitoring installs Sentry when configured.
package monitoring

import "time"

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	// CapturePanic reports a recovered panic value.
	CapturePanic(v any)
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) CapturePanic(any)                         {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init sets the global monitor implementation. A nil monitor restores the
// no-op default.
func Init(m Monitor) {
	if m == nil {
		m = NopMonitor{}
	}
	current = m
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	current.CaptureException(err, tags)
}

// Recover reports a panic of the calling goroutine and re-panics. It must be
// deferred directly.
func Recover() {
	if r := recover(); r != nil {
		current.CapturePanic(r)
		current.Flush(2 * time.Second)
		panic(r)
	}
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	current.Flush(d)
}
