package metrics

import (
	"context"

	"github.com/kilianp07/gproute/core/events"
	"github.com/kilianp07/gproute/internal/eventbus"
)

// ImprovementRecorder is implemented by sinks counting best-of-run
// improvements.
type ImprovementRecorder interface {
	RecordImprovement()
}

// StartEventCollector subscribes to the event bus and records improvements
// published by the driver. It stops when the context is canceled or the bus
// is closed. The returned channel is closed once the collector has stopped.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, rec ImprovementRecorder) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || rec == nil {
		close(done)
		return done
	}
	sub := eventbus.SubscribeTo[events.BestEvent](bus, eventbus.WithName("prometheus"))
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if _, ok := ev.(events.BestEvent); ok {
					rec.RecordImprovement()
				}
			}
		}
	}()
	return done
}
