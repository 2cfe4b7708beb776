// Package events defines the evolution events emitted on the event bus.
//
// Available event types:
//   - GenerationEvent: a generation was evaluated
//   - BestEvent: the best-of-run policy improved
//   - FallbackEvent: crossover gave up and copied a parent
//   - StatusEvent: the run finished
package events
