// Package records defines the structured output of an evolution run and the
// sinks and stores that persist it.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Kind classifies a record.
type Kind string

const (
	KindGeneration     Kind = "generation"
	KindLastPopulation Kind = "last_population"
	KindLastRoute      Kind = "last_route"
	KindBest           Kind = "best"
	KindHeuristic      Kind = "heuristic"
	KindDebug          Kind = "debug"
)

// Kinds lists every known kind.
func Kinds() []Kind {
	return []Kind{KindGeneration, KindLastPopulation, KindLastRoute, KindBest, KindHeuristic, KindDebug}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, v := range Kinds() {
		if v == k {
			return true
		}
	}
	return false
}

// Record is the envelope of every emitted record. Data holds the kind
// specific payload.
type Record struct {
	Timestamp  time.Time       `json:"timestamp"`
	RunID      string          `json:"run_id"`
	Kind       Kind            `json:"kind"`
	Generation int             `json:"generation"`
	Data       json.RawMessage `json:"data"`
}

// New builds a record with the current time and data marshalled to JSON.
func New(runID string, kind Kind, gen int, data any) (Record, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return Record{}, fmt.Errorf("records: marshal %s payload: %w", kind, err)
	}
	return Record{Timestamp: time.Now().UTC(), RunID: runID, Kind: kind, Generation: gen, Data: b}, nil
}

// Decode unmarshals the payload into out.
func (r Record) Decode(out any) error {
	return json.Unmarshal(r.Data, out)
}

// Query filters stored records. Zero fields match everything. ToGen is
// inclusive; zero or negative leaves the range open.
type Query struct {
	RunID   string
	Kind    Kind
	FromGen int
	ToGen   int
}

// Match reports whether r satisfies q.
func (q Query) Match(r Record) bool {
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if r.Generation < q.FromGen {
		return false
	}
	if q.ToGen > 0 && r.Generation > q.ToGen {
		return false
	}
	return true
}

// Sink receives records as they are produced.
type Sink interface {
	Emit(ctx context.Context, rec Record) error
	Close() error
}

// Store is a Sink that can be queried back.
type Store interface {
	Sink
	Query(ctx context.Context, q Query) ([]Record, error)
}
