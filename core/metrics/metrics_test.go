package metrics

import (
	"errors"
	"testing"

	"github.com/kilianp07/gproute/core/factory"
)

type countSink struct {
	count int
	err   error
}

func (c *countSink) RecordGeneration(GenerationStats) error {
	c.count++
	return c.err
}

// closingSink mirrors InfluxSink, whose Close returns nothing.
type closingSink struct {
	countSink
	closed int
}

func (c *closingSink) Close() { c.closed++ }

type failingCloseSink struct {
	countSink
	err error
}

func (c *failingCloseSink) Close() error { return c.err }

func TestMultiSink(t *testing.T) {
	boom := errors.New("boom")
	s1 := &countSink{err: boom}
	s2 := &countSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordGeneration(GenerationStats{Generation: 1}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if s1.count != 1 || s2.count != 1 {
		t.Fatalf("stats not forwarded")
	}
}

func TestMultiSinkCloseForwards(t *testing.T) {
	flush := errors.New("flush failed")
	plain := &closingSink{}
	failing := &failingCloseSink{err: flush}
	m := NewMultiSink(&countSink{}, plain, failing)

	var s Sink = m
	if err := Close(s); !errors.Is(err, flush) {
		t.Fatalf("expected flush error, got %v", err)
	}
	if plain.closed != 1 {
		t.Fatalf("inner sink not closed")
	}
	if err := Close(NopSink{}); err != nil {
		t.Fatalf("nop close: %v", err)
	}
}

func TestNewMetricsSink(t *testing.T) {
	if err := RegisterMetricsSink("count-test", func(map[string]any) (Sink, error) { return &countSink{}, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	s, err := NewMetricsSink(nil)
	if err != nil {
		t.Fatalf("nil config: %v", err)
	}
	if _, ok := s.(NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}
	s, err = NewMetricsSink([]factory.ModuleConfig{{Type: "count-test"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := s.(*countSink); !ok {
		t.Fatalf("expected the single sink unwrapped, got %T", s)
	}
	s, err = NewMetricsSink([]factory.ModuleConfig{{Type: "count-test"}, {Type: "count-test"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m, ok := s.(*MultiSink); !ok || len(m.Sinks) != 2 {
		t.Fatalf("expected MultiSink of 2, got %T", s)
	}
}

func TestNewMetricsSinkClosesOnFailure(t *testing.T) {
	var built []*closingSink
	if err := RegisterMetricsSink("closing-test", func(map[string]any) (Sink, error) {
		s := &closingSink{}
		built = append(built, s)
		return s, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := NewMetricsSink([]factory.ModuleConfig{{Type: "closing-test"}, {Type: "missing"}})
	if !errors.Is(err, factory.ErrUnknownModule) {
		t.Fatalf("expected unknown module error, got %v", err)
	}
	if len(built) != 1 || built[0].closed != 1 {
		t.Fatalf("built sink not closed: %+v", built)
	}
}
