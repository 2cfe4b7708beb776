package records

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"
)

func timeFromUnixNano(ns int64) time.Time { return time.Unix(0, ns).UTC() }

// NopSink discards every record.
type NopSink struct{}

func (NopSink) Emit(context.Context, Record) error { return nil }
func (NopSink) Close() error                       { return nil }

// WriterSink writes one JSON record per line to w.
type WriterSink struct {
	mu  sync.Mutex
	enc *json.Encoder
	c   io.Closer
}

// NewWriterSink returns a sink writing to w. If w is also an io.Closer it is
// closed with the sink, unless keepOpen is set.
func NewWriterSink(w io.Writer, keepOpen bool) *WriterSink {
	s := &WriterSink{enc: json.NewEncoder(w)}
	if c, ok := w.(io.Closer); ok && !keepOpen {
		s.c = c
	}
	return s
}

func (s *WriterSink) Emit(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(rec)
}

func (s *WriterSink) Close() error {
	if s.c == nil {
		return nil
	}
	return s.c.Close()
}

// MultiSink forwards each record to every sink.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines sinks.
func NewMultiSink(sinks ...Sink) *MultiSink { return &MultiSink{sinks: sinks} }

// Emit calls every sink and joins their errors.
func (m *MultiSink) Emit(ctx context.Context, rec Record) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Emit(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Router forwards records to the sinks registered for their kind.
type Router struct {
	routes map[Kind][]Sink
	all    []Sink
}

// NewRouter returns an empty router.
func NewRouter() *Router { return &Router{routes: make(map[Kind][]Sink)} }

// Route sends records of the given kinds to s. No kinds means every kind.
func (r *Router) Route(s Sink, kinds ...Kind) {
	r.all = append(r.all, s)
	if len(kinds) == 0 {
		kinds = Kinds()
	}
	for _, k := range kinds {
		r.routes[k] = append(r.routes[k], s)
	}
}

func (r *Router) Emit(ctx context.Context, rec Record) error {
	var errs []error
	for _, s := range r.routes[rec.Kind] {
		if err := s.Emit(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes each routed sink once.
func (r *Router) Close() error {
	var errs []error
	for _, s := range r.all {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
