// Package app wires the configuration into a runnable evolution service.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/gproute/config"
	"github.com/kilianp07/gproute/core/evolve"
	coremetrics "github.com/kilianp07/gproute/core/metrics"
	"github.com/kilianp07/gproute/core/model"
	coremon "github.com/kilianp07/gproute/core/monitoring"
	"github.com/kilianp07/gproute/core/records"
	"github.com/kilianp07/gproute/infra/instance"
	"github.com/kilianp07/gproute/infra/logger"
	"github.com/kilianp07/gproute/infra/metrics"
	"github.com/kilianp07/gproute/infra/monitoring"
	"github.com/kilianp07/gproute/internal/eventbus"

	_ "github.com/kilianp07/gproute/app/plugins"
)

// Service owns the sinks, the event bus and the driver of one invocation.
type Service struct {
	cfg     *config.Config
	Driver  *evolve.Driver
	sink    records.Sink
	metrics coremetrics.Sink
	prom    *metrics.PromSink
	bus     *eventbus.Bus
	log     logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	log := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	sink, err := records.NewSink(cfg.Records)
	if err != nil {
		return nil, fmt.Errorf("records: %w", err)
	}
	stats, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = sink.Close()
		return nil, fmt.Errorf("metrics: %w", err)
	}
	svc := &Service{cfg: cfg, sink: sink, metrics: stats, bus: eventbus.New(), log: log}
	if cfg.Metrics.Prometheus.Enabled {
		prom, err := metrics.NewPromSink()
		if err != nil {
			_ = sink.Close()
			_ = coremetrics.Close(stats)
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		svc.prom = prom
		svc.metrics = coremetrics.NewMultiSink(stats, prom)
	}
	svc.Driver = evolve.NewDriver(cfg.Evolution, cfg.Simulation, evolve.Deps{
		Sink:    svc.sink,
		Metrics: svc.metrics,
		Bus:     svc.bus,
		Logger:  logger.New("evolve"),
	})
	return svc, nil
}

// LoadInstance reads the configured instance.
func (s *Service) LoadInstance() (*model.Instance, error) {
	if s.cfg.Instance.Path == "" {
		return nil, fmt.Errorf("%w: instance.path is not set", model.ErrInstance)
	}
	return instance.Load(s.cfg.Instance.Path, s.cfg.Instance.Options())
}

// Evolve loads the instance and runs the evolution until completion or
// until ctx is canceled.
func (s *Service) Evolve(ctx context.Context) evolve.Result {
	inst, err := s.LoadInstance()
	if err != nil {
		s.log.Errorf("load instance: %v", err)
		return evolve.Result{Status: evolve.StatusInstanceError, Err: err}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if s.prom != nil {
		done := metrics.StartEventCollector(runCtx, s.bus, s.prom)
		defer func() {
			cancel()
			<-done
		}()
		go func() {
			if err := metrics.StartPromServer(runCtx, s.cfg.Metrics.Prometheus.Addr()); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	s.log.Infof("evolving %s: %d customers (demand %.1f), %d generations of %d",
		inst.Name, len(inst.Customers), inst.TotalDemand(), s.cfg.Evolution.Generations, s.cfg.Evolution.PopSize)
	res := s.Driver.Run(runCtx, inst)
	if res.Status != evolve.StatusCompleted {
		s.log.Errorf("run %s ended with %s: %v", res.RunID, res.Status, res.Err)
	}
	return res
}

// Heuristics evaluates the baseline policies on the configured instance.
func (s *Service) Heuristics(ctx context.Context) ([]evolve.HeuristicResult, error) {
	inst, err := s.LoadInstance()
	if err != nil {
		return nil, err
	}
	return s.Driver.RunHeuristics(ctx, inst)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	var errs []error
	if err := s.sink.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := coremetrics.Close(s.metrics); err != nil {
		errs = append(errs, err)
	}
	for _, st := range s.bus.Stats() {
		if st.Dropped > 0 {
			s.log.Warnf("event subscriber %q missed %d events", st.Name, st.Dropped)
		}
	}
	s.bus.Close()
	coremon.Flush(2 * time.Second)
	return errors.Join(errs...)
}
