package evolve

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/gproute/core/events"
	"github.com/kilianp07/gproute/core/gp"
	"github.com/kilianp07/gproute/core/logger"
	"github.com/kilianp07/gproute/core/metrics"
	"github.com/kilianp07/gproute/core/model"
	"github.com/kilianp07/gproute/core/monitoring"
	"github.com/kilianp07/gproute/core/records"
	"github.com/kilianp07/gproute/core/sim"
	"github.com/kilianp07/gproute/internal/eventbus"
)

// Status is the terminal state of a run.
type Status int

const (
	StatusCompleted Status = iota
	StatusConfigError
	StatusInstanceError
	StatusInvariantViolation
	StatusInterrupted
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusConfigError:
		return "config_error"
	case StatusInstanceError:
		return "instance_error"
	case StatusInvariantViolation:
		return "invariant_violation"
	case StatusInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Result is the outcome of Driver.Run.
type Result struct {
	Status Status
	// Err explains any status other than StatusCompleted.
	Err         error
	RunID       string
	Best        *gp.Policy
	BestFitness float64
	// BestResult is the simulation of Best on the base instance.
	BestResult sim.Result
	Summaries  []Summary
}

// Deps are the collaborators of a driver. Nil fields fall back to no-ops.
type Deps struct {
	Sink    records.Sink
	Metrics metrics.Sink
	Bus     eventbus.EventBus
	Logger  logger.Logger
}

// Driver runs the evolution loop.
type Driver struct {
	cfg    Config
	simCfg sim.Config
	sink   records.Sink
	stats  metrics.Sink
	bus    eventbus.EventBus
	log    logger.Logger
}

// NewDriver returns a driver for the given parameters.
func NewDriver(cfg Config, simCfg sim.Config, deps Deps) *Driver {
	d := &Driver{cfg: cfg, simCfg: simCfg, sink: deps.Sink, stats: deps.Metrics, bus: deps.Bus, log: deps.Logger}
	if d.sink == nil {
		d.sink = records.NopSink{}
	}
	if d.stats == nil {
		d.stats = metrics.NopSink{}
	}
	if d.log == nil {
		d.log = logger.NopLogger{}
	}
	return d
}

// RunID derives the deterministic identifier of a run.
func RunID(seed uint64, instance string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("gproute:"+strconv.FormatUint(seed, 10)+":"+instance)).String()
}

// Run evolves policies on inst until the configured number of generations
// is reached, ctx is cancelled or an invariant breaks. Cancellation is only
// observed between generations and during evaluation.
//
//gocyclo:ignore
func (d *Driver) Run(ctx context.Context, inst *model.Instance) Result {
	if err := d.cfg.Validate(); err != nil {
		return d.finish(Result{Status: StatusConfigError, Err: err})
	}
	if err := d.simCfg.Validate(); err != nil {
		return d.finish(Result{Status: StatusConfigError, Err: err})
	}
	if err := inst.Validate(); err != nil {
		return d.finish(Result{Status: StatusInstanceError, Err: err})
	}

	res := Result{RunID: RunID(d.cfg.Seed, inst.Name), BestFitness: inf}
	simulator := sim.New(d.simCfg)
	rng := rand.New(rand.NewPCG(d.cfg.Seed, 0x5eed))
	mgr := NewManager(d.cfg, simulator, rng, d.log.With(map[string]any{"run_id": res.RunID}))
	pop := mgr.Init()
	d.log.Infof("run %s: %d policies, %d generations on %s (%d customers)",
		res.RunID, len(pop), d.cfg.Generations, inst.Name, len(inst.Customers))

	trainCfg := sim.TrainingConfig{
		Replications: d.cfg.TrainFactor,
		Jitter:       d.cfg.Jitter,
		Stress:       d.cfg.Stress,
		Seed:         d.cfg.Seed,
	}
	var set *sim.TrainingSet
	fallbacks := 0
	for gen := 0; gen < d.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			res.Status, res.Err = StatusInterrupted, err
			return d.finish(res)
		}
		start := time.Now()
		if set == nil || d.cfg.Resample {
			var epoch int64
			if d.cfg.Resample {
				epoch = int64(gen)
			}
			set = simulator.NewTrainingSet(inst, trainCfg, epoch)
		}
		evals, err := mgr.EvaluateAll(ctx, pop, set)
		if err != nil {
			res.Status, res.Err = StatusInterrupted, err
			return d.finish(res)
		}

		genBest := pop[Best(pop)]
		bestFit := fitness(genBest)
		if bestFit < res.BestFitness {
			res.Best, res.BestFitness = genBest.Clone(), bestFit
			d.publish(events.BestEvent{
				RunID: res.RunID, Generation: gen, Fitness: bestFit,
				Routing: genBest.RoutingString(), Sequencing: genBest.SequencingString(),
			})
		}
		full := simulator.Simulate(inst, genBest, d.cfg.Stress)
		unservedCustomers.Add(float64(full.Unserved))

		sum := Summary{
			Generation:   gen,
			Epoch:        set.Epoch,
			BestOfRun:    res.BestFitness,
			FullCost:     full.Cost,
			FullDistance: full.Distance,
			Unserved:     full.Unserved,
			Evaluations:  evals,
			Fallbacks:    fallbacks,
			Routing:      genBest.RoutingString(),
			Sequencing:   genBest.SequencingString(),
		}
		summarize(&sum, pop)
		res.Summaries = append(res.Summaries, sum)
		d.emit(ctx, res.RunID, records.KindGeneration, gen, sum)
		elapsed := time.Since(start)
		if err := d.stats.RecordGeneration(metrics.GenerationStats{
			RunID: res.RunID, Generation: gen,
			Best: sum.Best, Mean: sum.Mean, Median: sum.Median, Std: sum.Std, Worst: sum.Worst,
			BestOfRun: sum.BestOfRun, FullCost: sum.FullCost, Unserved: sum.Unserved,
			Evaluations: evals, Fallbacks: fallbacks, Duration: elapsed, Time: time.Now(),
		}); err != nil {
			d.log.Warnf("metrics: %v", err)
		}
		d.publish(events.GenerationEvent{RunID: res.RunID, Generation: gen, Best: sum.Best, Mean: sum.Mean, Duration: elapsed})
		d.log.Infof("generation %d: best %.4f mean %.4f full %.4f unserved %d (%d evaluations, %s)",
			gen, sum.Best, sum.Mean, sum.FullCost, sum.Unserved, evals, elapsed.Round(time.Millisecond))

		if gen == d.cfg.Generations-1 {
			break
		}
		next, off, err := mgr.AdvanceGeneration(pop)
		if err != nil {
			monitoring.CaptureException(err, map[string]string{"run_id": res.RunID, "generation": strconv.Itoa(gen)})
			res.Status, res.Err = StatusInvariantViolation, err
			return d.finish(res)
		}
		fallbacks = off.Fallbacks()
		if fallbacks > 0 {
			d.reportFallbacks(ctx, res.RunID, gen, off)
		}
		pop = next
	}

	res.BestResult = simulator.Simulate(inst, res.Best, d.cfg.Stress)
	d.emitFinal(ctx, res, pop, inst)
	res.Status = StatusCompleted
	return d.finish(res)
}

func (d *Driver) reportFallbacks(ctx context.Context, runID string, gen int, off Offspring) {
	d.emit(ctx, runID, records.KindDebug, gen, map[string]any{
		"event":                "crossover_fallback",
		"routing_fallbacks":    off.RoutingFallbacks,
		"sequencing_fallbacks": off.SequencingFallbacks,
	})
	if off.RoutingFallbacks > 0 {
		d.publish(events.FallbackEvent{Generation: gen, Tree: "routing", Count: off.RoutingFallbacks})
	}
	if off.SequencingFallbacks > 0 {
		d.publish(events.FallbackEvent{Generation: gen, Tree: "sequencing", Count: off.SequencingFallbacks})
	}
	d.log.Debugw("crossover fallback", map[string]any{
		"generation": gen, "routing": off.RoutingFallbacks, "sequencing": off.SequencingFallbacks,
	})
}

// PolicyRecord is the payload of last_population and best records.
type PolicyRecord struct {
	Index      int     `json:"index"`
	Fitness    float64 `json:"fitness"`
	Routing    string  `json:"routing"`
	Sequencing string  `json:"sequencing"`
	Depth      int     `json:"depth"`
}

// BestRecord is the payload of the best record.
type BestRecord struct {
	PolicyRecord
	Cost      float64 `json:"cost"`
	Distance  float64 `json:"distance"`
	Violation float64 `json:"violation"`
	Unserved  []int   `json:"unserved"`
	Routes    int     `json:"routes"`
}

// RouteRecord is the payload of last_route records.
type RouteRecord struct {
	Route     int         `json:"route"`
	Customers []int       `json:"customers"`
	Load      float64     `json:"load"`
	Length    float64     `json:"length"`
	Return    float64     `json:"return"`
	Visits    []sim.Visit `json:"visits"`
}

func (d *Driver) emitFinal(ctx context.Context, res Result, pop Population, inst *model.Instance) {
	last := d.cfg.Generations - 1
	for i, p := range pop {
		d.emit(ctx, res.RunID, records.KindLastPopulation, last, policyRecord(i, p))
	}
	br := res.BestResult
	d.emit(ctx, res.RunID, records.KindBest, last, BestRecord{
		PolicyRecord: policyRecord(-1, res.Best),
		Cost:         br.Cost,
		Distance:     br.Distance,
		Violation:    br.Violation,
		Unserved:     br.UnservedIDs,
		Routes:       len(br.Routes),
	})
	for _, r := range br.Routes {
		d.emit(ctx, res.RunID, records.KindLastRoute, last, NewRouteRecord(inst, r))
	}
}

// NewRouteRecord describes one simulated route.
func NewRouteRecord(inst *model.Instance, r sim.Route) RouteRecord {
	return RouteRecord{
		Route:     r.ID,
		Customers: r.CustomerIDs(),
		Load:      r.Load,
		Length:    r.Length(inst),
		Return:    r.Return,
		Visits:    r.Visits,
	}
}

func policyRecord(i int, p *gp.Policy) PolicyRecord {
	return PolicyRecord{
		Index:      i,
		Fitness:    fitness(p),
		Routing:    p.RoutingString(),
		Sequencing: p.SequencingString(),
		Depth:      p.Depth(),
	}
}

func (d *Driver) emit(ctx context.Context, runID string, kind records.Kind, gen int, data any) {
	rec, err := records.New(runID, kind, gen, data)
	if err != nil {
		d.log.Errorf("%v", err)
		return
	}
	if err := d.sink.Emit(context.WithoutCancel(ctx), rec); err != nil {
		d.log.Warnf("emit %s record: %v", kind, err)
	}
}

func (d *Driver) publish(e eventbus.Event) {
	if d.bus != nil {
		d.bus.Publish(e)
	}
}

func (d *Driver) finish(res Result) Result {
	if res.Err != nil {
		switch {
		case errors.Is(res.Err, context.Canceled), errors.Is(res.Err, context.DeadlineExceeded):
			d.log.Warnf("run %s interrupted: %v", res.RunID, res.Err)
		default:
			d.log.Errorf("run %s: %s: %v", res.RunID, res.Status, res.Err)
		}
	} else {
		d.log.Infof("run %s completed: best fitness %.4f", res.RunID, res.BestFitness)
	}
	d.publish(events.StatusEvent{RunID: res.RunID, Status: res.Status.String(), Err: res.Err})
	return res
}

// Failure converts a non-completed result into an error.
func (r Result) Failure() error {
	if r.Status == StatusCompleted {
		return nil
	}
	return fmt.Errorf("run %s: %w", r.Status, r.Err)
}
