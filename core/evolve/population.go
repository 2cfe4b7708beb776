package evolve

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/kilianp07/gproute/core/gp"
	"github.com/kilianp07/gproute/core/logger"
	"github.com/kilianp07/gproute/core/monitoring"
	"github.com/kilianp07/gproute/core/sim"
)

// Population is an ordered, fixed-size set of policies.
type Population []*gp.Policy

// Manager owns the genetic operators and the random stream of a run. It is
// not safe for concurrent use; only evaluation fans out.
type Manager struct {
	cfg        Config
	sim        *sim.Simulator
	routing    *gp.Operators
	sequencing *gp.Operators
	rng        *rand.Rand
	log        logger.Logger
}

// NewManager returns a population manager drawing every random decision from
// rng.
func NewManager(cfg Config, s *sim.Simulator, rng *rand.Rand, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NopLogger{}
	}
	opCfg := gp.OperatorConfig{
		MaxDepth:             cfg.MaxDepth,
		MaxCrossoverAttempts: cfg.MaxCrossoverAttempts,
		FullProbability:      cfg.FullProbability,
		PointMutationRate:    cfg.PointMutationRate,
		ConstDelta:           cfg.ConstDelta,
	}
	return &Manager{
		cfg:        cfg,
		sim:        s,
		routing:    gp.NewOperators(gp.RoutingGrammar, opCfg, rng),
		sequencing: gp.NewOperators(gp.SequencingGrammar, opCfg, rng),
		rng:        rng,
		log:        log,
	}
}

// Init builds a ramped population of PopSize policies.
func (m *Manager) Init() Population {
	pop := make(Population, m.cfg.PopSize)
	for i := range pop {
		pop[i] = gp.NewPolicy(
			m.routing.Generator().Ramped(m.cfg.MaxDepth),
			m.sequencing.Generator().Ramped(m.cfg.MaxDepth),
		)
	}
	return pop
}

// EvaluateAll sets the fitness of every policy for the set's epoch. Policies
// already evaluated against that epoch are skipped and identical policies
// are simulated once. It returns the number of policies actually simulated.
func (m *Manager) EvaluateAll(ctx context.Context, pop Population, set *sim.TrainingSet) (int, error) {
	type job struct {
		policy  *gp.Policy
		members []int
		fitness float64
	}
	var jobs []*job
	byKey := make(map[string]*job)
	for i, p := range pop {
		if _, ok := p.Fitness(set.Epoch); ok {
			continue
		}
		key := p.Key()
		if j, ok := byKey[key]; ok {
			j.members = append(j.members, i)
			dedupHits.Inc()
			continue
		}
		j := &job{policy: p, members: []int{i}}
		byKey[key] = j
		jobs = append(jobs, j)
	}

	workers := m.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := pool.New().WithContext(ctx).WithMaxGoroutines(workers)
	for _, j := range jobs {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			defer monitoring.Recover()
			start := time.Now()
			j.fitness = m.sim.Evaluate(j.policy, set)
			simulationDuration.Observe(time.Since(start).Seconds())
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return 0, err
	}
	for _, j := range jobs {
		for _, i := range j.members {
			pop[i].SetFitness(set.Epoch, j.fitness)
		}
	}
	return len(jobs), nil
}

// fitness returns the last fitness of p, +Inf when it was never evaluated.
func fitness(p *gp.Policy) float64 {
	f, ok := p.LastFitness()
	if !ok {
		return inf
	}
	return f
}

// Best returns the index of the fittest policy, lowest index on ties.
func Best(pop Population) int {
	best := 0
	for i := 1; i < len(pop); i++ {
		if fitness(pop[i]) < fitness(pop[best]) {
			best = i
		}
	}
	return best
}

// Select runs a tournament among TournamentSize distinct members and returns
// the winner's index. Lowest fitness wins, lowest index on ties.
func (m *Manager) Select(pop Population) int {
	k := min(m.cfg.TournamentSize, len(pop))
	perm := m.rng.Perm(len(pop))[:k]
	winner := perm[0]
	for _, i := range perm[1:] {
		fi, fw := fitness(pop[i]), fitness(pop[winner])
		if fi < fw || (fi == fw && i < winner) {
			winner = i
		}
	}
	return winner
}

// Offspring counts operator outcomes of one reproduction step.
type Offspring struct {
	RoutingFallbacks    int
	SequencingFallbacks int
}

// Fallbacks returns the total number of crossover fallbacks.
func (o Offspring) Fallbacks() int { return o.RoutingFallbacks + o.SequencingFallbacks }

// AdvanceGeneration builds the next population. The elite is copied with its
// fitness; every other slot is a child of two tournament winners.
func (m *Manager) AdvanceGeneration(pop Population) (Population, Offspring, error) {
	var stats Offspring
	next := make(Population, 0, len(pop))
	next = append(next, pop[Best(pop)].Clone())
	for len(next) < len(pop) {
		i, j := m.Select(pop), m.Select(pop)
		fi, fj := fitness(pop[i]), fitness(pop[j])
		if fj < fi || (fj == fi && j < i) {
			i, j = j, i
		}
		better, other := pop[i], pop[j]

		routing, ok := m.breed(m.routing, better.Routing(), other.Routing())
		if !ok {
			stats.RoutingFallbacks++
		}
		sequencing, ok := m.breed(m.sequencing, better.Sequencing(), other.Sequencing())
		if !ok {
			stats.SequencingFallbacks++
		}
		child := gp.NewPolicy(routing, sequencing)
		if child.Equal(better) {
			child = better.Clone()
		}
		if d := child.Depth(); d > m.cfg.MaxDepth {
			return nil, stats, fmt.Errorf("%w: child depth %d exceeds %d", ErrInvariantViolation, d, m.cfg.MaxDepth)
		}
		next = append(next, child)
	}
	return next, stats, nil
}

// breed applies crossover, mutation and constant mutation to one tree, each
// with its own coin flip. ok is false when crossover fell back to a copy.
func (m *Manager) breed(ops *gp.Operators, better, other gp.Tree) (gp.Tree, bool) {
	child, ok := better.Clone(), true
	if m.rng.Float64() < m.cfg.CrossoverRate {
		child, ok = ops.Crossover(better, other)
	}
	if m.rng.Float64() < m.cfg.MutationRate {
		child = ops.Mutate(child)
	}
	if m.rng.Float64() < m.cfg.ConstMutationRate {
		child, _ = ops.PerturbConstants(child)
	}
	return child, ok
}
