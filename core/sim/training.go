package sim

import (
	"math/rand/v2"

	"github.com/kilianp07/gproute/core/model"
)

// TrainingConfig controls how replications are derived from the base
// instance.
type TrainingConfig struct {
	Replications int
	// Jitter bounds the release delay of dynamic customers, in slots.
	Jitter float64
	Stress float64
	Seed   uint64
}

// TrainingSet is the group of instances a generation is evaluated on. Epoch
// identifies it for fitness caching.
type TrainingSet struct {
	Epoch     int64
	Stress    float64
	Instances []*model.Instance
}

// NewTrainingSet builds cfg.Replications perturbed copies of base. Each
// dynamic customer of replication r has its release delayed by
// U(0, Jitter) slots drawn from a stream seeded by (seed, epoch, r). Releases
// never move earlier, so a customer whose window closes before its release
// stays unservable in every replication.
func (s *Simulator) NewTrainingSet(base *model.Instance, cfg TrainingConfig, epoch int64) *TrainingSet {
	n := max(cfg.Replications, 1)
	set := &TrainingSet{Epoch: epoch, Stress: cfg.Stress, Instances: make([]*model.Instance, n)}
	slotLen := s.SlotLength(base)
	for r := 0; r < n; r++ {
		if cfg.Jitter <= 0 {
			set.Instances[r] = base
			continue
		}
		rng := rand.New(rand.NewPCG(cfg.Seed, uint64(epoch)<<16|uint64(r)))
		set.Instances[r] = base.WithReleases(func(c model.Customer) float64 {
			if !c.Dynamic() {
				return c.Release
			}
			return c.Release + rng.Float64()*cfg.Jitter*slotLen
		})
	}
	return set
}
