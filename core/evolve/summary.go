package evolve

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var inf = math.Inf(1)

// Summary describes one evaluated generation. It is the payload of
// generation records.
type Summary struct {
	Generation int     `json:"generation"`
	Epoch      int64   `json:"epoch"`
	Best       float64 `json:"best"`
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	Std        float64 `json:"std"`
	Worst      float64 `json:"worst"`
	BestOfRun  float64 `json:"best_of_run"`
	// FullCost is the cost of the generation best on the base instance.
	FullCost     float64 `json:"full_cost"`
	FullDistance float64 `json:"full_distance"`
	Unserved     int     `json:"unserved"`
	Evaluations  int     `json:"evaluations"`
	Fallbacks    int     `json:"fallbacks"`
	Routing      string  `json:"routing"`
	Sequencing   string  `json:"sequencing"`
}

// summarize fills the fitness statistics of s from pop.
func summarize(s *Summary, pop Population) {
	fits := make([]float64, len(pop))
	for i, p := range pop {
		fits[i] = fitness(p)
	}
	s.Best = floats.Min(fits)
	s.Worst = floats.Max(fits)
	s.Mean = stat.Mean(fits, nil)
	s.Std = stat.PopStdDev(fits, nil)
	sort.Float64s(fits)
	s.Median = stat.Quantile(0.5, stat.Empirical, fits, nil)
}
