// Package report renders HTML charts of evolution runs.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/gproute/core/evolve"
	"github.com/kilianp07/gproute/core/records"
)

// Run gathers the records of one run that the report draws.
type Run struct {
	RunID      string
	Summaries  []evolve.Summary
	Heuristics []evolve.HeuristicResult
}

// FromRecords decodes generation and heuristic records. Summaries are
// ordered by generation.
func FromRecords(runID string, recs []records.Record) (Run, error) {
	run := Run{RunID: runID}
	for _, rec := range recs {
		switch rec.Kind {
		case records.KindGeneration:
			var s evolve.Summary
			if err := rec.Decode(&s); err != nil {
				return run, fmt.Errorf("report: decode generation %d: %w", rec.Generation, err)
			}
			run.Summaries = append(run.Summaries, s)
		case records.KindHeuristic:
			var h evolve.HeuristicResult
			if err := rec.Decode(&h); err != nil {
				return run, fmt.Errorf("report: decode heuristic: %w", err)
			}
			run.Heuristics = append(run.Heuristics, h)
		}
	}
	sort.SliceStable(run.Summaries, func(i, j int) bool {
		return run.Summaries[i].Generation < run.Summaries[j].Generation
	})
	return run, nil
}

// ConvergenceChart plots best, mean and best-of-run fitness per generation.
func ConvergenceChart(run Run) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Convergence", Subtitle: run.RunID}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Generation"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Fitness"}),
	)
	xAxis := make([]string, len(run.Summaries))
	var best, mean, bestOfRun, full []opts.LineData
	for i, s := range run.Summaries {
		xAxis[i] = strconv.Itoa(s.Generation)
		best = append(best, opts.LineData{Value: s.Best})
		mean = append(mean, opts.LineData{Value: s.Mean})
		bestOfRun = append(bestOfRun, opts.LineData{Value: s.BestOfRun})
		full = append(full, opts.LineData{Value: s.FullCost})
	}
	line.SetXAxis(xAxis).
		AddSeries("Best", best).
		AddSeries("Mean", mean).
		AddSeries("Best of run", bestOfRun).
		AddSeries("Full instance", full)
	return line
}

// HeuristicsChart compares baseline costs with the final evolved policy on
// the base instance.
func HeuristicsChart(run Run) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Baselines"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Cost"}),
	)
	var names []string
	var costs []opts.BarData
	for _, h := range run.Heuristics {
		names = append(names, h.Name)
		costs = append(costs, opts.BarData{Value: h.Cost})
	}
	if n := len(run.Summaries); n > 0 {
		names = append(names, "evolved")
		costs = append(costs, opts.BarData{Value: run.Summaries[n-1].FullCost})
	}
	bar.SetXAxis(names).AddSeries("Cost", costs)
	return bar
}

// Render writes an HTML page with the convergence chart and, when the run
// has heuristic records, the baseline comparison.
func Render(w io.Writer, run Run) error {
	if len(run.Summaries) == 0 && len(run.Heuristics) == 0 {
		return fmt.Errorf("report: run %q has no generation or heuristic records", run.RunID)
	}
	page := components.NewPage()
	page.PageTitle = "gproute " + run.RunID
	page.AddCharts(ConvergenceChart(run))
	if len(run.Heuristics) > 0 {
		page.AddCharts(HeuristicsChart(run))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("report: render: %w", err)
	}
	return nil
}
