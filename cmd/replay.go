package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gproute/core/evolve"
	"github.com/kilianp07/gproute/core/gp"
	"github.com/kilianp07/gproute/core/records"
	"github.com/kilianp07/gproute/core/sim"
	"github.com/kilianp07/gproute/infra/instance"
	"github.com/kilianp07/gproute/infra/logger"
	"github.com/kilianp07/gproute/pkg/export"
)

var replayCmd = &cobra.Command{
	Use:   "replay [instance]",
	Short: "Re-simulate the best stored policy of a run and export its routes",
	Long: "Reads the best record of a run from a record store. With an instance the policy is " +
		"simulated again on it; without one the stored last_route records are exported.",
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

var replayOpts struct {
	store  string
	runID  string
	format string
	out    string
}

func init() {
	f := replayCmd.Flags()
	f.StringVar(&replayOpts.store, "records", "", "record store (.jsonl or .db)")
	f.StringVar(&replayOpts.runID, "run", "", "run id (default: latest run with a best record)")
	f.StringVar(&replayOpts.format, "format", "json", "output format: json or csv")
	f.StringVarP(&replayOpts.out, "out", "o", "", "output file (default stdout)")
	_ = replayCmd.MarkFlagRequired("records")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	store, err := openStore(replayOpts.store)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runID := replayOpts.runID
	if runID == "" {
		if runID, err = latestRunID(ctx, store, records.KindBest); err != nil {
			return err
		}
	}

	var routes []evolve.RouteRecord
	if cfg.Instance.Path == "" {
		recs, err := store.Query(ctx, records.Query{RunID: runID, Kind: records.KindLastRoute})
		if err != nil {
			return err
		}
		if routes, err = export.RoutesFromRecords(recs); err != nil {
			return err
		}
	} else {
		if routes, err = resimulate(ctx, store, runID, cfg.Simulation, cfg.Evolution.Stress, cfg.Instance.Path, cfg.Instance.Options()); err != nil {
			return err
		}
	}

	var w io.Writer = cmd.OutOrStdout()
	if replayOpts.out != "" {
		f, err := os.Create(replayOpts.out)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	return export.Write(w, replayOpts.format, routes)
}

func resimulate(ctx context.Context, store records.Store, runID string, simCfg sim.Config, stress float64, path string, opts instance.Options) ([]evolve.RouteRecord, error) {
	recs, err := store.Query(ctx, records.Query{RunID: runID, Kind: records.KindBest})
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("run %s has no best record", runID)
	}
	var best evolve.BestRecord
	if err := recs[len(recs)-1].Decode(&best); err != nil {
		return nil, fmt.Errorf("decode best record: %w", err)
	}
	p, err := gp.ParsePolicy(best.Routing, best.Sequencing)
	if err != nil {
		return nil, err
	}
	inst, err := instance.Load(path, opts)
	if err != nil {
		return nil, err
	}
	res := sim.New(simCfg).Simulate(inst, p, stress)
	logger.New("replay").Infof("run %s on %s: cost %.4f (stored %.4f), distance %.2f, unserved %d",
		runID, inst.Name, res.Cost, best.Cost, res.Distance, res.Unserved)
	out := make([]evolve.RouteRecord, len(res.Routes))
	for i, r := range res.Routes {
		out[i] = evolve.NewRouteRecord(inst, r)
	}
	return out, nil
}
