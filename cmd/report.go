package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gproute/core/records"
	"github.com/kilianp07/gproute/infra/logger"
	"github.com/kilianp07/gproute/pkg/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render an HTML convergence report from stored records",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

var reportOpts struct {
	store string
	runID string
	out   string
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportOpts.store, "records", "", "record store (.jsonl or .db)")
	f.StringVar(&reportOpts.runID, "run", "", "run id (default: latest run with generation records)")
	f.StringVarP(&reportOpts.out, "out", "o", "report.html", "output HTML file")
	_ = reportCmd.MarkFlagRequired("records")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := openStore(reportOpts.store)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runID := reportOpts.runID
	if runID == "" {
		if runID, err = latestRunID(ctx, store, records.KindGeneration); err != nil {
			return err
		}
	}
	recs, err := store.Query(ctx, records.Query{RunID: runID})
	if err != nil {
		return err
	}
	run, err := report.FromRecords(runID, recs)
	if err != nil {
		return err
	}
	f, err := os.Create(reportOpts.out)
	if err != nil {
		return err
	}
	if err := report.Render(f, run); err != nil {
		_ = f.Close()
		return err
	}
	logger.New("report").Infof("wrote %s (%d generations)", reportOpts.out, len(run.Summaries))
	return f.Close()
}
