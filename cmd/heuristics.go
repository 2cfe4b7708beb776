package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gproute/app"
	"github.com/kilianp07/gproute/infra/logger"
)

var heuristicsCmd = &cobra.Command{
	Use:   "heuristics [instance]",
	Short: "Simulate the baseline policies and emit heuristic records",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHeuristics,
}

var heuristicsTable bool

func init() {
	heuristicsCmd.Flags().BoolVar(&heuristicsTable, "table", false, "print a summary table to stderr")
	rootCmd.AddCommand(heuristicsCmd)
}

func runHeuristics(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	out, err := svc.Heuristics(ctx)
	if err != nil {
		return err
	}
	if heuristicsTable {
		tw := tabwriter.NewWriter(cmd.ErrOrStderr(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tCOST\tDISTANCE\tVIOLATION\tUNSERVED\tROUTES")
		for _, h := range out {
			fmt.Fprintf(tw, "%s\t%.4f\t%.2f\t%.2f\t%d\t%d\n", h.Name, h.Cost, h.Distance, h.Violation, h.Unserved, h.Routes)
		}
		return tw.Flush()
	}
	return nil
}
