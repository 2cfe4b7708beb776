package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/gproute/app"
	"github.com/kilianp07/gproute/infra/logger"
)

var evolveCmd = &cobra.Command{
	Use:   "evolve [instance]",
	Short: "Run the evolution on an instance and emit generation records",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEvolve,
}

func init() {
	rootCmd.AddCommand(evolveCmd)
}

func runEvolve(cmd *cobra.Command, args []string) error {
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
	log := logger.New("main")
	defer func() {
		if err := svc.Close(); err != nil {
			log.Errorf("service close: %v", err)
		}
	}()

	res := svc.Evolve(ctx)
	if err := res.Failure(); err != nil {
		return err
	}
	log.Infof("best policy (fitness %.4f): routing=%s sequencing=%s",
		res.BestFitness, res.Best.RoutingString(), res.Best.SequencingString())
	return nil
}
