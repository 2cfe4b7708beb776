package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/gproute/infra/instance"
	"github.com/kilianp07/gproute/infra/logger"
)

var convertCmd = &cobra.Command{
	Use:   "convert <instance> <out.yaml>",
	Short: "Load an instance with the configured options and write it as YAML",
	Args:  cobra.ExactArgs(2),
	RunE:  runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig(args[:1])
	if err != nil {
		return err
	}
	inst, err := instance.Load(cfg.Instance.Path, cfg.Instance.Options())
	if err != nil {
		return err
	}
	if err := instance.Write(args[1], inst); err != nil {
		return err
	}
	logger.New("main").Infof("wrote %s: %d customers, total demand %.1f", args[1], len(inst.Customers), inst.TotalDemand())
	return nil
}
