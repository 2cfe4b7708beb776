// Package cmd implements the gproute command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/gproute/config"
	"github.com/kilianp07/gproute/core/records"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "gproute",
	Short:         "Evolve dispatch policies for the dynamic VRPTW with genetic programming",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// loadConfig reads the configuration and applies the instance argument.
func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if len(args) > 0 {
		cfg.Instance.Path = args[0]
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// openStore opens a record store, picking SQLite for .db and .sqlite files
// and JSONL otherwise.
func openStore(path string) (records.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return records.NewSQLiteStore(path)
	default:
		return records.NewJSONLStore(path)
	}
}

// latestRunID returns the run of the last record of kind in store.
func latestRunID(ctx context.Context, store records.Store, kind records.Kind) (string, error) {
	recs, err := store.Query(ctx, records.Query{Kind: kind})
	if err != nil {
		return "", err
	}
	if len(recs) == 0 {
		return "", fmt.Errorf("no %s records found", kind)
	}
	return recs[len(recs)-1].RunID, nil
}
