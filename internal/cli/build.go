//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-goldlayer/internal/config"
	"github.com/pgEdge/pgedge-goldlayer/internal/gold"
	"github.com/pgEdge/pgedge-goldlayer/internal/logging"
	"github.com/pgEdge/pgedge-goldlayer/internal/metrics"
	"github.com/pgEdge/pgedge-goldlayer/internal/pipeline"
	"github.com/pgEdge/pgedge-goldlayer/internal/silver"
	"github.com/pgEdge/pgedge-goldlayer/internal/store"
	"github.com/pgEdge/pgedge-goldlayer/internal/store/memory"
)

var (
	buildRunDate    string
	buildSequential bool
	buildStages     []string
	buildDryRun     bool
	buildPushURL    string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the gold tables from the silver tables",
	Long: `Build the products, customers, sales and calendar gold tables from
the silver tables in the configured store. Stages without dependencies
between them run concurrently; calendar runs after sales.

A stage that fails leaves its previous gold table in place. Stages that
do not depend on it still commit. The command exits non-zero if any
stage did not commit.

With the memory store, synthetic silver data is generated first so a
build can be tried without any setup.

Example:
  pgedge-goldlayer build --store postgres --connection "postgres://..."
  pgedge-goldlayer build --store lakehouse --run-date 2024-06-15
  pgedge-goldlayer build --stage sales --stage calendar --dry-run`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildRunDate, "run-date", "",
		"date used as today for customer ages, YYYY-MM-DD (default: today)")
	buildCmd.Flags().BoolVar(&buildSequential, "sequential", false,
		"run stages one at a time")
	buildCmd.Flags().StringSliceVar(&buildStages, "stage", nil,
		"build only these stages (repeatable)")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false,
		"build every stage without committing anything")
	buildCmd.Flags().StringVar(&buildPushURL, "push-metrics", "",
		"Prometheus Pushgateway URL for run metrics")
}

func runBuild(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if buildRunDate != "" {
		cfg.Build.RunDate = buildRunDate
	}
	if buildSequential {
		cfg.Build.Sequential = true
	}
	if len(buildStages) > 0 {
		cfg.Build.Stages = buildStages
	}
	if buildDryRun {
		cfg.Build.DryRun = true
	}
	if buildPushURL != "" {
		cfg.Metrics.PushgatewayURL = buildPushURL
	}

	// Validate configuration
	if err := cfg.ValidateBuild(); err != nil {
		return err
	}
	runDate, err := cfg.RunDate()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	st, err := openStore(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close store")
		}
	}()

	if cfg.Store == config.StoreMemory {
		if err := seedMemory(ctx, st); err != nil {
			return err
		}
	}

	target := st
	if cfg.Build.DryRun {
		logging.Info().Msg("Dry run: gold tables will not be committed")
		target = memory.NewOverlay(st)
	}

	rec := metrics.New()
	report, runErr := pipeline.New(target, gold.Catalogue(cfg.Tables)).Run(ctx, pipeline.Options{
		RunDate:    runDate,
		Sequential: cfg.Build.Sequential,
		Stages:     cfg.Build.Stages,
		Metrics:    rec,
	})
	if report == nil {
		return runErr
	}

	if err := report.Print(cmd.OutOrStdout()); err != nil {
		return err
	}

	if cfg.Metrics.PushgatewayURL != "" {
		if err := rec.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
			logging.Warn().Err(err).Str("url", cfg.Metrics.PushgatewayURL).Msg("Failed to push metrics")
		}
	}

	if runErr != nil {
		return errors.Newf("%d of %d stages did not commit", len(report.Failures()), len(report.Stages))
	}
	return nil
}

// seedMemory fills a fresh memory store with synthetic silver data.
func seedMemory(ctx context.Context, st store.Store) error {
	sc, err := cfg.SilverConfig()
	if err != nil {
		return err
	}
	logging.Info().Msg("Memory store: generating synthetic silver tables")
	_, err = silver.Seed(ctx, st, cfg.Tables, sc)
	return err
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
