//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-goldlayer.
package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-goldlayer/internal/config"
	"github.com/pgEdge/pgedge-goldlayer/internal/gold"
	"github.com/pgEdge/pgedge-goldlayer/internal/logging"
	"github.com/pgEdge/pgedge-goldlayer/internal/store"
	"github.com/pgEdge/pgedge-goldlayer/pkg/version"
)

var (
	// Global flags
	cfgFile       string
	storeName     string
	connection    string
	lakehouseRoot string
	logLevel      string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-goldlayer",
		Short: "Build the retail gold layer from silver tables",
		Long: `pgedge-goldlayer reads the cleansed silver tables of a retail data
warehouse and derives the consumption-ready gold tables: the products,
customers and calendar dimensions and the sales fact.

Each gold table is replaced in full on every build, so a run can be
repeated safely. Tables live in one of three stores: an in-memory store
for trying things out, a PostgreSQL schema, or a local lakehouse
directory of versioned Parquet files.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-goldlayer.yaml)")
	rootCmd.PersistentFlags().StringVar(&storeName, "store", "",
		"table store (memory, postgres, lakehouse)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string (postgres store)")
	rootCmd.PersistentFlags().StringVar(&lakehouseRoot, "lakehouse-root", "",
		"lakehouse root directory (lakehouse store)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(stagesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if storeName != "" {
		cfg.Store = storeName
	}
	if connection != "" {
		cfg.Postgres.Connection = connection
	}
	if lakehouseRoot != "" {
		cfg.Lakehouse.Root = lakehouseRoot
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

// openStore opens the configured table store.
func openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, cfg.Store, store.Options{
		Connection:    cfg.Postgres.Connection,
		Schema:        cfg.Postgres.Schema,
		MaxConns:      cfg.Postgres.MaxConns,
		LakehouseRoot: cfg.Lakehouse.Root,
	})
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List the gold stages",
	Long: `List the gold stages with the tables each one reads and writes.
Stages in the same level run concurrently during a build.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Gold stages:")
		cmd.Println()
		for _, s := range gold.Catalogue(cfg.Tables) {
			cmd.Printf("  %-10s - %s\n", s.Name, s.Description)
			cmd.Printf("               reads:  %s\n", strings.Join(s.Inputs, ", "))
			cmd.Printf("               writes: %s\n", s.Output)
			if len(s.DependsOn) > 0 {
				cmd.Printf("               after:  %s\n", strings.Join(s.DependsOn, ", "))
			}
		}
		cmd.Println()
		cmd.Printf("Stores: %s\n", strings.Join(store.List(), ", "))
	},
}
