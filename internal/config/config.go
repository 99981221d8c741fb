//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-goldlayer.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/pgEdge/pgedge-goldlayer/internal/gold"
	"github.com/pgEdge/pgedge-goldlayer/internal/metrics"
	"github.com/pgEdge/pgedge-goldlayer/internal/silver"
)

// Store backend names.
const (
	StoreMemory    = "memory"
	StorePostgres  = "postgres"
	StoreLakehouse = "lakehouse"
)

// Config holds all configuration for pgedge-goldlayer.
type Config struct {
	// Store selects the table store backend: memory, postgres or lakehouse.
	Store string `mapstructure:"store"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Postgres configures the postgres store.
	Postgres PostgresConfig `mapstructure:"postgres"`

	// Lakehouse configures the lakehouse store.
	Lakehouse LakehouseConfig `mapstructure:"lakehouse"`

	// Tables maps each silver and gold table to its path in the store.
	Tables gold.Paths `mapstructure:"tables"`

	// Build holds configuration for the build subcommand.
	Build BuildConfig `mapstructure:"build"`

	// Seed holds configuration for the seed subcommand.
	Seed SeedConfig `mapstructure:"seed"`

	// Metrics holds Pushgateway settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// PostgresConfig holds the postgres store settings.
type PostgresConfig struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// Schema holds the gold and silver tables.
	Schema string `mapstructure:"schema"`

	// MaxConns is the maximum number of pooled connections.
	MaxConns int32 `mapstructure:"max_conns"`
}

// LakehouseConfig holds the lakehouse store settings.
type LakehouseConfig struct {
	// Root is the directory holding the Tables/ tree.
	Root string `mapstructure:"root"`
}

// BuildConfig holds configuration for a gold build.
type BuildConfig struct {
	// RunDate is "today" for the run as YYYY-MM-DD. Empty means the
	// current date.
	RunDate string `mapstructure:"run_date"`

	// Sequential runs stages one at a time.
	Sequential bool `mapstructure:"sequential"`

	// Stages restricts the build to these stages. Empty builds all.
	Stages []string `mapstructure:"stages"`

	// DryRun builds every stage into a scratch overlay and commits nothing.
	DryRun bool `mapstructure:"dry_run"`
}

// SeedConfig holds configuration for synthetic silver data.
type SeedConfig struct {
	Products  int `mapstructure:"products"`
	Customers int `mapstructure:"customers"`
	Invoices  int `mapstructure:"invoices"`

	// MaxLines is the maximum number of lines per invoice.
	MaxLines int `mapstructure:"max_lines"`

	// StartDate and EndDate bound invoice dates, as YYYY-MM-DD.
	StartDate string `mapstructure:"start_date"`
	EndDate   string `mapstructure:"end_date"`

	// OrphanRate is the fraction of lines referencing a missing invoice.
	OrphanRate float64 `mapstructure:"orphan_rate"`

	// NullRate is the chance a customer attribute is NULL.
	NullRate float64 `mapstructure:"null_rate"`

	// RandomSeed makes generation reproducible; 0 is random.
	RandomSeed uint64 `mapstructure:"random_seed"`
}

// MetricsConfig holds Prometheus Pushgateway settings.
type MetricsConfig struct {
	// PushgatewayURL enables pushing run metrics when set.
	PushgatewayURL string `mapstructure:"pushgateway_url"`

	// Job is the Pushgateway job name.
	Job string `mapstructure:"job"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	seed := silver.DefaultConfig()
	return &Config{
		Store:    StoreMemory,
		LogLevel: "info",
		Postgres: PostgresConfig{
			Schema:   "public",
			MaxConns: 10,
		},
		Lakehouse: LakehouseConfig{
			Root: "./lakehouse",
		},
		Tables: gold.DefaultPaths(),
		Seed: SeedConfig{
			Products:   seed.Products,
			Customers:  seed.Customers,
			Invoices:   seed.Invoices,
			MaxLines:   seed.MaxLines,
			StartDate:  seed.StartDate.Format(time.DateOnly),
			EndDate:    seed.EndDate.Format(time.DateOnly),
			OrphanRate: seed.OrphanRate,
			NullRate:   seed.NullRate,
		},
		Metrics: MetricsConfig{
			Job: metrics.DefaultJob,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-goldlayer.yaml
// 3. ~/.config/pgedge-goldlayer/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("pgedge-goldlayer")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-goldlayer"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "error reading config file")
		}
	}

	// Start with defaults
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "error parsing config")
	}

	return cfg, nil
}

// Validate checks that the store configuration is usable.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.Postgres.Connection == "" {
			return errors.New("postgres.connection is required for the postgres store")
		}
		if c.Postgres.MaxConns < 0 {
			return errors.New("postgres.max_conns must not be negative")
		}
	case StoreLakehouse:
		if c.Lakehouse.Root == "" {
			return errors.New("lakehouse.root is required for the lakehouse store")
		}
	case "":
		return errors.New("store is required")
	default:
		return errors.Newf("unknown store %q (want memory, postgres or lakehouse)", c.Store)
	}

	paths := c.TablePaths()
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p == "" {
			return errors.New("every table path must be set")
		}
		if seen[p] {
			return errors.Newf("table path %q is used twice", p)
		}
		seen[p] = true
	}
	return nil
}

// ValidateBuild checks configuration required for the build command.
func (c *Config) ValidateBuild() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := c.RunDate(); err != nil {
		return err
	}
	known := []string{gold.StageProducts, gold.StageCustomers, gold.StageSales, gold.StageCalendar}
	for _, s := range c.Build.Stages {
		if !slices.Contains(known, s) {
			return errors.Newf("unknown stage %q", s)
		}
	}
	return nil
}

// ValidateSeed checks configuration required for the seed command.
func (c *Config) ValidateSeed() error {
	if err := c.Validate(); err != nil {
		return err
	}
	s := c.Seed
	if s.Products < 1 || s.Customers < 1 || s.Invoices < 1 {
		return errors.New("seed.products, seed.customers and seed.invoices must be at least 1")
	}
	if s.MaxLines < 1 {
		return errors.New("seed.max_lines must be at least 1")
	}
	if s.OrphanRate < 0 || s.OrphanRate > 1 {
		return errors.New("seed.orphan_rate must be between 0 and 1")
	}
	if s.NullRate < 0 || s.NullRate > 1 {
		return errors.New("seed.null_rate must be between 0 and 1")
	}
	_, err := c.SilverConfig()
	return err
}

// TablePaths returns every configured table path, silver first.
func (c *Config) TablePaths() []string {
	t := c.Tables
	return []string{
		t.SilverProducts, t.SilverCustomers, t.SilverInvoices, t.SilverInvoiceDetails,
		t.Products, t.Customers, t.Sales, t.Calendar,
	}
}

// RunDate parses build.run_date. An empty value yields the zero time.
func (c *Config) RunDate() (time.Time, error) {
	if c.Build.RunDate == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(time.DateOnly, c.Build.RunDate)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "build.run_date %q", c.Build.RunDate)
	}
	return d, nil
}

// SilverConfig converts the seed section into a generator config.
func (c *Config) SilverConfig() (silver.Config, error) {
	s := c.Seed
	start, err := time.Parse(time.DateOnly, s.StartDate)
	if err != nil {
		return silver.Config{}, errors.Wrapf(err, "seed.start_date %q", s.StartDate)
	}
	end, err := time.Parse(time.DateOnly, s.EndDate)
	if err != nil {
		return silver.Config{}, errors.Wrapf(err, "seed.end_date %q", s.EndDate)
	}
	if end.Before(start) {
		return silver.Config{}, errors.New("seed.end_date must not be before seed.start_date")
	}
	return silver.Config{
		Products:   s.Products,
		Customers:  s.Customers,
		Invoices:   s.Invoices,
		MaxLines:   s.MaxLines,
		StartDate:  start,
		EndDate:    end,
		OrphanRate: s.OrphanRate,
		NullRate:   s.NullRate,
		Seed:       s.RandomSeed,
	}, nil
}
