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
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-goldlayer/internal/config"
	"github.com/pgEdge/pgedge-goldlayer/internal/logging"
	"github.com/pgEdge/pgedge-goldlayer/internal/silver"
)

var (
	seedProducts   int
	seedCustomers  int
	seedInvoices   int
	seedOrphanRate float64
	seedRandomSeed uint64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write synthetic silver tables to the store",
	Long: `Generate synthetic silver tables (products, customers, invoices and
invoice lines) and write them to the configured store, replacing any
existing silver tables at the configured paths.

Example:
  pgedge-goldlayer seed --store lakehouse --invoices 5000 --random-seed 42
  pgedge-goldlayer seed --store postgres --orphan-rate 0.01`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedProducts, "products", 0,
		"number of products")
	seedCmd.Flags().IntVar(&seedCustomers, "customers", 0,
		"number of customers")
	seedCmd.Flags().IntVar(&seedInvoices, "invoices", 0,
		"number of invoices")
	seedCmd.Flags().Float64Var(&seedOrphanRate, "orphan-rate", 0,
		"fraction of invoice lines whose invoice is missing")
	seedCmd.Flags().Uint64Var(&seedRandomSeed, "random-seed", 0,
		"random seed for reproducible data (0 = random)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if seedProducts > 0 {
		cfg.Seed.Products = seedProducts
	}
	if seedCustomers > 0 {
		cfg.Seed.Customers = seedCustomers
	}
	if seedInvoices > 0 {
		cfg.Seed.Invoices = seedInvoices
	}
	if seedOrphanRate > 0 {
		cfg.Seed.OrphanRate = seedOrphanRate
	}
	if seedRandomSeed > 0 {
		cfg.Seed.RandomSeed = seedRandomSeed
	}

	// Validate configuration
	if err := cfg.ValidateSeed(); err != nil {
		return err
	}
	if cfg.Store == config.StoreMemory {
		return errors.New("seeding the memory store has no lasting effect; use --store postgres or --store lakehouse")
	}
	sc, err := cfg.SilverConfig()
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

	tables, err := silver.Seed(ctx, st, cfg.Tables, sc)
	if err != nil {
		return errors.Wrap(err, "failed to seed silver tables")
	}

	cmd.Printf("Seeded %d products, %d customers, %d invoices, %d invoice lines\n",
		tables.Products.Len(), tables.Customers.Len(),
		tables.Invoices.Len(), tables.InvoiceDetails.Len())
	return nil
}
