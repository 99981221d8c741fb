//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package silver

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/pgEdge/pgedge-goldlayer/internal/datagen"
	"github.com/pgEdge/pgedge-goldlayer/internal/frame"
	"github.com/pgEdge/pgedge-goldlayer/internal/gold"
	"github.com/pgEdge/pgedge-goldlayer/internal/logging"
	"github.com/pgEdge/pgedge-goldlayer/internal/store"
)

// Config controls the size and shape of generated silver data.
type Config struct {
	Products  int
	Customers int
	Invoices  int

	// MaxLines is the most lines one invoice gets; each gets at least one.
	MaxLines int

	StartDate time.Time
	EndDate   time.Time

	// OrphanRate is the fraction of invoice lines pointing at an invoice
	// that does not exist. They exercise the sales join gap.
	OrphanRate float64

	// NullRate is the chance that a customer name or location part is NULL.
	NullRate float64

	// Seed makes output reproducible; zero picks a random seed.
	Seed uint64
}

// DefaultConfig returns a small data set spanning two calendar years.
func DefaultConfig() Config {
	return Config{
		Products:  50,
		Customers: 200,
		Invoices:  1000,
		MaxLines:  5,
		StartDate: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 10, 31, 0, 0, 0, 0, time.UTC),
		NullRate:  0.02,
	}
}

// Tables holds one generated silver data set.
type Tables struct {
	Products       *frame.Table
	Customers      *frame.Table
	Invoices       *frame.Table
	InvoiceDetails *frame.Table
}

// Generator generates silver tables.
type Generator struct {
	faker *datagen.Faker
	cfg   Config
}

// NewGenerator creates a generator for cfg.
func NewGenerator(cfg Config) *Generator {
	f := datagen.NewFaker()
	if cfg.Seed != 0 {
		f = datagen.NewFakerWithSeed(cfg.Seed)
	}
	return &Generator{faker: f, cfg: cfg}
}

// Generate builds all four tables. Foreign keys are consistent apart from
// the configured share of orphan lines.
func (g *Generator) Generate() (Tables, error) {
	var out Tables
	var err error

	if out.Products, err = frame.New(ProductsSchema, g.products()); err != nil {
		return out, errors.Wrap(err, "silver products")
	}
	if out.Customers, err = frame.New(CustomersSchema, g.customers()); err != nil {
		return out, errors.Wrap(err, "silver customers")
	}

	invoices, details := g.invoices()
	if out.Invoices, err = frame.New(InvoicesSchema, invoices); err != nil {
		return out, errors.Wrap(err, "silver invoices")
	}
	if out.InvoiceDetails, err = frame.New(InvoiceDetailsSchema, details); err != nil {
		return out, errors.Wrap(err, "silver invoice details")
	}
	return out, nil
}

// Most lines carry a handful of units.
var (
	lineQuantities      = []int64{1, 2, 3, 4, 5, 10, 20}
	lineQuantityWeights = []int{35, 25, 15, 10, 8, 5, 2}
)

func productID(i int) string  { return fmt.Sprintf("P%05d", i) }
func customerID(i int) string { return fmt.Sprintf("C%06d", i) }

func (g *Generator) products() [][]any {
	progress := datagen.NewProgressReporter("silver_products", int64(g.cfg.Products), 0)
	rows := make([][]any, 0, g.cfg.Products)
	for i := 1; i <= g.cfg.Products; i++ {
		rows = append(rows, []any{
			productID(i),
			g.faker.ProductName(),
			g.faker.ProductCategory(),
			g.faker.Price(1, 500),
		})
		progress.Update(1)
	}
	progress.Done()
	return rows
}

func (g *Generator) customers() [][]any {
	progress := datagen.NewProgressReporter("silver_customers", int64(g.cfg.Customers), 0)
	dobStart := time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC)
	dobEnd := time.Date(2006, 12, 31, 0, 0, 0, 0, time.UTC)

	rows := make([][]any, 0, g.cfg.Customers)
	for i := 1; i <= g.cfg.Customers; i++ {
		rows = append(rows, []any{
			customerID(i),
			g.faker.Nullable(g.faker.FirstName(), g.cfg.NullRate),
			g.faker.Nullable(g.faker.LastName(), g.cfg.NullRate),
			g.faker.Nullable(g.faker.City(), g.cfg.NullRate),
			g.faker.Nullable(g.faker.Country(), g.cfg.NullRate),
			g.faker.Nullable(g.faker.DateRange(dobStart, dobEnd), g.cfg.NullRate),
		})
		progress.Update(1)
	}
	progress.Done()
	return rows
}

func (g *Generator) invoices() (invoices, details [][]any) {
	progress := datagen.NewProgressReporter("silver_invoices", int64(g.cfg.Invoices), 0)
	maxLines := max(1, g.cfg.MaxLines)

	invoices = make([][]any, 0, g.cfg.Invoices)
	details = make([][]any, 0, g.cfg.Invoices*(maxLines+1)/2)
	lineID := int64(0)
	products := make([]string, max(1, g.cfg.Products))
	for i := range products {
		products[i] = productID(i + 1)
	}

	for i := 1; i <= g.cfg.Invoices; i++ {
		invoiceID := int64(i)
		date := g.faker.DateRange(g.cfg.StartDate, g.cfg.EndDate)
		total := 0.0

		for n := g.faker.Int(1, maxLines); n > 0; n-- {
			lineID++
			qty := datagen.ChooseWeighted(g.faker, lineQuantities, lineQuantityWeights)
			amount := math.Round(float64(qty)*g.faker.Price(1, 500)*100) / 100
			total += amount

			ref := invoiceID
			if g.faker.Chance(g.cfg.OrphanRate) {
				// Ids past the last invoice never match.
				ref = int64(g.cfg.Invoices) + lineID
			}
			details = append(details, []any{
				lineID,
				ref,
				qty,
				amount,
				datagen.Choose(g.faker, products),
			})
		}

		invoices = append(invoices, []any{
			invoiceID,
			date,
			math.Round(total*100) / 100,
			customerID(g.faker.Int(1, max(1, g.cfg.Customers))),
		})
		progress.Update(1)
	}
	progress.Done()
	return invoices, details
}

// Seed generates a data set and writes it to the silver paths of st.
func Seed(ctx context.Context, st store.Store, paths gold.Paths, cfg Config) (Tables, error) {
	tables, err := NewGenerator(cfg).Generate()
	if err != nil {
		return tables, err
	}

	writes := []struct {
		path  string
		table *frame.Table
	}{
		{paths.SilverProducts, tables.Products},
		{paths.SilverCustomers, tables.Customers},
		{paths.SilverInvoices, tables.Invoices},
		{paths.SilverInvoiceDetails, tables.InvoiceDetails},
	}
	for _, w := range writes {
		v, err := st.Replace(ctx, w.path, w.table)
		if err != nil {
			return tables, err
		}
		logging.Info().
			Str("path", w.path).
			Int64("rows", v.Rows).
			Int64("version", v.Number).
			Msg("Seeded silver table")
	}
	return tables, nil
}
