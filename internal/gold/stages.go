//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package gold

import (
	"time"

	"github.com/pgEdge/pgedge-goldlayer/internal/frame"
)

// Stage names.
const (
	StageProducts  = "products"
	StageCustomers = "customers"
	StageSales     = "sales"
	StageCalendar  = "calendar"
)

// Paths holds the logical table paths read and written by the stages.
type Paths struct {
	SilverProducts       string `mapstructure:"silver_products"`
	SilverCustomers      string `mapstructure:"silver_customers"`
	SilverInvoices       string `mapstructure:"silver_invoices"`
	SilverInvoiceDetails string `mapstructure:"silver_invoice_details"`

	Products  string `mapstructure:"products"`
	Customers string `mapstructure:"customers"`
	Sales     string `mapstructure:"sales"`
	Calendar  string `mapstructure:"calendar"`
}

// DefaultPaths returns the standard silver and gold table paths.
func DefaultPaths() Paths {
	return Paths{
		SilverProducts:       "silver_products",
		SilverCustomers:      "silver_customers",
		SilverInvoices:       "silver_invoices",
		SilverInvoiceDetails: "silver_invoice_details",
		Products:             "products",
		Customers:            "customers",
		Sales:                "sales",
		Calendar:             "calendar",
	}
}

// Env carries run-wide inputs that are not tables.
type Env struct {
	// RunDate is "today" for the run; Age is measured against it.
	RunDate time.Time
}

// Result is what a stage hands back for committing.
type Result struct {
	Table *frame.Table

	// Join is set by stages that inner-join their inputs.
	Join *frame.JoinStats
}

// Stage describes one gold table: where it reads, where it writes, which
// stages must have committed first, and the transform itself.
type Stage struct {
	Name        string
	Description string
	Inputs      []string
	Output      string
	DependsOn   []string

	// Build receives the input tables keyed by path.
	Build func(in map[string]*frame.Table, env Env) (Result, error)
}

// Catalogue returns the four gold stages wired to the given paths.
func Catalogue(p Paths) []Stage {
	return []Stage{
		{
			Name:        StageProducts,
			Description: "Product dimension, copied unchanged from silver",
			Inputs:      []string{p.SilverProducts},
			Output:      p.Products,
			Build: func(in map[string]*frame.Table, _ Env) (Result, error) {
				return Result{Table: BuildProducts(in[p.SilverProducts])}, nil
			},
		},
		{
			Name:        StageCustomers,
			Description: "Customer dimension with full name, location and age",
			Inputs:      []string{p.SilverCustomers},
			Output:      p.Customers,
			Build: func(in map[string]*frame.Table, env Env) (Result, error) {
				t, err := BuildCustomers(in[p.SilverCustomers], env.RunDate)
				return Result{Table: t}, err
			},
		},
		{
			Name:        StageSales,
			Description: "Sales fact, one row per invoice line",
			Inputs:      []string{p.SilverInvoices, p.SilverInvoiceDetails},
			Output:      p.Sales,
			Build: func(in map[string]*frame.Table, _ Env) (Result, error) {
				t, stats, err := BuildSales(in[p.SilverInvoices], in[p.SilverInvoiceDetails])
				return Result{Table: t, Join: &stats}, err
			},
		},
		{
			Name:        StageCalendar,
			Description: "Calendar dimension covering the sales years day by day",
			Inputs:      []string{p.Sales},
			Output:      p.Calendar,
			DependsOn:   []string{StageSales},
			Build: func(in map[string]*frame.Table, _ Env) (Result, error) {
				t, err := BuildCalendar(in[p.Sales])
				return Result{Table: t}, err
			},
		},
	}
}
