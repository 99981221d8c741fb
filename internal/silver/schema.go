//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package silver describes the silver input tables and generates synthetic
// versions of them for demos and tests.
package silver

import (
	"github.com/pgEdge/pgedge-goldlayer/internal/frame"
)

// ProductsSchema is the silver products layout.
var ProductsSchema = frame.Schema{
	{Name: "ProductId", Type: frame.Text},
	{Name: "Product", Type: frame.Text},
	{Name: "Category", Type: frame.Text},
	{Name: "ListPrice", Type: frame.Float},
}

// CustomersSchema is the silver customers layout.
var CustomersSchema = frame.Schema{
	{Name: "CustomerId", Type: frame.Text},
	{Name: "FirstName", Type: frame.Text},
	{Name: "LastName", Type: frame.Text},
	{Name: "City", Type: frame.Text},
	{Name: "Country", Type: frame.Text},
	{Name: "DOB", Type: frame.Date},
}

// InvoicesSchema is the silver invoices layout.
var InvoicesSchema = frame.Schema{
	{Name: "InvoiceId", Type: frame.Int},
	{Name: "Date", Type: frame.Date},
	{Name: "TotalSalesAmount", Type: frame.Float},
	{Name: "CustomerId", Type: frame.Text},
}

// InvoiceDetailsSchema is the silver invoice line layout.
var InvoiceDetailsSchema = frame.Schema{
	{Name: "Id", Type: frame.Int},
	{Name: "InvoiceId", Type: frame.Int},
	{Name: "Quantity", Type: frame.Int},
	{Name: "SalesAmount", Type: frame.Float},
	{Name: "ProductId", Type: frame.Text},
}
