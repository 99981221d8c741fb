//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package gold derives the consumption-ready dimensional tables (products,
// customers, sales and calendar) from the silver staging tables.
//
// Every Build function is a pure table-to-table transform. Reading the
// inputs, ordering the stages and committing the outputs is the job of the
// pipeline package.
package gold

import (
	"time"

	"github.com/cockroachdb/errors"
)

// ErrEmptyFactRange is returned by the calendar stage when the sales table
// has no dates to anchor the calendar on.
var ErrEmptyFactRange = errors.New("empty fact table, cannot derive calendar range")

// Column names shared between silver inputs and gold outputs.
const (
	ColInvoiceID   = "InvoiceId"
	ColCustomerID  = "CustomerId"
	ColProductID   = "ProductId"
	ColDate        = "Date"
	ColDateKey     = "DateKey"
	ColSalesAmount = "SalesAmount"
	ColSales       = "Sales"
	ColQuantity    = "Quantity"

	ColFirstName = "FirstName"
	ColLastName  = "LastName"
	ColCity      = "City"
	ColCountry   = "Country"
	ColDOB       = "DOB"
	ColCustomer  = "Customer"
	ColLocation  = "Location"
	ColAge       = "Age"
)

// DateKey encodes a calendar date as YYYYMMDD. Sales and calendar rows use
// this same function so they join one-to-one on the key.
func DateKey(t time.Time) int64 {
	y, m, d := t.Date()
	return int64(y)*10000 + int64(m)*100 + int64(d)
}
