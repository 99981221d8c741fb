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
	"github.com/cockroachdb/errors"

	"github.com/pgEdge/pgedge-goldlayer/internal/frame"
)

// SalesColumns is the exact column set of the sales fact table.
var SalesColumns = []string{ColDate, ColDateKey, ColCustomerID, ColProductID, ColSales, ColQuantity}

// BuildSales returns the sales fact table: one row per invoice line that has
// a parent invoice. Lines without an invoice and invoices without lines are
// dropped; the returned JoinStats says how many, so callers can report the
// gap instead of hiding it.
//
// DateKey comes from the invoice Date, never from the processing time.
func BuildSales(invoices, details *frame.Table) (*frame.Table, frame.JoinStats, error) {
	joined, stats, err := details.InnerJoin(invoices, ColInvoiceID)
	if err != nil {
		return nil, stats, errors.Wrap(err, "sales: join invoice details to invoices")
	}

	renamed, err := joined.Rename(ColSalesAmount, ColSales)
	if err != nil {
		return nil, stats, errors.Wrap(err, "sales")
	}

	withKey := renamed.WithColumn(ColDateKey, frame.Int, func(r frame.Row) any {
		d, ok := r.Time(ColDate)
		if !ok {
			return nil
		}
		return DateKey(d)
	})

	out, err := withKey.Select(SalesColumns...)
	if err != nil {
		return nil, stats, errors.Wrap(err, "sales")
	}
	return out, stats, nil
}
