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
	"math"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/pgEdge/pgedge-goldlayer/internal/frame"
)

const (
	nameSeparator     = " "
	locationSeparator = ", "

	// daysPerYear approximates a year for the Age column. Near a birthday
	// the result can be off by one; reported ages depend on it, so keep it.
	daysPerYear = 365.25
)

// BuildCustomers returns the customer dimension: Customer (first and last
// name), Location (city and country) and Age are appended, FirstName and
// LastName are removed, every other silver column passes through.
//
// Age is measured against runDate rather than the wall clock so that a run
// can be reproduced; production callers pass today's date.
//
// Name and location parts follow concat_ws rules: a NULL part is skipped
// along with its separator, a present part is trimmed and kept even when it
// is empty. A NULL DOB gives a NULL Age.
func BuildCustomers(silver *frame.Table, runDate time.Time) (*frame.Table, error) {
	schema := silver.Schema()
	for _, name := range []string{ColFirstName, ColLastName, ColCity, ColCountry, ColDOB} {
		if schema.Index(name) < 0 {
			return nil, errors.Wrapf(frame.ErrUnknownColumn, "customers: %q", name)
		}
	}

	today := frame.Day(runDate)

	out := silver.
		WithColumn(ColCustomer, frame.Text, func(r frame.Row) any {
			return joinPresent(nameSeparator, r.Get(ColFirstName), r.Get(ColLastName))
		}).
		WithColumn(ColLocation, frame.Text, func(r frame.Row) any {
			return joinPresent(locationSeparator, r.Get(ColCity), r.Get(ColCountry))
		}).
		WithColumn(ColAge, frame.Int, func(r frame.Row) any {
			dob, ok := r.Time(ColDOB)
			if !ok {
				return nil
			}
			return Age(dob, today)
		}).
		Drop(ColFirstName, ColLastName)

	return out, nil
}

// Age returns whole years between dob and asOf using a 365.25-day year.
func Age(dob, asOf time.Time) int64 {
	days := frame.DaysBetween(dob, asOf)
	return int64(math.Floor(float64(days) / daysPerYear))
}

func joinPresent(sep string, parts ...any) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		s, ok := p.(string)
		if !ok {
			continue
		}
		kept = append(kept, strings.TrimSpace(s))
	}
	return strings.Join(kept, sep)
}
