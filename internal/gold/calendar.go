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
	"fmt"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/pgEdge/pgedge-goldlayer/internal/frame"
)

// Calendar column names.
const (
	ColYear            = "Year"
	ColQuarter         = "Quarter"
	ColMonth           = "Month"
	ColDay             = "Day"
	ColMonthInYear     = "MonthInYear"
	ColMonthInYearSort = "MonthInYearSort"
	ColDayOfWeek       = "DayOfWeek"
	ColDayOfWeekSort   = "DayOfWeekSort"
)

// CalendarSchema is the column layout of the calendar dimension.
var CalendarSchema = frame.Schema{
	{Name: ColDate, Type: frame.Date},
	{Name: ColDateKey, Type: frame.Int},
	{Name: ColYear, Type: frame.Int},
	{Name: ColQuarter, Type: frame.Text},
	{Name: ColMonth, Type: frame.Text},
	{Name: ColDay, Type: frame.Int},
	{Name: ColMonthInYear, Type: frame.Text},
	{Name: ColMonthInYearSort, Type: frame.Int},
	{Name: ColDayOfWeek, Type: frame.Text},
	{Name: ColDayOfWeekSort, Type: frame.Int},
}

// English names, indexed by time.Month-1 and time.Weekday. Kept here rather
// than taken from any locale so output is identical on every host.
var monthNames = [12]string{"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}
var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// CalendarRange returns the whole years covering every Date in the sales
// table: January 1 of the earliest year through December 31 of the latest.
func CalendarRange(sales *frame.Table) (start, end time.Time, err error) {
	lo, hi, ok, err := sales.DateBounds(ColDate)
	if err != nil {
		return start, end, errors.Wrap(err, "calendar")
	}
	if !ok {
		return start, end, ErrEmptyFactRange
	}
	start = time.Date(lo.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(hi.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	return start, end, nil
}

// Days returns every date from start through end inclusive, one per day.
func Days(start, end time.Time) []time.Time {
	start, end = frame.Day(start), frame.Day(end)
	if end.Before(start) {
		return nil
	}
	n := int(frame.DaysBetween(start, end)) + 1
	days := make([]time.Time, 0, n)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// BuildCalendar returns the calendar dimension covering the sales table in
// whole years, one row per day with no gaps. It fails with
// ErrEmptyFactRange when sales carries no dates.
func BuildCalendar(sales *frame.Table) (*frame.Table, error) {
	start, end, err := CalendarRange(sales)
	if err != nil {
		return nil, err
	}

	days := Days(start, end)
	rows := make([][]any, len(days))
	for i, d := range days {
		rows[i] = calendarRow(d)
	}
	return frame.New(CalendarSchema, rows)
}

func calendarRow(d time.Time) []any {
	year, month, day := d.Date()
	quarter := (int(month)-1)/3 + 1
	weekday := d.Weekday()

	return []any{
		d,
		DateKey(d),
		int64(year),
		fmt.Sprintf("%04d-%02d", year, quarter),
		fmt.Sprintf("%04d-%02d", year, int(month)),
		int64(day),
		monthNames[month-1],
		int64(month),
		dayNames[weekday],
		int64(weekday) + 1,
	}
}
