package frame

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Day truncates t to its calendar date at UTC midnight, keeping the
// year/month/day as seen in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b, negative
// when b is earlier. It works on dates alone, so spans of any length are
// exact.
func DaysBetween(a, b time.Time) int64 {
	return (Day(b).Unix() - Day(a).Unix()) / secondsPerDay
}

const secondsPerDay = 24 * 60 * 60

// DateBounds returns the earliest and latest non-NULL time in a column using
// a single pass. ok is false when the column holds no non-NULL values.
func (t *Table) DateBounds(name string) (lo, hi time.Time, ok bool, err error) {
	idx := t.schema.Index(name)
	if idx < 0 {
		return lo, hi, false, errors.Wrapf(ErrUnknownColumn, "%q", name)
	}
	for _, r := range t.rows {
		v, isTime := r[idx].(time.Time)
		if !isTime {
			continue
		}
		if !ok {
			lo, hi, ok = v, v, true
			continue
		}
		if v.Before(lo) {
			lo = v
		}
		if v.After(hi) {
			hi = v
		}
	}
	return lo, hi, ok, nil
}

func cellEqual(a, b any) bool {
	ta, aTime := a.(time.Time)
	tb, bTime := b.(time.Time)
	if aTime || bTime {
		return aTime && bTime && ta.Equal(tb)
	}
	return a == b
}
