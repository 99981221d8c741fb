//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package frame

import (
	"time"

	"github.com/cockroachdb/errors"
)

// JoinStats counts what an inner join kept and what it silently dropped.
type JoinStats struct {
	LeftRows    int
	RightRows   int
	OutputRows  int
	OrphanLeft  int // left rows with no partner (NULL keys included)
	OrphanRight int // right rows with no partner (NULL keys included)
}

// Dropped reports whether the join discarded any input row.
func (s JoinStats) Dropped() bool {
	return s.OrphanLeft > 0 || s.OrphanRight > 0
}

// InnerJoin joins t (left) with right on a key column both tables carry.
// The key appears once in the output, followed by the remaining left columns
// and then the remaining right columns. NULL keys never match. Output order
// is left row order, then right row order within a key.
func (t *Table) InnerJoin(right *Table, key string) (*Table, JoinStats, error) {
	stats := JoinStats{LeftRows: t.Len(), RightRows: right.Len()}

	lk := t.schema.Index(key)
	if lk < 0 {
		return nil, stats, errors.Wrapf(ErrUnknownColumn, "join key %q on left", key)
	}
	rk := right.schema.Index(key)
	if rk < 0 {
		return nil, stats, errors.Wrapf(ErrUnknownColumn, "join key %q on right", key)
	}

	schema := Schema{t.schema[lk]}
	for i, c := range t.schema {
		if i != lk {
			schema = append(schema, c)
		}
	}
	for i, c := range right.schema {
		if i != rk {
			schema = append(schema, c)
		}
	}
	if err := schema.validate(); err != nil {
		return nil, stats, errors.Wrap(err, "join")
	}

	index := make(map[any][]int, right.Len())
	for i, r := range right.rows {
		if k, ok := joinKey(r[rk]); ok {
			index[k] = append(index[k], i)
		}
	}

	matchedRight := make([]bool, right.Len())
	var rows [][]any
	for _, l := range t.rows {
		k, ok := joinKey(l[lk])
		partners := index[k]
		if !ok || len(partners) == 0 {
			stats.OrphanLeft++
			continue
		}
		for _, p := range partners {
			matchedRight[p] = true
			r := right.rows[p]
			row := make([]any, 0, len(schema))
			row = append(row, l[lk])
			for i, v := range l {
				if i != lk {
					row = append(row, v)
				}
			}
			for i, v := range r {
				if i != rk {
					row = append(row, v)
				}
			}
			rows = append(rows, row)
		}
	}
	for _, m := range matchedRight {
		if !m {
			stats.OrphanRight++
		}
	}
	stats.OutputRows = len(rows)

	return &Table{schema: schema, rows: rows}, stats, nil
}

// joinKey normalizes a cell into a comparable map key.
func joinKey(v any) (any, bool) {
	switch k := v.(type) {
	case nil:
		return nil, false
	case time.Time:
		return k.UnixNano(), true
	case int32:
		return int64(k), true
	case int:
		return int64(k), true
	default:
		return k, true
	}
}
