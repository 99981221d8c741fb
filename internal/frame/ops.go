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
	"slices"

	"github.com/cockroachdb/errors"
)

// Select projects the table onto the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	idx := make([]int, len(names))
	schema := make(Schema, len(names))
	for i, name := range names {
		j := t.schema.Index(name)
		if j < 0 {
			return nil, errors.Wrapf(ErrUnknownColumn, "select %q", name)
		}
		idx[i] = j
		schema[i] = t.schema[j]
	}
	if err := schema.validate(); err != nil {
		return nil, err
	}

	rows := make([][]any, len(t.rows))
	for r, src := range t.rows {
		row := make([]any, len(idx))
		for i, j := range idx {
			row[i] = src[j]
		}
		rows[r] = row
	}
	return &Table{schema: schema, rows: rows}, nil
}

// Drop removes the named columns. Names that are not present are ignored.
func (t *Table) Drop(names ...string) *Table {
	keep := make([]string, 0, len(t.schema))
	for _, c := range t.schema {
		if !slices.Contains(names, c.Name) {
			keep = append(keep, c.Name)
		}
	}
	out, _ := t.Select(keep...)
	return out
}

// Rename changes a column name. A missing column leaves the table unchanged;
// renaming onto an existing name is an error.
func (t *Table) Rename(from, to string) (*Table, error) {
	idx := t.schema.Index(from)
	if idx < 0 {
		return t, nil
	}
	if from != to && t.schema.Index(to) >= 0 {
		return nil, errors.Wrapf(ErrDuplicateColumn, "rename %q to %q", from, to)
	}
	schema := t.Schema()
	schema[idx].Name = to
	return &Table{schema: schema, rows: t.rows}, nil
}

// WithColumn derives a column from every row. An existing column of the same
// name is replaced in place; otherwise the column is appended.
func (t *Table) WithColumn(name string, typ Type, fn func(Row) any) *Table {
	values := make([]any, len(t.rows))
	for i := range t.rows {
		values[i] = fn(t.Row(i))
	}

	schema := t.Schema()
	idx := schema.Index(name)
	if idx < 0 {
		schema = append(schema, Column{Name: name, Type: typ})
	} else {
		schema[idx].Type = typ
	}

	rows := make([][]any, len(t.rows))
	for i, src := range t.rows {
		row := make([]any, len(schema))
		copy(row, src)
		if idx < 0 {
			row[len(schema)-1] = values[i]
		} else {
			row[idx] = values[i]
		}
		rows[i] = row
	}
	return &Table{schema: schema, rows: rows}
}

// Equal reports whether two tables have the same schema and the same rows in
// the same order.
func (t *Table) Equal(other *Table) bool {
	if other == nil || !slices.Equal(t.schema, other.schema) || len(t.rows) != len(other.rows) {
		return false
	}
	for i := range t.rows {
		for j := range t.rows[i] {
			if !cellEqual(t.rows[i][j], other.rows[i][j]) {
				return false
			}
		}
	}
	return true
}
