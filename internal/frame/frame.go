//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package frame implements an immutable, column-addressed table and the
// whole-table operations the gold stages are composed from.
//
// Cell values are restricted to a small set of Go types so that every store
// backend can map them without guessing:
//
//	Text      -> string
//	Int       -> int64
//	Float     -> float64
//	Date      -> time.Time (UTC midnight)
//	Timestamp -> time.Time
//	Bool      -> bool
//
// A nil cell is SQL NULL regardless of the column type.
package frame

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

var (
	// ErrUnknownColumn is returned when an operation names a column the
	// table does not have.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrDuplicateColumn is returned when an operation would produce two
	// columns with the same name.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrArity is returned when a row does not match the schema width.
	ErrArity = errors.New("row width does not match schema")
)

// Type is the logical type of a column.
type Type int

// Column types.
const (
	Text Type = iota
	Int
	Float
	Date
	Timestamp
	Bool
)

func (t Type) String() string {
	switch t {
	case Text:
		return "string"
	case Int:
		return "long"
	case Float:
		return "double"
	case Date:
		return "date"
	case Timestamp:
		return "timestamp"
	case Bool:
		return "boolean"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Column describes a named, typed column.
type Column struct {
	Name string
	Type Type
}

// Schema is an ordered list of columns.
type Schema []Column

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column, or -1.
func (s Schema) Index(name string) int {
	for i, c := range s {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (s Schema) validate() error {
	seen := make(map[string]struct{}, len(s))
	for _, c := range s {
		if _, ok := seen[c.Name]; ok {
			return errors.Wrapf(ErrDuplicateColumn, "%q", c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return nil
}

// Table is an immutable collection of rows sharing a schema.
// Operations never modify the receiver; they return a new Table.
type Table struct {
	schema Schema
	rows   [][]any
}

// New builds a table from a schema and rows. The rows are copied.
func New(schema Schema, rows [][]any) (*Table, error) {
	if err := schema.validate(); err != nil {
		return nil, err
	}
	copied := make([][]any, len(rows))
	for i, r := range rows {
		if len(r) != len(schema) {
			return nil, errors.Wrapf(ErrArity, "row %d has %d values, schema has %d columns",
				i, len(r), len(schema))
		}
		copied[i] = append([]any(nil), r...)
	}
	return &Table{schema: append(Schema(nil), schema...), rows: copied}, nil
}

// MustNew is New for statically known inputs; it panics on error.
func MustNew(schema Schema, rows [][]any) *Table {
	t, err := New(schema, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Empty returns a table with the schema and no rows.
func Empty(schema Schema) *Table {
	return &Table{schema: append(Schema(nil), schema...)}
}

// Schema returns a copy of the table schema.
func (t *Table) Schema() Schema {
	return append(Schema(nil), t.schema...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns a read-only view of row i.
func (t *Table) Row(i int) Row {
	return Row{schema: t.schema, values: t.rows[i]}
}

// Rows returns a copy of all row values, in order.
func (t *Table) Rows() [][]any {
	out := make([][]any, len(t.rows))
	for i, r := range t.rows {
		out[i] = append([]any(nil), r...)
	}
	return out
}

// Values returns the values of one column, in row order.
func (t *Table) Values(name string) ([]any, error) {
	idx := t.schema.Index(name)
	if idx < 0 {
		return nil, errors.Wrapf(ErrUnknownColumn, "%q", name)
	}
	out := make([]any, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[idx]
	}
	return out, nil
}

// Row is a read-only view of one table row.
type Row struct {
	schema Schema
	values []any
}

// Get returns the named value, or nil when the column is missing or NULL.
func (r Row) Get(name string) any {
	idx := r.schema.Index(name)
	if idx < 0 {
		return nil
	}
	return r.values[idx]
}

// String returns the named value as a string. ok is false for NULL or
// non-string values.
func (r Row) String(name string) (string, bool) {
	s, ok := r.Get(name).(string)
	return s, ok
}

// Time returns the named value as a time. ok is false for NULL or
// non-time values.
func (r Row) Time(name string) (time.Time, bool) {
	t, ok := r.Get(name).(time.Time)
	return t, ok
}

// Int returns the named value as an int64. ok is false for NULL or
// non-integer values.
func (r Row) Int(name string) (int64, bool) {
	v, ok := r.Get(name).(int64)
	return v, ok
}

// Float returns the named value as a float64. ok is false for NULL or
// non-float values.
func (r Row) Float(name string) (float64, bool) {
	v, ok := r.Get(name).(float64)
	return v, ok
}
