//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package lakehouse

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-goldlayer/internal/frame"
)

var duckTypes = map[frame.Type]string{
	frame.Text:      "VARCHAR",
	frame.Int:       "BIGINT",
	frame.Float:     "DOUBLE",
	frame.Date:      "DATE",
	frame.Timestamp: "TIMESTAMP",
	frame.Bool:      "BOOLEAN",
}

func createStagingSQL(ident string, schema frame.Schema) string {
	cols := make([]string, len(schema))
	for i, c := range schema {
		cols[i] = pgx.Identifier{c.Name}.Sanitize() + " " + duckTypes[c.Type]
	}
	return "CREATE TABLE " + ident + " (" + strings.Join(cols, ", ") + ")"
}

// quote renders s as a SQL string literal.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func typeFromDuckDB(name string) frame.Type {
	switch {
	case name == "VARCHAR":
		return frame.Text
	case name == "BIGINT", name == "INTEGER", name == "SMALLINT", name == "TINYINT",
		name == "UBIGINT", name == "UINTEGER", name == "USMALLINT", name == "UTINYINT":
		return frame.Int
	case name == "DOUBLE", name == "FLOAT", strings.HasPrefix(name, "DECIMAL"):
		return frame.Float
	case name == "DATE":
		return frame.Date
	case strings.HasPrefix(name, "TIMESTAMP"):
		return frame.Timestamp
	case name == "BOOLEAN":
		return frame.Bool
	default:
		return frame.Text
	}
}

// fromDuckDB normalizes a scanned DuckDB value to the frame cell types.
func fromDuckDB(v any) any {
	switch x := v.(type) {
	case nil, string, int64, float64, bool:
		return x
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return float64(x)
	case time.Time:
		return x.UTC()
	case interface{ Float64() float64 }:
		return x.Float64()
	default:
		return fmt.Sprint(x)
	}
}
