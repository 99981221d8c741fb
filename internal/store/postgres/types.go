//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package postgres

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pgEdge/pgedge-goldlayer/internal/frame"
)

var sqlTypes = map[frame.Type]string{
	frame.Text:      "TEXT",
	frame.Int:       "BIGINT",
	frame.Float:     "DOUBLE PRECISION",
	frame.Date:      "DATE",
	frame.Timestamp: "TIMESTAMPTZ",
	frame.Bool:      "BOOLEAN",
}

func createTableSQL(ident string, schema frame.Schema) string {
	cols := make([]string, len(schema))
	for i, c := range schema {
		cols[i] = pgx.Identifier{c.Name}.Sanitize() + " " + sqlTypes[c.Type]
	}
	return "CREATE TABLE " + ident + " (" + strings.Join(cols, ", ") + ")"
}

func typeFromOID(oid uint32) frame.Type {
	switch oid {
	case pgtype.Int2OID, pgtype.Int4OID, pgtype.Int8OID:
		return frame.Int
	case pgtype.Float4OID, pgtype.Float8OID, pgtype.NumericOID:
		return frame.Float
	case pgtype.DateOID:
		return frame.Date
	case pgtype.TimestampOID, pgtype.TimestamptzOID:
		return frame.Timestamp
	case pgtype.BoolOID:
		return frame.Bool
	case pgtype.UUIDOID, pgtype.JSONOID, pgtype.JSONBOID, pgtype.IntervalOID, pgtype.ByteaOID:
		return frame.Text
	default:
		return frame.Text
	}
}

func schemaFromFields(fields []pgconn.FieldDescription) frame.Schema {
	schema := make(frame.Schema, len(fields))
	for i, f := range fields {
		schema[i] = frame.Column{Name: f.Name, Type: typeFromOID(f.DataTypeOID)}
	}
	return schema
}

// fromPG normalizes a decoded pgx value of a column with the given type
// OID to the frame cell types. Anything without a native frame type is
// rendered as its PostgreSQL text form.
func fromPG(oid uint32, v any) any {
	if v == nil {
		return nil
	}
	if oid == pgtype.JSONOID || oid == pgtype.JSONBOID {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}

	switch x := v.(type) {
	case string, int64, float64, bool:
		return x
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case time.Time:
		return x.UTC()
	case [16]byte:
		return uuid.UUID(x).String()
	case []byte:
		return `\x` + hex.EncodeToString(x)
	case pgtype.Interval:
		iv, err := x.Value()
		if err != nil || iv == nil {
			return nil
		}
		return iv
	default:
		return fmt.Sprint(x)
	}
}
