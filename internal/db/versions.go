//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pgEdge/pgedge-goldlayer/internal/logging"
	"github.com/pgEdge/pgedge-goldlayer/internal/store"
	"github.com/pgEdge/pgedge-goldlayer/pkg/version"
)

// VersionsTable records every table replace committed by the postgres store.
const VersionsTable = "goldlayer_table_versions"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Ident quotes a schema-qualified name. An empty schema leaves the name
// unqualified.
func Ident(schema, name string) string {
	if schema == "" {
		return pgx.Identifier{name}.Sanitize()
	}
	return pgx.Identifier{schema, name}.Sanitize()
}

// EnsureVersionTable creates the version log if it does not exist.
func EnsureVersionTable(ctx context.Context, q Querier, schema string) error {
	_, err := q.Exec(ctx, `
CREATE TABLE IF NOT EXISTS `+Ident(schema, VersionsTable)+` (
    path        TEXT        NOT NULL,
    version     BIGINT      NOT NULL,
    row_count   BIGINT      NOT NULL,
    run_id      TEXT        NOT NULL DEFAULT '',
    app_version TEXT        NOT NULL,
    written_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (path, version)
)`)
	if err != nil {
		return errors.Wrap(err, "failed to create version table")
	}
	return nil
}

// RecordVersion appends the next version of path to the log and returns
// it. Run it inside the transaction that replaced the table so the log
// and the table commit together.
func RecordVersion(ctx context.Context, q Querier, schema, path string, rows int64, runID string) (store.Version, error) {
	tbl := Ident(schema, VersionsTable)
	v := store.Version{Path: path, Rows: rows, RunID: runID}

	err := q.QueryRow(ctx, `
INSERT INTO `+tbl+` (path, version, row_count, run_id, app_version)
SELECT $1, COALESCE(MAX(version), 0) + 1, $2, $3, $4
FROM `+tbl+` WHERE path = $1
RETURNING version, written_at`,
		path, rows, runID, version.Short()).Scan(&v.Number, &v.WrittenAt)
	if err != nil {
		return store.Version{}, errors.Wrapf(err, "failed to record version of %q", path)
	}
	v.WrittenAt = v.WrittenAt.UTC()

	logging.Debug().
		Str("path", path).
		Int64("version", v.Number).
		Msg("Recorded table version")

	return v, nil
}

// ListVersions returns the logged versions of path, oldest first. A
// missing log means nothing was ever written.
func ListVersions(ctx context.Context, q Querier, schema, path string) ([]store.Version, error) {
	query, args, err := psql.
		Select("path", "version", "row_count", "run_id", "written_at").
		From(Ident(schema, VersionsTable)).
		Where(sq.Eq{"path": path}).
		OrderBy("version").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build version query")
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		if IsUndefinedTable(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to list versions")
	}
	defer rows.Close()

	var out []store.Version
	for rows.Next() {
		var v store.Version
		var writtenAt time.Time
		if err := rows.Scan(&v.Path, &v.Number, &v.Rows, &v.RunID, &writtenAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan version")
		}
		v.WrittenAt = writtenAt.UTC()
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		if IsUndefinedTable(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to list versions")
	}
	return out, nil
}

// IsUndefinedTable reports whether err is PostgreSQL's undefined_table.
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable
}
