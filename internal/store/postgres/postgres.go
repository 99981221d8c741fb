//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package postgres stores gold tables as PostgreSQL tables. A replace drops
// and recreates the table inside one transaction, so concurrent readers see
// the old table until the new one commits.
package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-goldlayer/internal/db"
	"github.com/pgEdge/pgedge-goldlayer/internal/frame"
	"github.com/pgEdge/pgedge-goldlayer/internal/logging"
	"github.com/pgEdge/pgedge-goldlayer/internal/store"
)

// Pool is what the store needs from a connection pool.
type Pool interface {
	db.Querier
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// Store is a PostgreSQL-backed table store.
type Store struct {
	pool   Pool
	schema string
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// New wraps an open pool. Tables live in schema.
func New(pool Pool, schema string) *Store {
	if schema == "" {
		schema = "public"
	}
	return &Store{pool: pool, schema: schema}
}

// Open connects to PostgreSQL and prepares the version log.
func Open(ctx context.Context, opts store.Options) (store.Store, error) {
	if opts.Connection == "" {
		return nil, errors.New("postgres store requires a connection string")
	}
	pool, err := db.Connect(ctx, opts.Connection, opts.MaxConns)
	if err != nil {
		return nil, err
	}
	s := New(pool, opts.Schema)
	if err := db.EnsureVersionTable(ctx, pool, s.schema); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Read loads the whole table at path.
func (s *Store) Read(ctx context.Context, path string) (*frame.Table, error) {
	query, args, err := psql.Select("*").From(db.Ident(s.schema, path)).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build read query")
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, s.readError(path, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	schema := schemaFromFields(fields)
	var data [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %q", path)
		}
		row := make([]any, len(values))
		for i, v := range values {
			row[i] = fromPG(fields[i].DataTypeOID, v)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, s.readError(path, err)
	}

	t, err := frame.New(schema, data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %q", path)
	}

	logging.Debug().
		Str("path", path).
		Int("rows", t.Len()).
		Msg("Read table")

	return t, nil
}

func (s *Store) readError(path string, err error) error {
	if db.IsUndefinedTable(err) {
		return store.NotFound(path)
	}
	return errors.Wrapf(err, "failed to read %q", path)
}

// Replace drops, recreates and fills the table at path and appends to the
// version log, all in one transaction. Any failure rolls the transaction
// back, leaving the previous table in place.
func (s *Store) Replace(ctx context.Context, path string, t *frame.Table) (store.Version, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return store.Version{}, store.WriteFailed(path, err)
	}

	v, err := s.replaceTx(ctx, tx, path, t)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logging.Warn().Err(rbErr).Str("path", path).Msg("Rollback failed")
		}
		return store.Version{}, store.WriteFailed(path, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return store.Version{}, store.WriteFailed(path, err)
	}

	logging.Debug().
		Str("path", path).
		Int64("version", v.Number).
		Int64("rows", v.Rows).
		Msg("Replaced table")

	return v, nil
}

func (s *Store) replaceTx(ctx context.Context, tx pgx.Tx, path string, t *frame.Table) (store.Version, error) {
	ident := db.Ident(s.schema, path)

	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+ident); err != nil {
		return store.Version{}, errors.Wrap(err, "drop")
	}
	if _, err := tx.Exec(ctx, createTableSQL(ident, t.Schema())); err != nil {
		return store.Version{}, errors.Wrap(err, "create")
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{s.schema, path}, t.Schema().Names(),
		pgx.CopyFromRows(t.Rows()))
	if err != nil {
		return store.Version{}, errors.Wrap(err, "copy")
	}
	if n != int64(t.Len()) {
		return store.Version{}, errors.Newf("copy wrote %d of %d rows", n, t.Len())
	}

	return db.RecordVersion(ctx, tx, s.schema, path, n, store.RunID(ctx))
}

// Versions lists the logged versions of path.
func (s *Store) Versions(ctx context.Context, path string) ([]store.Version, error) {
	return db.ListVersions(ctx, s.pool, s.schema, path)
}

// Close closes the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func init() {
	store.Register("postgres", Open)
}
