//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package lakehouse stores tables as versioned parquet files under a root
// directory, laid out as Tables/<path>/v<N>.parquet. DuckDB reads and
// writes the files. A small _current pointer file names the live version
// and is swapped by rename, so a reader always opens a complete file.
package lakehouse

import (
	"bufio"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-goldlayer/internal/frame"
	"github.com/pgEdge/pgedge-goldlayer/internal/logging"
	"github.com/pgEdge/pgedge-goldlayer/internal/store"
)

const (
	tablesDir    = "Tables"
	currentFile  = "_current"
	versionsFile = "_versions.jsonl"
)

// Store is a parquet lakehouse rooted at a directory.
type Store struct {
	root      string
	connector *duckdb.Connector
	db        *sql.DB
	now       func() time.Time

	// mu serializes replaces; version numbers are allocated from the log.
	mu sync.Mutex
}

// New opens an in-process DuckDB and uses root as the lakehouse directory.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("lakehouse store requires a root directory")
	}
	if err := os.MkdirAll(filepath.Join(root, tablesDir), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create lakehouse root")
	}

	connector, err := duckdb.NewConnector("", nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open duckdb")
	}

	return &Store{
		root:      root,
		connector: connector,
		db:        sql.OpenDB(connector),
		now:       time.Now,
	}, nil
}

// Open creates a store from options.
func Open(_ context.Context, opts store.Options) (store.Store, error) {
	return New(opts.LakehouseRoot)
}

func (s *Store) tableDir(path string) (string, error) {
	if !filepath.IsLocal(path) {
		return "", errors.Newf("invalid table path %q", path)
	}
	return filepath.Join(s.root, tablesDir, path), nil
}

// current returns the live parquet file for path.
func (s *Store) current(path string) (string, error) {
	dir, err := s.tableDir(path)
	if err != nil {
		return "", err
	}
	name, err := os.ReadFile(filepath.Join(dir, currentFile))
	if errors.Is(err, os.ErrNotExist) {
		return "", store.NotFound(path)
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to read pointer for %q", path)
	}
	return filepath.Join(dir, strings.TrimSpace(string(name))), nil
}

// Read loads the live version of path.
func (s *Store) Read(ctx context.Context, path string) (*frame.Table, error) {
	file, err := s.current(path)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT * FROM read_parquet("+quote(file)+")")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %q", path)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %q", path)
	}
	schema := make(frame.Schema, len(colTypes))
	for i, ct := range colTypes {
		schema[i] = frame.Column{Name: ct.Name(), Type: typeFromDuckDB(ct.DatabaseTypeName())}
	}

	var data [][]any
	for rows.Next() {
		cells := make([]any, len(schema))
		ptrs := make([]any, len(schema))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrapf(err, "failed to read %q", path)
		}
		for i, v := range cells {
			cells[i] = fromDuckDB(v)
		}
		data = append(data, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read %q", path)
	}

	return frame.New(schema, data)
}

// Replace writes t as the next version of path and then points _current
// at it. Until the pointer moves, readers keep seeing the previous file.
func (s *Store) Replace(ctx context.Context, path string, t *frame.Table) (store.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return store.Version{}, store.WriteFailed(path, err)
	}

	dir, err := s.tableDir(path)
	if err != nil {
		return store.Version{}, store.WriteFailed(path, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return store.Version{}, store.WriteFailed(path, err)
	}

	prior, err := s.Versions(ctx, path)
	if err != nil {
		return store.Version{}, store.WriteFailed(path, err)
	}
	v := store.Version{
		Path:      path,
		Number:    1,
		Rows:      int64(t.Len()),
		RunID:     store.RunID(ctx),
		WrittenAt: s.now().UTC(),
	}
	if len(prior) > 0 {
		v.Number = prior[len(prior)-1].Number + 1
	}
	// The log may trail the pointer if an append failed; never reuse the
	// live file's name.
	if live := liveVersion(dir); live >= v.Number {
		v.Number = live + 1
	}

	name := fmt.Sprintf("v%d.parquet", v.Number)
	file := filepath.Join(dir, name)
	if err := s.writeParquet(ctx, file, t); err != nil {
		_ = os.Remove(file)
		return store.Version{}, store.WriteFailed(path, err)
	}

	if err := swapPointer(dir, name); err != nil {
		_ = os.Remove(file)
		return store.Version{}, store.WriteFailed(path, err)
	}

	if err := appendVersion(filepath.Join(dir, versionsFile), v); err != nil {
		// The table is live; only the history line is missing.
		logging.Warn().Err(err).Str("path", path).Msg("Failed to append version log")
	}

	logging.Debug().
		Str("path", path).
		Str("file", file).
		Int64("version", v.Number).
		Msg("Wrote parquet table")

	return v, nil
}

// writeParquet bulk-loads t into a staging table through the DuckDB
// appender on one connection and copies it out as parquet.
func (s *Store) writeParquet(ctx context.Context, file string, t *frame.Table) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get duckdb connection")
	}
	defer conn.Close()

	name := "stage_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	tmp := pgx.Identifier{name}.Sanitize()
	if _, err := conn.ExecContext(ctx, createStagingSQL(tmp, t.Schema())); err != nil {
		return errors.Wrap(err, "create staging table")
	}
	defer func() {
		_, _ = conn.ExecContext(context.Background(), "DROP TABLE IF EXISTS "+tmp)
	}()

	if t.Len() > 0 {
		err := conn.Raw(func(driverConn any) error {
			dc, ok := driverConn.(driver.Conn)
			if !ok {
				return errors.Newf("unexpected duckdb connection type %T", driverConn)
			}
			return appendRows(ctx, dc, name, t)
		})
		if err != nil {
			return err
		}
	}

	if _, err := conn.ExecContext(ctx, "COPY "+tmp+" TO "+quote(file)+" (FORMAT PARQUET)"); err != nil {
		return errors.Wrap(err, "copy to parquet")
	}
	return nil
}

func appendRows(ctx context.Context, dc driver.Conn, table string, t *frame.Table) error {
	app, err := duckdb.NewAppenderFromConn(dc, "", table)
	if err != nil {
		return errors.Wrap(err, "open staging appender")
	}

	for i, row := range t.Rows() {
		if err := ctx.Err(); err != nil {
			return errors.CombineErrors(err, app.Close())
		}
		values := make([]driver.Value, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := app.AppendRow(values...); err != nil {
			return errors.CombineErrors(errors.Wrapf(err, "stage row %d", i), app.Close())
		}
	}
	return errors.Wrap(app.Close(), "flush staging appender")
}

// liveVersion returns the version number the pointer in dir names, or 0.
func liveVersion(dir string) int64 {
	name, err := os.ReadFile(filepath.Join(dir, currentFile))
	if err != nil {
		return 0
	}
	var n int64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(name)), "v%d.parquet", &n); err != nil {
		return 0
	}
	return n
}

func swapPointer(dir, name string) error {
	tmp := filepath.Join(dir, currentFile+".tmp")
	if err := os.WriteFile(tmp, []byte(name+"\n"), 0o644); err != nil {
		return errors.Wrap(err, "write pointer")
	}
	if err := os.Rename(tmp, filepath.Join(dir, currentFile)); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "swap pointer")
	}
	return nil
}

func appendVersion(file string, v store.Version) error {
	line, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Versions reads the version log of path, oldest first.
func (s *Store) Versions(_ context.Context, path string) ([]store.Version, error) {
	dir, err := s.tableDir(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(dir, versionsFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open version log for %q", path)
	}
	defer f.Close()

	var out []store.Version
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var v store.Version
		if err := json.Unmarshal([]byte(line), &v); err != nil {
			return nil, errors.Wrapf(err, "corrupt version log for %q", path)
		}
		out = append(out, v)
	}
	return out, errors.Wrapf(sc.Err(), "failed to read version log for %q", path)
}

// Close shuts down DuckDB.
func (s *Store) Close() error {
	return errors.CombineErrors(s.db.Close(), s.connector.Close())
}

func init() {
	store.Register("lakehouse", Open)
}
