//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package store defines the versioned table store the gold stages read
// from and write to, plus the registry of storage backends.
package store

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/pgEdge/pgedge-goldlayer/internal/frame"
)

var (
	// ErrTableNotFound is returned by Read when no committed table exists
	// at the requested path.
	ErrTableNotFound = errors.New("table not found")

	// ErrWriteFailure is returned by Replace when the new table could not
	// be committed. The previously committed table is left untouched.
	ErrWriteFailure = errors.New("write failure")

	// ErrUnknownBackend is returned by Open for an unregistered backend.
	ErrUnknownBackend = errors.New("unknown store backend")
)

// Version describes one committed state of a table path.
type Version struct {
	Path      string    `json:"path"`
	Number    int64     `json:"version"`
	Rows      int64     `json:"rows"`
	RunID     string    `json:"run_id,omitempty"`
	WrittenAt time.Time `json:"written_at"`
}

// Store is a table store with whole-table replace semantics. A reader sees
// either the previous table or the new one, never a mix.
type Store interface {
	// Read returns the current table at path, or ErrTableNotFound.
	Read(ctx context.Context, path string) (*frame.Table, error)

	// Replace atomically substitutes the table at path and returns the
	// version that was committed.
	Replace(ctx context.Context, path string, t *frame.Table) (Version, error)

	// Versions lists committed versions of path, oldest first.
	Versions(ctx context.Context, path string) ([]Version, error)

	Close() error
}

type runIDKey struct{}

// WithRunID attaches a pipeline run id to ctx; stores record it against
// every version written under that context.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run id attached to ctx, or "".
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// NotFound wraps ErrTableNotFound with the path that was missing.
func NotFound(path string) error {
	return errors.Wrapf(ErrTableNotFound, "%q", path)
}

// WriteFailed marks err as an ErrWriteFailure for path, keeping the cause.
func WriteFailed(path string, err error) error {
	return errors.Mark(errors.Wrapf(err, "replace %q", path), ErrWriteFailure)
}
