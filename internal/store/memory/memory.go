//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package memory provides an in-process table store. It backs tests and
// dry runs; nothing survives the process.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pgEdge/pgedge-goldlayer/internal/frame"
	"github.com/pgEdge/pgedge-goldlayer/internal/store"
)

// Store keeps the current table and the version history for each path.
type Store struct {
	mu       sync.RWMutex
	tables   map[string]*frame.Table
	versions map[string][]store.Version
	now      func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		tables:   make(map[string]*frame.Table),
		versions: make(map[string][]store.Version),
		now:      time.Now,
	}
}

// Read returns the current table at path.
func (s *Store) Read(ctx context.Context, path string) (*frame.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[path]
	if !ok {
		return nil, store.NotFound(path)
	}
	return t, nil
}

// Replace swaps in t as the current table at path. Tables are immutable, so
// the reference is stored as is.
func (s *Store) Replace(ctx context.Context, path string, t *frame.Table) (store.Version, error) {
	if err := ctx.Err(); err != nil {
		return store.Version{}, store.WriteFailed(path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v := store.Version{
		Path:      path,
		Number:    int64(len(s.versions[path]) + 1),
		Rows:      int64(t.Len()),
		RunID:     store.RunID(ctx),
		WrittenAt: s.now().UTC(),
	}
	s.tables[path] = t
	s.versions[path] = append(s.versions[path], v)
	return v, nil
}

// Put seeds path with t without recording a version; it stands in for
// tables produced outside the pipeline, such as the silver inputs.
func (s *Store) Put(path string, t *frame.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[path] = t
}

// Versions lists committed versions of path, oldest first.
func (s *Store) Versions(ctx context.Context, path string) ([]store.Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Version, len(s.versions[path]))
	copy(out, s.versions[path])
	return out, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

func init() {
	store.Register("memory", func(context.Context, store.Options) (store.Store, error) {
		return New(), nil
	})
}
