//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package memory

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/pgEdge/pgedge-goldlayer/internal/frame"
	"github.com/pgEdge/pgedge-goldlayer/internal/store"
)

// Overlay layers an in-memory store over a base store. Writes land in
// memory only; reads prefer what was written here and fall through to the
// base otherwise. Used for dry runs.
type Overlay struct {
	base store.Store
	top  *Store
}

// NewOverlay wraps base.
func NewOverlay(base store.Store) *Overlay {
	return &Overlay{base: base, top: New()}
}

// Read returns the overlay's table at path if one was written, else the
// base store's.
func (o *Overlay) Read(ctx context.Context, path string) (*frame.Table, error) {
	t, err := o.top.Read(ctx, path)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, store.ErrTableNotFound) {
		return nil, err
	}
	return o.base.Read(ctx, path)
}

// Replace writes to memory only. Version numbers continue from the base
// store's history so the report shows what a real run would commit.
func (o *Overlay) Replace(ctx context.Context, path string, t *frame.Table) (store.Version, error) {
	v, err := o.top.Replace(ctx, path, t)
	if err != nil {
		return v, err
	}
	prior, err := o.base.Versions(ctx, path)
	if err == nil && len(prior) > 0 {
		v.Number += prior[len(prior)-1].Number
	}
	return v, nil
}

// Versions returns the base store's history.
func (o *Overlay) Versions(ctx context.Context, path string) ([]store.Version, error) {
	return o.base.Versions(ctx, path)
}

// Close closes the base store.
func (o *Overlay) Close() error {
	return o.base.Close()
}
