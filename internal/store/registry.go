//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
)

// Options carries backend settings from configuration. Each backend reads
// the fields it needs and ignores the rest.
type Options struct {
	Connection    string
	Schema        string
	MaxConns      int32
	LakehouseRoot string
}

// Factory opens a store from options.
type Factory func(ctx context.Context, opts Options) (Store, error)

var (
	registry = make(map[string]Factory)
	mu       sync.RWMutex
)

// Register adds a backend to the registry.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = f
}

// Open creates a store using the named backend.
func Open(ctx context.Context, name string, opts Options) (Store, error) {
	mu.RLock()
	f, ok := registry[name]
	mu.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrUnknownBackend, "%q", name)
	}
	return f(ctx, opts)
}

// List returns all registered backend names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
