//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

//go:build integration
// +build integration

// Run with: go test -tags=integration ./internal/store/postgres/...
// Set PGEDGE_TEST_CONN environment variable to override connection string.

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-goldlayer/internal/frame"
	"github.com/pgEdge/pgedge-goldlayer/internal/store"
	"github.com/pgEdge/pgedge-goldlayer/internal/testutil"
)

func TestStoreIntegration(t *testing.T) {
	connStr := testutil.SetupTestDB(t, "store")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	s, err := Open(ctx, store.Options{Connection: connStr, Schema: "public", MaxConns: 4})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Read(ctx, "sales")
	require.True(t, errors.Is(err, store.ErrTableNotFound), "got %v", err)

	v1, err := s.Replace(store.WithRunID(ctx, "r1"), "sales", salesTable())
	require.NoError(t, err)
	assert.Equal(t, int64(1), v1.Number)
	assert.Equal(t, int64(2), v1.Rows)

	got, err := s.Read(ctx, "sales")
	require.NoError(t, err)
	assert.True(t, got.Equal(salesTable()), "round trip changed the table")

	// Same input again: identical table, next version.
	v2, err := s.Replace(store.WithRunID(ctx, "r2"), "sales", salesTable())
	require.NoError(t, err)
	assert.Equal(t, int64(2), v2.Number)

	smaller := frame.MustNew(frame.Schema{{Name: "Other", Type: frame.Text}}, [][]any{{"x"}})
	_, err = s.Replace(ctx, "sales", smaller)
	require.NoError(t, err)
	got, err = s.Read(ctx, "sales")
	require.NoError(t, err)
	assert.Equal(t, []string{"Other"}, got.Schema().Names())

	versions, err := s.Versions(ctx, "sales")
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, "r1", versions[0].RunID)
	assert.Equal(t, "r2", versions[1].RunID)
}
