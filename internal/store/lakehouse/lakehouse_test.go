package lakehouse

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-goldlayer/internal/frame"
	"github.com/pgEdge/pgedge-goldlayer/internal/store"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func customers() *frame.Table {
	return frame.MustNew(frame.Schema{
		{Name: "CustomerId", Type: frame.Int},
		{Name: "Customer", Type: frame.Text},
		{Name: "DOB", Type: frame.Date},
		{Name: "Score", Type: frame.Float},
		{Name: "Active", Type: frame.Bool},
	}, [][]any{
		{int64(1), "Ada Lovelace", time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC), 1.5, true},
		{int64(2), "", nil, nil, false},
		{int64(3), "O'Brien", time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC), -2.25, nil},
	})
}

func TestReadMissing(t *testing.T) {
	s := newStore(t)
	_, err := s.Read(context.Background(), "customers")
	assert.True(t, errors.Is(err, store.ErrTableNotFound))
}

func TestRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := store.WithRunID(context.Background(), "run-1")

	v, err := s.Replace(ctx, "customers", customers())
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Number)
	assert.Equal(t, int64(3), v.Rows)
	assert.Equal(t, "run-1", v.RunID)

	got, err := s.Read(ctx, "customers")
	require.NoError(t, err)
	assert.Equal(t, customers().Schema(), got.Schema())
	assert.Equal(t, customers().Rows(), got.Rows())

	assert.FileExists(t, filepath.Join(s.root, "Tables", "customers", "v1.parquet"))
	pointer, err := os.ReadFile(filepath.Join(s.root, "Tables", "customers", "_current"))
	require.NoError(t, err)
	assert.Equal(t, "v1.parquet\n", string(pointer))
}

func TestReplaceKeepsHistory(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.Replace(ctx, "customers", customers())
	require.NoError(t, err)

	one := frame.MustNew(frame.Schema{{Name: "X", Type: frame.Int}}, [][]any{{int64(7)}})
	v2, err := s.Replace(ctx, "customers", one)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v2.Number)

	got, err := s.Read(ctx, "customers")
	require.NoError(t, err)
	assert.True(t, got.Equal(one))

	versions, err := s.Versions(ctx, "customers")
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, int64(3), versions[0].Rows)
	assert.Equal(t, int64(1), versions[1].Rows)

	// The previous file is kept.
	assert.FileExists(t, filepath.Join(s.root, "Tables", "customers", "v1.parquet"))
}

func TestReplaceEmptyTable(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	empty := frame.Empty(frame.Schema{{Name: "Date", Type: frame.Date}, {Name: "Sales", Type: frame.Float}})
	_, err := s.Replace(ctx, "sales", empty)
	require.NoError(t, err)

	got, err := s.Read(ctx, "sales")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
	assert.Equal(t, []string{"Date", "Sales"}, got.Schema().Names())
}

func TestReplaceManyRows(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	schema := frame.Schema{
		{Name: "Id", Type: frame.Int},
		{Name: "Name", Type: frame.Text},
		{Name: "Day", Type: frame.Date},
		{Name: "At", Type: frame.Timestamp},
		{Name: "Amount", Type: frame.Float},
		{Name: "Flag", Type: frame.Bool},
	}
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([][]any, 5000)
	for i := range rows {
		rows[i] = []any{
			int64(i),
			fmt.Sprintf("row-%d", i),
			start.AddDate(0, 0, i),
			start.Add(time.Duration(i) * time.Minute),
			float64(i) / 4,
			i%2 == 0,
		}
	}
	rows[42] = []any{int64(42), nil, nil, nil, nil, nil}
	want := frame.MustNew(schema, rows)

	v, err := s.Replace(ctx, "sales", want)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), v.Rows)

	got, err := s.Read(ctx, "sales")
	require.NoError(t, err)
	assert.Equal(t, schema, got.Schema())
	assert.True(t, got.Equal(want))
}

func TestReplaceFailureKeepsPrevious(t *testing.T) {
	s := newStore(t)

	_, err := s.Replace(context.Background(), "customers", customers())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Replace(ctx, "customers", frame.Empty(frame.Schema{{Name: "X", Type: frame.Int}}))
	assert.True(t, errors.Is(err, store.ErrWriteFailure))

	got, err := s.Read(context.Background(), "customers")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Len())

	versions, err := s.Versions(context.Background(), "customers")
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestInvalidPath(t *testing.T) {
	s := newStore(t)
	_, err := s.Replace(context.Background(), "../escape", customers())
	assert.True(t, errors.Is(err, store.ErrWriteFailure))
}

func TestTypeFromDuckDB(t *testing.T) {
	assert.Equal(t, frame.Int, typeFromDuckDB("INTEGER"))
	assert.Equal(t, frame.Float, typeFromDuckDB("DECIMAL(18,3)"))
	assert.Equal(t, frame.Timestamp, typeFromDuckDB("TIMESTAMP WITH TIME ZONE"))
	assert.Equal(t, frame.Text, typeFromDuckDB("UUID"))
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `'/tmp/o''brien/v1.parquet'`, quote("/tmp/o'brien/v1.parquet"))
}
