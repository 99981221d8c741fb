package db

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-goldlayer/internal/store"
	"github.com/pgEdge/pgedge-goldlayer/pkg/version"
)

func TestIdent(t *testing.T) {
	assert.Equal(t, `"public"."sales"`, Ident("public", "sales"))
	assert.Equal(t, `"sales"`, Ident("", "sales"))
	assert.Equal(t, `"gold"."odd""name"`, Ident("gold", `odd"name`))
}

func TestEnsureVersionTable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS "gold"."goldlayer_table_versions"`)).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, EnsureVersionTable(context.Background(), mock, "gold"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordVersion(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	written := time.Date(2024, 6, 15, 10, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "public"."goldlayer_table_versions"`)).
		WithArgs("sales", int64(42), "run-1", version.Short()).
		WillReturnRows(pgxmock.NewRows([]string{"version", "written_at"}).AddRow(int64(3), written))

	v, err := RecordVersion(context.Background(), mock, "public", "sales", 42, "run-1")
	require.NoError(t, err)
	assert.Equal(t, store.Version{
		Path:      "sales",
		Number:    3,
		Rows:      42,
		RunID:     "run-1",
		WrittenAt: written.UTC(),
	}, v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListVersions(t *testing.T) {
	t.Run("nominal", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		at := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
		mock.ExpectQuery(regexp.QuoteMeta(
			`SELECT path, version, row_count, run_id, written_at FROM "public"."goldlayer_table_versions" WHERE path = $1 ORDER BY version`)).
			WithArgs("calendar").
			WillReturnRows(pgxmock.NewRows([]string{"path", "version", "row_count", "run_id", "written_at"}).
				AddRow("calendar", int64(1), int64(731), "a", at).
				AddRow("calendar", int64(2), int64(731), "b", at.Add(time.Hour)))

		versions, err := ListVersions(context.Background(), mock, "public", "calendar")
		require.NoError(t, err)
		require.Len(t, versions, 2)
		assert.Equal(t, int64(2), versions[1].Number)
		assert.Equal(t, "b", versions[1].RunID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no log yet", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT path").
			WithArgs("calendar").
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UndefinedTable})

		versions, err := ListVersions(context.Background(), mock, "public", "calendar")
		require.NoError(t, err)
		assert.Empty(t, versions)
	})

	t.Run("query error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT path").
			WithArgs("calendar").
			WillReturnError(assert.AnError)

		_, err = ListVersions(context.Background(), mock, "public", "calendar")
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestIsUndefinedTable(t *testing.T) {
	assert.True(t, IsUndefinedTable(&pgconn.PgError{Code: pgerrcode.UndefinedTable}))
	assert.False(t, IsUndefinedTable(&pgconn.PgError{Code: pgerrcode.UniqueViolation}))
	assert.False(t, IsUndefinedTable(assert.AnError))
}
