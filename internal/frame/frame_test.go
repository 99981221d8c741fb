package frame

import (
	"bytes"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func people() *Table {
	return MustNew(Schema{
		{Name: "Id", Type: Int},
		{Name: "Name", Type: Text},
		{Name: "Born", Type: Date},
	}, [][]any{
		{int64(1), "Ada", date(1815, 12, 10)},
		{int64(2), "Alan", date(1912, 6, 23)},
		{int64(3), nil, nil},
	})
}

func TestNewValidation(t *testing.T) {
	_, err := New(Schema{{Name: "a", Type: Int}, {Name: "a", Type: Text}}, nil)
	assert.True(t, errors.Is(err, ErrDuplicateColumn))

	_, err = New(Schema{{Name: "a", Type: Int}}, [][]any{{int64(1), "extra"}})
	assert.True(t, errors.Is(err, ErrArity))
}

func TestNewCopiesRows(t *testing.T) {
	rows := [][]any{{int64(1)}}
	tbl := MustNew(Schema{{Name: "a", Type: Int}}, rows)
	rows[0][0] = int64(99)

	v, ok := tbl.Row(0).Int("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), v)
}

func TestSelect(t *testing.T) {
	out, err := people().Select("Name", "Id")
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Id"}, out.Schema().Names())
	assert.Equal(t, []any{"Ada", int64(1)}, out.Rows()[0])

	_, err = people().Select("Missing")
	assert.True(t, errors.Is(err, ErrUnknownColumn))
}

func TestDropIgnoresUnknown(t *testing.T) {
	out := people().Drop("Born", "NotThere")
	assert.Equal(t, []string{"Id", "Name"}, out.Schema().Names())
	assert.Equal(t, 3, out.Len())
}

func TestRename(t *testing.T) {
	src := people()
	out, err := src.Rename("Name", "FullName")
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "FullName", "Born"}, out.Schema().Names())
	assert.Equal(t, []string{"Id", "Name", "Born"}, src.Schema().Names(), "receiver must not change")

	same, err := src.Rename("Nope", "Other")
	require.NoError(t, err)
	assert.True(t, same.Equal(src))

	_, err = src.Rename("Name", "Id")
	assert.True(t, errors.Is(err, ErrDuplicateColumn))
}

func TestWithColumnAppendsAndReplaces(t *testing.T) {
	src := people()
	out := src.WithColumn("Upper", Text, func(r Row) any {
		s, ok := r.String("Name")
		if !ok {
			return nil
		}
		return s + "!"
	})
	assert.Equal(t, []string{"Id", "Name", "Born", "Upper"}, out.Schema().Names())
	assert.Equal(t, "Ada!", out.Row(0).Get("Upper"))
	assert.Nil(t, out.Row(2).Get("Upper"))

	replaced := out.WithColumn("Id", Int, func(r Row) any {
		id, _ := r.Int("Id")
		return id * 10
	})
	assert.Equal(t, out.Schema().Names(), replaced.Schema().Names())
	assert.Equal(t, int64(20), replaced.Row(1).Get("Id"))
	assert.Equal(t, int64(2), out.Row(1).Get("Id"), "receiver must not change")
}

func TestInnerJoin(t *testing.T) {
	orders := MustNew(Schema{
		{Name: "OrderId", Type: Int},
		{Name: "Customer", Type: Text},
	}, [][]any{
		{int64(10), "c1"},
		{int64(11), "c2"},
		{int64(12), "c3"},
	})
	lines := MustNew(Schema{
		{Name: "LineId", Type: Int},
		{Name: "OrderId", Type: Int},
		{Name: "Qty", Type: Int},
	}, [][]any{
		{int64(1), int64(10), int64(2)},
		{int64(2), int64(10), int64(1)},
		{int64(3), int64(99), int64(5)},
		{int64(4), nil, int64(7)},
		{int64(5), int64(11), int64(3)},
	})

	out, stats, err := lines.InnerJoin(orders, "OrderId")
	require.NoError(t, err)

	assert.Equal(t, []string{"OrderId", "LineId", "Qty", "Customer"}, out.Schema().Names())
	assert.Equal(t, [][]any{
		{int64(10), int64(1), int64(2), "c1"},
		{int64(10), int64(2), int64(1), "c1"},
		{int64(11), int64(5), int64(3), "c2"},
	}, out.Rows())

	assert.Equal(t, JoinStats{
		LeftRows:    5,
		RightRows:   3,
		OutputRows:  3,
		OrphanLeft:  2,
		OrphanRight: 1,
	}, stats)
	assert.True(t, stats.Dropped())
}

func TestInnerJoinRejectsClashingColumns(t *testing.T) {
	a := MustNew(Schema{{Name: "k", Type: Int}, {Name: "v", Type: Text}}, nil)
	b := MustNew(Schema{{Name: "k", Type: Int}, {Name: "v", Type: Text}}, nil)

	_, _, err := a.InnerJoin(b, "k")
	assert.True(t, errors.Is(err, ErrDuplicateColumn))

	_, _, err = a.InnerJoin(b, "missing")
	assert.True(t, errors.Is(err, ErrUnknownColumn))
}

func TestDateBounds(t *testing.T) {
	lo, hi, ok, err := people().DateBounds("Born")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, date(1815, 12, 10), lo)
	assert.Equal(t, date(1912, 6, 23), hi)

	_, _, ok, err = Empty(people().Schema()).DateBounds("Born")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, _, err = people().DateBounds("Nope")
	assert.True(t, errors.Is(err, ErrUnknownColumn))
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	in := time.Date(2024, 3, 15, 23, 30, 0, 0, loc)
	assert.Equal(t, date(2024, 3, 15), Day(in))
}

func TestEqualComparesTimesByInstant(t *testing.T) {
	a := MustNew(Schema{{Name: "d", Type: Date}}, [][]any{{date(2024, 1, 1)}})
	b := MustNew(Schema{{Name: "d", Type: Date}}, [][]any{{date(2024, 1, 1).In(time.Local)}})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(Empty(a.Schema())))
	assert.False(t, a.Equal(nil))
}

func TestPrintSchemaAndShow(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, people().PrintSchema(&buf))
	assert.Contains(t, buf.String(), " |-- Born: date (nullable = true)")

	buf.Reset()
	require.NoError(t, people().Show(&buf, 2))
	out := buf.String()
	assert.Contains(t, out, "1815-12-10")
	assert.NotContains(t, out, "NULL")
	assert.Contains(t, out, "only showing top 2 of 3 rows")
}

func TestShowNegativeCount(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, people().Show(&buf, -1))
	assert.Contains(t, buf.String(), "only showing top 0 of 3 rows")
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, int64(0), DaysBetween(date(2024, 3, 15), date(2024, 3, 15)))
	assert.Equal(t, int64(366), DaysBetween(date(2024, 1, 1), date(2025, 1, 1)))
	assert.Equal(t, int64(-1), DaysBetween(date(2024, 3, 15), date(2024, 3, 14)))
	assert.Equal(t, int64(118504), DaysBetween(date(1700, 1, 1), date(2024, 6, 15)))

	loc := time.FixedZone("UTC-5", -5*3600)
	assert.Equal(t, int64(1), DaysBetween(date(2024, 3, 15), time.Date(2024, 3, 16, 23, 0, 0, 0, loc)))
}
