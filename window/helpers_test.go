package window

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(append([]Option{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func mustTable(t *testing.T, columns []string, rows ...[]interface{}) *Table {
	t.Helper()
	tbl, err := NewTable(columns, rows)
	require.NoError(t, err)
	return tbl
}

// singleColumn builds a table with an "id" column (input position) and one value column
func singleColumn(t *testing.T, name string, values ...interface{}) *Table {
	t.Helper()
	rows := make([][]interface{}, len(values))
	for i, v := range values {
		rows[i] = []interface{}{int64(i), v}
	}
	return mustTable(t, []string{"id", name}, rows...)
}

func evaluate(t *testing.T, src RowSource, exprs ...Expr) *ResultSet {
	t.Helper()
	rs, err := newTestEngine(t).Evaluate(context.Background(), src, exprs)
	require.NoError(t, err)
	return rs
}

func column(t *testing.T, rs *ResultSet, name string) []interface{} {
	t.Helper()
	values, ok := rs.Column(name)
	require.True(t, ok, "missing column %q", name)
	return values
}

func asc(cols ...string) []OrderKey {
	keys := make([]OrderKey, len(cols))
	for i, col := range cols {
		keys[i] = OrderKey{Column: col}
	}
	return keys
}

func desc(col string) []OrderKey {
	return []OrderKey{{Column: col, Desc: true}}
}

func i64(v int64) *int64 { return &v }

func ints(values ...int64) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func unboundedPreceding() FrameBound { return FrameBound{Type: BoundUnboundedPreceding} }
func unboundedFollowing() FrameBound { return FrameBound{Type: BoundUnboundedFollowing} }
func currentRow() FrameBound         { return FrameBound{Type: BoundCurrentRow} }

func preceding(n int64) FrameBound {
	return FrameBound{Type: BoundOffsetPreceding, Offset: n}
}

func following(n int64) FrameBound {
	return FrameBound{Type: BoundOffsetFollowing, Offset: n}
}

func rowsFrame(start, end FrameBound) *FrameSpec {
	return &FrameSpec{Mode: FrameRows, Start: start, End: end}
}

func rangeFrame(start, end FrameBound) *FrameSpec {
	return &FrameSpec{Mode: FrameRange, Start: start, End: end}
}
