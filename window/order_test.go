package window

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPartitionRowsStable(t *testing.T) {
	src := singleColumn(t, "g", "b", "a", "b", nil, "a", nil, "b")

	g, _ := src.ColumnIndex("g")
	got := partitionRows(src, []int{g})

	// first appearance order, input order inside each partition, NULL equals NULL
	require.Equal(t, [][]int{{0, 2, 6}, {1, 4}, {3, 5}}, got)
}

func TestPartitionRowsNumericWidths(t *testing.T) {
	src := singleColumn(t, "g", int32(5), int64(5), 5.0, uint8(5), 5.5, "5")

	g, _ := src.ColumnIndex("g")
	got := partitionRows(src, []int{g})

	require.Equal(t, [][]int{{0, 1, 2, 3}, {4}, {5}}, got)
}

func TestPartitionRowsMultipleKeys(t *testing.T) {
	// the separator must not let ("a|", "b") collide with ("a", "|b")
	src := mustTable(t, []string{"x", "y"},
		[]interface{}{"a\x00||\x00", "b"},
		[]interface{}{"a", "\x00||\x00b"},
		[]interface{}{"a", "\x00||\x00b"},
	)

	got := partitionRows(src, []int{0, 1})
	require.Equal(t, [][]int{{0}, {1, 2}}, got)
	require.Nil(t, partitionRows(mustTable(t, []string{"x"}), []int{0}))
}

func TestNullOrdering(t *testing.T) {
	src := singleColumn(t, "v", 2, nil, 1)

	tests := []struct {
		name string
		key  OrderKey
		want []interface{}
	}{
		{"asc default nulls last", OrderKey{Column: "v"}, ints(2, 3, 1)},
		{"desc default nulls first", OrderKey{Column: "v", Desc: true}, ints(2, 1, 3)},
		{"asc nulls first", OrderKey{Column: "v", Nulls: NullsFirst}, ints(3, 1, 2)},
		{"desc nulls last", OrderKey{Column: "v", Desc: true, Nulls: NullsLast}, ints(1, 3, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := evaluate(t, src, Expr{Name: "rn", Func: FuncRowNumber, Spec: WindowSpec{OrderBy: []OrderKey{tt.key}}})
			require.Equal(t, tt.want, column(t, rs, "rn"))
		})
	}
}

func TestMultiKeyOrdering(t *testing.T) {
	src := mustTable(t, []string{"dept", "salary"},
		[]interface{}{"b", 10},
		[]interface{}{"a", 10},
		[]interface{}{"a", 30},
		[]interface{}{"b", 20},
	)

	rs := evaluate(t, src, Expr{Name: "rn", Func: FuncRowNumber, Spec: WindowSpec{
		OrderBy: []OrderKey{{Column: "dept"}, {Column: "salary", Desc: true}},
	}})

	require.Equal(t, ints(4, 2, 1, 3), column(t, rs, "rn"))
}

func TestPeerGroups(t *testing.T) {
	src := singleColumn(t, "v", 3, 1, 3, nil, 1, nil)
	keys := []sortKey{{col: 1}}
	cmp := NewComparators()

	p := &Partition{src: src, rows: []int{0, 1, 2, 3, 4, 5}}
	require.NoError(t, orderPartition(p, keys, cmp))
	require.Equal(t, []int{1, 4, 0, 2, 3, 5}, p.rows)

	peers, err := computePeerGroups(p, keys, cmp)
	require.NoError(t, err)
	require.Equal(t, 3, peers.Count())

	covered := 0
	for g := 0; g < peers.Count(); g++ {
		require.Equal(t, covered, peers.Start(g))
		require.Equal(t, 2, peers.Size(g))
		for i := peers.Start(g); i <= peers.End(g); i++ {
			require.Equal(t, g, peers.Of(i))
		}
		covered = peers.End(g) + 1
	}
	require.Equal(t, p.Len(), covered)

	// without ORDER BY the whole partition is one group
	unordered, err := computePeerGroups(p, nil, cmp)
	require.NoError(t, err)
	require.Equal(t, 1, unordered.Count())
	require.Equal(t, 5, unordered.End(0))
}

func TestOrderTypeMismatch(t *testing.T) {
	src := singleColumn(t, "v", 1, "a", 2)

	rs, err := newTestEngine(t).Evaluate(t.Context(), src, []Expr{
		{Name: "rn", Func: FuncRowNumber, Spec: WindowSpec{OrderBy: asc("v")}},
	})

	require.Nil(t, rs)
	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
	require.ErrorIs(t, err, ErrTypeMismatch)
	require.Equal(t, 0, dataErr.Expr)
	require.Contains(t, []int{0, 1, 2}, dataErr.Row)
}

func TestCompare(t *testing.T) {
	cmp := NewComparators()
	now := time.Now()

	tests := []struct {
		name string
		a, b interface{}
		want int
	}{
		{"null equals null", nil, nil, 0},
		{"null below value", nil, 1, -1},
		{"value above null", "x", nil, 1},
		{"int widths", int32(5), int64(5), 0},
		{"int vs float", 2, 2.5, -1},
		{"large ints exact", int64(1<<62 + 1), int64(1 << 62), 1},
		{"uint64 above int64", uint64(1 << 63), int64(1), 1},
		{"strings", "apple", "banana", -1},
		{"bools", true, false, 1},
		{"times", now, now.Add(time.Second), -1},
		{"bytes", []byte("b"), []byte("a"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cmp.Compare(tt.a, tt.b)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := cmp.Compare(1, "1")
	require.ErrorIs(t, err, ErrTypeMismatch)

	_, err = cmp.Compare(struct{}{}, struct{}{})
	require.ErrorIs(t, err, ErrTypeMismatch)
}

type version struct {
	major, minor int
}

func TestRegisterTypeComparator(t *testing.T) {
	src := singleColumn(t, "v", version{1, 2}, version{0, 9}, version{1, 0})
	exprs := []Expr{{Name: "rn", Func: FuncRowNumber, Spec: WindowSpec{OrderBy: asc("v")}}}

	_, err := newTestEngine(t).Evaluate(t.Context(), src, exprs)
	require.ErrorIs(t, err, ErrTypeMismatch)

	cmp := NewComparators()
	cmp.RegisterType(version{}, func(a, b interface{}) int {
		va, vb := a.(version), b.(version)
		if va.major != vb.major {
			return va.major - vb.major
		}
		return va.minor - vb.minor
	})

	rs, err := newTestEngine(t, WithComparators(cmp)).Evaluate(t.Context(), src, exprs)
	require.NoError(t, err)
	require.Equal(t, ints(3, 1, 2), column(t, rs, "rn"))
}

func TestRegisterKindComparator(t *testing.T) {
	cmp := NewComparators()
	cmp.Register(KindString, func(a, b interface{}) int {
		return strings.Compare(strings.ToLower(a.(string)), strings.ToLower(b.(string)))
	})
	src := singleColumn(t, "v", "b", "A", "a")

	rs, err := newTestEngine(t, WithComparators(cmp)).Evaluate(t.Context(), src, []Expr{
		{Name: "rnk", Func: FuncDenseRank, Spec: WindowSpec{OrderBy: asc("v")}},
	})
	require.NoError(t, err)
	require.Equal(t, ints(2, 1, 1), column(t, rs, "rnk"))
}
