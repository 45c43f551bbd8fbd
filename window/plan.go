package window

import (
	"fmt"
	"strings"
)

// exprPlan is a validated window expression resolved against a row source
type exprPlan struct {
	index  int // position in the request
	name   string
	expr   Expr
	col    int // target column, -1 when the function takes none
	frame  FrameSpec
	offset int64 // LEAD/LAG offset
	out    int   // output slot in the result set
}

// block is a set of expressions sharing PARTITION BY and ORDER BY: they share one
// partitioning and one sort per partition
type block struct {
	partCols []int
	order    []sortKey
	plans    []*exprPlan
}

// rangeKey returns the single ORDER BY key used by RANGE offset frames
func (b *block) rangeKey() *sortKey {
	if len(b.order) != 1 {
		return nil
	}
	return &b.order[0]
}

// planExprs validates every expression against src and groups them into blocks. All
// configuration errors are reported here, before any row is processed.
func planExprs(src RowSource, exprs []Expr) ([]*exprPlan, []*block, error) {
	used := make(map[string]bool)
	for _, col := range src.Columns() {
		used[col] = true
	}

	plans := make([]*exprPlan, 0, len(exprs))
	blocks := make(map[string]*block)
	var ordered []*block

	for i, x := range exprs {
		plan, err := planExpr(src, i, x, used)
		if err != nil {
			return nil, nil, &ConfigError{Expr: i, Name: x.outputName(), Err: err}
		}
		plan.out = len(plans)
		plans = append(plans, plan)

		partCols, order, sig, err := resolveWindow(src, x.Spec)
		if err != nil {
			return nil, nil, &ConfigError{Expr: i, Name: plan.name, Err: err}
		}
		b, ok := blocks[sig]
		if !ok {
			b = &block{partCols: partCols, order: order}
			blocks[sig] = b
			ordered = append(ordered, b)
		}
		b.plans = append(b.plans, plan)
	}

	return plans, ordered, nil
}

func planExpr(src RowSource, i int, x Expr, used map[string]bool) (*exprPlan, error) {
	if _, ok := funcNames[x.Func]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFunction, int(x.Func))
	}

	name, err := uniqueName(x, used)
	if err != nil {
		return nil, err
	}

	plan := &exprPlan{index: i, name: name, expr: x, col: -1}

	switch x.Func.Family() {
	case FamilyRanking:
		if x.Column != "" {
			return nil, fmt.Errorf("%w: %s takes no column", ErrInvalidArgument, x.Func)
		}
	default:
		if x.Column == "" || x.Column == "*" {
			if x.Func != FuncCount {
				return nil, fmt.Errorf("%w: %s requires a column", ErrInvalidArgument, x.Func)
			}
			break // COUNT(*)
		}
		col, ok := src.ColumnIndex(x.Column)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, x.Column)
		}
		plan.col = col
	}

	switch x.Func {
	case FuncNTile:
		if x.N <= 0 {
			return nil, fmt.Errorf("%w: NTILE bucket count must be positive, got %d", ErrInvalidArgument, x.N)
		}
	case FuncNthValue:
		if x.N <= 0 {
			return nil, fmt.Errorf("%w: NTH_VALUE position must be positive, got %d", ErrInvalidArgument, x.N)
		}
	case FuncLag, FuncLead:
		plan.offset = 1
		if x.Offset != nil {
			plan.offset = *x.Offset
		}
		if plan.offset < 0 {
			return nil, fmt.Errorf("%w: %s offset must be non-negative, got %d", ErrInvalidArgument, x.Func, plan.offset)
		}
	}

	for _, key := range x.Spec.OrderBy {
		if key.Nulls < NullsDefault || key.Nulls > NullsLast {
			return nil, fmt.Errorf("%w: unknown null ordering %d for %q", ErrInvalidArgument, int(key.Nulls), key.Column)
		}
	}

	if x.Spec.Frame != nil {
		plan.frame = *x.Spec.Frame
	} else {
		plan.frame = DefaultFrame(len(x.Spec.OrderBy) > 0)
	}
	if err := plan.frame.Validate(len(x.Spec.OrderBy)); err != nil {
		return nil, err
	}

	return plan, nil
}

// uniqueName picks the output column name. Explicit names must not collide; derived
// names get a numeric suffix instead.
func uniqueName(x Expr, used map[string]bool) (string, error) {
	if x.Name != "" {
		if used[x.Name] {
			return "", fmt.Errorf("%w: duplicate output column %q", ErrInvalidArgument, x.Name)
		}
		used[x.Name] = true
		return x.Name, nil
	}

	base := x.outputName()
	name := base
	for n := 2; used[name]; n++ {
		name = fmt.Sprintf("%s_%d", base, n)
	}
	used[name] = true
	return name, nil
}

// resolveWindow resolves PARTITION BY and ORDER BY columns and returns a signature
// identifying the (partition, order) pair
func resolveWindow(src RowSource, spec WindowSpec) ([]int, []sortKey, string, error) {
	var sig strings.Builder

	partCols := make([]int, len(spec.PartitionBy))
	for i, name := range spec.PartitionBy {
		col, ok := src.ColumnIndex(name)
		if !ok {
			return nil, nil, "", fmt.Errorf("%w: partition key %q", ErrUnknownColumn, name)
		}
		partCols[i] = col
		fmt.Fprintf(&sig, "p%d,", col)
	}

	order := make([]sortKey, len(spec.OrderBy))
	for i, key := range spec.OrderBy {
		col, ok := src.ColumnIndex(key.Column)
		if !ok {
			return nil, nil, "", fmt.Errorf("%w: order key %q", ErrUnknownColumn, key.Column)
		}
		order[i] = sortKey{col: col, desc: key.Desc, nullsFirst: key.nullsFirst()}
		fmt.Fprintf(&sig, "o%d:%t:%t,", col, order[i].desc, order[i].nullsFirst)
	}

	return partCols, order, sig.String(), nil
}
