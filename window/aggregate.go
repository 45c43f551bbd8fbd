package window

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// aggState is the running accumulator of one aggregate expression over one
// partition. Frames of consecutive rows only ever move forward, so the state follows
// them by adding rows that enter and removing rows that leave instead of re-folding
// the whole frame.
type aggState struct {
	kind FuncKind
	col  int // -1 for COUNT(*)
	p    *Partition
	cmp  *Comparators

	// accumulated window [start, end]; end < start means empty
	start, end int

	sum    decimal.Decimal
	count  int64 // rows (COUNT(*)) or non-NULL values in the window
	nonInt int64 // non-integer values in the window

	// MIN/MAX: partition indices whose values are candidates, best first
	deque []int
}

func newAggState(kind FuncKind, col int, p *Partition, cmp *Comparators) *aggState {
	a := &aggState{kind: kind, col: col, p: p, cmp: cmp}
	a.reset(0)
	return a
}

// reset empties the accumulator and positions it before row start
func (a *aggState) reset(start int) {
	a.start, a.end = start, start-1
	a.sum = decimal.Zero
	a.count = 0
	a.nonInt = 0
	a.deque = a.deque[:0]
}

// advance moves the accumulated window to w
func (a *aggState) advance(w FrameWindow) error {
	if w.Empty() {
		a.reset(w.Start)
		return nil
	}
	if a.end < a.start || w.Start < a.start || w.End < a.end || w.Start > a.end {
		a.reset(w.Start)
	}

	for a.start < w.Start {
		if err := a.remove(a.start); err != nil {
			return err
		}
		a.start++
	}
	for a.end < w.End {
		a.end++
		if err := a.add(a.end); err != nil {
			return err
		}
	}
	return nil
}

func (a *aggState) add(i int) error {
	if a.col < 0 {
		a.count++
		return nil
	}
	v := a.p.Value(i, a.col)
	if v == nil {
		return nil
	}

	switch a.kind {
	case FuncCount:
		a.count++
	case FuncSum, FuncAvg:
		d, isInt, err := toDecimal(v)
		if err != nil {
			return &rowError{pos: a.p.Pos(i), err: fmt.Errorf("%s: %w", a.kind, err)}
		}
		a.sum = a.sum.Add(d)
		a.count++
		if !isInt {
			a.nonInt++
		}
	case FuncMin, FuncMax:
		if err := a.cmp.Orderable(v); err != nil {
			return &rowError{pos: a.p.Pos(i), err: fmt.Errorf("%s: %w", a.kind, err)}
		}
		for len(a.deque) > 0 {
			last := a.deque[len(a.deque)-1]
			c, err := a.cmp.Compare(a.p.Value(last, a.col), v)
			if err != nil {
				return &rowError{pos: a.p.Pos(i), err: fmt.Errorf("%s: %w", a.kind, err)}
			}
			// drop candidates the new value dominates
			if (a.kind == FuncMax && c > 0) || (a.kind == FuncMin && c < 0) {
				break
			}
			a.deque = a.deque[:len(a.deque)-1]
		}
		a.deque = append(a.deque, i)
		a.count++
	}
	return nil
}

func (a *aggState) remove(i int) error {
	if a.col < 0 {
		a.count--
		return nil
	}
	v := a.p.Value(i, a.col)
	if v == nil {
		return nil
	}

	switch a.kind {
	case FuncCount:
		a.count--
	case FuncSum, FuncAvg:
		// already validated when the row entered the window
		d, isInt, _ := toDecimal(v)
		a.sum = a.sum.Sub(d)
		a.count--
		if !isInt {
			a.nonInt--
		}
	case FuncMin, FuncMax:
		if len(a.deque) > 0 && a.deque[0] == i {
			a.deque = a.deque[1:]
		}
		a.count--
	}
	return nil
}

var (
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
	minInt64 = decimal.NewFromInt(math.MinInt64)
)

// result returns the aggregate of the accumulated window. An integer SUM outside
// the int64 range fails with ErrOverflow.
func (a *aggState) result() (interface{}, error) {
	switch a.kind {
	case FuncCount:
		return a.count, nil
	case FuncSum:
		if a.count == 0 {
			return nil, nil // Return NULL if no values
		}
		if a.nonInt == 0 {
			if a.sum.GreaterThan(maxInt64) || a.sum.LessThan(minInt64) {
				return nil, fmt.Errorf("%s: %w: %s does not fit in int64", a.kind, ErrOverflow, a.sum)
			}
			return a.sum.IntPart(), nil
		}
		return a.sum.InexactFloat64(), nil
	case FuncAvg:
		if a.count == 0 {
			return nil, nil
		}
		return a.sum.Div(decimal.NewFromInt(a.count)).InexactFloat64(), nil
	case FuncMin, FuncMax:
		if len(a.deque) == 0 {
			return nil, nil
		}
		return a.p.Value(a.deque[0], a.col), nil
	default:
		return nil, nil
	}
}

// toDecimal converts a numeric value to an exact decimal and reports whether it is
// an integer type
func toDecimal(v interface{}) (decimal.Decimal, bool, error) {
	if i, ok := toInt64(v); ok {
		return decimal.NewFromInt(i), true, nil
	}
	switch val := v.(type) {
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(val)), 0), true, nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(val), 0), true, nil
	case float32:
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return decimal.Zero, false, fmt.Errorf("%w: non-finite value %v", ErrTypeMismatch, val)
		}
		return decimal.NewFromFloat32(val), false, nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return decimal.Zero, false, fmt.Errorf("%w: non-finite value %v", ErrTypeMismatch, val)
		}
		return decimal.NewFromFloat(val), false, nil
	default:
		return decimal.Zero, false, fmt.Errorf("%w: cannot convert %T to number", ErrTypeMismatch, v)
	}
}
