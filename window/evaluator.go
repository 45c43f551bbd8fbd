package window

import "fmt"

// exprState is the per-partition evaluation state of one expression. A fresh state
// is built for every partition so partitions never share accumulators.
type exprState struct {
	plan   *exprPlan
	frames *frameResolver // nil for frame-independent functions
	agg    *aggState      // aggregates only
}

func newExprState(plan *exprPlan, p *Partition, peers *PeerGroups, key *sortKey, cmp *Comparators) (*exprState, error) {
	st := &exprState{plan: plan}
	if plan.expr.Func.usesFrame() {
		fr, err := newFrameResolver(plan.frame, p, peers, key)
		if err != nil {
			return nil, err
		}
		st.frames = fr
	}
	if plan.expr.Func.Family() == FamilyAggregate {
		st.agg = newAggState(plan.expr.Func, plan.col, p, cmp)
	}
	return st, nil
}

// eval produces the value of the expression for the row at ctx.Index. Rows must be
// evaluated in total order because aggregates carry running state.
func (s *exprState) eval(ctx *EvaluationContext) (interface{}, error) {
	if s.frames != nil {
		ctx.Frame = s.frames.resolve(ctx.Index)
	} else {
		ctx.Frame = FrameWindow{Start: 0, End: ctx.Partition.Len() - 1}
	}

	x := &s.plan.expr
	switch x.Func {
	case FuncRowNumber:
		return rowNumber(ctx), nil
	case FuncRank:
		return rank(ctx), nil
	case FuncDenseRank:
		return denseRank(ctx), nil
	case FuncPercentRank:
		return percentRank(ctx), nil
	case FuncCumeDist:
		return cumeDist(ctx), nil
	case FuncNTile:
		return ntile(ctx, x.N), nil
	case FuncSum, FuncAvg, FuncCount, FuncMin, FuncMax:
		if err := s.agg.advance(ctx.Frame); err != nil {
			return nil, err
		}
		v, err := s.agg.result()
		if err != nil {
			return nil, &rowError{pos: ctx.Partition.Pos(ctx.Index), err: err}
		}
		return v, nil
	case FuncLag:
		return leadLag(ctx, s.plan.col, s.plan.offset, x.Default, false), nil
	case FuncLead:
		return leadLag(ctx, s.plan.col, s.plan.offset, x.Default, true), nil
	case FuncFirstValue:
		return firstValue(ctx, s.plan.col), nil
	case FuncLastValue:
		return lastValue(ctx, s.plan.col), nil
	case FuncNthValue:
		return nthValue(ctx, s.plan.col, x.N), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFunction, int(x.Func))
	}
}
