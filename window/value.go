package window

// leadLag reads column col at the row offset rows after (LEAD) or before (LAG) the
// current row in total order. The frame is ignored; rows outside the partition yield
// def.
func leadLag(ctx *EvaluationContext, col int, offset int64, def interface{}, forward bool) interface{} {
	n := int64(ctx.Partition.Len())
	if offset > n {
		return def
	}
	target := int64(ctx.Index) - offset
	if forward {
		target = int64(ctx.Index) + offset
	}
	if target < 0 || target >= n {
		return def
	}
	return ctx.Partition.Value(int(target), col)
}

// firstValue reads column col at the start of the frame
func firstValue(ctx *EvaluationContext, col int) interface{} {
	if ctx.Frame.Empty() {
		return nil
	}
	return ctx.Partition.Value(ctx.Frame.Start, col)
}

// lastValue reads column col at the end of the frame. With the default frame this is
// the last peer of the current row, not the last row of the partition.
func lastValue(ctx *EvaluationContext, col int) interface{} {
	if ctx.Frame.Empty() {
		return nil
	}
	return ctx.Partition.Value(ctx.Frame.End, col)
}

// nthValue reads column col at the n-th (1-based) row of the frame
func nthValue(ctx *EvaluationContext, col int, n int64) interface{} {
	if n > int64(ctx.Frame.Len()) {
		return nil
	}
	return ctx.Partition.Value(ctx.Frame.Start+int(n)-1, col)
}
