package window

// Ranking functions ignore the frame: they only look at the row's position in total
// order and at its peer group.

// rowNumber computes ROW_NUMBER(): the 1-based position in total order
func rowNumber(ctx *EvaluationContext) int64 {
	return int64(ctx.Index + 1)
}

// rank computes RANK(): 1 + the number of rows in strictly preceding peer groups
func rank(ctx *EvaluationContext) int64 {
	return int64(ctx.Peers.Start(ctx.Peers.Of(ctx.Index)) + 1)
}

// denseRank computes DENSE_RANK(): the 1-based ordinal of the row's peer group
func denseRank(ctx *EvaluationContext) int64 {
	return int64(ctx.Peers.Of(ctx.Index) + 1)
}

// percentRank computes PERCENT_RANK(): (rank - 1) / (rows - 1), 0 for single-row
// partitions
func percentRank(ctx *EvaluationContext) float64 {
	n := ctx.Partition.Len()
	if n <= 1 {
		return 0
	}
	return float64(rank(ctx)-1) / float64(n-1)
}

// cumeDist computes CUME_DIST(): the fraction of rows up to the end of the row's
// peer group
func cumeDist(ctx *EvaluationContext) float64 {
	end := ctx.Peers.End(ctx.Peers.Of(ctx.Index))
	return float64(end+1) / float64(ctx.Partition.Len())
}

// ntile computes NTILE(n). The first (rows mod n) buckets hold one row more than the
// rest; with more buckets than rows each row gets its own bucket.
func ntile(ctx *EvaluationContext, n int64) int64 {
	rows := int64(ctx.Partition.Len())
	i := int64(ctx.Index)

	size := rows / n
	remainder := rows % n
	large := remainder * (size + 1) // rows covered by the larger buckets

	if i < large {
		return i/(size+1) + 1
	}
	return remainder + (i-large)/size + 1
}
