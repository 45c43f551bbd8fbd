package window

import "strings"

// FuncKind identifies a window function
type FuncKind int

const (
	// Ranking functions
	FuncRowNumber FuncKind = iota
	FuncRank
	FuncDenseRank
	FuncPercentRank
	FuncCumeDist
	FuncNTile

	// Aggregate functions
	FuncSum
	FuncAvg
	FuncCount
	FuncMin
	FuncMax

	// Value functions
	FuncLag
	FuncLead
	FuncFirstValue
	FuncLastValue
	FuncNthValue
)

// Family groups window functions by how they consume the evaluation context
type Family int

const (
	FamilyRanking Family = iota
	FamilyAggregate
	FamilyValue
)

var funcNames = map[FuncKind]string{
	FuncRowNumber:   "ROW_NUMBER",
	FuncRank:        "RANK",
	FuncDenseRank:   "DENSE_RANK",
	FuncPercentRank: "PERCENT_RANK",
	FuncCumeDist:    "CUME_DIST",
	FuncNTile:       "NTILE",
	FuncSum:         "SUM",
	FuncAvg:         "AVG",
	FuncCount:       "COUNT",
	FuncMin:         "MIN",
	FuncMax:         "MAX",
	FuncLag:         "LAG",
	FuncLead:        "LEAD",
	FuncFirstValue:  "FIRST_VALUE",
	FuncLastValue:   "LAST_VALUE",
	FuncNthValue:    "NTH_VALUE",
}

// String returns the SQL name of the function
func (k FuncKind) String() string {
	if name, ok := funcNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Family returns the function family of k
func (k FuncKind) Family() Family {
	switch k {
	case FuncSum, FuncAvg, FuncCount, FuncMin, FuncMax:
		return FamilyAggregate
	case FuncLag, FuncLead, FuncFirstValue, FuncLastValue, FuncNthValue:
		return FamilyValue
	default:
		return FamilyRanking
	}
}

// usesFrame reports whether the function reads the resolved frame.
// Ranking functions and LEAD/LAG operate on the whole ordered partition.
func (k FuncKind) usesFrame() bool {
	switch k {
	case FuncSum, FuncAvg, FuncCount, FuncMin, FuncMax, FuncFirstValue, FuncLastValue, FuncNthValue:
		return true
	default:
		return false
	}
}

// NullOrder controls where NULLs sort relative to non-NULL values
type NullOrder int

const (
	// NullsDefault sorts NULLs last for ascending keys and first for descending keys
	NullsDefault NullOrder = iota
	NullsFirst
	NullsLast
)

// OrderKey is one ORDER BY key of a window
type OrderKey struct {
	Column string    // Column name
	Desc   bool      // DESC vs ASC (default)
	Nulls  NullOrder // NULL placement
}

// nullsFirst resolves the effective NULL placement of the key
func (k OrderKey) nullsFirst() bool {
	switch k.Nulls {
	case NullsFirst:
		return true
	case NullsLast:
		return false
	default:
		return k.Desc
	}
}

// WindowSpec specifies the window behavior
type WindowSpec struct {
	PartitionBy []string   // PARTITION BY column names
	OrderBy     []OrderKey // ORDER BY specification
	Frame       *FrameSpec // Frame specification (nil = function default)
}

// Expr is one window expression to evaluate: a function applied over a window
type Expr struct {
	Name    string      // Output column name (defaults to the lower-cased function name)
	Func    FuncKind    // Window function
	Column  string      // Target column; empty for ranking functions and COUNT(*)
	Spec    WindowSpec  // OVER clause
	Offset  *int64      // LEAD/LAG offset (nil = 1)
	Default interface{} // LEAD/LAG value for out-of-range rows
	N       int64       // NTILE bucket count, NTH_VALUE position
}

// outputName returns the name used when none was given
func (x Expr) outputName() string {
	if x.Name != "" {
		return x.Name
	}
	return strings.ToLower(x.Func.String())
}

// Row is an input row: its column values plus its original input position
type Row struct {
	Pos    int
	Values []interface{}
}

// FrameWindow is the resolved, inclusive, partition-local frame of one row.
// End < Start denotes an empty frame.
type FrameWindow struct {
	Start int
	End   int
}

// Empty reports whether the frame contains no rows
func (w FrameWindow) Empty() bool {
	return w.End < w.Start
}

// Len returns the number of rows in the frame
func (w FrameWindow) Len() int {
	if w.Empty() {
		return 0
	}
	return w.End - w.Start + 1
}

// EvaluationContext is the per-row input every function evaluator consumes
type EvaluationContext struct {
	Partition *Partition  // Ordered partition the row belongs to
	Index     int         // Row index within the partition
	Frame     FrameWindow // Resolved frame (whole partition for frame-independent functions)
	Peers     *PeerGroups // Peer groups of the partition
}
