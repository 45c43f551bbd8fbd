package window

import (
	"fmt"
	"strings"
)

// normalizeName upper-cases a textual name and folds separators to underscores
func normalizeName(s string) string {
	s = strings.TrimSpace(strings.ToUpper(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.Join(strings.Fields(s), "_")
}

// ParseFuncKind maps a function name such as "row_number" or "LAG" to its FuncKind
func ParseFuncKind(s string) (FuncKind, error) {
	name := normalizeName(s)
	for kind, n := range funcNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFunction, s)
}

// ParseFrameMode maps "rows" or "range" to a FrameMode
func ParseFrameMode(s string) (FrameMode, error) {
	switch normalizeName(s) {
	case "ROWS":
		return FrameRows, nil
	case "RANGE":
		return FrameRange, nil
	default:
		return 0, fmt.Errorf("%w: unknown frame mode %q", ErrInvalidFrame, s)
	}
}

// ParseBoundType maps a bound name to a BoundType.
// Accepted names: "unbounded preceding", "preceding", "current row", "following",
// "unbounded following".
func ParseBoundType(s string) (BoundType, error) {
	switch normalizeName(s) {
	case "UNBOUNDED_PRECEDING":
		return BoundUnboundedPreceding, nil
	case "PRECEDING":
		return BoundOffsetPreceding, nil
	case "CURRENT_ROW", "CURRENT":
		return BoundCurrentRow, nil
	case "FOLLOWING":
		return BoundOffsetFollowing, nil
	case "UNBOUNDED_FOLLOWING":
		return BoundUnboundedFollowing, nil
	default:
		return 0, fmt.Errorf("%w: unknown frame bound %q", ErrInvalidFrame, s)
	}
}

// ParseNullOrder maps "first", "last" or "" to a NullOrder
func ParseNullOrder(s string) (NullOrder, error) {
	switch normalizeName(s) {
	case "", "DEFAULT":
		return NullsDefault, nil
	case "FIRST", "NULLS_FIRST":
		return NullsFirst, nil
	case "LAST", "NULLS_LAST":
		return NullsLast, nil
	default:
		return 0, fmt.Errorf("%w: unknown null ordering %q", ErrInvalidArgument, s)
	}
}
