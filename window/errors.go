package window

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownColumn is returned when a window expression references a missing column
	ErrUnknownColumn = errors.New("unknown column")
	// ErrUnknownFunction is returned for an unrecognized function kind or name
	ErrUnknownFunction = errors.New("unknown window function")
	// ErrInvalidArgument is returned for bad NTILE/NTH_VALUE/LEAD/LAG arguments
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidFrame is returned for malformed frame specifications
	ErrInvalidFrame = errors.New("invalid frame")
	// ErrTypeMismatch is returned when a value cannot be used by a function or comparison
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrOverflow is returned when an integer SUM leaves the int64 range
	ErrOverflow = errors.New("numeric overflow")
)

// ConfigError reports a window expression rejected before any row was processed
type ConfigError struct {
	Expr int    // Index of the expression in the request
	Name string // Output name of the expression
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("window expression %d (%s): %v", e.Expr, e.Name, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// DataError reports a value that could not be evaluated. Row is the original input
// position of the offending row.
type DataError struct {
	Expr int
	Name string
	Row  int
	Err  error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("window expression %d (%s): row %d: %v", e.Expr, e.Name, e.Row, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// rowError carries a failure at an original row position until the engine knows
// which expression to attribute it to
type rowError struct {
	pos int
	err error
}

func (e *rowError) Error() string { return e.err.Error() }

func (e *rowError) Unwrap() error { return e.err }
