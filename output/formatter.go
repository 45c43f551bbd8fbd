package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/parwin/window"
)

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to write a row source in the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes every row of src in the formatter's specific format, columns in
	// src's column order
	Format(src window.RowSource) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

const (
	FormatJSONLines = "jsonl"
	FormatJSON      = "json"
	FormatCSV       = "csv"
	FormatTable     = "table"
)

var constructors = map[string]func(io.Writer) Formatter{
	FormatJSONLines: func(w io.Writer) Formatter { return NewJSONFormatter(w) },
	FormatJSON:      func(w io.Writer) Formatter { return NewJSONArrayFormatter(w) },
	FormatCSV:       func(w io.Writer) Formatter { return NewCSVFormatter(w) },
	FormatTable:     func(w io.Writer) Formatter { return NewTableFormatter(w) },
}

// Formats lists the supported format names
func Formats() []string {
	return []string{FormatJSONLines, FormatJSON, FormatCSV, FormatTable}
}

// IsSupported reports whether name is a known format (case-insensitive)
func IsSupported(name string) bool {
	_, ok := constructors[strings.ToLower(name)]
	return ok
}

// New returns the formatter registered under format, writing to w
func New(format string, w io.Writer) (Formatter, error) {
	ctor, ok := constructors[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("unsupported output format %q (supported: %s)", format, strings.Join(Formats(), ", "))
	}
	return ctor(w), nil
}

// Head limits src to its first n rows. n <= 0 returns src unchanged.
func Head(src window.RowSource, n int) window.RowSource {
	if n <= 0 || n >= src.Len() {
		return src
	}
	return head{RowSource: src, n: n}
}

type head struct {
	window.RowSource
	n int
}

func (h head) Len() int { return h.n }
