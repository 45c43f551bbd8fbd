package output

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/parwin/window"
)

// NullText is how the table formatter renders NULL
const NullText = "NULL"

// TableFormatter renders rows as an aligned ASCII table for terminals
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format renders src as a table. Column headers are printed as given.
func (t *TableFormatter) Format(src window.RowSource) error {
	table := tablewriter.NewWriter(t.writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	columns := src.Columns()
	table.SetHeader(columns)
	for i := 0; i < src.Len(); i++ {
		row := make([]string, len(columns))
		for col := range columns {
			v := src.Value(i, col)
			if v == nil {
				row[col] = NullText
				continue
			}
			row[col] = formatValue(v)
		}
		table.Append(row)
	}
	table.Render()
	return nil
}
