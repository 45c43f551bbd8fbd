package window

import (
	"fmt"
	"sort"
)

// RowSource is the column-value reader the engine consumes. Value returns nil for
// SQL NULL.
type RowSource interface {
	// Len returns the number of rows
	Len() int

	// Columns returns the column names in positional order
	Columns() []string

	// ColumnIndex resolves a column name to its position
	ColumnIndex(name string) (int, bool)

	// Value returns the value of column col in row
	Value(row, col int) interface{}
}

// columnar is implemented by sources that can hand out a whole column at once
type columnar interface {
	Column(col int) []interface{}
}

// ColumnValues returns all values of column col, using the source's columnar access
// when it has one.
func ColumnValues(src RowSource, col int) []interface{} {
	if c, ok := src.(columnar); ok {
		return c.Column(col)
	}
	values := make([]interface{}, src.Len())
	for i := range values {
		values[i] = src.Value(i, col)
	}
	return values
}

// Table is an in-memory RowSource
type Table struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// NewTable creates a table from positional rows. Every row must have one value per
// column.
func NewTable(columns []string, rows [][]interface{}) (*Table, error) {
	index, err := indexColumns(columns)
	if err != nil {
		return nil, err
	}

	t := &Table{
		columns: columns,
		index:   index,
		rows:    make([]Row, len(rows)),
	}
	for i, values := range rows {
		if len(values) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(values), len(columns))
		}
		t.rows[i] = Row{Pos: i, Values: values}
	}
	return t, nil
}

// TableFromMaps adapts map-shaped rows. When columns is empty the sorted union of all
// row keys is used. Missing keys read as NULL.
func TableFromMaps(columns []string, rows []map[string]interface{}) *Table {
	if len(columns) == 0 {
		columnSet := make(map[string]bool)
		for _, row := range rows {
			for col := range row {
				columnSet[col] = true
			}
		}
		columns = make([]string, 0, len(columnSet))
		for col := range columnSet {
			columns = append(columns, col)
		}
		sort.Strings(columns)
	}

	index := make(map[string]int, len(columns))
	deduped := make([]string, 0, len(columns))
	for _, col := range columns {
		if _, dup := index[col]; dup {
			continue
		}
		index[col] = len(deduped)
		deduped = append(deduped, col)
	}

	t := &Table{
		columns: deduped,
		index:   index,
		rows:    make([]Row, len(rows)),
	}
	for i, row := range rows {
		values := make([]interface{}, len(deduped))
		for j, col := range deduped {
			values[j] = row[col]
		}
		t.rows[i] = Row{Pos: i, Values: values}
	}
	return t
}

func indexColumns(columns []string) (map[string]int, error) {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if _, dup := index[col]; dup {
			return nil, fmt.Errorf("duplicate column %q", col)
		}
		index[col] = i
	}
	return index, nil
}

// Len returns the number of rows
func (t *Table) Len() int { return len(t.rows) }

// Columns returns the column names
func (t *Table) Columns() []string { return t.columns }

// ColumnIndex resolves a column name
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Value returns one cell
func (t *Table) Value(row, col int) interface{} {
	return t.rows[row].Values[col]
}

// Row returns the i-th row
func (t *Table) Row(i int) Row { return t.rows[i] }

// Column returns a copy of all values of column col
func (t *Table) Column(col int) []interface{} {
	values := make([]interface{}, len(t.rows))
	for i, row := range t.rows {
		values[i] = row.Values[col]
	}
	return values
}
