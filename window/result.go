package window

import "fmt"

// ResultSet holds the source columns followed by one column per evaluated window
// expression. Rows keep their original input positions. A ResultSet is itself a
// RowSource, so it can feed another evaluation pass.
type ResultSet struct {
	src     RowSource
	columns []string
	index   map[string]int
	extra   [][]interface{} // appended columns, indexed by row position
}

func newResultSet(src RowSource, plans []*exprPlan) *ResultSet {
	rs := &ResultSet{
		src:     src,
		columns: append([]string(nil), src.Columns()...),
		index:   make(map[string]int),
		extra:   make([][]interface{}, 0, len(plans)),
	}
	for i, col := range rs.columns {
		rs.index[col] = i
	}
	for _, plan := range plans {
		rs.index[plan.name] = len(rs.columns)
		rs.columns = append(rs.columns, plan.name)
		rs.extra = append(rs.extra, make([]interface{}, src.Len()))
	}
	return rs
}

// Len returns the number of rows
func (r *ResultSet) Len() int { return r.src.Len() }

// Columns returns all column names: source columns first, then appended columns
func (r *ResultSet) Columns() []string { return r.columns }

// ColumnIndex resolves a column name
func (r *ResultSet) ColumnIndex(name string) (int, bool) {
	i, ok := r.index[name]
	return i, ok
}

// Value returns column col of the row at original position row
func (r *ResultSet) Value(row, col int) interface{} {
	base := len(r.src.Columns())
	if col < base {
		return r.src.Value(row, col)
	}
	return r.extra[col-base][row]
}

// Row returns all values of the row at original position i
func (r *ResultSet) Row(i int) []interface{} {
	values := make([]interface{}, len(r.columns))
	for col := range r.columns {
		values[col] = r.Value(i, col)
	}
	return values
}

// Column returns the values of the named column by row position
func (r *ResultSet) Column(name string) ([]interface{}, bool) {
	col, ok := r.index[name]
	if !ok {
		return nil, false
	}
	base := len(r.src.Columns())
	if col >= base {
		return append([]interface{}(nil), r.extra[col-base]...), true
	}
	return ColumnValues(r.src, col), true
}

// AppendColumn adds a column computed elsewhere. values must have one entry per row.
func (r *ResultSet) AppendColumn(name string, values []interface{}) error {
	if _, exists := r.index[name]; exists {
		return fmt.Errorf("column %q already exists", name)
	}
	if len(values) != r.Len() {
		return fmt.Errorf("column %q has %d values, expected %d", name, len(values), r.Len())
	}
	r.index[name] = len(r.columns)
	r.columns = append(r.columns, name)
	r.extra = append(r.extra, values)
	return nil
}

// Maps returns the rows as column-name keyed maps, in original order
func (r *ResultSet) Maps() []map[string]interface{} {
	rows := make([]map[string]interface{}, r.Len())
	for i := range rows {
		row := make(map[string]interface{}, len(r.columns))
		for col, name := range r.columns {
			row[name] = r.Value(i, col)
		}
		rows[i] = row
	}
	return rows
}

// commit writes one partition's outputs for one expression. Partitions own disjoint
// row positions, so concurrent commits never touch the same slot.
func (r *ResultSet) commit(out int, p *Partition, values []interface{}) {
	column := r.extra[out]
	for i, v := range values {
		column[p.Pos(i)] = v
	}
}
