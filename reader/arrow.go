package reader

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/vegasq/parwin/window"
)

// FromArrowRecord copies an Arrow record batch into a window.Table. Null slots become
// NULL; dates and timestamps become time.Time.
func FromArrowRecord(rec arrow.Record) (*window.Table, error) {
	fields := rec.Schema().Fields()
	columns := make([]string, len(fields))
	for i, field := range fields {
		columns[i] = field.Name
	}

	n := int(rec.NumRows())
	rows := make([][]interface{}, n)
	for i := range rows {
		rows[i] = make([]interface{}, len(columns))
	}

	for c := range columns {
		arr := rec.Column(c)
		for i := 0; i < n; i++ {
			v, err := arrowValue(arr, i)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", columns[c], err)
			}
			rows[i][c] = v
		}
	}

	return window.NewTable(columns, rows)
}

// FromArrowRecords concatenates record batches sharing one schema
func FromArrowRecords(recs []arrow.Record) (*window.Table, error) {
	if len(recs) == 0 {
		return window.NewTable(nil, nil)
	}

	var (
		columns []string
		rows    [][]interface{}
	)
	for i, rec := range recs {
		if i > 0 && !rec.Schema().Equal(recs[0].Schema()) {
			return nil, fmt.Errorf("record %d: schema %s does not match %s", i, rec.Schema(), recs[0].Schema())
		}
		tbl, err := FromArrowRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		columns = tbl.Columns()
		for r := 0; r < tbl.Len(); r++ {
			rows = append(rows, tbl.Row(r).Values)
		}
	}
	return window.NewTable(columns, rows)
}

func arrowValue(arr arrow.Array, i int) (interface{}, error) {
	if arr.IsNull(i) {
		return nil, nil
	}

	switch a := arr.(type) {
	case *array.Boolean:
		return a.Value(i), nil
	case *array.Int8:
		return a.Value(i), nil
	case *array.Int16:
		return a.Value(i), nil
	case *array.Int32:
		return a.Value(i), nil
	case *array.Int64:
		return a.Value(i), nil
	case *array.Uint8:
		return a.Value(i), nil
	case *array.Uint16:
		return a.Value(i), nil
	case *array.Uint32:
		return a.Value(i), nil
	case *array.Uint64:
		return a.Value(i), nil
	case *array.Float32:
		return a.Value(i), nil
	case *array.Float64:
		return a.Value(i), nil
	case *array.String:
		return a.Value(i), nil
	case *array.LargeString:
		return a.Value(i), nil
	case *array.Binary:
		// the slice aliases the Arrow buffer, which is released with the record
		return append([]byte(nil), a.Value(i)...), nil
	case *array.Date32:
		return a.Value(i).ToTime(), nil
	case *array.Date64:
		return a.Value(i).ToTime(), nil
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(i).ToTime(unit), nil
	default:
		return nil, fmt.Errorf("unsupported arrow type %s", arr.DataType())
	}
}
