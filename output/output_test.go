package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/vegasq/parwin/window"
)

func testTable(t *testing.T, columns []string, rows ...[]interface{}) *window.Table {
	t.Helper()
	tbl, err := window.NewTable(columns, rows)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	return tbl
}

func salesTable(t *testing.T) *window.Table {
	return testTable(t, []string{"region", "id", "sales"},
		[]interface{}{"west", int64(1), 10.5},
		[]interface{}{"east", int64(2), nil},
		[]interface{}{"west", int64(3), 4.5},
	)
}

func TestNew(t *testing.T) {
	for _, name := range Formats() {
		if !IsSupported(name) {
			t.Errorf("IsSupported(%q) = false", name)
		}
		f, err := New(strings.ToUpper(name), &bytes.Buffer{})
		if err != nil || f == nil {
			t.Errorf("New(%q) error = %v", name, err)
		}
	}

	if IsSupported("yaml") {
		t.Error("IsSupported(yaml) = true")
	}
	if _, err := New("yaml", &bytes.Buffer{}); err == nil {
		t.Error("New(yaml) expected error")
	}
}

func TestHead(t *testing.T) {
	tbl := salesTable(t)

	if got := Head(tbl, 0).Len(); got != 3 {
		t.Errorf("Head(0).Len() = %d, want 3", got)
	}
	if got := Head(tbl, 10).Len(); got != 3 {
		t.Errorf("Head(10).Len() = %d, want 3", got)
	}

	limited := Head(tbl, 2)
	if limited.Len() != 2 {
		t.Fatalf("Head(2).Len() = %d, want 2", limited.Len())
	}
	if limited.Value(1, 1) != int64(2) {
		t.Errorf("Head(2).Value(1, 1) = %v, want 2", limited.Value(1, 1))
	}
}

func TestJSONFormatter_ColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter(&buf).Format(salesTable(t)); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), buf.String())
	}

	want := `{"region":"west","id":1,"sales":10.5}`
	if lines[0] != want {
		t.Errorf("line 0 = %s, want %s", lines[0], want)
	}
	if lines[1] != `{"region":"east","id":2,"sales":null}` {
		t.Errorf("line 1 = %s", lines[1])
	}

	for i, line := range lines {
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i, err)
		}
	}
}

func TestJSONFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter(&buf).Format(testTable(t, []string{"id"})); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}
}

func TestJSONFormatter_SpecialFloats(t *testing.T) {
	var buf bytes.Buffer
	tbl := testTable(t, []string{"x"}, []interface{}{math.NaN()}, []interface{}{math.Inf(1)})
	if err := NewJSONFormatter(&buf).Format(tbl); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if got := buf.String(); got != "{\"x\":\"NaN\"}\n{\"x\":\"+Inf\"}\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestJSONArrayFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONArrayFormatter(&buf).Format(salesTable(t)); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, buf.String())
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 objects, got %d", len(rows))
	}
	if rows[2]["sales"] != 4.5 {
		t.Errorf("rows[2].sales = %v, want 4.5", rows[2]["sales"])
	}

	buf.Reset()
	if err := NewJSONArrayFormatter(&buf).Format(testTable(t, []string{"id"})); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("empty array output = %q", buf.String())
	}
}

func TestCSVFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(salesTable(t)); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse CSV: %v", err)
	}

	want := [][]string{
		{"region", "id", "sales"},
		{"west", "1", "10.5"},
		{"east", "2", ""},
		{"west", "3", "4.5"},
	}
	if len(records) != len(want) {
		t.Fatalf("Expected %d records, got %d", len(want), len(records))
	}
	for i := range want {
		for j := range want[i] {
			if records[i][j] != want[i][j] {
				t.Errorf("record %d field %d = %q, want %q", i, j, records[i][j], want[i][j])
			}
		}
	}
}

func TestCSVFormatter_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(testTable(t, []string{"a", "b"})); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.String() != "a,b\n" {
		t.Errorf("Expected header only, got %q", buf.String())
	}
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"nil", nil, ""},
		{"string", "alice", "alice"},
		{"int", int32(42), "42"},
		{"uint", uint8(7), "7"},
		{"float", 3.14, "3.14"},
		{"float32", float32(0.5), "0.5"},
		{"bool", true, "true"},
		{"time", ts, "2024-03-01T12:30:00Z"},
		{"bytes", []byte("hi"), "aGk="},
		{"formula", "=SUM(A1)", "'=SUM(A1)"},
		{"formula with quote", "+it's", "'+it''s"},
		{"negative string", "-1", "'-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(tt.in); got != tt.want {
				t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableFormatter(&buf).Format(salesTable(t)); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"region", "sales", "west", "10.5", NullText} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
	// headers keep their case
	if strings.Contains(out, "REGION") {
		t.Errorf("headers should not be upper-cased:\n%s", out)
	}
}

func TestFormatResultSet(t *testing.T) {
	rs, err := window.Evaluate(context.Background(), salesTable(t), []window.Expr{{
		Name: "rn",
		Func: window.FuncRowNumber,
		Spec: window.WindowSpec{
			PartitionBy: []string{"region"},
			OrderBy:     []window.OrderKey{{Column: "id"}},
		},
	}})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(rs); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "region,id,sales,rn\nwest,1,10.5,1\neast,2,,1\nwest,3,4.5,2\n"
	if buf.String() != want {
		t.Errorf("CSV output = %q, want %q", buf.String(), want)
	}
}

func TestSetOutput(t *testing.T) {
	for _, name := range Formats() {
		t.Run(name, func(t *testing.T) {
			var buf1, buf2 bytes.Buffer
			f, err := New(name, &buf1)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if err := f.Format(salesTable(t)); err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			f.SetOutput(&buf2)
			if err := f.Format(salesTable(t)); err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			if buf1.String() != buf2.String() {
				t.Errorf("outputs differ:\n%s\n---\n%s", buf1.String(), buf2.String())
			}
		})
	}
}
