package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/vegasq/parwin/window"
)

// JSONFormatter outputs rows as JSON Lines format
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes rows as JSON Lines (one JSON object per line)
func (j *JSONFormatter) Format(src window.RowSource) error {
	bw := bufio.NewWriter(j.writer)
	for i := 0; i < src.Len(); i++ {
		if err := writeObject(bw, src, i); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// JSONArrayFormatter outputs all rows as a single JSON array
type JSONArrayFormatter struct {
	writer io.Writer
}

// NewJSONArrayFormatter creates a new JSON array formatter
func NewJSONArrayFormatter(w io.Writer) *JSONArrayFormatter {
	return &JSONArrayFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONArrayFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes rows as one JSON array, one object per line
func (j *JSONArrayFormatter) Format(src window.RowSource) error {
	bw := bufio.NewWriter(j.writer)
	if _, err := bw.WriteString("["); err != nil {
		return err
	}
	for i := 0; i < src.Len(); i++ {
		sep := ",\n"
		if i == 0 {
			sep = "\n"
		}
		if _, err := bw.WriteString(sep); err != nil {
			return err
		}
		if err := writeObject(bw, src, i); err != nil {
			return err
		}
	}
	if src.Len() > 0 {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("]\n"); err != nil {
		return err
	}
	return bw.Flush()
}

// writeObject encodes row i as a JSON object with keys in column order. Maps would
// sort the keys, losing the source order.
func writeObject(w *bufio.Writer, src window.RowSource, i int) error {
	if err := w.WriteByte('{'); err != nil {
		return err
	}
	for c, col := range src.Columns() {
		if c > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		key, err := json.Marshal(col)
		if err != nil {
			return err
		}
		val, err := json.Marshal(jsonValue(src.Value(i, c)))
		if err != nil {
			return fmt.Errorf("row %d column %q: %w", i, col, err)
		}
		if _, err := w.Write(key); err != nil {
			return err
		}
		if err := w.WriteByte(':'); err != nil {
			return err
		}
		if _, err := w.Write(val); err != nil {
			return err
		}
	}
	return w.WriteByte('}')
}

// jsonValue maps values JSON cannot encode. NaN and infinities become strings.
func jsonValue(v interface{}) interface{} {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Sprint(val)
		}
	case float32:
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return fmt.Sprint(val)
		}
	}
	return v
}
