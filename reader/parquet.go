package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/parwin/window"
)

// FileColumn is the provenance column added to rows read through a glob pattern
const FileColumn = "_file"

// maxFiles bounds how many files a glob pattern may expand to
const maxFiles = 1000

// Reader reads a parquet file into window row sources.
//
// It maintains both an OS file handle and a parquet file handle to enable
// proper resource cleanup.
type Reader struct {
	file   *os.File
	pqFile *parquet.File
}

// NewReader opens path and validates it as a parquet file.
//
// Example:
//
//	r, err := reader.NewReader("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &Reader{
		file:   file,
		pqFile: pqFile,
	}, nil
}

// NumRows returns the row count recorded in the file metadata
func (r *Reader) NumRows() int64 {
	return r.pqFile.NumRows()
}

// Columns returns the table column names in schema order. Fields of nested groups
// are flattened into dot-named columns such as "address.city"; repeated fields,
// LIST and MAP columns stay single columns.
func (r *Reader) Columns() []string {
	return appendColumns(nil, r.pqFile.Schema().Fields(), "")
}

func appendColumns(columns []string, fields []parquet.Field, prefix string) []string {
	for _, field := range fields {
		name := prefix + field.Name()
		if isStruct(field) {
			columns = appendColumns(columns, field.Fields(), name+".")
			continue
		}
		columns = append(columns, name)
	}
	return columns
}

// isStruct reports whether field is a plain non-repeated group
func isStruct(field parquet.Field) bool {
	if field.Leaf() || field.Repeated() {
		return false
	}
	typ := field.Type()
	return typ == nil || typ.LogicalType() == nil
}

// flattenRow copies the values of row into out under the names Columns returns.
// Fields of a NULL group read as NULL.
func flattenRow(out, row map[string]interface{}, fields []parquet.Field, prefix string) {
	for _, field := range fields {
		name := prefix + field.Name()
		v := row[field.Name()]
		if isStruct(field) {
			group, _ := v.(map[string]interface{})
			flattenRow(out, group, field.Fields(), name+".")
			continue
		}
		out[name] = v
	}
}

// ReadAll reads all rows into memory as column-name keyed maps. Nested groups are
// returned as nested maps, repeated fields as slices.
func (r *Reader) ReadAll() ([]map[string]interface{}, error) {
	rows := make([]map[string]interface{}, 0, r.NumRows())

	reader := parquet.NewReader(r.pqFile)
	defer func() { _ = reader.Close() }()

	for {
		row := make(map[string]interface{})
		err := reader.Read(&row)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows), err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// ReadTable reads all rows into a window.Table whose columns are Columns()
func (r *Reader) ReadTable() (*window.Table, error) {
	rows, err := r.readFlat()
	if err != nil {
		return nil, err
	}
	return window.TableFromMaps(r.Columns(), rows), nil
}

// readFlat reads all rows keyed by their Columns() names
func (r *Reader) readFlat() ([]map[string]interface{}, error) {
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	fields := r.pqFile.Schema().Fields()
	for i, row := range rows {
		flat := make(map[string]interface{}, len(row))
		flattenRow(flat, row, fields, "")
		rows[i] = flat
	}
	return rows, nil
}

// Schema returns the parquet file schema
func (r *Reader) Schema() *parquet.Schema {
	return r.pqFile.Schema()
}

// Close releases the file handle. It is safe to call Close multiple times.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// ReadTable reads a single parquet file into a window.Table
func ReadTable(path string) (*window.Table, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	return r.ReadTable()
}

// ReadMultipleFiles reads every parquet file matching a glob pattern into one table.
//
// The pattern can include wildcards:
//   - * matches any sequence of non-separator characters
//   - ? matches any single non-separator character
//   - [range] matches any character in range
//
// A pattern without wildcards reads that single file unchanged. For real patterns
// the columns are the union of all file schemas in order of first appearance plus a
// trailing "_file" column holding each row's source path; columns missing from a
// file read as NULL.
func ReadMultipleFiles(pattern string) (*window.Table, error) {
	if !strings.ContainsAny(pattern, "*?[") {
		return ReadTable(pattern)
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}
	if len(matches) > maxFiles {
		return nil, fmt.Errorf("glob pattern matched too many files (%d), maximum is %d", len(matches), maxFiles)
	}

	var (
		columns []string
		seen    = make(map[string]bool)
		allRows []map[string]interface{}
	)
	for _, filePath := range matches {
		r, err := NewReader(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
		}

		for _, col := range r.Columns() {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}

		rows, readErr := r.readFlat()
		closeErr := r.Close()

		// Preserve the first error encountered
		if readErr != nil {
			return nil, fmt.Errorf("failed to read rows from %s: %w", filePath, readErr)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("failed to close %s: %w", filePath, closeErr)
		}

		for i := range rows {
			rows[i][FileColumn] = filePath
		}
		allRows = append(allRows, rows...)
	}

	if !seen[FileColumn] {
		columns = append(columns, FileColumn)
	}
	return window.TableFromMaps(columns, allRows), nil
}
