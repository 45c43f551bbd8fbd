package reader

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// SchemaInfo describes one leaf column of a Parquet file and how window functions
// can use it.
type SchemaInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	PhysicalType string `json:"physical_type"`
	LogicalType  string `json:"logical_type,omitempty"`
	Optional     bool   `json:"optional"`
	Repeated     bool   `json:"repeated"`
	// Numeric columns can feed SUM/AVG and order RANGE frames with offsets
	Numeric bool `json:"numeric"`
	// Orderable columns can be used in PARTITION BY / ORDER BY
	Orderable bool `json:"orderable"`
}

var physicalNames = map[parquet.Kind]string{
	parquet.Boolean:           "BOOLEAN",
	parquet.Int32:             "INT32",
	parquet.Int64:             "INT64",
	parquet.Int96:             "INT96",
	parquet.Float:             "FLOAT",
	parquet.Double:            "DOUBLE",
	parquet.ByteArray:         "BYTE_ARRAY",
	parquet.FixedLenByteArray: "FIXED_LEN_BYTE_ARRAY",
}

// friendly names of logical types, keyed by the logical type's String() without its
// parameters, e.g. TIMESTAMP(isAdjustedToUTC=true,unit=MILLIS) is keyed by TIMESTAMP
var logicalNames = map[string]string{
	"STRING":    "STRING",
	"UTF8":      "STRING",
	"ENUM":      "ENUM",
	"UUID":      "UUID",
	"DATE":      "DATE",
	"TIME":      "TIME",
	"TIMESTAMP": "TIMESTAMP",
	"DECIMAL":   "DECIMAL",
	"JSON":      "JSON",
	"BSON":      "BSON",
}

// ExtractSchemaInfo lists the leaf columns of a Parquet file. Nested fields use dot
// notation (e.g. "address.street").
func ExtractSchemaInfo(path string) ([]SchemaInfo, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = r.Close() }()

	var infos []SchemaInfo
	for _, field := range r.Schema().Fields() {
		infos = appendFieldInfo(infos, field, "", false)
	}
	return infos, nil
}

// appendFieldInfo appends the leaves below field. Repetition is inherited from
// parent groups.
func appendFieldInfo(infos []SchemaInfo, field parquet.Field, prefix string, parentRepeated bool) []SchemaInfo {
	name := field.Name()
	if prefix != "" {
		name = prefix + "." + name
	}
	repeated := parentRepeated || field.Repeated()

	if children := field.Fields(); len(children) > 0 {
		for _, child := range children {
			infos = appendFieldInfo(infos, child, name, repeated)
		}
		return infos
	}

	physical, logical, friendly := columnTypes(field)
	numeric := !repeated && isNumeric(friendly)
	return append(infos, SchemaInfo{
		Name:         name,
		Type:         friendly,
		PhysicalType: physical,
		LogicalType:  logical,
		Optional:     field.Optional(),
		Repeated:     repeated,
		Numeric:      numeric,
		// repeated leaves surface as slices on read, which do not order
		Orderable: !repeated,
	})
}

// columnTypes returns the physical, logical and user-facing type names of a leaf
func columnTypes(field parquet.Field) (physical, logical, friendly string) {
	typ := field.Type()
	if typ == nil {
		return "GROUP", "", "GROUP"
	}

	physical, ok := physicalNames[typ.Kind()]
	if !ok {
		physical = "UNKNOWN"
	}

	if lt := typ.LogicalType(); lt != nil {
		logical = lt.String()
	}
	base := logical
	if i := strings.IndexByte(base, '('); i >= 0 {
		base = base[:i]
	}
	if name, ok := logicalNames[base]; ok {
		return physical, logical, name
	}

	switch physical {
	case "FLOAT":
		friendly = "FLOAT32"
	case "DOUBLE":
		friendly = "FLOAT64"
	default:
		friendly = physical
	}
	return physical, logical, friendly
}

func isNumeric(friendly string) bool {
	switch friendly {
	case "INT32", "INT64", "FLOAT32", "FLOAT64":
		return true
	default:
		return false
	}
}
