// Package reader loads row sources for window evaluation from Apache Parquet
// files and Apache Arrow record batches.
//
// # Basic Usage
//
// Reading a single parquet file:
//
//	tbl, err := reader.ReadTable("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rs, err := window.Evaluate(ctx, tbl, exprs)
//
// Fields of nested groups become dot-named columns ("address.city") that can be
// used in PARTITION BY and ORDER BY like any top-level column.
//
// # Multi-file Operations
//
// Reading multiple files using glob patterns:
//
//	tbl, err := reader.ReadMultipleFiles("data/*.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The columns are the union of all matched schemas plus a trailing "_file" column
// with the source file path of each row.
//
// # Schema Introspection
//
//	infos, err := reader.ExtractSchemaInfo("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, info := range infos {
//	    fmt.Printf("%s: %s (orderable=%t)\n", info.Name, info.Type, info.Orderable)
//	}
//
// # Arrow
//
// Record batches produced elsewhere (Flight, IPC files) convert with
// FromArrowRecord. The values are copied, so the record can be released
// afterwards.
//
// # Resource Management
//
// Always call Close() when done with a Reader to release file handles:
//
//	r, err := reader.NewReader("data.parquet")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
// The package uses github.com/parquet-go/parquet-go for parquet files and
// github.com/apache/arrow-go for Arrow.
package reader
