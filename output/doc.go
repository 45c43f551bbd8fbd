// Package output writes window evaluation results in various formats.
//
// Every formatter consumes a window.RowSource, which both *window.Table and
// *window.ResultSet satisfy, and writes columns in the source's column order.
//
// # Supported Formats
//
//   - jsonl: One JSON object per line (suitable for streaming)
//   - json: A single JSON array of objects
//   - csv: Comma-separated values with header row
//   - table: Aligned ASCII table for terminals
//
// # Basic Usage
//
//	rs, err := window.Evaluate(ctx, tbl, exprs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	formatter, err := output.New("csv", os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := formatter.Format(output.Head(rs, 100)); err != nil {
//	    log.Fatal(err)
//	}
//
// # Type Handling
//
// NULL is written as JSON null, an empty CSV field, or NULL in tables. Times
// are written in RFC 3339, binary values as base64. CSV fields starting with a
// formula character are prefixed with a single quote.
package output
