// Package window evaluates SQL-style window functions over materialized rows.
//
// The engine takes structured window expressions (no SQL text) and a RowSource,
// groups rows into partitions, orders each partition, resolves a frame per row and
// produces one value per input row per expression.
//
// # Basic Usage
//
//	src := window.TableFromMaps(nil, rows)
//
//	exprs := []window.Expr{
//	    {
//	        Name: "rnk",
//	        Func: window.FuncRank,
//	        Spec: window.WindowSpec{
//	            PartitionBy: []string{"dept"},
//	            OrderBy:     []window.OrderKey{{Column: "salary", Desc: true}},
//	        },
//	    },
//	}
//
//	rs, err := window.Evaluate(ctx, src, exprs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i := 0; i < rs.Len(); i++ {
//	    fmt.Println(rs.Row(i))
//	}
//
// # Frames
//
// Aggregates and FIRST_VALUE/LAST_VALUE/NTH_VALUE read the frame of the current row.
// Without an explicit frame an ordered window uses RANGE BETWEEN UNBOUNDED PRECEDING
// AND CURRENT ROW and an unordered window uses the whole partition:
//
//	frame := &window.FrameSpec{
//	    Mode:  window.FrameRows,
//	    Start: window.FrameBound{Type: window.BoundOffsetPreceding, Offset: 1},
//	    End:   window.FrameBound{Type: window.BoundOffsetFollowing, Offset: 1},
//	}
//
// Ranking functions and LEAD/LAG ignore the frame.
//
// # Errors
//
// Invalid expressions fail with *ConfigError before any row is read. Values that
// cannot be ordered or summed fail with *DataError. Both wrap one of the Err*
// sentinels and work with errors.Is.
//
// # Concurrency
//
// An Engine evaluates partitions in parallel on a bounded worker pool and is safe for
// concurrent use. Close releases the pool.
package window
