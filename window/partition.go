package window

import "strings"

// Partition is an ordered sequence of rows sharing identical partition key values.
// Rows holds original input positions; after ordering, index i of the partition is
// the i-th row in total order.
type Partition struct {
	src  RowSource
	rows []int
}

// Len returns the number of rows in the partition
func (p *Partition) Len() int { return len(p.rows) }

// Pos returns the original input position of the i-th partition row
func (p *Partition) Pos(i int) int { return p.rows[i] }

// Value returns column col of the i-th partition row
func (p *Partition) Value(i, col int) interface{} {
	return p.src.Value(p.rows[i], col)
}

// partitionRows groups row positions by their partition key tuple. Rows keep their
// relative input order inside a partition and partitions are returned in order of
// first appearance.
func partitionRows(src RowSource, keyCols []int) [][]int {
	n := src.Len()
	if n == 0 {
		return nil
	}

	if len(keyCols) == 0 {
		// No PARTITION BY: all rows are in one partition
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return [][]int{all}
	}

	lookup := make(map[string]int)
	var partitions [][]int
	var keyBuilder strings.Builder

	for i := 0; i < n; i++ {
		keyBuilder.Reset()
		for j, col := range keyCols {
			if j > 0 {
				keyBuilder.WriteString("\x00||\x00") // Use unlikely separator to avoid collisions
			}
			writeKey(&keyBuilder, src.Value(i, col))
		}

		key := keyBuilder.String()
		idx, ok := lookup[key]
		if !ok {
			idx = len(partitions)
			lookup[key] = idx
			partitions = append(partitions, nil)
		}
		partitions[idx] = append(partitions[idx], i)
	}

	return partitions
}
