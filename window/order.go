package window

import "sort"

// sortKey is an ORDER BY key resolved against the row source
type sortKey struct {
	col        int
	desc       bool
	nullsFirst bool
}

// compareRows compares two original row positions on the ORDER BY keys
func compareRows(src RowSource, keys []sortKey, cmp *Comparators, a, b int) (int, error) {
	for _, key := range keys {
		va := src.Value(a, key.col)
		vb := src.Value(b, key.col)

		if va == nil || vb == nil {
			if va == nil && vb == nil {
				continue
			}
			// NULL placement does not flip with the direction
			if (va == nil) == key.nullsFirst {
				return -1, nil
			}
			return 1, nil
		}

		c, err := cmp.Compare(va, vb)
		if err != nil {
			return 0, err
		}
		if c != 0 {
			if key.desc {
				return -c, nil
			}
			return c, nil
		}
		// Values are equal, continue to next ORDER BY column
	}
	return 0, nil
}

// orderPartition stably sorts the partition by keys. Ties keep their input order.
func orderPartition(p *Partition, keys []sortKey, cmp *Comparators) error {
	if len(keys) == 0 || p.Len() < 2 {
		return nil
	}

	var sortErr *rowError
	sort.SliceStable(p.rows, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		c, err := compareRows(p.src, keys, cmp, p.rows[i], p.rows[j])
		if err != nil {
			sortErr = &rowError{pos: p.rows[i], err: err}
			return false
		}
		return c < 0
	})
	if sortErr != nil {
		return sortErr
	}
	return nil
}

// PeerGroups describes the runs of consecutive rows with equal ORDER BY values in an
// ordered partition. The groups cover the partition without gaps or overlap.
type PeerGroups struct {
	starts []int // partition index where each group starts
	group  []int // group number of each partition row
}

// Count returns the number of peer groups
func (g *PeerGroups) Count() int { return len(g.starts) }

// Of returns the group number of partition row i
func (g *PeerGroups) Of(i int) int { return g.group[i] }

// Start returns the first partition index of group n
func (g *PeerGroups) Start(n int) int { return g.starts[n] }

// End returns the last partition index (inclusive) of group n
func (g *PeerGroups) End(n int) int {
	if n+1 < len(g.starts) {
		return g.starts[n+1] - 1
	}
	return len(g.group) - 1
}

// Size returns the number of rows in group n
func (g *PeerGroups) Size(n int) int { return g.End(n) - g.Start(n) + 1 }

// computePeerGroups finds peer group boundaries of an ordered partition. Without
// ORDER BY keys the whole partition is one group.
func computePeerGroups(p *Partition, keys []sortKey, cmp *Comparators) (*PeerGroups, error) {
	n := p.Len()
	g := &PeerGroups{group: make([]int, n)}
	if n == 0 {
		return g, nil
	}

	g.starts = append(g.starts, 0)
	for i := 1; i < n; i++ {
		if len(keys) > 0 {
			c, err := compareRows(p.src, keys, cmp, p.rows[i-1], p.rows[i])
			if err != nil {
				return nil, &rowError{pos: p.rows[i], err: err}
			}
			if c != 0 {
				g.starts = append(g.starts, i)
			}
		}
		g.group[i] = len(g.starts) - 1
	}
	return g, nil
}
