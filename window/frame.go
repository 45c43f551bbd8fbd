package window

import (
	"fmt"
	"math"
	"sort"
)

// FrameMode represents the type of window frame
type FrameMode int

const (
	FrameRows FrameMode = iota
	FrameRange
)

func (m FrameMode) String() string {
	if m == FrameRange {
		return "RANGE"
	}
	return "ROWS"
}

// BoundType represents the type of frame bound. The constants are declared in
// logical order: a start bound may not use a later type than its end bound.
type BoundType int

const (
	BoundUnboundedPreceding BoundType = iota
	BoundOffsetPreceding
	BoundCurrentRow
	BoundOffsetFollowing
	BoundUnboundedFollowing
)

// FrameBound represents a frame boundary
type FrameBound struct {
	Type   BoundType // UNBOUNDED, CURRENT, OFFSET
	Offset int64     // Offset for OFFSET bound types
}

func (b FrameBound) String() string {
	switch b.Type {
	case BoundUnboundedPreceding:
		return "UNBOUNDED PRECEDING"
	case BoundOffsetPreceding:
		return fmt.Sprintf("%d PRECEDING", b.Offset)
	case BoundCurrentRow:
		return "CURRENT ROW"
	case BoundOffsetFollowing:
		return fmt.Sprintf("%d FOLLOWING", b.Offset)
	case BoundUnboundedFollowing:
		return "UNBOUNDED FOLLOWING"
	default:
		return fmt.Sprintf("BOUND(%d)", int(b.Type))
	}
}

func (b FrameBound) isOffset() bool {
	return b.Type == BoundOffsetPreceding || b.Type == BoundOffsetFollowing
}

// FrameSpec specifies the window frame
type FrameSpec struct {
	Mode  FrameMode
	Start FrameBound
	End   FrameBound
}

func (f FrameSpec) String() string {
	return fmt.Sprintf("%s BETWEEN %s AND %s", f.Mode, f.Start, f.End)
}

// DefaultFrame returns the implicit frame of a window: RANGE UNBOUNDED PRECEDING TO
// CURRENT ROW when the window is ordered, the whole partition otherwise.
func DefaultFrame(ordered bool) FrameSpec {
	if ordered {
		return FrameSpec{
			Mode:  FrameRange,
			Start: FrameBound{Type: BoundUnboundedPreceding},
			End:   FrameBound{Type: BoundCurrentRow},
		}
	}
	return FrameSpec{
		Mode:  FrameRows,
		Start: FrameBound{Type: BoundUnboundedPreceding},
		End:   FrameBound{Type: BoundUnboundedFollowing},
	}
}

// Validate rejects frames whose start can logically follow their end. orderKeys is
// the number of ORDER BY keys of the window.
func (f FrameSpec) Validate(orderKeys int) error {
	if f.Mode != FrameRows && f.Mode != FrameRange {
		return fmt.Errorf("%w: unknown frame mode %d", ErrInvalidFrame, int(f.Mode))
	}
	for _, b := range []FrameBound{f.Start, f.End} {
		if b.Type < BoundUnboundedPreceding || b.Type > BoundUnboundedFollowing {
			return fmt.Errorf("%w: unknown bound type %d", ErrInvalidFrame, int(b.Type))
		}
		if b.isOffset() && b.Offset < 0 {
			return fmt.Errorf("%w: frame offset must be non-negative, got %d", ErrInvalidFrame, b.Offset)
		}
	}

	if f.Start.Type == BoundUnboundedFollowing {
		return fmt.Errorf("%w: frame start cannot be UNBOUNDED FOLLOWING", ErrInvalidFrame)
	}
	if f.End.Type == BoundUnboundedPreceding {
		return fmt.Errorf("%w: frame end cannot be UNBOUNDED PRECEDING", ErrInvalidFrame)
	}
	if f.Start.Type > f.End.Type {
		return fmt.Errorf("%w: frame starting from %s cannot end with %s", ErrInvalidFrame, f.Start, f.End)
	}
	if f.Start.Type == f.End.Type {
		switch f.Start.Type {
		case BoundOffsetPreceding:
			if f.Start.Offset < f.End.Offset {
				return fmt.Errorf("%w: frame start %s follows frame end %s", ErrInvalidFrame, f.Start, f.End)
			}
		case BoundOffsetFollowing:
			if f.Start.Offset > f.End.Offset {
				return fmt.Errorf("%w: frame start %s follows frame end %s", ErrInvalidFrame, f.Start, f.End)
			}
		}
	}

	if f.Mode == FrameRange && (f.Start.isOffset() || f.End.isOffset()) && orderKeys != 1 {
		return fmt.Errorf("%w: RANGE with offset requires exactly one ORDER BY column, got %d", ErrInvalidFrame, orderKeys)
	}
	return nil
}

// frameResolver computes the FrameWindow of each row of one ordered partition
type frameResolver struct {
	spec  FrameSpec
	n     int
	peers *PeerGroups

	// RANGE offset support: direction-adjusted numeric keys of the single ORDER BY
	// column, valid in [lo, hi]. Rows outside that span hold NULL or NaN keys and
	// frame their own peer group.
	keys   []float64
	noKey  []bool
	lo, hi int
}

// newFrameResolver prepares frame resolution for a partition. key is the single
// ORDER BY key and is only consulted for RANGE frames with offset bounds.
func newFrameResolver(spec FrameSpec, p *Partition, peers *PeerGroups, key *sortKey) (*frameResolver, error) {
	r := &frameResolver{
		spec:  spec,
		n:     p.Len(),
		peers: peers,
	}

	if spec.Mode != FrameRange || !(spec.Start.isOffset() || spec.End.isOffset()) || key == nil {
		return r, nil
	}

	r.keys = make([]float64, r.n)
	r.noKey = make([]bool, r.n)
	r.lo, r.hi = r.n, -1
	for i := 0; i < r.n; i++ {
		v := p.Value(i, key.col)
		if v == nil {
			r.noKey[i] = true
			continue
		}
		f, ok := toFloat64(v)
		if !ok {
			return nil, &rowError{pos: p.Pos(i), err: fmt.Errorf("%w: RANGE offset requires a numeric ORDER BY column, got %T", ErrTypeMismatch, v)}
		}
		if math.IsNaN(f) {
			r.noKey[i] = true
			continue
		}
		if key.desc {
			f = -f
		}
		r.keys[i] = f
		if i < r.lo {
			r.lo = i
		}
		r.hi = i
	}
	return r, nil
}

// resolve returns the frame of partition row i
func (r *frameResolver) resolve(i int) FrameWindow {
	start := r.startOf(i)
	end := r.endOf(i)
	if start < 0 {
		start = 0
	}
	if end > r.n-1 {
		end = r.n - 1
	}
	if end < start {
		return FrameWindow{Start: start, End: start - 1}
	}
	return FrameWindow{Start: start, End: end}
}

func (r *frameResolver) startOf(i int) int {
	b := r.spec.Start
	switch b.Type {
	case BoundUnboundedPreceding:
		return 0
	case BoundCurrentRow:
		if r.spec.Mode == FrameRange {
			return r.peers.Start(r.peers.Of(i))
		}
		return i
	case BoundOffsetPreceding, BoundOffsetFollowing:
		if r.spec.Mode == FrameRange {
			return r.rangeStart(i, b)
		}
		return r.shift(i, b)
	default:
		return r.n
	}
}

func (r *frameResolver) endOf(i int) int {
	b := r.spec.End
	switch b.Type {
	case BoundUnboundedFollowing:
		return r.n - 1
	case BoundCurrentRow:
		if r.spec.Mode == FrameRange {
			return r.peers.End(r.peers.Of(i))
		}
		return i
	case BoundOffsetPreceding, BoundOffsetFollowing:
		if r.spec.Mode == FrameRange {
			return r.rangeEnd(i, b)
		}
		return r.shift(i, b)
	default:
		return -1
	}
}

// shift moves i by the bound's row offset. Offsets beyond the partition saturate
// just outside it so the caller's clamping yields an empty frame.
func (r *frameResolver) shift(i int, b FrameBound) int {
	off := b.Offset
	if off > int64(r.n) {
		off = int64(r.n) + 1
	}
	if b.Type == BoundOffsetPreceding {
		return i - int(off)
	}
	return i + int(off)
}

// target returns the adjusted key value a RANGE offset bound points at
func (r *frameResolver) target(i int, b FrameBound) float64 {
	if b.Type == BoundOffsetPreceding {
		return r.keys[i] - float64(b.Offset)
	}
	return r.keys[i] + float64(b.Offset)
}

// rangeStart returns the first row whose key is not below the bound's value
func (r *frameResolver) rangeStart(i int, b FrameBound) int {
	if r.keys == nil || r.noKey[i] {
		return r.peers.Start(r.peers.Of(i))
	}
	t := r.target(i, b)
	return r.lo + sort.Search(r.hi-r.lo+1, func(j int) bool {
		return r.keys[r.lo+j] >= t
	})
}

// rangeEnd returns the last row whose key is not above the bound's value
func (r *frameResolver) rangeEnd(i int, b FrameBound) int {
	if r.keys == nil || r.noKey[i] {
		return r.peers.End(r.peers.Of(i))
	}
	t := r.target(i, b)
	return r.lo + sort.Search(r.hi-r.lo+1, func(j int) bool {
		return r.keys[r.lo+j] > t
	}) - 1
}
