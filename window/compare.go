package window

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Kind classifies values for comparison
type Kind int

const (
	KindNull Kind = iota
	KindNumeric
	KindString
	KindBool
	KindTime
	KindBytes
	KindOther
)

// KindOf returns the comparison kind of v
func KindOf(v interface{}) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return KindNumeric
	case string:
		return KindString
	case bool:
		return KindBool
	case time.Time:
		return KindTime
	case []byte:
		return KindBytes
	default:
		return KindOther
	}
}

// CompareFunc compares two non-NULL values of the same kind and returns
// -1, 0 or +1
type CompareFunc func(a, b interface{}) int

// Comparators is the comparator registry used for ordering and equality.
// Built-in kinds are registered by NewComparators; values of other Go types are
// orderable only once a comparator has been registered for their type.
type Comparators struct {
	mu    sync.RWMutex
	kinds map[Kind]CompareFunc
	types map[reflect.Type]CompareFunc
}

// NewComparators returns a registry with the built-in comparators
func NewComparators() *Comparators {
	return &Comparators{
		kinds: map[Kind]CompareFunc{
			KindNumeric: compareNumeric,
			KindString: func(a, b interface{}) int {
				return strings.Compare(a.(string), b.(string))
			},
			KindBool:  compareBool,
			KindTime:  compareTime,
			KindBytes: func(a, b interface{}) int { return bytes.Compare(a.([]byte), b.([]byte)) },
		},
		types: make(map[reflect.Type]CompareFunc),
	}
}

// Register replaces the comparator of a built-in kind
func (c *Comparators) Register(kind Kind, fn CompareFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.kinds[kind] = fn
}

// RegisterType makes values with the dynamic type of sample orderable with fn
func (c *Comparators) RegisterType(sample interface{}, fn CompareFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[reflect.TypeOf(sample)] = fn
}

// Compare compares two values. NULL equals NULL and sorts below every other value;
// callers decide the actual NULL placement. Values of different kinds, or of a kind
// without a comparator, are not comparable.
func (c *Comparators) Compare(a, b interface{}) (int, error) {
	ka, kb := KindOf(a), KindOf(b)
	if ka == KindNull || kb == KindNull {
		switch {
		case ka == kb:
			return 0, nil
		case ka == KindNull:
			return -1, nil
		default:
			return 1, nil
		}
	}
	if ka != kb {
		return 0, fmt.Errorf("%w: cannot compare %T with %T", ErrTypeMismatch, a, b)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if ka == KindOther {
		ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
		if ta != tb {
			return 0, fmt.Errorf("%w: cannot compare %T with %T", ErrTypeMismatch, a, b)
		}
		fn, ok := c.types[ta]
		if !ok {
			return 0, fmt.Errorf("%w: %T is not orderable", ErrTypeMismatch, a)
		}
		return fn(a, b), nil
	}
	fn, ok := c.kinds[ka]
	if !ok {
		return 0, fmt.Errorf("%w: %T is not orderable", ErrTypeMismatch, a)
	}
	return fn(a, b), nil
}

// Orderable reports an error when v has no comparator. NULL is always orderable.
func (c *Comparators) Orderable(v interface{}) error {
	k := KindOf(v)
	if k == KindNull {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	var ok bool
	if k == KindOther {
		_, ok = c.types[reflect.TypeOf(v)]
	} else {
		_, ok = c.kinds[k]
	}
	if !ok {
		return fmt.Errorf("%w: %T is not orderable", ErrTypeMismatch, v)
	}
	return nil
}

// toInt64 converts integer values to int64. uint64 values above math.MaxInt64 are
// reported as non-integers so they compare as floats.
func toInt64(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int8:
		return int64(val), true
	case int16:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case uint:
		if uint64(val) > math.MaxInt64 {
			return 0, false
		}
		return int64(val), true
	case uint8:
		return int64(val), true
	case uint16:
		return int64(val), true
	case uint32:
		return int64(val), true
	case uint64:
		if val > math.MaxInt64 {
			return 0, false
		}
		return int64(val), true
	default:
		return 0, false
	}
}

// toFloat64 converts a value to float64 if possible
func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}

// compareNumeric compares numbers exactly when both are integers and as floats
// otherwise. NaN sorts below every other number.
func compareNumeric(a, b interface{}) int {
	if ia, ok := toInt64(a); ok {
		if ib, ok := toInt64(b); ok {
			switch {
			case ia < ib:
				return -1
			case ia > ib:
				return 1
			default:
				return 0
			}
		}
	}

	fa, _ := toFloat64(a)
	fb, _ := toFloat64(b)
	aNaN, bNaN := math.IsNaN(fa), math.IsNaN(fb)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	case fa < fb:
		return -1
	case fa > fb:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b interface{}) int {
	ab, bb := a.(bool), b.(bool)
	switch {
	case ab == bb:
		return 0
	case !ab:
		return -1 // false < true
	default:
		return 1
	}
}

func compareTime(a, b interface{}) int {
	ta, tb := a.(time.Time), b.(time.Time)
	switch {
	case ta.Before(tb):
		return -1
	case ta.After(tb):
		return 1
	default:
		return 0
	}
}

// writeKey appends a canonical encoding of v to sb such that two values produce the
// same encoding iff they are equal for partitioning purposes. NULL equals NULL and
// numbers compare by value regardless of their Go width.
func writeKey(sb *strings.Builder, v interface{}) {
	switch val := v.(type) {
	case nil:
		sb.WriteString("n")
	case string:
		sb.WriteString("s")
		sb.WriteString(strconv.Itoa(len(val)))
		sb.WriteString(":")
		sb.WriteString(val)
	case []byte:
		sb.WriteString("y")
		sb.WriteString(strconv.Itoa(len(val)))
		sb.WriteString(":")
		sb.Write(val)
	case bool:
		sb.WriteString("b")
		sb.WriteString(strconv.FormatBool(val))
	case time.Time:
		sb.WriteString("t")
		sb.WriteString(strconv.FormatInt(val.UnixNano(), 10))
	default:
		if i, ok := toInt64(v); ok {
			sb.WriteString("i")
			sb.WriteString(strconv.FormatInt(i, 10))
			return
		}
		if f, ok := toFloat64(v); ok {
			if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
				sb.WriteString("i")
				sb.WriteString(strconv.FormatInt(int64(f), 10))
				return
			}
			sb.WriteString("f")
			sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
			return
		}
		// Use %#v for better type differentiation
		s := fmt.Sprintf("%#v", v)
		sb.WriteString("o")
		sb.WriteString(strconv.Itoa(len(s)))
		sb.WriteString(":")
		sb.WriteString(s)
	}
}
