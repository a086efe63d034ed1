package value

import (
	"encoding/json"
	"fmt"
	"time"
)

// Value is a sealed interface over the closed set of field value kinds.
// Only Null, String, Int, Float, Bool, Time, and Array implement it.
//
// Item state is an open bag of named values, but every value is one of these
// kinds. Condition evaluation type-switches over Value and can therefore be
// exhaustive.
type Value interface {
	fieldValue() // Sealed - only types in this package implement it
}

// Null represents an explicitly-null field value.
// Distinct from an absent field: a condition against a missing field never
// matches, while a condition against Null can match with == / !=.
type Null struct{}

func (Null) fieldValue() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// String represents a string field value.
type String string

func (String) fieldValue() {}

// Int represents an integer field value. Always int64.
type Int int64

func (Int) fieldValue() {}

// Float represents a floating-point field value.
type Float float64

func (Float) fieldValue() {}

// Bool represents a boolean field value.
type Bool bool

func (Bool) fieldValue() {}

// Time represents a timestamp field value.
type Time time.Time

func (Time) fieldValue() {}

// MarshalJSON implements json.Marshaler for Time using RFC 3339.
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(time.RFC3339Nano))
}

// Array represents an ordered list of field values.
type Array []Value

func (Array) fieldValue() {}

// Map is an ordered-by-key bag of named field values (item state).
type Map map[string]Value

// Equal reports deep equality between two values of any kind.
//
// Equality is kind-sensitive with one exception: Int and Float compare
// numerically, so Int(4) equals Float(4.0). Null equals only Null. Arrays
// compare element-wise in order. Times compare as instants.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Int:
		switch bv := b.(type) {
		case Int:
			return av == bv
		case Float:
			return float64(av) == float64(bv)
		}
		return false
	case Float:
		switch bv := b.(type) {
		case Int:
			return float64(av) == float64(bv)
		case Float:
			return av == bv
		}
		return false
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Time:
		bv, ok := b.(Time)
		return ok && time.Time(av).Equal(time.Time(bv))
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Compare orders two values. Returns (ordering, true) when the pair is
// orderable: numeric kinds cross-compare, strings compare lexicographically,
// times compare as instants. Bool, Null, Array, and mixed non-numeric pairs
// are not orderable and return (0, false).
func Compare(a, b Value) (int, bool) {
	switch av := a.(type) {
	case Int:
		switch bv := b.(type) {
		case Int:
			return compareOrdered(int64(av), int64(bv)), true
		case Float:
			return compareOrdered(float64(av), float64(bv)), true
		}
	case Float:
		switch bv := b.(type) {
		case Int:
			return compareOrdered(float64(av), float64(bv)), true
		case Float:
			return compareOrdered(float64(av), float64(bv)), true
		}
	case String:
		if bv, ok := b.(String); ok {
			return compareOrdered(string(av), string(bv)), true
		}
	case Time:
		if bv, ok := b.(Time); ok {
			at, bt := time.Time(av), time.Time(bv)
			switch {
			case at.Before(bt):
				return -1, true
			case at.After(bt):
				return 1, true
			default:
				return 0, true
			}
		}
	}
	return 0, false
}

func compareOrdered[T int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Contains reports whether arr contains an element equal to v.
// Returns false when the receiver is not an array.
func Contains(arr Value, v Value) bool {
	a, ok := arr.(Array)
	if !ok {
		return false
	}
	for _, elem := range a {
		if Equal(elem, v) {
			return true
		}
	}
	return false
}

// FromAny converts a decoded-JSON Go value into a Value.
//
// JSON numbers become Int when integral, Float otherwise. Strings that parse
// as RFC 3339 timestamps stay strings here; callers that want timestamp
// revival (the query codec's event windows) convert explicitly.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case float64:
		if val == float64(int64(val)) {
			return Int(int64(val)), nil
		}
		return Float(val), nil
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return Int(n), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("number out of range: %s", val)
		}
		return Float(f), nil
	case time.Time:
		return Time(val), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			fv, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = fv
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unsupported field value type: %T", v)
	}
}

// ToAny converts a Value back to a plain Go value for JSON encoding.
func ToAny(v Value) any {
	switch val := v.(type) {
	case Null:
		return nil
	case String:
		return string(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case Bool:
		return bool(val)
	case Time:
		return time.Time(val).Format(time.RFC3339Nano)
	case Array:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ToAny(elem)
		}
		return out
	default:
		return nil
	}
}
