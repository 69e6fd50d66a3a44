package matcher

import (
	"fmt"
	"math"
	"reflect"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// Equal compares subject and expected for equality.
//
// Scalars compare by value with numeric coercion across int/uint/float
// representations (YAML and JSON decoding produce mixed widths for the same
// logical value). Composite values compare structurally: map keys by value
// with order irrelevant, sequences element-wise in order, pointers by
// pointee. Cyclic structures terminate via an identity visited-set.
func Equal(subject, expected any) Result {
	if deepEqual(reflect.ValueOf(subject), reflect.ValueOf(expected), make(map[visit]bool)) {
		return ok()
	}
	return failf("values differ: %s != %s", format(subject), format(expected))
}

// IsNil reports whether v is nil: untyped nil, or a typed nil pointer,
// map, slice, channel, function, or interface. A typed nil is what a test
// author means by "nil" even though it differs from untyped nil under ==.
func IsNil(v any) Result {
	if v == nil {
		return ok()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan,
		reflect.Func, reflect.Interface:
		if rv.IsNil() {
			return ok()
		}
	case reflect.UnsafePointer:
		if rv.Pointer() == 0 {
			return ok()
		}
	}
	return failf("value is non-nil: %s", format(v))
}

// visit tracks a pair of composite values already under comparison.
// Keyed by identity so cycles terminate instead of recursing forever.
type visit struct {
	a, b uintptr
	typ  reflect.Type
}

func deepEqual(a, b reflect.Value, visited map[visit]bool) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}

	// Unwrap interfaces so map[string]any values compare by content.
	for a.Kind() == reflect.Interface && !a.IsNil() {
		a = a.Elem()
	}
	for b.Kind() == reflect.Interface && !b.IsNil() {
		b = b.Elem()
	}
	if a.Kind() == reflect.Interface || b.Kind() == reflect.Interface {
		// One side is a nil interface.
		return a.Kind() == b.Kind()
	}

	// Numeric coercion: 1, int64(1), and 1.0 are the same logical value.
	if an, aok := toFloat(a); aok {
		if bn, bok := toFloat(b); bok {
			return an == bn
		}
		return false
	}

	switch a.Kind() {
	case reflect.String:
		return b.Kind() == reflect.String && a.String() == b.String()
	case reflect.Bool:
		return b.Kind() == reflect.Bool && a.Bool() == b.Bool()
	}

	if a.Kind() != b.Kind() {
		return false
	}

	// Cycle guard for composites that can self-reference.
	switch a.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice:
		if a.Kind() == reflect.Ptr || !a.IsNil() {
			v := visit{a: a.Pointer(), b: b.Pointer(), typ: a.Type()}
			if visited[v] {
				return true
			}
			visited[v] = true
		}
	}

	switch a.Kind() {
	case reflect.Ptr:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return deepEqual(a.Elem(), b.Elem(), visited)

	case reflect.Slice, reflect.Array:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !deepEqual(a.Index(i), b.Index(i), visited) {
				return false
			}
		}
		return true

	case reflect.Map:
		if a.Len() != b.Len() {
			return false
		}
		bKeys := b.MapKeys()
		for _, ak := range a.MapKeys() {
			av := a.MapIndex(ak)
			found := false
			for _, bk := range bKeys {
				if deepEqual(ak, bk, visited) && deepEqual(av, b.MapIndex(bk), visited) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true

	case reflect.Struct:
		if a.Type() != b.Type() {
			return false
		}
		// time.Time compares by instant; field comparison would treat the
		// monotonic reading and the location pointer as significant.
		if a.Type() == timeType && a.CanInterface() && b.CanInterface() {
			return a.Interface().(time.Time).Equal(b.Interface().(time.Time))
		}
		for i := 0; i < a.NumField(); i++ {
			if !deepEqual(a.Field(i), b.Field(i), visited) {
				return false
			}
		}
		return true

	default:
		if a.Type() != b.Type() {
			return false
		}
		// Kind-specific reads stay legal for values reached through
		// unexported fields, where Interface() would panic.
		switch a.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
			reflect.Uint64, reflect.Uintptr:
			return a.Uint() == b.Uint()
		case reflect.Complex64, reflect.Complex128:
			return a.Complex() == b.Complex()
		case reflect.Chan, reflect.Func, reflect.UnsafePointer:
			return a.Pointer() == b.Pointer()
		}
		if !a.CanInterface() || !b.CanInterface() || !a.Comparable() {
			return false
		}
		return a.Interface() == b.Interface()
	}
}

// toFloat widens any numeric kind to float64 for coercive comparison.
// Returns false for non-numeric kinds and for uint64 values that cannot
// be represented exactly.
func toFloat(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return float64(u), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}

// numeric extracts a float64 from an arbitrary value.
func numeric(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return toFloat(reflect.ValueOf(v))
}

// format renders a value for explanations, bounded to keep messages readable.
func format(v any) string {
	s := fmt.Sprintf("%#v", v)
	const max = 200
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
