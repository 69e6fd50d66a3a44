package matcher

import "reflect"

// Callable is the invocation capability. Values that are not Go functions
// can still satisfy "callable" by implementing this interface.
type Callable interface {
	Call(args ...any) ([]any, error)
}

// Comparer is the total-order capability for "comparable" classification.
// CompareTo returns <0, 0, or >0, or an error when the other value is not
// comparable to the receiver.
type Comparer interface {
	CompareTo(other any) (int, error)
}

// Iterable is the sequence-production capability. Next-style iteration:
// the returned function yields (element, true) until exhausted.
type Iterable interface {
	Iterate() func() (any, bool)
}

// IsCallable reports whether v can be invoked: a Go function value or an
// implementation of Callable.
func IsCallable(v any) Result {
	if v == nil {
		return failf("nil is not callable")
	}
	if _, isCallable := v.(Callable); isCallable {
		return ok()
	}
	if reflect.ValueOf(v).Kind() == reflect.Func {
		return ok()
	}
	return failf("%s is not callable", format(v))
}

// IsComparable reports whether v exposes a total order: an ordered scalar
// (numeric or string) or an implementation of Comparer.
func IsComparable(v any) Result {
	if v == nil {
		return failf("nil is not comparable")
	}
	if _, isComparer := v.(Comparer); isComparer {
		return ok()
	}
	rv := reflect.ValueOf(v)
	if _, isNum := toFloat(rv); isNum {
		return ok()
	}
	if rv.Kind() == reflect.String {
		return ok()
	}
	return failf("%s has no ordering", format(v))
}

// IsIterable reports whether v can produce a sequence of elements: a
// slice, array, map, string, channel, or an implementation of Iterable.
func IsIterable(v any) Result {
	if v == nil {
		return failf("nil is not iterable")
	}
	if _, isIterable := v.(Iterable); isIterable {
		return ok()
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String, reflect.Chan:
		return ok()
	}
	return failf("%s is not iterable", format(v))
}
