package matcher

import (
	"reflect"
	"strings"
)

// ContainsElement reports whether container holds element.
//
// Slices and arrays match any element equal to element (structural
// equality). Maps match any value. Strings match substrings. Other subject
// kinds do not match and explain why.
func ContainsElement(container, element any) Result {
	if container == nil {
		return failf("cannot search nil container")
	}
	cv := reflect.ValueOf(container)
	switch cv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < cv.Len(); i++ {
			if Equal(cv.Index(i).Interface(), element).Matched {
				return ok()
			}
		}
		return failf("%s does not contain %s", format(container), format(element))
	case reflect.Map:
		for _, k := range cv.MapKeys() {
			if Equal(cv.MapIndex(k).Interface(), element).Matched {
				return ok()
			}
		}
		return failf("map values do not contain %s", format(element))
	case reflect.String:
		if sub, isStr := element.(string); isStr {
			return ContainsSubstring(cv.String(), sub, false)
		}
		return failf("cannot search string for non-string %s", format(element))
	default:
		return failf("%s is not a container", format(container))
	}
}

// ContainsKey reports whether the map m has a key equal to key.
func ContainsKey(m, key any) Result {
	if m == nil {
		return failf("cannot look up key in nil")
	}
	mv := reflect.ValueOf(m)
	if mv.Kind() != reflect.Map {
		return failf("%s is not a map", format(m))
	}
	for _, k := range mv.MapKeys() {
		if Equal(k.Interface(), key).Matched {
			return ok()
		}
	}
	return failf("key %s not present", format(key))
}

// ContainsDeepKey reports whether the nested key path resolves inside
// container. The path is either a dotted string ("nested.value") or a slice
// of segments. Every intermediate must itself be a map; a non-container
// intermediate makes the lookup fail with an explanation, never an error.
func ContainsDeepKey(container, path any) Result {
	segments, res := keyPath(path)
	if !res.Matched {
		return res
	}
	current := container
	for i, seg := range segments {
		cv := reflect.ValueOf(current)
		for cv.Kind() == reflect.Interface || cv.Kind() == reflect.Ptr {
			if cv.IsNil() {
				return failf("segment %q: nil at depth %d", seg, i)
			}
			cv = cv.Elem()
		}
		if cv.Kind() != reflect.Map {
			return failf("segment %q: intermediate at depth %d is not a map", seg, i)
		}
		found := false
		for _, k := range cv.MapKeys() {
			if Equal(k.Interface(), seg).Matched {
				current = cv.MapIndex(k).Interface()
				found = true
				break
			}
		}
		if !found {
			return failf("key path stops at segment %q (depth %d)", seg, i)
		}
	}
	return ok()
}

// DeepKeyValue resolves a nested key path and compares the value found there
// against expected.
func DeepKeyValue(container, path, expected any) Result {
	segments, res := keyPath(path)
	if !res.Matched {
		return res
	}
	current := container
	for i, seg := range segments {
		cv := reflect.ValueOf(current)
		for cv.Kind() == reflect.Interface || cv.Kind() == reflect.Ptr {
			if cv.IsNil() {
				return failf("segment %q: nil at depth %d", seg, i)
			}
			cv = cv.Elem()
		}
		if cv.Kind() != reflect.Map {
			return failf("segment %q: intermediate at depth %d is not a map", seg, i)
		}
		found := false
		for _, k := range cv.MapKeys() {
			if Equal(k.Interface(), seg).Matched {
				current = cv.MapIndex(k).Interface()
				found = true
				break
			}
		}
		if !found {
			return failf("key path stops at segment %q (depth %d)", seg, i)
		}
	}
	return Equal(current, expected)
}

// Subset reports whether every key/value pair of sub is present and equal
// in super. Extra keys in super are ignored.
func Subset(sub, super any) Result {
	subV := reflect.ValueOf(sub)
	superV := reflect.ValueOf(super)
	if subV.Kind() != reflect.Map {
		return failf("%s is not a map", format(sub))
	}
	if superV.Kind() != reflect.Map {
		return failf("%s is not a map", format(super))
	}
	for _, k := range subV.MapKeys() {
		want := subV.MapIndex(k).Interface()
		found := false
		for _, sk := range superV.MapKeys() {
			if Equal(sk.Interface(), k.Interface()).Matched {
				if !Equal(superV.MapIndex(sk).Interface(), want).Matched {
					return failf("key %s: %s != %s",
						format(k.Interface()), format(superV.MapIndex(sk).Interface()), format(want))
				}
				found = true
				break
			}
		}
		if !found {
			return failf("key %s missing", format(k.Interface()))
		}
	}
	return ok()
}

// ExactKeys reports whether the map m has exactly the given key set,
// order irrelevant.
func ExactKeys(m any, keys []any) Result {
	mv := reflect.ValueOf(m)
	if mv.Kind() != reflect.Map {
		return failf("%s is not a map", format(m))
	}
	if mv.Len() != len(keys) {
		return failf("expected %d keys, map has %d", len(keys), mv.Len())
	}
	for _, want := range keys {
		found := false
		for _, k := range mv.MapKeys() {
			if Equal(k.Interface(), want).Matched {
				found = true
				break
			}
		}
		if !found {
			return failf("key %s missing", format(want))
		}
	}
	return ok()
}

// keyPath normalizes a deep-key path into string segments.
func keyPath(path any) ([]string, Result) {
	switch p := path.(type) {
	case string:
		if p == "" {
			return nil, failf("empty key path")
		}
		return strings.Split(p, "."), ok()
	case []string:
		if len(p) == 0 {
			return nil, failf("empty key path")
		}
		return p, ok()
	case []any:
		if len(p) == 0 {
			return nil, failf("empty key path")
		}
		segments := make([]string, len(p))
		for i, seg := range p {
			s, isStr := seg.(string)
			if !isStr {
				return nil, failf("key path segment %d is not a string", i)
			}
			segments[i] = s
		}
		return segments, ok()
	default:
		return nil, failf("key path must be a string or string list, got %s", format(path))
	}
}
