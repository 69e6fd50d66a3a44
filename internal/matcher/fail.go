package matcher

import "fmt"

// Fails invokes fn and reports whether it raised. A raise is either a
// panic or, for func() error forms, a non-nil error return.
//
// Accepted signatures: func(), func() error. Anything else does not match
// and explains why.
func Fails(fn any) Result {
	raised, _, res := invoke(fn)
	if !res.Matched {
		return res
	}
	if raised {
		return ok()
	}
	return failf("function completed without raising")
}

// FailsWith invokes fn and reports whether it raised with a message
// matching pattern (Go regexp syntax, matched anywhere in the message).
func FailsWith(fn any, pattern string) Result {
	raised, msg, res := invoke(fn)
	if !res.Matched {
		return res
	}
	if !raised {
		return failf("function completed without raising")
	}
	m := MatchPattern(msg, pattern, PatternOptions{})
	if m.Matched {
		return ok()
	}
	return failf("raised %q which does not match pattern %q", msg, pattern)
}

// invoke runs fn, converting a panic or error return into (raised, message).
func invoke(fn any) (raised bool, message string, res Result) {
	res = ok()
	var run func() error
	switch f := fn.(type) {
	case func():
		run = func() error { f(); return nil }
	case func() error:
		run = f
	default:
		return false, "", failf("%s is not an invokable function", format(fn))
	}

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%v", r)
			}
		}()
		return run()
	}()

	if err != nil {
		return true, err.Error(), res
	}
	return false, "", res
}
