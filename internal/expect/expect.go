package expect

import (
	"fmt"

	"github.com/roach88/firmo/internal/matcher"
)

// Expectation wraps a subject value and a negation flag. It is created per
// Expect call, consumed by one terminal matcher call, then discarded. The
// subject is never mutated; the only side effect of a terminal call is the
// AssertionFailure panic on mismatch.
type Expectation struct {
	subject   any
	negated   bool
	chain     []string
	custom    string
	tolerance float64
}

// Expect starts an expectation on subject.
func Expect(subject any) *Expectation {
	return &Expectation{subject: subject}
}

// Not returns a copy with the negation flag flipped.
func (e *Expectation) Not() *Expectation {
	c := e.clone()
	c.negated = !c.negated
	c.chain = append(c.chain, "not")
	return c
}

// WithMessage attaches a caller-supplied message appended to any failure.
func (e *Expectation) WithMessage(msg string) *Expectation {
	c := e.clone()
	c.custom = msg
	return c
}

// WithTolerance sets the proximity tolerance used by ToBeNear when no
// explicit tolerance argument is given. The executor seeds this from the
// resolved host configuration.
func (e *Expectation) WithTolerance(tol float64) *Expectation {
	c := e.clone()
	c.tolerance = tol
	return c
}

func (e *Expectation) clone() *Expectation {
	c := *e
	c.chain = append([]string(nil), e.chain...)
	return &c
}

// ToEqual asserts structural equality with expected.
func (e *Expectation) ToEqual(expected any) {
	e.verify("equal", matcher.Equal(e.subject, expected),
		describe(expected), describe(e.subject))
}

// ToBeNil asserts the subject is nil, including typed nil pointers, maps,
// slices, channels, and functions.
func (e *Expectation) ToBeNil() {
	e.verify("be_nil", matcher.IsNil(e.subject), "nil", describe(e.subject))
}

// ToBeNear asserts numeric proximity. An explicit tolerance may be given
// as a single optional argument; otherwise the configured tolerance (or
// the framework epsilon) applies. The bound is inclusive.
func (e *Expectation) ToBeNear(expected any, tol ...float64) {
	if len(tol) > 1 {
		panic(&UsageError{Op: "ToBeNear", Reason: fmt.Sprintf("at most one tolerance argument, got %d", len(tol))})
	}
	t := e.tolerance
	if len(tol) == 1 {
		t = tol[0]
	}
	e.verify("be_near", matcher.Near(e.subject, expected, t),
		fmt.Sprintf("within %v of %s", t, describe(expected)), describe(e.subject))
}

// ToBeBetween asserts lo <= subject <= hi, inclusive on both bounds.
func (e *Expectation) ToBeBetween(lo, hi any) {
	e.verify("be_between", matcher.Between(e.subject, lo, hi),
		fmt.Sprintf("in [%s, %s]", describe(lo), describe(hi)), describe(e.subject))
}

// ToMatch asserts the string subject matches pattern. At most one options
// struct may be given.
func (e *Expectation) ToMatch(pattern string, opts ...matcher.PatternOptions) {
	s := e.stringSubject("ToMatch")
	e.verify("match", matcher.MatchPattern(s, pattern, one("ToMatch", opts)),
		fmt.Sprintf("match pattern %q", pattern), describe(e.subject))
}

// ToMatchAny asserts the string subject matches at least one pattern.
func (e *Expectation) ToMatchAny(patterns []string, opts ...matcher.PatternOptions) {
	s := e.stringSubject("ToMatchAny")
	e.verify("match.any", matcher.MatchAny(s, patterns, one("ToMatchAny", opts)),
		fmt.Sprintf("match any of %v", patterns), describe(e.subject))
}

// ToMatchAll asserts the string subject matches every pattern.
func (e *Expectation) ToMatchAll(patterns []string, opts ...matcher.PatternOptions) {
	s := e.stringSubject("ToMatchAll")
	e.verify("match.all", matcher.MatchAll(s, patterns, one("ToMatchAll", opts)),
		fmt.Sprintf("match all of %v", patterns), describe(e.subject))
}

// ToStartWith asserts the string subject starts with prefix.
func (e *Expectation) ToStartWith(prefix string) {
	s := e.stringSubject("ToStartWith")
	e.verify("start_with", matcher.HasPrefix(s, prefix, false),
		fmt.Sprintf("start with %q", prefix), describe(e.subject))
}

// ToEndWith asserts the string subject ends with suffix.
func (e *Expectation) ToEndWith(suffix string) {
	s := e.stringSubject("ToEndWith")
	e.verify("end_with", matcher.HasSuffix(s, suffix, false),
		fmt.Sprintf("end with %q", suffix), describe(e.subject))
}

// ToContain asserts container membership by value.
func (e *Expectation) ToContain(element any) {
	e.verify("contain", matcher.ContainsElement(e.subject, element),
		fmt.Sprintf("contain %s", describe(element)), describe(e.subject))
}

// ToContainKey asserts map key presence.
func (e *Expectation) ToContainKey(key any) {
	e.verify("contain.key", matcher.ContainsKey(e.subject, key),
		fmt.Sprintf("have key %s", describe(key)), describe(e.subject))
}

// ToContainDeepKey asserts nested key presence via a dotted path or a
// segment list. A non-container intermediate fails the assertion; it does
// not raise.
func (e *Expectation) ToContainDeepKey(path any) {
	e.verify("contain.deep_key", matcher.ContainsDeepKey(e.subject, path),
		fmt.Sprintf("have deep key %s", describe(path)), describe(e.subject))
}

// ToHaveDeepKeyValue asserts the value at a nested key path equals expected.
func (e *Expectation) ToHaveDeepKeyValue(path, expected any) {
	e.verify("contain.deep_key_value", matcher.DeepKeyValue(e.subject, path, expected),
		fmt.Sprintf("have %s at deep key %s", describe(expected), describe(path)), describe(e.subject))
}

// ToContainSubset asserts every key/value pair of sub is present and equal
// in the map subject.
func (e *Expectation) ToContainSubset(sub any) {
	e.verify("contain.subset", matcher.Subset(sub, e.subject),
		fmt.Sprintf("contain subset %s", describe(sub)), describe(e.subject))
}

// ToHaveExactKeys asserts the map subject has exactly the given key set,
// order irrelevant.
func (e *Expectation) ToHaveExactKeys(keys ...any) {
	e.verify("keys.exact", matcher.ExactKeys(e.subject, keys),
		fmt.Sprintf("have exactly keys %v", keys), describe(e.subject))
}

// ToBeBefore asserts the subject instant is chronologically before other.
func (e *Expectation) ToBeBefore(other any) {
	e.verify("date.before", matcher.Before(e.subject, other),
		fmt.Sprintf("be before %s", describe(other)), describe(e.subject))
}

// ToBeAfter asserts the subject instant is chronologically after other.
func (e *Expectation) ToBeAfter(other any) {
	e.verify("date.after", matcher.After(e.subject, other),
		fmt.Sprintf("be after %s", describe(other)), describe(e.subject))
}

// ToBeSameDayAs asserts the subject and other fall on the same calendar
// date, ignoring time of day.
func (e *Expectation) ToBeSameDayAs(other any) {
	e.verify("date.same_day", matcher.SameDay(e.subject, other),
		fmt.Sprintf("be same day as %s", describe(other)), describe(e.subject))
}

// ToBeBetweenDates asserts lo <= subject <= hi, inclusive on both bounds.
func (e *Expectation) ToBeBetweenDates(lo, hi any) {
	e.verify("date.between", matcher.BetweenDates(e.subject, lo, hi),
		fmt.Sprintf("be between %s and %s", describe(lo), describe(hi)), describe(e.subject))
}

// ToBeCallable asserts the subject exposes an invocation capability.
func (e *Expectation) ToBeCallable() {
	e.verify("be_callable", matcher.IsCallable(e.subject), "a callable value", describe(e.subject))
}

// ToBeComparable asserts the subject exposes a total order.
func (e *Expectation) ToBeComparable() {
	e.verify("be_comparable", matcher.IsComparable(e.subject), "a comparable value", describe(e.subject))
}

// ToBeIterable asserts the subject can produce a sequence of elements.
func (e *Expectation) ToBeIterable() {
	e.verify("be_iterable", matcher.IsIterable(e.subject), "an iterable value", describe(e.subject))
}

// ToFail asserts the function subject raises when invoked.
func (e *Expectation) ToFail() {
	e.requireInvokable("ToFail")
	e.verify("fail", matcher.Fails(e.subject), "a raising function", describe(e.subject))
}

// ToFailWith asserts the function subject raises with a message matching
// pattern.
func (e *Expectation) ToFailWith(pattern string) {
	e.requireInvokable("ToFailWith")
	e.verify("fail.with", matcher.FailsWith(e.subject, pattern),
		fmt.Sprintf("raise matching %q", pattern), describe(e.subject))
}

// verify applies the negation flag and raises AssertionFailure on mismatch.
func (e *Expectation) verify(name string, res matcher.Result, expected, actual string) {
	qualifiers := append(append([]string(nil), e.chain...), name)
	if res.Matched != e.negated {
		return
	}
	if e.negated {
		expected = "not: " + expected
		if res.Explanation == "" {
			res.Explanation = "matched, but the expectation was negated"
		}
	}
	panic(&AssertionFailure{
		Qualifiers: qualifiers,
		Message:    res.Explanation,
		Expected:   expected,
		Actual:     actual,
		Diff:       fmt.Sprintf("expected %s\nactual   %s", expected, actual),
		Custom:     e.custom,
	})
}

// stringSubject coerces the subject for string matchers. A non-string
// subject is wrong-type API misuse.
func (e *Expectation) stringSubject(op string) string {
	s, isStr := e.subject.(string)
	if !isStr {
		panic(&UsageError{Op: op, Reason: fmt.Sprintf("subject must be a string, got %T", e.subject)})
	}
	return s
}

// requireInvokable rejects non-function subjects for fail matchers.
func (e *Expectation) requireInvokable(op string) {
	switch e.subject.(type) {
	case func(), func() error:
	default:
		panic(&UsageError{Op: op, Reason: fmt.Sprintf("subject must be func() or func() error, got %T", e.subject)})
	}
}

// one enforces the at-most-one-options-struct arity shared by the pattern
// terminals.
func one(op string, opts []matcher.PatternOptions) matcher.PatternOptions {
	switch len(opts) {
	case 0:
		return matcher.PatternOptions{}
	case 1:
		return opts[0]
	default:
		panic(&UsageError{Op: op, Reason: fmt.Sprintf("at most one options struct, got %d", len(opts))})
	}
}

// describe renders a value for failure messages.
func describe(v any) string {
	if v == nil {
		return "nil"
	}
	s := fmt.Sprintf("%#v", v)
	const max = 200
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
