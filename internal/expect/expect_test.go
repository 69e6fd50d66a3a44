package expect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/firmo/internal/matcher"
)

// failureOf runs fn and returns the AssertionFailure it raised, or nil when
// it completed cleanly.
func failureOf(t *testing.T, fn func()) *AssertionFailure {
	t.Helper()
	var failure *AssertionFailure
	func() {
		defer func() {
			if r := recover(); r != nil {
				af, isFailure := r.(*AssertionFailure)
				require.True(t, isFailure, "unexpected panic value %v", r)
				failure = af
			}
		}()
		fn()
	}()
	return failure
}

func TestExpectTerminals(t *testing.T) {
	tests := []struct {
		name   string
		assert func()
		fails  bool
	}{
		{"equal holds", func() { Expect(3).ToEqual(3) }, false},
		{"equal coerces numerics", func() { Expect(int64(3)).ToEqual(3.0) }, false},
		{"equal mismatch", func() { Expect(3).ToEqual(4) }, true},
		{"negated equal", func() { Expect(3).Not().ToEqual(4) }, false},
		{"negated equal on match", func() { Expect(3).Not().ToEqual(3) }, true},
		{"nil subject", func() { Expect(nil).ToBeNil() }, false},
		{"typed nil pointer subject", func() { Expect((*int)(nil)).ToBeNil() }, false},
		{"typed nil slice subject", func() { Expect(([]string)(nil)).ToBeNil() }, false},
		{"non-nil subject", func() { Expect(1).ToBeNil() }, true},
		{"non-nil pointer subject", func() { Expect(new(int)).ToBeNil() }, true},
		{"near within explicit tolerance", func() { Expect(1.0).ToBeNear(1.05, 0.1) }, false},
		{"near at tolerance boundary", func() { Expect(1.0).ToBeNear(1.1, 0.1) }, false},
		{"near beyond tolerance", func() { Expect(1.0).ToBeNear(1.2, 0.1) }, true},
		{"between inclusive", func() { Expect(10).ToBeBetween(1, 10) }, false},
		{"between outside", func() { Expect(11).ToBeBetween(1, 10) }, true},
		{"match", func() { Expect("error 42").ToMatch(`error \d+`) }, false},
		{"match with options", func() {
			Expect("WARN").ToMatch("warn", matcher.PatternOptions{IgnoreCase: true})
		}, false},
		{"match any", func() { Expect("dog").ToMatchAny([]string{"cat", "dog"}) }, false},
		{"match all misses", func() { Expect("dog").ToMatchAll([]string{"cat", "dog"}) }, true},
		{"start with", func() { Expect("prefix rest").ToStartWith("prefix") }, false},
		{"end with", func() { Expect("file.go").ToEndWith(".go") }, false},
		{"contain element", func() { Expect([]any{1, 2}).ToContain(2) }, false},
		{"contain key", func() { Expect(map[string]int{"a": 1}).ToContainKey("a") }, false},
		{"deep key present", func() {
			Expect(map[string]any{"nested": map[string]any{"value": 123}}).ToContainDeepKey("nested.value")
		}, false},
		{"deep key absent fails not raises", func() {
			Expect(map[string]any{"foo": "bar"}).ToContainDeepKey("nested.value")
		}, true},
		{"deep key value", func() {
			Expect(map[string]any{"a": map[string]any{"b": 2}}).ToHaveDeepKeyValue("a.b", 2)
		}, false},
		{"subset", func() {
			Expect(map[string]any{"a": 1, "b": 2}).ToContainSubset(map[string]any{"a": 1})
		}, false},
		{"exact keys", func() {
			Expect(map[string]any{"a": 1, "b": 2}).ToHaveExactKeys("b", "a")
		}, false},
		{"date before", func() { Expect("2024-01-01").ToBeBefore("2024-06-01") }, false},
		{"date after", func() { Expect("2024-06-01").ToBeAfter("2024-01-01") }, false},
		{"same day", func() { Expect("2024-06-15T01:00:00Z").ToBeSameDayAs("2024-06-15T23:00:00Z") }, false},
		{"between dates", func() { Expect("2024-03-01").ToBeBetweenDates("2024-01-01", "2024-06-01") }, false},
		{"callable", func() { Expect(func() {}).ToBeCallable() }, false},
		{"comparable", func() { Expect(7).ToBeComparable() }, false},
		{"iterable", func() { Expect([]int{1}).ToBeIterable() }, false},
		{"fail", func() { Expect(func() { panic("x") }).ToFail() }, false},
		{"fail with", func() { Expect(func() { panic("disk full") }).ToFailWith("disk") }, false},
		{"fail on clean function", func() { Expect(func() {}).ToFail() }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failure := failureOf(t, tt.assert)
			if tt.fails {
				assert.NotNil(t, failure)
			} else {
				assert.Nil(t, failure)
			}
		})
	}
}

func TestFailureCarriesQualifierChain(t *testing.T) {
	failure := failureOf(t, func() {
		Expect(map[string]any{"a": 1}).Not().ToContainKey("a")
	})
	require.NotNil(t, failure)
	assert.Equal(t, []string{"not", "contain.key"}, failure.Qualifiers)
	assert.Contains(t, failure.Expected, "not:")
}

func TestFailureCarriesCustomMessage(t *testing.T) {
	failure := failureOf(t, func() {
		Expect(1).WithMessage("ids must line up").ToEqual(2)
	})
	require.NotNil(t, failure)
	assert.Equal(t, "ids must line up", failure.Custom)
	assert.Contains(t, failure.Error(), "ids must line up")
}

func TestConfiguredToleranceAppliesWhenNoneGiven(t *testing.T) {
	// The seeded tolerance applies only when the terminal call passes none.
	assert.Nil(t, failureOf(t, func() {
		Expect(1.0).WithTolerance(0.5).ToBeNear(1.4)
	}))
	assert.NotNil(t, failureOf(t, func() {
		Expect(1.0).WithTolerance(0.5).ToBeNear(1.4, 0.1)
	}))
}

func TestNotReturnsIndependentCopy(t *testing.T) {
	base := Expect(3)
	negated := base.Not()

	assert.Nil(t, failureOf(t, func() { base.ToEqual(3) }))
	assert.NotNil(t, failureOf(t, func() { negated.ToEqual(3) }))
}

func TestDoubleNegation(t *testing.T) {
	assert.Nil(t, failureOf(t, func() { Expect(3).Not().Not().ToEqual(3) }))
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name   string
		misuse func()
	}{
		{"string matcher on non-string", func() { Expect(42).ToMatch("x") }},
		{"prefix on non-string", func() { Expect(42).ToStartWith("4") }},
		{"two tolerances", func() { Expect(1.0).ToBeNear(1.0, 0.1, 0.2) }},
		{"two option structs", func() {
			Expect("s").ToMatch("s", matcher.PatternOptions{}, matcher.PatternOptions{})
		}},
		{"fail on non-function", func() { Expect("nope").ToFail() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				_, isUsage := r.(*UsageError)
				assert.True(t, isUsage, "want *UsageError, got %T", r)
			}()
			tt.misuse()
		})
	}
}

func TestCapture(t *testing.T) {
	t.Run("clean function yields nil", func(t *testing.T) {
		assert.Nil(t, Capture(func() {}))
	})

	t.Run("panic becomes a value", func(t *testing.T) {
		captured := Capture(func() { panic("kaboom") })
		require.NotNil(t, captured)
		assert.Equal(t, "kaboom", captured.Error())
	})

	t.Run("wrapped error unwraps", func(t *testing.T) {
		sentinel := errors.New("sentinel")
		captured := Capture(func() { panic(sentinel) })
		require.NotNil(t, captured)
		assert.ErrorIs(t, captured, sentinel)
	})

	t.Run("usage errors pass through", func(t *testing.T) {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			_, isUsage := r.(*UsageError)
			assert.True(t, isUsage)
		}()
		Capture(func() { Expect(42).ToMatch("x") })
	})
}

func TestCaptureErr(t *testing.T) {
	assert.Nil(t, CaptureErr(func() error { return nil }))

	sentinel := errors.New("db unreachable")
	captured := CaptureErr(func() error { return sentinel })
	require.NotNil(t, captured)
	assert.ErrorIs(t, captured, sentinel)

	captured = CaptureErr(func() error { panic("pre-return explosion") })
	require.NotNil(t, captured)
	assert.Equal(t, "pre-return explosion", captured.Error())
}
