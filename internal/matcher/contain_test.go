package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsElement(t *testing.T) {
	tests := []struct {
		name      string
		container any
		element   any
		matched   bool
	}{
		{"slice holds element", []any{1, 2, 3}, 2, true},
		{"slice missing element", []any{1, 2, 3}, 4, false},
		{"slice coerces numerics", []int{1, 2, 3}, 2.0, true},
		{"slice of composites", []any{map[string]any{"k": 1}}, map[string]any{"k": 1}, true},
		{"map matches values", map[string]int{"a": 1, "b": 2}, 2, true},
		{"map ignores keys", map[string]int{"a": 1}, "a", false},
		{"string substring", "hello world", "lo wo", true},
		{"string missing substring", "hello", "bye", false},
		{"string vs non-string element", "hello", 5, false},
		{"nil container", nil, 1, false},
		{"scalar is not a container", 42, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matched, ContainsElement(tt.container, tt.element).Matched)
		})
	}
}

func TestContainsKey(t *testing.T) {
	m := map[string]any{"alpha": 1, "beta": 2}

	assert.True(t, ContainsKey(m, "alpha").Matched)
	assert.False(t, ContainsKey(m, "gamma").Matched)
	assert.False(t, ContainsKey(nil, "alpha").Matched)
	assert.False(t, ContainsKey([]int{1}, 0).Matched)

	// Keys compare by value with coercion, like everything else.
	assert.True(t, ContainsKey(map[int]string{7: "x"}, 7.0).Matched)
}

func TestContainsDeepKey(t *testing.T) {
	container := map[string]any{
		"nested": map[string]any{"value": 123},
	}

	tests := []struct {
		name    string
		path    any
		matched bool
	}{
		{"path resolves", "nested.value", true},
		{"missing leaf", "nested.other", false},
		{"missing root", "foo", false},
		{"segment list form", []string{"nested", "value"}, true},
		{"any-slice form", []any{"nested", "value"}, true},
		{"empty path", "", false},
		{"non-string segment", []any{"nested", 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matched, ContainsDeepKey(container, tt.path).Matched)
		})
	}
}

func TestContainsDeepKeyNonMapIntermediate(t *testing.T) {
	// A scalar in the middle of the path degrades to a no-match with an
	// explanation; it is never an error.
	container := map[string]any{"leaf": 42}
	res := ContainsDeepKey(container, "leaf.deeper")
	assert.False(t, res.Matched)
	assert.Contains(t, res.Explanation, "not a map")
}

func TestDeepKeyValue(t *testing.T) {
	container := map[string]any{
		"config": map[string]any{"retries": 3},
	}

	assert.True(t, DeepKeyValue(container, "config.retries", 3).Matched)
	assert.True(t, DeepKeyValue(container, "config.retries", 3.0).Matched)
	assert.False(t, DeepKeyValue(container, "config.retries", 5).Matched)
	assert.False(t, DeepKeyValue(container, "config.missing", 3).Matched)
}

func TestSubset(t *testing.T) {
	super := map[string]any{"a": 1, "b": 2, "c": 3}

	assert.True(t, Subset(map[string]any{"a": 1, "c": 3}, super).Matched)
	assert.True(t, Subset(map[string]any{}, super).Matched)
	assert.False(t, Subset(map[string]any{"a": 2}, super).Matched)
	assert.False(t, Subset(map[string]any{"z": 1}, super).Matched)
	assert.False(t, Subset([]int{1}, super).Matched)
	assert.False(t, Subset(super, []int{1}).Matched)
}

func TestExactKeys(t *testing.T) {
	m := map[string]any{"a": 1, "b": 2}

	assert.True(t, ExactKeys(m, []any{"a", "b"}).Matched)
	assert.True(t, ExactKeys(m, []any{"b", "a"}).Matched)
	assert.False(t, ExactKeys(m, []any{"a"}).Matched)
	assert.False(t, ExactKeys(m, []any{"a", "b", "c"}).Matched)
	assert.False(t, ExactKeys(m, []any{"a", "c"}).Matched)
}
