package matcher

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type adder struct{}

func (adder) Call(args ...any) ([]any, error) {
	sum := 0
	for _, a := range args {
		n, ok := a.(int)
		if !ok {
			return nil, fmt.Errorf("not an int: %v", a)
		}
		sum += n
	}
	return []any{sum}, nil
}

type version struct{ major int }

func (v version) CompareTo(other any) (int, error) {
	o, ok := other.(version)
	if !ok {
		return 0, fmt.Errorf("not a version: %v", other)
	}
	return v.major - o.major, nil
}

type countdown struct{ from int }

func (c countdown) Iterate() func() (any, bool) {
	n := c.from
	return func() (any, bool) {
		if n <= 0 {
			return nil, false
		}
		n--
		return n + 1, true
	}
}

func TestIsCallable(t *testing.T) {
	assert.True(t, IsCallable(func() {}).Matched)
	assert.True(t, IsCallable(func(int) string { return "" }).Matched)
	assert.True(t, IsCallable(adder{}).Matched)
	assert.False(t, IsCallable(42).Matched)
	assert.False(t, IsCallable("func").Matched)
	assert.False(t, IsCallable(nil).Matched)
}

func TestIsComparable(t *testing.T) {
	assert.True(t, IsComparable(3).Matched)
	assert.True(t, IsComparable(3.14).Matched)
	assert.True(t, IsComparable("abc").Matched)
	assert.True(t, IsComparable(version{major: 2}).Matched)
	assert.False(t, IsComparable(map[string]int{}).Matched)
	assert.False(t, IsComparable(nil).Matched)
}

func TestIsIterable(t *testing.T) {
	assert.True(t, IsIterable([]int{1, 2}).Matched)
	assert.True(t, IsIterable([2]string{"a", "b"}).Matched)
	assert.True(t, IsIterable(map[string]int{"a": 1}).Matched)
	assert.True(t, IsIterable("abc").Matched)
	assert.True(t, IsIterable(make(chan int)).Matched)
	assert.True(t, IsIterable(countdown{from: 3}).Matched)
	assert.False(t, IsIterable(42).Matched)
	assert.False(t, IsIterable(nil).Matched)
}
