package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReady_Sort(t *testing.T) {
	priorities := map[int]int{0: 3, 1: 1, 2: 3, 3: 2, 4: 1}
	q := NewReady(5)
	for i := 0; i < 5; i++ {
		q.Push(i)
	}
	q.Sort(func(a, b int) bool { return priorities[a] < priorities[b] })
	assert.Equal(t, []int{1, 4, 3, 0, 2}, q.Handles())

	// sorting again must not reorder ties
	q.Sort(func(a, b int) bool { return priorities[a] < priorities[b] })
	assert.Equal(t, []int{1, 4, 3, 0, 2}, q.Handles())
}

func TestReady_HeadAndAdvance(t *testing.T) {
	var testCases = []struct {
		description string
		handles     []int
		n           int
		expectHead  []int
	}{
		{description: "empty", n: 2},
		{description: "shorter than n", handles: []int{7}, n: 3, expectHead: []int{7}},
		{description: "longer than n", handles: []int{1, 2, 3}, n: 2, expectHead: []int{1, 2}},
		{description: "zero n", handles: []int{1, 2}, n: 0},
	}
	for _, testCase := range testCases {
		q := NewReady(len(testCase.handles))
		for _, h := range testCase.handles {
			q.Push(h)
		}
		assert.Equal(t, testCase.expectHead, q.Head(testCase.n), testCase.description)
		assert.Equal(t, len(testCase.handles), q.Len(), testCase.description)
	}

	q := NewReady(2)
	q.Push(5)
	q.Push(6)
	head := q.Head(2)
	head[0] = 99
	h, ok := q.Advance()
	assert.True(t, ok)
	assert.Equal(t, 5, h)
	assert.Equal(t, []int{6}, q.Handles())
	q.Advance()
	h, ok = q.Advance()
	assert.False(t, ok)
	assert.Equal(t, -1, h)
}
