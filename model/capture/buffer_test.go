package capture

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer_Write(t *testing.T) {
	testCases := []struct {
		name     string
		capacity int
		writes   []string
		expected string
	}{
		{name: "fits", capacity: 16, writes: []string{"hello\n"}, expected: "hello\n"},
		{name: "exact", capacity: 6, writes: []string{"hello"}, expected: "hello"},
		{name: "truncated", capacity: 6, writes: []string{"hello world"}, expected: "hello"},
		{name: "multiple writes", capacity: 8, writes: []string{"abc", "def", "ghi"}, expected: "abcdefg"},
		{name: "single byte capacity", capacity: 1, writes: []string{"abc"}, expected: ""},
		{name: "default capacity", capacity: 0, writes: []string{strings.Repeat("x", 2000)}, expected: strings.Repeat("x", DefaultCapacity-1)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buffer := NewBuffer(tc.capacity)
			for _, w := range tc.writes {
				n, err := buffer.Write([]byte(w))
				assert.NoError(t, err)
				assert.Equal(t, len(w), n)
			}
			assert.Equal(t, tc.expected, buffer.String())
			assert.LessOrEqual(t, buffer.Len(), buffer.Cap()-1)
			terminated := buffer.Terminated()
			assert.Equal(t, buffer.Len()+1, len(terminated))
			assert.Equal(t, byte(0), terminated[len(terminated)-1])
		})
	}
}

func TestBuffer_Reset(t *testing.T) {
	buffer := NewBuffer(8)
	_, _ = buffer.Write([]byte("abc"))
	buffer.Reset()
	assert.Equal(t, 0, buffer.Len())
	assert.Equal(t, []byte{0}, buffer.Terminated())
}
