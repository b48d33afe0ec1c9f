package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelocateSameSequence(t *testing.T) {
	tests := []struct {
		name      string
		input     []string
		fromIndex int
		toIndex   int
		want      []string
	}{
		{"forward to end", []string{"A", "B", "C", "D"}, 0, 3, []string{"B", "C", "D", "A"}},
		{"backward to front", []string{"A", "B", "C", "D"}, 3, 0, []string{"D", "A", "B", "C"}},
		{"one step forward", []string{"A", "B", "C"}, 0, 1, []string{"B", "A", "C"}},
		{"no move", []string{"A", "B", "C"}, 1, 1, []string{"A", "B", "C"}},
		{"clamp past end", []string{"A", "B", "C"}, 0, 9, []string{"B", "C", "A"}},
		{"clamp negative", []string{"A", "B", "C"}, 2, -1, []string{"C", "A", "B"}},
		{"single element", []string{"A"}, 0, 0, []string{"A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := relocate(tt.input, tt.fromIndex, tt.input, tt.toIndex, true)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRelocateAcrossSequences(t *testing.T) {
	src := []string{"a", "b"}
	dst := []string{"c", "d"}

	src, dst = relocate(src, 0, dst, 1, false)

	assert.Equal(t, []string{"b"}, src)
	assert.Equal(t, []string{"c", "a", "d"}, dst)
}

func TestRelocateIntoEmptySequence(t *testing.T) {
	src := []string{"a"}
	var dst []string

	src, dst = relocate(src, 0, dst, 0, false)

	assert.Empty(t, src)
	assert.Equal(t, []string{"a"}, dst)
}

func TestRelocateOutOfRangeSource(t *testing.T) {
	src := []string{"a", "b"}
	dst := []string{"c"}

	gotSrc, gotDst := relocate(src, 5, dst, 0, false)
	assert.Equal(t, []string{"a", "b"}, gotSrc)
	assert.Equal(t, []string{"c"}, gotDst)

	gotSrc, gotDst = relocate(src, -1, dst, 0, false)
	assert.Equal(t, []string{"a", "b"}, gotSrc)
	assert.Equal(t, []string{"c"}, gotDst)
}
