package sliceutils_test

import (
	"testing"

	"github.com/soontechgroup/ai-agents-sub001/internal/sliceutils"
	"github.com/stretchr/testify/assert"
)

func TestHead(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, sliceutils.Head([]int{1, 2, 3, 4, 5}, 3))
	assert.Equal(t, []int{1, 2}, sliceutils.Head([]int{1, 2}, 5))
	assert.Empty(t, sliceutils.Head([]int{}, 3))
	assert.Equal(t, []int{1, 2}, sliceutils.Head([]int{1, 2}, -1))
}

func TestCut(t *testing.T) {
	assert.Equal(t, []int{2, 3}, sliceutils.Cut([]int{1, 2, 3, 4}, 1, 3))
	assert.Equal(t, []int{3, 4}, sliceutils.Cut([]int{1, 2, 3, 4}, -2, 4))
	assert.Empty(t, sliceutils.Cut([]int{1, 2, 3, 4}, 3, 1))
}
