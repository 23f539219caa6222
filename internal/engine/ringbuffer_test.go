package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBufferAdd(t *testing.T) {
	rb := NewRingBuffer[int](5)
	for i := 0; i < 3; i++ {
		rb.Add(i)
	}
	assert.Equal(t, 3, rb.Len())
	assert.Equal(t, 5, rb.Cap())
}

func TestRingBufferWrap(t *testing.T) {
	rb := NewRingBuffer[int](3)
	for i := 0; i < 5; i++ {
		rb.Add(i)
	}
	require.Equal(t, 3, rb.Len())
	assert.Equal(t, []int{2, 3, 4}, rb.All())
}

func TestRingBufferEmpty(t *testing.T) {
	rb := NewRingBuffer[int](10)
	assert.Zero(t, rb.Len())
	assert.Empty(t, rb.All())
	_, ok := rb.Last()
	assert.False(t, ok)
}

func TestRingBufferLast(t *testing.T) {
	rb := NewRingBuffer[int](5)
	rb.Add(1)
	rb.Add(2)
	rb.Add(3)
	last, ok := rb.Last()
	require.True(t, ok)
	assert.Equal(t, 3, last)
}

func TestRingBufferMinimumCapacity(t *testing.T) {
	rb := NewRingBuffer[int](0)
	rb.Add(1)
	rb.Add(2)
	assert.Equal(t, 1, rb.Cap())
	assert.Equal(t, []int{2}, rb.All())
}

func TestRingBufferReset(t *testing.T) {
	rb := NewRingBuffer[int](3)
	rb.Add(1)
	rb.Add(2)
	rb.Reset()
	assert.Zero(t, rb.Len())
	rb.Add(7)
	assert.Equal(t, []int{7}, rb.All())
}
