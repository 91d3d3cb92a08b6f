package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopK(t *testing.T) {
	q := NewTopK(3)

	for i, d := range []float32{0.5, 0.1, 0.9, 0.3, 0.2, 0.7} {
		q.Offer(Item{Node: uint32(i), Distance: d})
	}

	assert.Equal(t, []Item{
		{Node: 1, Distance: 0.1},
		{Node: 4, Distance: 0.2},
		{Node: 3, Distance: 0.3},
	}, q.Sorted())
	assert.Empty(t, q.Sorted())
}

func TestTopKTiesPreferLowerNode(t *testing.T) {
	q := NewTopK(2)

	assert.True(t, q.Offer(Item{Node: 5, Distance: 1}))
	assert.True(t, q.Offer(Item{Node: 3, Distance: 1}))
	assert.True(t, q.Offer(Item{Node: 1, Distance: 1}))
	assert.False(t, q.Offer(Item{Node: 9, Distance: 1}))

	assert.Equal(t, []Item{{Node: 1, Distance: 1}, {Node: 3, Distance: 1}}, q.Sorted())
}

func TestTopKEmpty(t *testing.T) {
	q := NewTopK(0)
	assert.False(t, q.Offer(Item{Node: 1}))
	assert.Empty(t, q.Sorted())
}
