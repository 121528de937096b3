package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRing_PushTryPopFIFO(t *testing.T) {
	r := newRing[int]()

	for i := 0; i < 10; i++ {
		r.push(i)
	}

	for i := 0; i < 10; i++ {
		v, ok := r.tryPop()
		assert.True(t, ok)
		assert.Equal(t, i, v)
	}

	_, ok := r.tryPop()
	assert.False(t, ok)
}

func TestRing_DepthTracksPending(t *testing.T) {
	r := newRing[int]()
	assert.Equal(t, 0, r.depth())

	r.push(1)
	r.push(2)
	assert.Equal(t, 2, r.depth())

	r.tryPop()
	assert.Equal(t, 1, r.depth())
}

func TestRing_FillToCapacityAndDrain(t *testing.T) {
	r := newRing[int]()
	for i := 0; i < ringCapacity; i++ {
		r.push(i)
	}
	assert.Equal(t, ringCapacity, r.depth())

	for i := 0; i < ringCapacity; i++ {
		v, ok := r.tryPop()
		assert.True(t, ok)
		assert.Equal(t, i, v)
	}
	assert.Equal(t, 0, r.depth())
}
