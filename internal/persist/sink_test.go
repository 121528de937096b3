package persist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchBounds_EvenDivision(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 3}, {3, 6}, {6, 9}}, batchBounds(9, 3))
}

func TestBatchBounds_RemainderTrailingBatch(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 4}, {4, 8}, {8, 10}}, batchBounds(10, 4))
}

func TestBatchBounds_SizeLargerThanTotal(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 5}}, batchBounds(5, 1000))
}

func TestBatchBounds_EmptyInput(t *testing.T) {
	assert.Empty(t, batchBounds(0, 100))
}

func TestBatchBounds_NonPositiveSizeFallsBackToOneBatch(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 7}}, batchBounds(7, 0))
}
