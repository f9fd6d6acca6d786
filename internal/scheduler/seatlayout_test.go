package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatSequenceGroupOfTwo(t *testing.T) {
	seats := SeatSequence(4, 2, 2)
	require.Len(t, seats, 8)

	expected := []Seat{
		{1, 1}, {1, 3}, {1, 2}, {1, 4},
		{2, 1}, {2, 3}, {2, 2}, {2, 4},
	}
	assert.Equal(t, expected, seats)
}

func TestSeatSequenceGroupOfThree(t *testing.T) {
	seats := SeatSequence(7, 1, 3)
	expected := []Seat{
		{1, 1}, {1, 4}, {1, 7},
		{1, 2}, {1, 5},
		{1, 3}, {1, 6},
	}
	assert.Equal(t, expected, seats)
}

func TestSeatSequenceFrontHalfOfRowUsesOddColumns(t *testing.T) {
	width := 8
	seats := SeatSequence(width, 1, 2)
	for i := 0; i < (width+1)/2; i++ {
		assert.Equal(t, 1, seats[i].Column%2, "seat %d should be an odd column", i)
	}
}

func TestSeatSequenceCoversEveryCellOnce(t *testing.T) {
	seats := SeatSequence(5, 3, 3)
	require.Len(t, seats, 15)
	seen := make(map[Seat]bool)
	for _, seat := range seats {
		assert.False(t, seen[seat], "seat %v generated twice", seat)
		seen[seat] = true
		assert.GreaterOrEqual(t, seat.Row, 1)
		assert.LessOrEqual(t, seat.Row, 3)
		assert.GreaterOrEqual(t, seat.Column, 1)
		assert.LessOrEqual(t, seat.Column, 5)
	}
}

func TestSeatSequenceNormalizesGroupSize(t *testing.T) {
	assert.Equal(t, SeatSequence(6, 2, 2), SeatSequence(6, 2, 0))
	assert.Equal(t, SeatSequence(6, 2, 2), SeatSequence(6, 2, 5))
}

func TestSeatSequenceDegenerateDimensions(t *testing.T) {
	assert.Empty(t, SeatSequence(0, 5, 2))
	assert.Empty(t, SeatSequence(5, 0, 2))
	assert.Empty(t, SeatSequence(-1, -1, 3))
}
