package drag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateRequiresContainment(t *testing.T) {
	regions := []Region{
		{ID: "TODAY", X: 10, Y: 0, W: 10, H: 10},
	}

	// Near the region but outside it: no match, however close.
	_, ok := Locate(Point{X: 9, Y: 0}, regions)
	assert.False(t, ok)

	id, ok := Locate(Point{X: 10, Y: 0}, regions)
	require.True(t, ok)
	assert.Equal(t, "TODAY", id)
}

func TestLocateWaitingWinsOutright(t *testing.T) {
	// The waiting panel overlaps a calendar slot region; waiting takes
	// hard priority regardless of corner distances.
	regions := []Region{
		{ID: "2024-05-10T00:00:00.000Z-9", X: 0, Y: 0, W: 40, H: 4},
		{ID: "waiting", X: 0, Y: 0, W: 20, H: 20},
	}

	id, ok := Locate(Point{X: 5, Y: 2}, regions)
	require.True(t, ok)
	assert.Equal(t, "waiting", id)
}

func TestLocateWaitingCardWins(t *testing.T) {
	regions := []Region{
		{ID: "TODAY", X: 0, Y: 0, W: 30, H: 30},
		{ID: "waiting-t1", X: 0, Y: 5, W: 20, H: 1},
	}

	id, ok := Locate(Point{X: 3, Y: 5}, regions)
	require.True(t, ok)
	assert.Equal(t, "waiting-t1", id)
}

func TestLocateNearestCorner(t *testing.T) {
	left := Region{ID: "left", X: 0, Y: 0, W: 10, H: 10}
	right := Region{ID: "right", X: 8, Y: 0, W: 10, H: 10}
	regions := []Region{left, right}

	// Inside the overlap, close to right's left edge corners.
	id, ok := Locate(Point{X: 8, Y: 0}, regions)
	require.True(t, ok)
	assert.Equal(t, "right", id)

	// Still in the overlap but nearest to left's top-right corner.
	id, ok = Locate(Point{X: 9, Y: 3}, regions)
	require.True(t, ok)
	assert.Equal(t, "left", id)
}

func TestLocateTieBreaksByRegistrationOrder(t *testing.T) {
	// Identical geometry: the first-registered region wins.
	regions := []Region{
		{ID: "first", X: 0, Y: 0, W: 10, H: 10},
		{ID: "second", X: 0, Y: 0, W: 10, H: 10},
	}

	id, ok := Locate(Point{X: 5, Y: 5}, regions)
	require.True(t, ok)
	assert.Equal(t, "first", id)
}

func TestLocateNoRegions(t *testing.T) {
	_, ok := Locate(Point{X: 1, Y: 1}, nil)
	assert.False(t, ok)
}
