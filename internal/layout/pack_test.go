package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackEmpty(t *testing.T) {
	assert.Nil(t, Pack(nil))
	assert.Nil(t, Pack([]Span{}))
}

func TestPackNoOverlap(t *testing.T) {
	got := Pack([]Span{
		{ID: "a", Start: 9, End: 10},
		{ID: "b", Start: 10, End: 11},
		{ID: "c", Start: 11, End: 12},
	})

	assert.Equal(t, []Placement{
		{ID: "a", Column: 0, Columns: 1},
		{ID: "b", Column: 0, Columns: 1},
		{ID: "c", Column: 0, Columns: 1},
	}, got)
}

func TestPackReusesFreedColumn(t *testing.T) {
	// a and b overlap; c starts after a ends, so it reuses column 0
	// rather than opening a third.
	got := Pack([]Span{
		{ID: "a", Start: 9, End: 10},
		{ID: "b", Start: 9.5, End: 11},
		{ID: "c", Start: 10, End: 12},
	})

	assert.Equal(t, []Placement{
		{ID: "a", Column: 0, Columns: 2},
		{ID: "b", Column: 1, Columns: 2},
		{ID: "c", Column: 0, Columns: 2},
	}, got)
}

func TestPackColumnCountMatchesMaxOverlap(t *testing.T) {
	got := Pack([]Span{
		{ID: "a", Start: 9, End: 12},
		{ID: "b", Start: 9, End: 12},
		{ID: "c", Start: 9, End: 12},
		{ID: "d", Start: 13, End: 14},
	})

	for _, p := range got {
		assert.Equal(t, 3, p.Columns)
	}
	assert.Equal(t, 0, got[0].Column)
	assert.Equal(t, 1, got[1].Column)
	assert.Equal(t, 2, got[2].Column)
	assert.Equal(t, 0, got[3].Column)
}

func TestPackTouchingEndsDoNotOverlap(t *testing.T) {
	// Half-open intervals: an entry starting exactly when another ends
	// shares its column.
	got := Pack([]Span{
		{ID: "a", Start: 9, End: 10},
		{ID: "b", Start: 10, End: 11},
	})
	assert.Equal(t, got[0].Column, got[1].Column)
}

func TestPackStableForTies(t *testing.T) {
	// Equal starts keep input order, so identical input always yields
	// identical placements.
	spans := []Span{
		{ID: "x", Start: 9, End: 10},
		{ID: "y", Start: 9, End: 10},
	}
	first := Pack(spans)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Pack(spans))
	}
	assert.Equal(t, 0, first[0].Column)
	assert.Equal(t, 1, first[1].Column)
}

func TestPackPlacementsFollowInputOrder(t *testing.T) {
	got := Pack([]Span{
		{ID: "late", Start: 15, End: 16},
		{ID: "early", Start: 8, End: 9},
	})

	// Sorting is internal; results come back in input order.
	assert.Equal(t, "late", got[0].ID)
	assert.Equal(t, "early", got[1].ID)
}
