package drag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/planboard/internal/model"
)

func TestParseTargetWaiting(t *testing.T) {
	got, err := ParseTarget("waiting")
	require.NoError(t, err)
	assert.Equal(t, WaitingTarget{}, got)

	// Any card inside the waiting list is still the waiting list.
	got, err = ParseTarget("waiting-abc123")
	require.NoError(t, err)
	assert.Equal(t, WaitingTarget{}, got)
}

func TestParseTargetSlot(t *testing.T) {
	got, err := ParseTarget("2024-05-10T00:00:00.000Z-14")
	require.NoError(t, err)

	slot, ok := got.(SlotTarget)
	require.True(t, ok)
	assert.Equal(t, 14, slot.Hour)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), slot.Day.UTC())
}

func TestParseTargetSlotLastHyphenSplit(t *testing.T) {
	// The day portion contains hyphens; a first-hyphen split would
	// produce garbage. Hour 0 exercises the shortest suffix.
	got, err := ParseTarget("2024-12-31T00:00:00.000Z-0")
	require.NoError(t, err)

	slot, ok := got.(SlotTarget)
	require.True(t, ok)
	assert.Equal(t, 0, slot.Hour)
	assert.Equal(t, time.December, slot.Day.Month())
}

func TestParseTargetSlotRejectsBadHours(t *testing.T) {
	for _, id := range []string{
		"2024-05-10T00:00:00.000Z-24",
		"2024-05-10T00:00:00.000Z--1",
		"2024-05-10T00:00:00.000Z-noon",
	} {
		_, err := ParseTarget(id)
		assert.Error(t, err, id)
	}
}

func TestParseTargetColumn(t *testing.T) {
	for _, bucket := range model.BoardColumns {
		if bucket == model.StatusWaiting {
			// The waiting column id hits the waiting branch first.
			continue
		}
		got, err := ParseTarget(bucket)
		require.NoError(t, err)
		assert.Equal(t, ColumnTarget{Status: bucket}, got)
	}
}

func TestParseTargetItem(t *testing.T) {
	got, err := ParseTarget("board-task-42")
	require.NoError(t, err)
	assert.Equal(t, ItemTarget{Item: ItemID{Surface: SurfaceBoard, TaskID: "task-42"}}, got)

	got, err = ParseTarget("calendar-task-42")
	require.NoError(t, err)
	assert.Equal(t, ItemTarget{Item: ItemID{Surface: SurfaceCalendar, TaskID: "task-42"}}, got)
}

func TestParseTargetUnknown(t *testing.T) {
	for _, id := range []string{"", "DONE", "banana", "board-", "2024-05-10"} {
		_, err := ParseTarget(id)
		require.Error(t, err, id)
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
	}
}

func TestSlotIDRoundTrip(t *testing.T) {
	day := time.Date(2024, 5, 10, 13, 45, 0, 0, time.Local)
	id := SlotID(day, 14)

	got, err := ParseTarget(id)
	require.NoError(t, err)

	slot, ok := got.(SlotTarget)
	require.True(t, ok)
	assert.Equal(t, 14, slot.Hour)
	// SlotID normalizes to the UTC day start regardless of the input time.
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), slot.Day.UTC())
}

func TestItemIDRoundTrip(t *testing.T) {
	for _, surface := range []Surface{SurfaceCalendar, SurfaceBoard, SurfaceWaiting} {
		id := ItemID{Surface: surface, TaskID: "abc"}
		decoded, ok := DecodeItem(id.String())
		require.True(t, ok)
		assert.Equal(t, id, decoded)
	}

	_, ok := DecodeItem("TODAY")
	assert.False(t, ok)
}
