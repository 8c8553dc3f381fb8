package drag

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/planboard/internal/model"
	"github.com/nhle/planboard/internal/schedule"
	"github.com/nhle/planboard/internal/state"
)

// Wednesday morning.
var resolveNow = time.Date(2024, 5, 15, 9, 0, 0, 0, time.Local)

func coordinatorFor(tasks ...model.Task) Coordinator {
	byID := make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	return Coordinator{Lookup: func(id string) (model.Task, bool) {
		t, ok := byID[id]
		return t, ok
	}}
}

func boardItem(id string) ItemID {
	return ItemID{Surface: SurfaceBoard, TaskID: id}
}

func requirePatch(t *testing.T, res Resolution) model.TaskPatch {
	t.Helper()
	require.NotNil(t, res.Intent)
	assert.Equal(t, state.OpUpdate, res.Intent.Op)
	assert.Empty(t, res.ReorderBefore)
	return res.Intent.Patch
}

func TestResolveUnknownTaskIsNoOp(t *testing.T) {
	c := coordinatorFor()
	res := c.Resolve(boardItem("ghost"), WaitingTarget{}, resolveNow)
	assert.Nil(t, res.Intent)
	assert.Empty(t, res.ReorderBefore)
}

func TestResolveWaitingClearsSchedule(t *testing.T) {
	due := time.Date(2024, 5, 16, 14, 0, 0, 0, time.Local)
	task := model.Task{ID: "t1", Status: model.StatusThisWeek, Due: &due}
	c := coordinatorFor(task)

	patch := requirePatch(t, c.Resolve(boardItem("t1"), WaitingTarget{}, resolveNow))

	require.NotNil(t, patch.Status)
	assert.Equal(t, model.StatusWaiting, *patch.Status)
	assert.True(t, patch.ClearDue)
	assert.Equal(t, "", *patch.RawDate)
	assert.Equal(t, "", *patch.RawTime)
}

func TestResolveSlotSchedulesAndClassifies(t *testing.T) {
	task := model.Task{ID: "t1", Status: model.StatusWaiting}
	c := coordinatorFor(task)

	day := time.Date(2024, 5, 16, 0, 0, 0, 0, time.Local)
	patch := requirePatch(t, c.Resolve(boardItem("t1"), SlotTarget{Day: day, Hour: 14}, resolveNow))

	require.NotNil(t, patch.Due)
	assert.Equal(t, time.Date(2024, 5, 16, 14, 0, 0, 0, time.Local), *patch.Due)
	assert.Equal(t, model.StatusThisWeek, *patch.Status)
	assert.Equal(t, "2024-05-16", *patch.RawDate)
	assert.Equal(t, "14:00", *patch.RawTime)
	assert.False(t, patch.ClearDue)
}

func TestResolveParsedSlotUsesCallerZone(t *testing.T) {
	// Slot ids carry the day as UTC components; the resolved due must land
	// on that calendar day in the caller's zone, whichever side of UTC the
	// caller sits on.
	for _, tc := range []struct {
		name string
		zone *time.Location
	}{
		{"behind UTC", time.FixedZone("UTC-5", -5*60*60)},
		{"ahead of UTC", time.FixedZone("UTC+2", 2*60*60)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			target, err := ParseTarget("2024-05-10T00:00:00.000Z-14")
			require.NoError(t, err)

			task := model.Task{ID: "t1", Status: model.StatusWaiting}
			c := coordinatorFor(task)

			now := time.Date(2024, 5, 10, 9, 0, 0, 0, tc.zone)
			patch := requirePatch(t, c.Resolve(boardItem("t1"), target, now))

			require.NotNil(t, patch.Due)
			assert.Equal(t, time.Date(2024, 5, 10, 14, 0, 0, 0, tc.zone), *patch.Due)
			assert.Equal(t, model.StatusToday, *patch.Status)
			assert.Equal(t, "2024-05-10", *patch.RawDate)
			assert.Equal(t, "14:00", *patch.RawTime)

			// The due stays visible in its own calendar column.
			day := time.Date(2024, 5, 10, 0, 0, 0, 0, tc.zone)
			assert.True(t, schedule.StartOfDay(*patch.Due).Equal(day))
		})
	}
}

func TestResolveSlotToPastIsDelayed(t *testing.T) {
	task := model.Task{ID: "t1", Status: model.StatusToday}
	c := coordinatorFor(task)

	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.Local)
	patch := requirePatch(t, c.Resolve(boardItem("t1"), SlotTarget{Day: day, Hour: 8}, resolveNow))

	assert.Equal(t, model.StatusDelayed, *patch.Status)
}

func TestResolveColumnTodaySynthesizesTenAM(t *testing.T) {
	task := model.Task{ID: "t1", Status: model.StatusWaiting}
	c := coordinatorFor(task)

	patch := requirePatch(t, c.Resolve(boardItem("t1"), ColumnTarget{Status: model.StatusToday}, resolveNow))

	require.NotNil(t, patch.Due)
	assert.Equal(t, time.Date(2024, 5, 15, 10, 0, 0, 0, time.Local), *patch.Due)
	assert.Equal(t, model.StatusToday, *patch.Status)
	assert.Equal(t, "2024-05-15", *patch.RawDate)
	assert.Equal(t, "10:00", *patch.RawTime)
}

func TestResolveColumnTodayKeepsFittingDue(t *testing.T) {
	due := time.Date(2024, 5, 15, 16, 30, 0, 0, time.Local)
	task := model.Task{ID: "t1", Status: model.StatusWaiting, Due: &due}
	c := coordinatorFor(task)

	patch := requirePatch(t, c.Resolve(boardItem("t1"), ColumnTarget{Status: model.StatusToday}, resolveNow))

	// The existing 16:30 slot already classifies as TODAY; only the
	// status moves.
	assert.Nil(t, patch.Due)
	assert.Equal(t, model.StatusToday, *patch.Status)
}

func TestResolveColumnThisWeekSynthesizesTomorrowEleven(t *testing.T) {
	task := model.Task{ID: "t1", Status: model.StatusWaiting}
	c := coordinatorFor(task)

	patch := requirePatch(t, c.Resolve(boardItem("t1"), ColumnTarget{Status: model.StatusThisWeek}, resolveNow))

	require.NotNil(t, patch.Due)
	assert.Equal(t, time.Date(2024, 5, 16, 11, 0, 0, 0, time.Local), *patch.Due)
	assert.Equal(t, "11:00", *patch.RawTime)
}

func TestResolveColumnNoDueDateClears(t *testing.T) {
	due := time.Date(2024, 5, 16, 14, 0, 0, 0, time.Local)
	task := model.Task{ID: "t1", Status: model.StatusThisWeek, Due: &due}
	c := coordinatorFor(task)

	patch := requirePatch(t, c.Resolve(boardItem("t1"), ColumnTarget{Status: model.StatusNoDueDate}, resolveNow))

	assert.True(t, patch.ClearDue)
	assert.Equal(t, "", *patch.RawDate)
	assert.Equal(t, "", *patch.RawTime)
	assert.Equal(t, model.StatusNoDueDate, *patch.Status)
}

func TestResolveColumnDelayedSynthesizesOnlyWhenUndated(t *testing.T) {
	undated := model.Task{ID: "t1", Status: model.StatusWaiting}
	c := coordinatorFor(undated)

	patch := requirePatch(t, c.Resolve(boardItem("t1"), ColumnTarget{Status: model.StatusDelayed}, resolveNow))
	require.NotNil(t, patch.Due)
	assert.Equal(t, time.Date(2024, 5, 14, 0, 0, 0, 0, time.Local), *patch.Due)
	assert.Equal(t, "2024-05-14", *patch.RawDate)
	// Day granularity only; no synthetic time of day.
	assert.Equal(t, "", *patch.RawTime)

	// An existing date, past or future, is left alone.
	due := time.Date(2024, 5, 20, 9, 0, 0, 0, time.Local)
	dated := model.Task{ID: "t2", Status: model.StatusUpcoming, Due: &due}
	c = coordinatorFor(dated)

	patch = requirePatch(t, c.Resolve(boardItem("t2"), ColumnTarget{Status: model.StatusDelayed}, resolveNow))
	assert.Nil(t, patch.Due)
	assert.Equal(t, model.StatusDelayed, *patch.Status)
}

func TestResolveColumnMonthAndUpcomingMoveStatusOnly(t *testing.T) {
	task := model.Task{ID: "t1", Status: model.StatusToday}
	c := coordinatorFor(task)

	for _, bucket := range []string{model.StatusThisMonth, model.StatusUpcoming} {
		patch := requirePatch(t, c.Resolve(boardItem("t1"), ColumnTarget{Status: bucket}, resolveNow))
		assert.Equal(t, bucket, *patch.Status)
		assert.Nil(t, patch.Due)
		assert.False(t, patch.ClearDue)
		assert.Nil(t, patch.RawDate)
	}
}

func TestResolveItemSameBucketReorders(t *testing.T) {
	a := model.Task{ID: "a", Status: model.StatusToday}
	b := model.Task{ID: "b", Status: model.StatusToday}
	c := coordinatorFor(a, b)

	res := c.Resolve(boardItem("a"), ItemTarget{Item: boardItem("b")}, resolveNow)

	// Pure client-side reorder: no mutation intent.
	assert.Nil(t, res.Intent)
	assert.Equal(t, "b", res.ReorderBefore)
}

func TestResolveItemAcrossBucketsMoves(t *testing.T) {
	a := model.Task{ID: "a", Status: model.StatusWaiting}
	b := model.Task{ID: "b", Status: model.StatusUpcoming}
	c := coordinatorFor(a, b)

	res := c.Resolve(boardItem("a"), ItemTarget{Item: boardItem("b")}, resolveNow)

	patch := requirePatch(t, res)
	assert.Equal(t, model.StatusUpcoming, *patch.Status)
}

func TestResolveItemUnknownOtherIsNoOp(t *testing.T) {
	a := model.Task{ID: "a", Status: model.StatusToday}
	c := coordinatorFor(a)

	res := c.Resolve(boardItem("a"), ItemTarget{Item: boardItem("ghost")}, resolveNow)
	assert.Nil(t, res.Intent)
	assert.Empty(t, res.ReorderBefore)
}
