package remote

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectEvents(t *testing.T, stream string) []FeedEvent {
	t.Helper()
	var events []FeedEvent
	err := ReadEventStream(strings.NewReader(stream), EntityTasks, func(evt FeedEvent) {
		events = append(events, evt)
	})
	require.NoError(t, err)
	return events
}

func TestReadEventStreamParsesEvents(t *testing.T) {
	stream := "event: INSERT\n" +
		"data: {\"id\":\"t1\",\"task_name\":\"a\"}\n" +
		"\n" +
		"event: UPDATE\n" +
		"data: {\"id\":\"t1\",\"task_name\":\"b\"}\n" +
		"\n" +
		"event: DELETE\n" +
		"data: {\"id\":\"t1\"}\n" +
		"\n"

	events := collectEvents(t, stream)
	require.Len(t, events, 3)
	assert.Equal(t, EventInsert, events[0].Type)
	assert.Equal(t, EventUpdate, events[1].Type)
	assert.Equal(t, EventDelete, events[2].Type)
	assert.Equal(t, EntityTasks, events[0].Entity)
	assert.JSONEq(t, `{"id":"t1","task_name":"a"}`, string(events[0].Record))
}

func TestReadEventStreamSkipsUnknownEventNames(t *testing.T) {
	stream := "event: PING\n" +
		"data: {}\n" +
		"\n" +
		"event: INSERT\n" +
		"data: {\"id\":\"t2\"}\n" +
		"\n"

	events := collectEvents(t, stream)
	require.Len(t, events, 1)
	assert.Equal(t, EventInsert, events[0].Type)
}

func TestReadEventStreamDropsMalformedPayloads(t *testing.T) {
	stream := "event: INSERT\n" +
		"data: {not json\n" +
		"\n" +
		"event: INSERT\n" +
		"data: {\"id\":\"ok\"}\n" +
		"\n"

	events := collectEvents(t, stream)
	require.Len(t, events, 1)
	assert.Equal(t, "ok", RecordID(events[0].Record))
}

func TestReadEventStreamFlushesTrailingEvent(t *testing.T) {
	// Stream ends without the final blank line.
	stream := "event: UPDATE\n" +
		"data: {\"id\":\"t9\"}"

	events := collectEvents(t, stream)
	require.Len(t, events, 1)
	assert.Equal(t, "t9", RecordID(events[0].Record))
}

func TestReadEventStreamIgnoresDataWithoutEventName(t *testing.T) {
	stream := "data: {\"id\":\"orphan\"}\n\n"
	events := collectEvents(t, stream)
	assert.Empty(t, events)
}
