package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repeatcal/recurrence"
	"repeatcal/storage"
)

func newEvent(title, date string, rule recurrence.RepeatRule) *storage.Event {
	return &storage.Event{
		EventTemplate: recurrence.EventTemplate{
			Title:     title,
			Date:      date,
			StartTime: "09:00",
			EndTime:   "10:00",
			Repeat:    rule,
		},
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := New()

	ev := newEvent("Dentist", "2025-08-25", recurrence.RepeatRule{Type: recurrence.RepeatNone, Interval: 1})
	require.NoError(t, store.CreateEvent(ctx, ev))
	require.NotEmpty(t, ev.ID)

	got, err := store.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dentist", got.Title)
	assert.Equal(t, "2025-08-25", got.Date)
}

func TestStore_GetMissing(t *testing.T) {
	store := New()

	_, err := store.GetEvent(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_CreateEvents_AssignsSharedRepeatID(t *testing.T) {
	ctx := context.Background()
	store := New()

	rule := recurrence.RepeatRule{Type: recurrence.RepeatDaily, Interval: 1, EndDate: "2025-08-27"}
	batch := []*storage.Event{
		newEvent("Standup", "2025-08-25", rule),
		newEvent("Standup", "2025-08-26", rule),
		newEvent("Standup", "2025-08-27", rule),
	}
	require.NoError(t, store.CreateEvents(ctx, batch))

	repeatID := batch[0].Repeat.RepeatID
	require.NotEmpty(t, repeatID)
	for _, ev := range batch {
		assert.NotEmpty(t, ev.ID)
		assert.Equal(t, repeatID, ev.Repeat.RepeatID)
	}

	siblings, err := store.ListSeries(ctx, repeatID)
	require.NoError(t, err)
	assert.Len(t, siblings, 3)
}

func TestStore_CreateEvents_NonRecurringGetsNoRepeatID(t *testing.T) {
	ctx := context.Background()
	store := New()

	batch := []*storage.Event{
		newEvent("One-off", "2025-08-25", recurrence.RepeatRule{Type: recurrence.RepeatNone, Interval: 1}),
	}
	require.NoError(t, store.CreateEvents(ctx, batch))

	assert.Empty(t, batch[0].Repeat.RepeatID)
}

func TestStore_ListEvents_SortedByDate(t *testing.T) {
	ctx := context.Background()
	store := New()

	none := recurrence.RepeatRule{Type: recurrence.RepeatNone, Interval: 1}
	require.NoError(t, store.CreateEvent(ctx, newEvent("Later", "2025-09-02", none)))
	require.NoError(t, store.CreateEvent(ctx, newEvent("Earlier", "2025-08-01", none)))
	require.NoError(t, store.CreateEvent(ctx, newEvent("Middle", "2025-08-15", none)))

	events, err := store.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "Earlier", events[0].Title)
	assert.Equal(t, "Middle", events[1].Title)
	assert.Equal(t, "Later", events[2].Title)
}

func TestStore_UpdateEvent(t *testing.T) {
	ctx := context.Background()
	store := New()

	ev := newEvent("Original", "2025-08-25", recurrence.RepeatRule{Type: recurrence.RepeatNone, Interval: 1})
	require.NoError(t, store.CreateEvent(ctx, ev))

	ev.Title = "Renamed"
	require.NoError(t, store.UpdateEvent(ctx, ev))

	got, err := store.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
}

func TestStore_UpdateEvents_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := New()

	ev := newEvent("Kept", "2025-08-25", recurrence.RepeatRule{Type: recurrence.RepeatNone, Interval: 1})
	require.NoError(t, store.CreateEvent(ctx, ev))

	renamed := *ev
	renamed.Title = "Changed"
	ghost := newEvent("Ghost", "2025-08-26", recurrence.RepeatRule{Type: recurrence.RepeatNone, Interval: 1})
	ghost.ID = "missing"

	err := store.UpdateEvents(ctx, []*storage.Event{&renamed, ghost})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// The valid half of the failed batch was not applied.
	got, err := store.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kept", got.Title)
}

func TestStore_DeleteEvent_LeavesSiblings(t *testing.T) {
	ctx := context.Background()
	store := New()

	rule := recurrence.RepeatRule{Type: recurrence.RepeatDaily, Interval: 1, EndDate: "2025-08-27"}
	batch := []*storage.Event{
		newEvent("Standup", "2025-08-25", rule),
		newEvent("Standup", "2025-08-26", rule),
	}
	require.NoError(t, store.CreateEvents(ctx, batch))

	require.NoError(t, store.DeleteEvent(ctx, batch[0].ID))

	_, err := store.GetEvent(ctx, batch[0].ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	sibling, err := store.GetEvent(ctx, batch[1].ID)
	require.NoError(t, err)
	assert.Equal(t, batch[0].Repeat.RepeatID, sibling.Repeat.RepeatID)
}

func TestStore_DeleteEvents(t *testing.T) {
	ctx := context.Background()
	store := New()

	rule := recurrence.RepeatRule{Type: recurrence.RepeatDaily, Interval: 1, EndDate: "2025-08-26"}
	batch := []*storage.Event{
		newEvent("Standup", "2025-08-25", rule),
		newEvent("Standup", "2025-08-26", rule),
	}
	require.NoError(t, store.CreateEvents(ctx, batch))

	require.NoError(t, store.DeleteEvents(ctx, []string{batch[0].ID, batch[1].ID}))

	events, err := store.ListEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestStore_DeleteEvents_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := New()

	ev := newEvent("Kept", "2025-08-25", recurrence.RepeatRule{Type: recurrence.RepeatNone, Interval: 1})
	require.NoError(t, store.CreateEvent(ctx, ev))

	err := store.DeleteEvents(ctx, []string{ev.ID, "missing"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.GetEvent(ctx, ev.ID)
	assert.NoError(t, err)
}
