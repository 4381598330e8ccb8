// Package series defines what happens to a recurring series when one
// instance, or the whole group, is modified. All operations are pure
// transformations over already-materialized events; persistence is the
// caller's concern.
package series

import (
	"github.com/samber/mo"

	"repeatcal/recurrence"
	"repeatcal/storage"
)

// Updates carries the field changes of an edit. Absent fields are left
// untouched on the target event.
type Updates struct {
	Title            mo.Option[string]
	Date             mo.Option[string]
	StartTime        mo.Option[string]
	EndTime          mo.Option[string]
	Description      mo.Option[string]
	Location         mo.Option[string]
	Category         mo.Option[string]
	NotificationTime mo.Option[int]
}

func (u Updates) apply(ev storage.Event) storage.Event {
	ev.Title = u.Title.OrElse(ev.Title)
	ev.Date = u.Date.OrElse(ev.Date)
	ev.StartTime = u.StartTime.OrElse(ev.StartTime)
	ev.EndTime = u.EndTime.OrElse(ev.EndTime)
	ev.Description = u.Description.OrElse(ev.Description)
	ev.Location = u.Location.OrElse(ev.Location)
	ev.Category = u.Category.OrElse(ev.Category)
	ev.NotificationTime = u.NotificationTime.OrElse(ev.NotificationTime)
	return ev
}

// Detach applies updates to one series member and converts it into a
// standalone non-recurring event. The repeat rule is reset wholesale: a
// detached event is never simultaneously non-recurring and a member of a
// recurrence group, so the group id is cleared along with the type. No
// sibling of the former series is touched.
func Detach(ev storage.Event, updates Updates) storage.Event {
	out := updates.apply(ev)
	out.Repeat = recurrence.RepeatRule{
		Type:     recurrence.RepeatNone,
		Interval: 1,
	}
	return out
}

// ModifyGroup applies the same updates to every sibling of a series,
// leaving each event's repeat rule (including its group id) intact. The
// result has exactly one event per input event.
func ModifyGroup(events []storage.Event, updates Updates) []storage.Event {
	out := make([]storage.Event, 0, len(events))
	for _, ev := range events {
		out = append(out, updates.apply(ev))
	}
	return out
}

// IsOrigin reports whether ev is the origin instance of its series: the
// member carrying the earliest date among siblings. The surrounding
// application routes edits and deletes on the origin to the whole group
// and edits on any other member to a single-instance detach; the decision
// comes from the event's position in its series, not from any flag on it.
func IsOrigin(ev storage.Event, siblings []storage.Event) bool {
	if ev.Repeat.Type == recurrence.RepeatNone || ev.Repeat.RepeatID == "" {
		return false
	}
	for _, sib := range siblings {
		if sib.Repeat.RepeatID != ev.Repeat.RepeatID {
			continue
		}
		if sib.Date < ev.Date {
			return false
		}
	}
	return true
}
