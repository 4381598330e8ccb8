// Package ics exports stored events as an iCalendar document.
package ics

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"

	"repeatcal/recurrence"
	"repeatcal/storage"
)

const productID = "-//repeatcal//Calendar Export//EN"

// BuildCalendar converts stored events into a VCALENDAR. Each series is
// collapsed to one VEVENT anchored at its origin instance, carrying an
// RRULE derived from the authored repeat rule; standalone and detached
// events export as plain VEVENTs. Lenient-mode clamped occurrences are
// approximated by the RRULE, which follows strict day-of-month semantics.
func BuildCalendar(events []storage.Event) (*ical.Calendar, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")

	seen := make(map[string]bool)
	for _, ev := range events {
		repeatID := ev.Repeat.RepeatID
		if repeatID != "" {
			if seen[repeatID] {
				continue
			}
			seen[repeatID] = true
			ev = originOfSeries(events, ev)
		}

		vevent, err := buildEvent(ev, lastDateOfSeries(events, repeatID))
		if err != nil {
			return nil, err
		}
		cal.Children = append(cal.Children, vevent.Component)
	}

	return cal, nil
}

// Marshal renders events as iCalendar bytes.
func Marshal(events []storage.Event) ([]byte, error) {
	cal, err := BuildCalendar(events)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func buildEvent(ev storage.Event, seriesEnd string) (*ical.Event, error) {
	start, err := parseDateTime(ev.Date, ev.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseDateTime(ev.Date, ev.EndTime)
	if err != nil {
		return nil, err
	}

	vevent := ical.NewEvent()
	vevent.Props.SetText(ical.PropUID, ev.ID)
	vevent.Props.SetText(ical.PropSummary, ev.Title)
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, start)
	vevent.Props.SetDateTime(ical.PropDateTimeStart, start)
	vevent.Props.SetDateTime(ical.PropDateTimeEnd, end)
	if ev.Description != "" {
		vevent.Props.SetText(ical.PropDescription, ev.Description)
	}
	if ev.Location != "" {
		vevent.Props.SetText(ical.PropLocation, ev.Location)
	}
	if ev.Category != "" {
		vevent.Props.SetText(ical.PropCategories, ev.Category)
	}

	if ev.Repeat.Type != recurrence.RepeatNone && ev.Repeat.RepeatID != "" {
		ruleStr, err := RuleString(ev.Repeat, seriesEnd)
		if err != nil {
			return nil, err
		}
		vevent.Props.SetText(ical.PropRecurrenceRule, ruleStr)
	}

	return vevent, nil
}

// RuleString renders a repeat rule as an RRULE value. fallbackUntil bounds
// the rule when it carries no end date of its own (rules generated against
// the engine's default horizon store no end date).
func RuleString(rule recurrence.RepeatRule, fallbackUntil string) (string, error) {
	var freq rrule.Frequency
	switch rule.Type {
	case recurrence.RepeatDaily:
		freq = rrule.DAILY
	case recurrence.RepeatWeekly:
		freq = rrule.WEEKLY
	case recurrence.RepeatMonthly:
		freq = rrule.MONTHLY
	case recurrence.RepeatYearly:
		freq = rrule.YEARLY
	default:
		return "", fmt.Errorf("repeat type %q has no RRULE form", rule.Type)
	}

	opt := rrule.ROption{Freq: freq, Interval: rule.Interval}

	until := rule.EndDate
	if until == "" {
		until = fallbackUntil
	}
	if until != "" {
		t, err := time.Parse(time.DateOnly, until)
		if err != nil {
			return "", fmt.Errorf("invalid until date %q: %w", until, err)
		}
		// End of the until day, so the last occurrence stays included.
		opt.Until = t.Add(24*time.Hour - time.Second)
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return "", fmt.Errorf("build rrule: %w", err)
	}
	return r.String(), nil
}

// originOfSeries returns the series member carrying the earliest date.
func originOfSeries(events []storage.Event, member storage.Event) storage.Event {
	origin := member
	for _, ev := range events {
		if ev.Repeat.RepeatID == member.Repeat.RepeatID && ev.Date < origin.Date {
			origin = ev
		}
	}
	return origin
}

// lastDateOfSeries finds the latest materialized date among series members,
// used as the UNTIL bound when the rule itself has no end date.
func lastDateOfSeries(events []storage.Event, repeatID string) string {
	if repeatID == "" {
		return ""
	}
	last := ""
	for _, ev := range events {
		if ev.Repeat.RepeatID == repeatID && ev.Date > last {
			last = ev.Date
		}
	}
	return last
}

func parseDateTime(date, clock string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid event time %q %q: %w", date, clock, err)
	}
	return t, nil
}
