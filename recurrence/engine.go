package recurrence

import (
	"fmt"
	"time"
)

// Engine expands one event template plus one repeat rule into the concrete
// set of dated occurrences.
type Engine struct {
	config EngineConfig
}

// NewEngine creates a recurrence engine with default configuration.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig)
}

// Expand emits one EventTemplate per occurrence of rule, starting at
// base.Date and running through the rule's end date inclusive (or the
// engine's default end date when the rule carries none). Every emitted
// template is a copy of base with only Date varying.
//
// A rule of type "none" is not an error: it yields an empty sequence.
// All validation happens before the first instance is emitted.
func (e *Engine) Expand(base *EventTemplate, rule RepeatRule, opts ExpandOptions) ([]EventTemplate, error) {
	if base == nil {
		return nil, &Error{Kind: KindInvalidArgument, Message: "base event is required"}
	}

	if rule.Type == RepeatNone {
		return []EventTemplate{}, nil
	}

	switch rule.Type {
	case RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
	default:
		return nil, &Error{
			Kind:    KindUnsupportedType,
			Message: fmt.Sprintf("unsupported repeat type %q", rule.Type),
		}
	}

	if rule.Interval < 1 {
		return nil, &Error{
			Kind:    KindInvalidArgument,
			Message: fmt.Sprintf("interval must be at least 1, got %d", rule.Interval),
		}
	}

	start, err := parseDate(base.Date)
	if err != nil {
		return nil, err
	}

	endStr := rule.EndDate
	if endStr == "" {
		endStr = e.config.DefaultEndDate
	}
	end, err := parseDate(endStr)
	if err != nil {
		return nil, err
	}

	if start.After(end) {
		return nil, &Error{
			Kind:    KindInvalidRange,
			Message: fmt.Sprintf("start date %s is after end date %s", base.Date, endStr),
		}
	}

	events := []EventTemplate{}
	cur := start
	steps := 0

	for !cur.After(end) && steps < e.config.MaxSteps {
		ev := *base
		ev.Date = cur.Format(time.DateOnly)
		events = append(events, ev)

		next, used, ok := e.nextDate(cur, start, rule, opts.Mode, e.config.MaxSteps-steps)
		steps += used
		if !ok {
			break
		}
		cur = next
	}

	return events, nil
}

// nextDate advances cur by one rule period. The returned count is the number
// of budget steps consumed, including strict-mode periods skipped along the
// way; ok is false when the budget ran out before a valid date was found.
func (e *Engine) nextDate(cur, start time.Time, rule RepeatRule, mode Mode, budget int) (next time.Time, used int, ok bool) {
	switch rule.Type {
	case RepeatDaily:
		return cur.AddDate(0, 0, rule.Interval), 1, true
	case RepeatWeekly:
		return cur.AddDate(0, 0, 7*rule.Interval), 1, true
	case RepeatMonthly:
		return nextMonthly(cur, start, rule.Interval, mode, budget)
	case RepeatYearly:
		return nextYearly(cur, start, rule.Interval, mode, budget)
	}
	// Unreachable: Expand validates the type up front.
	return cur, 1, false
}

// nextMonthly moves to the month interval months after cur's month, keeping
// the ORIGINAL start day-of-month. Anchoring to start rather than cur is
// what lets a Jan 31 series clamped to Feb 28 return to the 31st in March.
func nextMonthly(cur, start time.Time, interval int, mode Mode, budget int) (time.Time, int, bool) {
	day := start.Day()
	used := 0
	for {
		used++
		first := time.Date(cur.Year(), cur.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, interval, 0)
		last := lastDayOfMonth(first.Year(), first.Month())
		if day <= last {
			return first.AddDate(0, 0, day-1), used, true
		}
		if mode == ModeLenient {
			return first.AddDate(0, 0, last-1), used, true
		}
		// Strict: this month has no such day, retry one interval further.
		if used >= budget {
			return time.Time{}, used, false
		}
		cur = first
	}
}

// nextYearly moves to start's month/day in the year interval years after
// cur's year. The only day that can vanish is Feb 29.
func nextYearly(cur, start time.Time, interval int, mode Mode, budget int) (time.Time, int, bool) {
	year := cur.Year()
	used := 0
	for {
		used++
		year += interval
		if start.Month() == time.February && start.Day() == 29 && !isLeapYear(year) {
			if mode == ModeStrict {
				if used >= budget {
					return time.Time{}, used, false
				}
				continue
			}
			return time.Date(year, time.February, 28, 0, 0, 0, 0, time.UTC), used, true
		}
		return time.Date(year, start.Month(), start.Day(), 0, 0, 0, 0, time.UTC), used, true
	}
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, &Error{
			Kind:    KindInvalidDate,
			Message: fmt.Sprintf("invalid date string %q", value),
			Err:     err,
		}
	}
	return t, nil
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func isLeapYear(year int) bool {
	return time.Date(year, time.February, 29, 0, 0, 0, 0, time.UTC).Day() == 29
}
