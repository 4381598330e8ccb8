package recurrence

// RepeatType identifies the unit a repeat rule advances by.
type RepeatType string

const (
	RepeatNone    RepeatType = "none"
	RepeatDaily   RepeatType = "daily"
	RepeatWeekly  RepeatType = "weekly"
	RepeatMonthly RepeatType = "monthly"
	RepeatYearly  RepeatType = "yearly"
)

// RepeatRule describes how an event repeats.
type RepeatRule struct {
	Type     RepeatType `json:"type"`
	Interval int        `json:"interval"`
	// EndDate bounds generation inclusively (ISO YYYY-MM-DD). Empty means
	// the engine's configured default end date applies.
	EndDate string `json:"endDate,omitempty"`
	// RepeatID links materialized instances of one generation batch.
	// It is assigned by the persistence layer, never by the engine.
	RepeatID string `json:"repeatId,omitempty"`
}

// EventTemplate is the user-authored shape of an event before persistence.
// The engine never mutates a template; it emits copies varying only Date.
type EventTemplate struct {
	Title            string     `json:"title"`
	Date             string     `json:"date"` // ISO YYYY-MM-DD
	StartTime        string     `json:"startTime"`
	EndTime          string     `json:"endTime"`
	Description      string     `json:"description"`
	Location         string     `json:"location"`
	Category         string     `json:"category"`
	Repeat           RepeatRule `json:"repeat"`
	NotificationTime int        `json:"notificationTime"` // minutes before start
}

// Mode selects what happens when the anchor day-of-month or day-of-year
// does not exist in a target period.
type Mode int

const (
	// ModeLenient clamps to the nearest valid day (day 31 in a 30-day
	// month becomes day 30; Feb 29 in a non-leap year becomes Feb 28).
	ModeLenient Mode = iota
	// ModeStrict skips periods that don't contain the anchor day.
	ModeStrict
)

// ExpandOptions controls how expansion behaves.
type ExpandOptions struct {
	Mode Mode
}

// DefaultExpandOptions provides the default (lenient) expansion behavior.
var DefaultExpandOptions = ExpandOptions{
	Mode: ModeLenient,
}
