package storage

import (
	"context"
	"errors"

	"repeatcal/recurrence"
)

// Event is a persisted occurrence: an event template plus its identifier.
// Instances generated from one recurring rule share a Repeat.RepeatID.
type Event struct {
	ID string `json:"id"`
	recurrence.EventTemplate
}

// Storage is the persistence collaborator the engine's callers hand results
// to. Implementations must treat batch operations as atomic-in-intent: a
// partial failure surfaces as a single error and leaves no half-applied
// batch behind where the backend can avoid it.
type Storage interface {
	// GetEvent retrieves one event by id.
	GetEvent(ctx context.Context, id string) (*Event, error)
	// ListEvents retrieves all stored events.
	ListEvents(ctx context.Context) ([]Event, error)
	// ListSeries retrieves all events sharing the given repeat group id.
	ListSeries(ctx context.Context, repeatID string) ([]Event, error)
	// CreateEvent stores one event, assigning its ID.
	CreateEvent(ctx context.Context, ev *Event) error
	// CreateEvents stores a batch of events, assigning IDs. Events whose
	// rule is recurring receive one fresh shared Repeat.RepeatID; the
	// generator itself never assigns group ids.
	CreateEvents(ctx context.Context, evs []*Event) error
	// UpdateEvent replaces one stored event.
	UpdateEvent(ctx context.Context, ev *Event) error
	// UpdateEvents replaces a batch of stored events.
	UpdateEvents(ctx context.Context, evs []*Event) error
	// DeleteEvent removes one event by id. Siblings of its series are
	// untouched; this is a point deletion, not a group operation.
	DeleteEvent(ctx context.Context, id string) error
	// DeleteEvents removes a batch of events by id.
	DeleteEvents(ctx context.Context, ids []string) error
}

var (
	// ErrNotFound is returned when a requested event doesn't exist.
	ErrNotFound = errors.New("event not found")
	// ErrInvalidInput is returned when the input parameters are invalid.
	ErrInvalidInput = errors.New("invalid input parameters")
)
