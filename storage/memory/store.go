// memory provides an in-memory Storage implementation, used in tests and
// when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"repeatcal/recurrence"
	"repeatcal/storage"
)

// Store implements storage.Storage using maps guarded by a RWMutex.
type Store struct {
	mu     sync.RWMutex
	events map[string]*storage.Event
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		events: make(map[string]*storage.Event),
	}
}

func (s *Store) GetEvent(_ context.Context, id string) (*storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	clone := *ev
	return &clone, nil
}

func (s *Store) ListEvents(_ context.Context) ([]storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(*storage.Event) bool { return true }), nil
}

func (s *Store) ListSeries(_ context.Context, repeatID string) ([]storage.Event, error) {
	if repeatID == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(ev *storage.Event) bool {
		return ev.Repeat.RepeatID == repeatID
	}), nil
}

// collect returns matching events sorted by date then id, so listings are
// stable across calls. Callers must hold the lock.
func (s *Store) collect(match func(*storage.Event) bool) []storage.Event {
	events := make([]storage.Event, 0)
	for _, ev := range s.events {
		if match(ev) {
			events = append(events, *ev)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date < events[j].Date
		}
		return events[i].ID < events[j].ID
	})
	return events
}

func (s *Store) CreateEvent(_ context.Context, ev *storage.Event) error {
	if ev == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev.ID = uuid.NewString()
	clone := *ev
	s.events[ev.ID] = &clone
	return nil
}

func (s *Store) CreateEvents(_ context.Context, evs []*storage.Event) error {
	if len(evs) == 0 {
		return storage.ErrInvalidInput
	}
	for _, ev := range evs {
		if ev == nil {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	repeatID := uuid.NewString()
	for _, ev := range evs {
		ev.ID = uuid.NewString()
		if ev.Repeat.Type != recurrence.RepeatNone {
			ev.Repeat.RepeatID = repeatID
		}
		clone := *ev
		s.events[ev.ID] = &clone
	}
	return nil
}

func (s *Store) UpdateEvent(_ context.Context, ev *storage.Event) error {
	if ev == nil || ev.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[ev.ID]; !ok {
		return storage.ErrNotFound
	}

	clone := *ev
	s.events[ev.ID] = &clone
	return nil
}

func (s *Store) UpdateEvents(_ context.Context, evs []*storage.Event) error {
	if len(evs) == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before touching anything, so a bad entry
	// can't leave the batch half-applied.
	for _, ev := range evs {
		if ev == nil || ev.ID == "" {
			return storage.ErrInvalidInput
		}
		if _, ok := s.events[ev.ID]; !ok {
			return storage.ErrNotFound
		}
	}

	for _, ev := range evs {
		clone := *ev
		s.events[ev.ID] = &clone
	}
	return nil
}

func (s *Store) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return storage.ErrNotFound
	}

	delete(s.events, id)
	return nil
}

func (s *Store) DeleteEvents(_ context.Context, ids []string) error {
	if len(ids) == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if _, ok := s.events[id]; !ok {
			return storage.ErrNotFound
		}
	}

	for _, id := range ids {
		delete(s.events, id)
	}
	return nil
}
