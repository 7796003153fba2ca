package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/simplesurance/hooksink/internal/event"
)

// InMemoryStore implements Store in process memory.
// It is used when no database is configured, stored events are lost when the
// process terminates.
type InMemoryStore struct {
	lock        sync.Mutex
	events      []*event.NormalizedEvent
	byRequestID map[string]*event.NormalizedEvent
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		byRequestID: map[string]*event.NormalizedEvent{},
	}
}

func (s *InMemoryStore) CreateEvent(_ context.Context, ev *event.NormalizedEvent) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, exist := s.byRequestID[ev.RequestID]; exist {
		return false, nil
	}

	ev.ID = uuid.NewString()

	stored := *ev
	s.byRequestID[stored.RequestID] = &stored
	s.events = append(s.events, &stored)

	return true, nil
}

func (s *InMemoryStore) EventByRequestID(_ context.Context, requestID string) (*event.NormalizedEvent, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	ev, exist := s.byRequestID[requestID]
	if !exist {
		return nil, ErrNotFound
	}

	result := *ev

	return &result, nil
}

func (s *InMemoryStore) ListEvents(_ context.Context, limit int) ([]*event.NormalizedEvent, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	var result []*event.NormalizedEvent

	// events is ordered by insertion, iterate backwards for newest first
	for i := len(s.events) - 1; i >= 0 && len(result) < limit; i-- {
		ev := *s.events[i]
		result = append(result, &ev)
	}

	return result, nil
}

func (s *InMemoryStore) Close() {}
