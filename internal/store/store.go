// Package store persists normalized webhook events.
package store

import (
	"context"
	"errors"

	"github.com/simplesurance/hooksink/internal/event"
)

// ErrNotFound is returned when no event with the given request ID is stored.
var ErrNotFound = errors.New("event not found")

// Store is an append-only store of normalized webhook events.
// Stored events are immutable, they are never updated or deleted.
type Store interface {
	// CreateEvent persists ev unless an event with the same request ID
	// was stored before.
	// The insert-if-absent is a single atomic operation, concurrent
	// deliveries with the same request ID result in exactly one stored
	// record.
	// On success the ID field of ev is populated and true is returned.
	// When an event with the same request ID already exists, false and a
	// nil error are returned and nothing is written.
	CreateEvent(ctx context.Context, ev *event.NormalizedEvent) (created bool, err error)

	// EventByRequestID returns the stored event with the given request
	// ID.
	// It returns ErrNotFound when no matching event exists.
	EventByRequestID(ctx context.Context, requestID string) (*event.NormalizedEvent, error)

	// ListEvents returns up to limit events, ordered by the time they
	// were stored, newest first.
	ListEvents(ctx context.Context, limit int) ([]*event.NormalizedEvent, error)

	// Close releases the resources of the store.
	Close()
}
