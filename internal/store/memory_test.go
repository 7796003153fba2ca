package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplesurance/hooksink/internal/event"
)

func testEvent(requestID string) *event.NormalizedEvent {
	return &event.NormalizedEvent{
		RequestID: requestID,
		Author:    "alice",
		Action:    event.ActionPush,
		ToBranch:  "main",
		Timestamp: "2024-03-01T10:00:00+01:00",
	}
}

func TestInMemoryCreateAssignsID(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	ev := testEvent("delivery-1")
	created, err := s.CreateEvent(ctx, ev)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, ev.ID)

	stored, err := s.EventByRequestID(ctx, "delivery-1")
	require.NoError(t, err)
	assert.Equal(t, ev.ID, stored.ID)
	assert.Equal(t, "alice", stored.Author)
	assert.Equal(t, event.ActionPush, stored.Action)
}

func TestInMemoryCreateIsIdempotentPerRequestID(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	created, err := s.CreateEvent(ctx, testEvent("delivery-1"))
	require.NoError(t, err)
	require.True(t, created)

	dup := testEvent("delivery-1")
	dup.Author = "mallory"
	created, err = s.CreateEvent(ctx, dup)
	require.NoError(t, err)
	assert.False(t, created)

	events, err := s.ListEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	// the original record is not overwritten
	assert.Equal(t, "alice", events[0].Author)
}

func TestInMemoryEventByRequestIDNotFound(t *testing.T) {
	s := NewInMemory()

	_, err := s.EventByRequestID(context.Background(), "unknown")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryListOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	for i := 0; i < 5; i++ {
		created, err := s.CreateEvent(ctx, testEvent(fmt.Sprintf("delivery-%d", i)))
		require.NoError(t, err)
		require.True(t, created)
	}

	events, err := s.ListEvents(ctx, 3)
	require.NoError(t, err)
	require.Len(t, events, 3)

	// newest first
	assert.Equal(t, "delivery-4", events[0].RequestID)
	assert.Equal(t, "delivery-3", events[1].RequestID)
	assert.Equal(t, "delivery-2", events[2].RequestID)
}

func TestInMemoryListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()

	created, err := s.CreateEvent(ctx, testEvent("delivery-1"))
	require.NoError(t, err)
	require.True(t, created)

	events, err := s.ListEvents(ctx, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	events[0].Author = "changed"

	stored, err := s.EventByRequestID(ctx, "delivery-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Author)
}
