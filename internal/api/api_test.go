package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/simplesurance/hooksink/internal/event"
	"github.com/simplesurance/hooksink/internal/store"
)

func newTestAPI(t *testing.T) (*API, *store.InMemoryStore) {
	t.Helper()
	t.Cleanup(zap.ReplaceGlobals(zaptest.NewLogger(t)))

	evStore := store.NewInMemory()

	return New(evStore), evStore
}

func mustStoreEvent(t *testing.T, evStore store.Store, requestID string) {
	t.Helper()

	created, err := evStore.CreateEvent(context.Background(), &event.NormalizedEvent{
		RequestID: requestID,
		Author:    "alice",
		Action:    event.ActionPush,
		ToBranch:  "main",
		Timestamp: "2024-03-01T10:00:00+01:00",
	})
	require.NoError(t, err)
	require.True(t, created)
}

func TestListEvents(t *testing.T) {
	a, evStore := newTestAPI(t)

	mustStoreEvent(t, evStore, "delivery-1")
	mustStoreEvent(t, evStore, "delivery-2")

	respRecorder := httptest.NewRecorder()
	a.HTTPHandlerList(respRecorder, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	require.Equal(t, http.StatusOK, respRecorder.Code)

	var resp struct {
		Success bool                     `json:"success"`
		Count   int                      `json:"count"`
		Events  []*event.NormalizedEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(respRecorder.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Events, 2)
	// newest first
	assert.Equal(t, "delivery-2", resp.Events[0].RequestID)
	assert.Equal(t, "delivery-1", resp.Events[1].RequestID)
}

func TestListEventsEmptyStore(t *testing.T) {
	a, _ := newTestAPI(t)

	respRecorder := httptest.NewRecorder()
	a.HTTPHandlerList(respRecorder, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	require.Equal(t, http.StatusOK, respRecorder.Code)

	body := respRecorder.Body.String()
	assert.Contains(t, body, `"events":[]`)
	assert.Contains(t, body, `"count":0`)
}

func TestListEventsIsCapped(t *testing.T) {
	a, evStore := newTestAPI(t)

	for i := 0; i < ListLimit+10; i++ {
		mustStoreEvent(t, evStore, fmt.Sprintf("delivery-%d", i))
	}

	respRecorder := httptest.NewRecorder()
	a.HTTPHandlerList(respRecorder, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	require.Equal(t, http.StatusOK, respRecorder.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(respRecorder.Body.Bytes(), &resp))
	assert.Equal(t, ListLimit, resp.Count)
}

func TestGetEvent(t *testing.T) {
	a, evStore := newTestAPI(t)

	mustStoreEvent(t, evStore, "delivery-1")

	respRecorder := httptest.NewRecorder()
	a.HTTPHandlerGet(respRecorder, httptest.NewRequest(http.MethodGet, "/api/events/delivery-1", nil))
	require.Equal(t, http.StatusOK, respRecorder.Code)

	var resp struct {
		Success bool                   `json:"success"`
		Event   *event.NormalizedEvent `json:"event"`
	}
	require.NoError(t, json.Unmarshal(respRecorder.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Event)
	assert.Equal(t, "delivery-1", resp.Event.RequestID)
	assert.Equal(t, "alice", resp.Event.Author)
	assert.NotEmpty(t, resp.Event.ID)
}

func TestGetEventNotFound(t *testing.T) {
	a, _ := newTestAPI(t)

	respRecorder := httptest.NewRecorder()
	a.HTTPHandlerGet(respRecorder, httptest.NewRequest(http.MethodGet, "/api/events/unknown", nil))
	require.Equal(t, http.StatusNotFound, respRecorder.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(respRecorder.Body.Bytes(), &resp))

	assert.False(t, resp.Success)
	assert.Equal(t, "Event not found", resp.Error)
}

func TestPushEventSerializesNullFromBranch(t *testing.T) {
	a, evStore := newTestAPI(t)

	mustStoreEvent(t, evStore, "delivery-1")

	respRecorder := httptest.NewRecorder()
	a.HTTPHandlerGet(respRecorder, httptest.NewRequest(http.MethodGet, "/api/events/delivery-1", nil))
	require.Equal(t, http.StatusOK, respRecorder.Code)

	assert.Contains(t, respRecorder.Body.String(), `"from_branch":null`)
}

func TestStatusEndpoint(t *testing.T) {
	a, _ := newTestAPI(t)

	respRecorder := httptest.NewRecorder()
	a.HTTPHandlerStatus(respRecorder, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, respRecorder.Code)
	assert.Contains(t, respRecorder.Body.String(), "GitHub Webhook Receiver is running")

	respRecorder = httptest.NewRecorder()
	a.HTTPHandlerStatus(respRecorder, httptest.NewRequest(http.MethodGet, "/nonexisting", nil))
	assert.Equal(t, http.StatusNotFound, respRecorder.Code)
}
