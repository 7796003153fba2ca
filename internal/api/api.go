// Package api serves the JSON read API over stored webhook events.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/simplesurance/hooksink/internal/event"
	"github.com/simplesurance/hooksink/internal/logfields"
	"github.com/simplesurance/hooksink/internal/store"
)

const loggerName = "events-api"

// ListLimit is the maximum number of events returned by the list endpoint.
const ListLimit = 100

const queryTimeout = 30 * time.Second

const (
	listEndpoint = "/api/events"
	getEndpoint  = "/api/events/"
)

// API serves stored webhook events.
type API struct {
	logger *zap.Logger
	store  store.Store
}

func New(evStore store.Store) *API {
	return &API{
		store:  evStore,
		logger: zap.L().Named(loggerName),
	}
}

func (a *API) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc(listEndpoint, a.HTTPHandlerList)
	mux.HandleFunc(getEndpoint, a.HTTPHandlerGet)
}

type listResponse struct {
	Success bool                     `json:"success"`
	Count   int                      `json:"count"`
	Events  []*event.NormalizedEvent `json:"events"`
}

type getResponse struct {
	Success bool                   `json:"success"`
	Event   *event.NormalizedEvent `json:"event"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HTTPHandlerList serves GET /api/events, the stored events ordered newest
// first, capped at ListLimit records.
func (a *API) HTTPHandlerList(resp http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), queryTimeout)
	defer cancel()

	events, err := a.store.ListEvents(ctx, ListLimit)
	if err != nil {
		a.logger.Error(
			"listing events failed",
			logfields.Event("api_listing_events_failed"),
			zap.Error(err),
		)
		a.writeJSON(resp, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch events"})

		return
	}

	if events == nil {
		events = []*event.NormalizedEvent{}
	}

	a.writeJSON(resp, http.StatusOK, listResponse{
		Success: true,
		Count:   len(events),
		Events:  events,
	})
}

// HTTPHandlerGet serves GET /api/events/{request_id}.
func (a *API) HTTPHandlerGet(resp http.ResponseWriter, req *http.Request) {
	requestID := strings.TrimPrefix(req.URL.Path, getEndpoint)
	if requestID == "" || strings.Contains(requestID, "/") {
		a.writeJSON(resp, http.StatusNotFound, errorResponse{Error: "Event not found"})

		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), queryTimeout)
	defer cancel()

	ev, err := a.store.EventByRequestID(ctx, requestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.writeJSON(resp, http.StatusNotFound, errorResponse{Error: "Event not found"})

			return
		}

		a.logger.Error(
			"fetching event failed",
			logfields.Event("api_fetching_event_failed"),
			logfields.DeliveryID(requestID),
			zap.Error(err),
		)
		a.writeJSON(resp, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch event"})

		return
	}

	a.writeJSON(resp, http.StatusOK, getResponse{Success: true, Event: ev})
}

// HTTPHandlerStatus serves GET /, a trivial liveness endpoint.
func (a *API) HTTPHandlerStatus(resp http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		http.NotFound(resp, req)

		return
	}

	a.writeJSON(resp, http.StatusOK, map[string]string{
		"status": "GitHub Webhook Receiver is running",
	})
}

func (a *API) writeJSON(resp http.ResponseWriter, status int, body interface{}) {
	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(status)

	if err := json.NewEncoder(resp).Encode(body); err != nil {
		a.logger.Info("sending http response failed", zap.Error(err))
	}
}
