// Package receiver implements the github webhook ingestion endpoint.
// It validates and normalizes incoming webhook deliveries and persists them
// idempotently, keyed by the github delivery ID.
package receiver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v43/github"
	"go.uber.org/zap"

	"github.com/simplesurance/hooksink/internal/ghwebhook"
	"github.com/simplesurance/hooksink/internal/logfields"
	"github.com/simplesurance/hooksink/internal/store"
)

const loggerName = "github-webhook-receiver"

// storeTimeout bounds the store operation of a single delivery.
const storeTimeout = 30 * time.Second

// Receiver accepts github webhook http-requests, normalizes push and
// pull_request events and persists them via a store.Store.
// Deliveries with an already stored delivery ID and deliveries of unsupported
// event types are acknowledged without being persisted.
type Receiver struct {
	logger        *zap.Logger
	webhookSecret []byte
	store         store.Store
}

type option func(*Receiver)

// WithPayloadSecret enables HMAC validation of the X-Hub-Signature-256
// request header against the given webhook secret.
// Requests with a missing or mismatching signature are rejected.
// When the secret is empty, signatures are not validated.
func WithPayloadSecret(secret string) option {
	return func(r *Receiver) {
		r.webhookSecret = []byte(secret)
	}
}

func New(evStore store.Store, opts ...option) *Receiver {
	r := Receiver{store: evStore}

	for _, o := range opts {
		o(&r)
	}

	if r.logger == nil {
		r.logger = zap.L().Named(loggerName)
	}

	return &r
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type deduplicatedResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

type storedResponse struct {
	Message   string `json:"message"`
	EventType string `json:"event_type"`
	Action    string `json:"action"`
	RequestID string `json:"request_id"`
}

func (r *Receiver) HTTPHandler(resp http.ResponseWriter, req *http.Request) {
	r.logger.Debug("received a http request", logfields.Event("github_event_received"))

	metrics.ReceivedInc()

	deliveryID := github.DeliveryID(req)
	hookType := github.WebHookType(req)

	logger := r.logger.With(
		logfields.EventProvider("github"),
		logfields.DeliveryID(deliveryID),
		logfields.EventType(hookType),
	)

	payload, err := github.ValidatePayload(req, r.webhookSecret)
	if err != nil {
		logger.Info(
			"received invalid http request, payload validation failed",
			logfields.Event("github_http_request_validation_failed"),
			zap.Error(err),
		)
		metrics.OutcomeInc(outcomeLabelRejectedVal)
		writeJSON(logger, resp, http.StatusBadRequest, errorResponse{Error: "Invalid payload"})

		return
	}

	// the body must decode to a non-empty JSON object, `{}` and `null`
	// bodies are rejected like unparseable ones
	var jsonBody map[string]json.RawMessage
	if err := json.Unmarshal(payload, &jsonBody); err != nil || len(jsonBody) == 0 || deliveryID == "" {
		logger.Info(
			"received invalid http request, delivery id or json body is missing",
			logfields.Event("github_http_request_invalid"),
		)
		metrics.OutcomeInc(outcomeLabelRejectedVal)
		writeJSON(logger, resp, http.StatusBadRequest, errorResponse{Error: "Invalid payload"})

		return
	}

	ev, err := ghwebhook.Normalize(hookType, payload)
	if err != nil {
		if errors.Is(err, ghwebhook.ErrUnsupportedEvent) {
			logger.Info(
				"ignoring event, event type is unsupported",
				logfields.Event("github_unsupported_event_received"),
			)
			metrics.OutcomeInc(outcomeLabelUnsupportedVal)
			writeJSON(logger, resp, http.StatusOK, messageResponse{
				Message: fmt.Sprintf("Event type %q not supported", hookType),
			})

			return
		}

		logger.Info(
			"parsing webhook payload failed",
			logfields.Event("github_event_parsing_failed"),
			zap.Error(err),
		)
		metrics.OutcomeInc(outcomeLabelRejectedVal)
		writeJSON(logger, resp, http.StatusBadRequest, errorResponse{Error: "Failed to parse event"})

		return
	}

	if ev == nil {
		metrics.OutcomeInc(outcomeLabelRejectedVal)
		writeJSON(logger, resp, http.StatusBadRequest, errorResponse{Error: "Failed to parse event"})

		return
	}

	ev.RequestID = deliveryID

	ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
	defer cancel()

	created, err := r.store.CreateEvent(ctx, ev)
	if err != nil {
		logger.Error(
			"storing event failed",
			logfields.Event("event_storing_failed"),
			zap.Error(err),
		)
		metrics.OutcomeInc(outcomeLabelFailedVal)
		writeJSON(logger, resp, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})

		return
	}

	if !created {
		logger.Debug(
			"ignoring event, delivery id was already processed",
			logfields.Event("github_event_duplicate"),
		)
		metrics.OutcomeInc(outcomeLabelDeduplicatedVal)
		writeJSON(logger, resp, http.StatusOK, deduplicatedResponse{
			Message:   "Event already processed",
			RequestID: deliveryID,
		})

		return
	}

	logger.Info(
		"event stored",
		append(ev.LogFields(), logfields.Event("github_event_stored"))...,
	)
	metrics.OutcomeInc(outcomeLabelStoredVal)
	writeJSON(logger, resp, http.StatusCreated, storedResponse{
		Message:   "Webhook received and stored successfully",
		EventType: hookType,
		Action:    string(ev.Action),
		RequestID: deliveryID,
	})
}

func writeJSON(logger *zap.Logger, resp http.ResponseWriter, status int, body interface{}) {
	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(status)

	if err := json.NewEncoder(resp).Encode(body); err != nil {
		logger.Info("sending http response failed", zap.Error(err))
	}
}
