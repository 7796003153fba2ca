// Package event defines the normalized webhook event record that hooksink
// persists.
package event

import (
	"go.uber.org/zap"

	"github.com/simplesurance/hooksink/internal/logfields"
)

// Action classifies a normalized event record.
type Action string

const (
	ActionPush        Action = "PUSH"
	ActionPullRequest Action = "PULL_REQUEST"
	ActionMerge       Action = "MERGE"
)

// UnknownAuthor is stored as author when the payload does not name an actor.
const UnknownAuthor = "Unknown"

// NormalizedEvent is the provider-agnostic representation of one webhook
// delivery.
type NormalizedEvent struct {
	// ID is an opaque identifier assigned by the store on creation.
	// It is empty before the event was persisted.
	ID string `json:"id"`

	// RequestID is the unique github delivery ID of the event, it is used
	// as idempotency key.
	RequestID string `json:"request_id"`

	// Author is the login or name of the actor that triggered the event.
	Author string `json:"author"`

	Action Action `json:"action"`

	// FromBranch is the head branch of pull-request and merge events.
	// It is nil for push events.
	FromBranch *string `json:"from_branch"`

	// ToBranch is the branch that was pushed to or the base branch of a
	// pull-request.
	ToBranch string `json:"to_branch"`

	// Timestamp is the timestamp string as supplied by github.
	// It is stored verbatim and not parsed.
	Timestamp string `json:"timestamp"`
}

// LogFields returns zap fields describing the event.
// The delivery ID is not included, it is part of the request-scoped logger
// context of the callers.
func (e *NormalizedEvent) LogFields() []zap.Field {
	fields := make([]zap.Field, 0, 3) // cap == max. size of fields we append

	fields = append(fields, logfields.Action(string(e.Action)))

	if e.FromBranch != nil && *e.FromBranch != "" {
		fields = append(fields, logfields.HeadBranch(*e.FromBranch))
	}

	if e.ToBranch != "" {
		fields = append(fields, logfields.BaseBranch(e.ToBranch))
	}

	return fields
}
