// Package ghwebhook converts raw github webhook payloads into normalized
// event records.
package ghwebhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/simplesurance/hooksink/internal/event"
)

// Webhook types that are normalized, deliveries of all other types are
// acknowledged and discarded by the caller.
const (
	EventTypePush        = "push"
	EventTypePullRequest = "pull_request"
)

// ErrUnsupportedEvent is returned by Normalize for webhook types that are
// not normalized.
var ErrUnsupportedEvent = errors.New("unsupported event type")

const branchRefPrefix = "refs/heads/"

// Normalize converts the JSON payload of a github webhook delivery of the
// given type into a NormalizedEvent.
// A pull_request payload whose merged field is true is normalized as a merge
// event, the author is then the user that merged the pull-request.
// Fields that are missing in the payload degrade to empty values, the author
// defaults to event.UnknownAuthor.
// For webhook types other than push and pull_request an error is returned
// that wraps ErrUnsupportedEvent.
func Normalize(eventType string, payload []byte) (*event.NormalizedEvent, error) {
	switch eventType {
	case EventTypePush:
		return normalizePush(payload)
	case EventTypePullRequest:
		return normalizePullRequest(payload)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEvent, eventType)
	}
}

func normalizePush(payload []byte) (*event.NormalizedEvent, error) {
	var p pushPayload

	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("unmarshalling push payload failed: %w", err)
	}

	ev := event.NormalizedEvent{
		Author: event.UnknownAuthor,
		Action: event.ActionPush,
		// a push has no head branch, FromBranch stays nil
		ToBranch: strings.TrimPrefix(p.Ref, branchRefPrefix),
	}

	if p.Pusher != nil && p.Pusher.Name != "" {
		ev.Author = p.Pusher.Name
	}

	if p.HeadCommit != nil {
		ev.Timestamp = p.HeadCommit.Timestamp
	}

	return &ev, nil
}

func normalizePullRequest(payload []byte) (*event.NormalizedEvent, error) {
	var p pullRequestPayload

	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("unmarshalling pull_request payload failed: %w", err)
	}

	pr := p.PullRequest
	if pr == nil {
		pr = &pullRequest{}
	}

	var fromBranch string
	if pr.Head != nil {
		fromBranch = pr.Head.Ref
	}

	ev := event.NormalizedEvent{
		Author:     event.UnknownAuthor,
		FromBranch: &fromBranch,
	}

	if pr.Base != nil {
		ev.ToBranch = pr.Base.Ref
	}

	if pr.Merged {
		ev.Action = event.ActionMerge
		ev.Timestamp = pr.MergedAt

		if pr.MergedBy != nil && pr.MergedBy.Login != "" {
			ev.Author = pr.MergedBy.Login
		}

		return &ev, nil
	}

	ev.Action = event.ActionPullRequest
	ev.Timestamp = pr.CreatedAt

	if pr.User != nil && pr.User.Login != "" {
		ev.Author = pr.User.Login
	}

	return &ev, nil
}
