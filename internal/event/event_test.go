package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func fieldKeys(fields []zap.Field) []string {
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Key)
	}

	return keys
}

func TestLogFields(t *testing.T) {
	fromBranch := "feature-x"

	ev := NormalizedEvent{
		RequestID:  "delivery-1",
		Author:     "bob",
		Action:     ActionMerge,
		FromBranch: &fromBranch,
		ToBranch:   "main",
	}

	keys := fieldKeys(ev.LogFields())

	assert.Contains(t, keys, "event_action")
	assert.Contains(t, keys, "git.head_branch")
	assert.Contains(t, keys, "git.base_branch")
	// the delivery id is logged by the request-scoped logger of the
	// receiver, including it here would duplicate the field
	assert.NotContains(t, keys, "github.delivery_id")
}

func TestLogFieldsPushEvent(t *testing.T) {
	ev := NormalizedEvent{
		RequestID: "delivery-1",
		Author:    "alice",
		Action:    ActionPush,
		ToBranch:  "main",
	}

	keys := fieldKeys(ev.LogFields())

	assert.Contains(t, keys, "event_action")
	assert.Contains(t, keys, "git.base_branch")
	assert.NotContains(t, keys, "git.head_branch")
}
