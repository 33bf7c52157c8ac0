package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-todo-web/internal/models"
)

func TestNewMessage(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	event := Event{
		Action:     ActionCreated,
		TodoID:     42,
		Todo:       &models.Todo{ID: 42, Title: "Buy groceries"},
		RequestID:  "req-1",
		OccurredAt: at,
	}

	msg, err := newMessage(event)
	require.NoError(t, err)

	assert.Equal(t, "42", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "action", msg.Headers[0].Key)
	assert.Equal(t, ActionCreated, string(msg.Headers[0].Value))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "todo.created", decoded["action"])
	assert.Equal(t, float64(42), decoded["todo_id"])
	assert.Equal(t, "req-1", decoded["request_id"])
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), Event{Action: ActionDeleted}))
	assert.NoError(t, p.Close())
}
