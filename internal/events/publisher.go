// Package events はTodoの変更イベントを外部へ通知します。
package events

import (
	"context"
	"time"

	"go-todo-web/internal/models"
)

// イベント種別
const (
	ActionCreated = "todo.created"
	ActionUpdated = "todo.updated"
	ActionDeleted = "todo.deleted"
)

// Event はTodoに対する1件の変更を表します。
type Event struct {
	Action     string       `json:"action"`
	TodoID     int64        `json:"todo_id"`
	Todo       *models.Todo `json:"todo,omitempty"`
	RequestID  string       `json:"request_id,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// Publisher はイベントの送信先です。
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher はイベントを破棄する Publisher です。Kafka未設定時に使用します。
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
