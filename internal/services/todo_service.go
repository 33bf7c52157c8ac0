package services

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"go-todo-web/internal/events"
	"go-todo-web/internal/models"
	"go-todo-web/internal/requestid"
)

// TodoStore はTodoServiceが必要とする永続化操作です。
type TodoStore interface {
	Create(ctx context.Context, t *models.Todo) (*models.Todo, error)
	FindAll(ctx context.Context) ([]*models.Todo, error)
	FindByID(ctx context.Context, id int64) (*models.Todo, error)
	Update(ctx context.Context, id int64, t *models.Todo) (*models.Todo, error)
	Delete(ctx context.Context, id int64) error
}

// MutationRecorder は変更操作の回数を記録します。
type MutationRecorder interface {
	RecordMutation(action string)
}

// TodoService はTodo関連のビジネスロジックを扱います。
type TodoService struct {
	todoRepo  TodoStore
	publisher events.Publisher
	recorder  MutationRecorder
	logger    *log.Logger
}

// NewTodoService は新しいTodoServiceを作成します。
func NewTodoService(todoRepo TodoStore, publisher events.Publisher, logger *log.Logger) *TodoService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &TodoService{todoRepo: todoRepo, publisher: publisher, logger: logger}
}

// SetRecorder は変更回数の記録先を設定します。
func (s *TodoService) SetRecorder(r MutationRecorder) {
	s.recorder = r
}

// ListTodos はすべてのTodoを一覧表示の順序で取得します。
func (s *TodoService) ListTodos(ctx context.Context) ([]*models.Todo, error) {
	return s.todoRepo.FindAll(ctx)
}

// CreateTodo はタイトルを検証し、未完了のTodoを作成します。
func (s *TodoService) CreateTodo(ctx context.Context, req models.CreateTodoRequest) (*models.Todo, error) {
	title, err := req.Validate()
	if err != nil {
		return nil, err
	}

	created, err := s.todoRepo.Create(ctx, &models.Todo{Title: title, Completed: false})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, events.ActionCreated, created.ID, created)
	return created, nil
}

// UpdateTodo は指定されたフィールドのみ更新します。値が変わらない場合は書き込みを行いません。
func (s *TodoService) UpdateTodo(ctx context.Context, id int64, req models.UpdateTodoRequest) (*models.Todo, error) {
	existingTodo, err := s.todoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	changed := *existingTodo
	if req.Title != nil {
		changed.Title = *req.Title
	}
	if req.Completed != nil {
		changed.Completed = *req.Completed
	}
	if changed.Title == existingTodo.Title && changed.Completed == existingTodo.Completed {
		return existingTodo, nil
	}

	updatedTodo, err := s.todoRepo.Update(ctx, id, &changed)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, events.ActionUpdated, updatedTodo.ID, updatedTodo)
	return updatedTodo, nil
}

// DeleteTodo はTodoを削除します。
func (s *TodoService) DeleteTodo(ctx context.Context, id int64) error {
	if err := s.todoRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify(ctx, events.ActionDeleted, id, nil)
	return nil
}

// notify は変更イベントを送信します。送信に失敗してもリクエスト自体は成功扱いにします。
func (s *TodoService) notify(ctx context.Context, action string, id int64, todo *models.Todo) {
	if s.recorder != nil {
		s.recorder.RecordMutation(action)
	}

	event := events.Event{
		Action:     action,
		TodoID:     id,
		Todo:       todo,
		RequestID:  requestid.FromContext(ctx),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish todo event", "action", action, "todo_id", id, "err", err)
	}
}
