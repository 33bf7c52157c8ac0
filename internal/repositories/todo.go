// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-todo-web/internal/database"
	"go-todo-web/internal/models"
)

// ErrTodoNotFound はTODOが見つからない場合のエラーです。
var ErrTodoNotFound = errors.New("todo not found")

// TodoRepository は todos テーブルへのアクセスを行います。
type TodoRepository struct {
	DB      *sql.DB
	dialect database.Dialect
	now     func() time.Time
}

// NewTodoRepository は新しいTodoRepositoryインスタンスを作成します。
func NewTodoRepository(db *sql.DB, dialect database.Dialect) *TodoRepository {
	return &TodoRepository{DB: db, dialect: dialect, now: time.Now}
}

// SetClock はタイムスタンプ生成に使う時計を差し替えます。
func (r *TodoRepository) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	r.now = now
}

// timestamp はDBに保存する現在時刻を返します。MySQL の DATETIME(6) に合わせてマイクロ秒に丸めます。
func (r *TodoRepository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

// Create は新しいTodoタスクをデータベースに挿入します。
func (r *TodoRepository) Create(ctx context.Context, t *models.Todo) (*models.Todo, error) {
	now := r.timestamp()
	query := r.dialect.Rebind("INSERT INTO todos (title, completed, created_at, updated_at) VALUES (?, ?, ?, ?)")

	if r.dialect.UseReturning {
		var id int64
		if err := r.DB.QueryRowContext(ctx, query+" RETURNING id", t.Title, t.Completed, now, now).Scan(&id); err != nil {
			return nil, fmt.Errorf("could not insert todo: %w", err)
		}
		t.ID = id
	} else {
		result, err := r.DB.ExecContext(ctx, query, t.Title, t.Completed, now, now)
		if err != nil {
			return nil, fmt.Errorf("could not insert todo: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("could not get last insert ID: %w", err)
		}
		t.ID = id
	}

	t.CreatedAt = now
	t.UpdatedAt = now
	return t, nil
}

// FindAll はすべてのTodoタスクを一覧表示の順序で取得します。
// 挿入順 (id) で読み出してから安定ソートするため、作成日時が同じ行は挿入順を保ちます。
func (r *TodoRepository) FindAll(ctx context.Context) ([]*models.Todo, error) {
	query := "SELECT id, title, completed, created_at, updated_at FROM todos ORDER BY id ASC"

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query todos: %w", err)
	}
	defer rows.Close()

	todos := make([]*models.Todo, 0)
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("could not scan todo: %w", err)
		}
		todos = append(todos, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	models.SortForListing(todos)
	return todos, nil
}

// FindByID は指定されたIDのTodoタスクを取得します。
func (r *TodoRepository) FindByID(ctx context.Context, id int64) (*models.Todo, error) {
	query := r.dialect.Rebind("SELECT id, title, completed, created_at, updated_at FROM todos WHERE id = ?")

	var t models.Todo
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Title, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("could not query todo: %w", err)
	}
	return &t, nil
}

// Update は指定されたIDのTodoタスクのタイトルと完了状態を更新します。
func (r *TodoRepository) Update(ctx context.Context, id int64, t *models.Todo) (*models.Todo, error) {
	query := r.dialect.Rebind("UPDATE todos SET title = ?, completed = ?, updated_at = ? WHERE id = ?")

	result, err := r.DB.ExecContext(ctx, query, t.Title, t.Completed, r.timestamp(), id)
	if err != nil {
		return nil, fmt.Errorf("could not update todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrTodoNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete は指定されたIDのTodoタスクを削除します。
func (r *TodoRepository) Delete(ctx context.Context, id int64) error {
	query := r.dialect.Rebind("DELETE FROM todos WHERE id = ?")

	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("could not delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrTodoNotFound
	}
	return nil
}
