// Package modelsはTodoを定義します。
package models

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// TitleMaxLength はタイトルの最大文字数です。
const TitleMaxLength = 255

type Todo struct {
	ID        int64     `json:"id"`         // 主キー
	Title     string    `json:"title"`      // タスクのタイトル（必須）
	Completed bool      `json:"completed"`  // 完了状態
	CreatedAt time.Time `json:"created_at"` // 作成日時
	UpdatedAt time.Time `json:"updated_at"` // 更新日時
}

// CreateTodoRequest はタスク追加フォーム / JSON のリクエストです。
type CreateTodoRequest struct {
	Title *string `json:"title" form:"title"`
}

// UpdateTodoRequest はタスク更新のリクエストです。指定されたフィールドのみ更新します。
type UpdateTodoRequest struct {
	Title     *string `json:"title" form:"title"`
	Completed *bool   `json:"completed" form:"completed"`
}

// Validate は作成リクエストを検証し、正規化したタイトルを返します。
func (r CreateTodoRequest) Validate() (string, error) {
	if r.Title == nil {
		return "", NewValidationError("title", "required")
	}
	return validateTitle(*r.Title)
}

// Validate は更新リクエストを検証します。タイトルが指定された場合は正規化した値に置き換えます。
func (r *UpdateTodoRequest) Validate() error {
	if r.Title == nil {
		return nil
	}
	title, err := validateTitle(*r.Title)
	if err != nil {
		return err
	}
	r.Title = &title
	return nil
}

func validateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", NewValidationError("title", "required")
	}
	if utf8.RuneCountInString(title) > TitleMaxLength {
		return "", NewValidationError("title", "max:255")
	}
	return title, nil
}

// SortForListing は未完了を先に、各グループ内は作成日時の新しい順に並べ替えます。
// 作成日時が同じ場合は元の順序を保持します。
func SortForListing(todos []*Todo) {
	sort.SliceStable(todos, func(i, j int) bool {
		a, b := todos[i], todos[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}
