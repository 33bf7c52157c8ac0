// Package views はTodo一覧ページの表示モデルとHTMLテンプレートを提供します。
package views

import (
	"embed"
	"html/template"

	"go-todo-web/internal/models"
)

// TemplateName は一覧ページのテンプレート名です。
const TemplateName = "welcome.tmpl"

//go:embed templates/*.tmpl
var templateFS embed.FS

// AuthUser はログイン中の利用者です。
type AuthUser struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthState は現在のセッションの認証状態です。User が nil の場合はゲストです。
type AuthState struct {
	User *AuthUser `json:"user"`
}

// NavLink はヘッダーのナビゲーションリンクです。
type NavLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Page は一覧ページ全体の表示モデルです。すべての操作はこのモデルを返します。
type Page struct {
	Title          string            `json:"-"`
	Todos          []*models.Todo    `json:"todos"`
	Pending        []*models.Todo    `json:"pending"`
	Completed      []*models.Todo    `json:"completed"`
	PendingCount   int               `json:"pending_count"`
	CompletedCount int               `json:"completed_count"`
	Empty          bool              `json:"empty"`
	Auth           AuthState         `json:"auth"`
	Nav            []NavLink         `json:"nav"`
	Errors         map[string]string `json:"errors,omitempty"`
	Old            map[string]string `json:"-"`
	Flash          string            `json:"flash,omitempty"`
}

// BuildPage は一覧順に並んだTodoから表示モデルを作成します。
// 未完了と完了済みへの振り分けは元の順序を保ちます。
func BuildPage(todos []*models.Todo, auth AuthState) Page {
	if todos == nil {
		todos = []*models.Todo{}
	}
	page := Page{
		Title:     "Todo App",
		Todos:     todos,
		Pending:   []*models.Todo{},
		Completed: []*models.Todo{},
		Empty:     len(todos) == 0,
		Auth:      auth,
		Nav:       navFor(auth),
		Old:       map[string]string{},
	}
	for _, t := range todos {
		if t.Completed {
			page.Completed = append(page.Completed, t)
		} else {
			page.Pending = append(page.Pending, t)
		}
	}
	page.PendingCount = len(page.Pending)
	page.CompletedCount = len(page.Completed)
	return page
}

// WithErrors はフィールドエラーと入力値を設定したページを返します。
func (p Page) WithErrors(fields map[string]string, old map[string]string) Page {
	p.Errors = fields
	if old != nil {
		p.Old = old
	}
	return p
}

// WithFlash はメッセージを設定したページを返します。
func (p Page) WithFlash(msg string) Page {
	p.Flash = msg
	return p
}

func navFor(auth AuthState) []NavLink {
	if auth.User != nil {
		return []NavLink{{Label: "Dashboard", Href: "/dashboard"}}
	}
	return []NavLink{
		{Label: "Log in", Href: "/login"},
		{Label: "Register", Href: "/register"},
	}
}

// Templates は埋め込みテンプレートを読み込みます。
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.tmpl")
}
