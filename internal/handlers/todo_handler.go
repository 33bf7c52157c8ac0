package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"go-todo-web/internal/models"
	"go-todo-web/internal/repositories"
	"go-todo-web/internal/services"
	"go-todo-web/internal/views"
)

// TodoHandler はTodo関連のハンドラーを管理します。
// どの操作も最新の一覧ページ全体を返します。
type TodoHandler struct {
	todoService *services.TodoService
	logger      *log.Logger
}

// NewTodoHandler は新しいTodoHandlerを作成します。
func NewTodoHandler(todoService *services.TodoService, logger *log.Logger) *TodoHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &TodoHandler{todoService: todoService, logger: logger}
}

// IndexHandler は一覧ページを表示します。
func (h *TodoHandler) IndexHandler(c *gin.Context) {
	h.renderPage(c, http.StatusOK, func(p views.Page) views.Page { return p })
}

// CreateTodoHandler は新しいTodoを作成します。
func (h *TodoHandler) CreateTodoHandler(c *gin.Context) {
	var req models.CreateTodoRequest
	if err := bindRequest(c, &req); err != nil {
		h.badRequest(c, err)
		return
	}

	if _, err := h.todoService.CreateTodo(c.Request.Context(), req); err != nil {
		old := map[string]string{}
		if req.Title != nil {
			old["title"] = *req.Title
		}
		h.handleError(c, err, old)
		return
	}
	h.renderPage(c, http.StatusCreated, nil)
}

// UpdateTodoHandler はTodoを更新します。
func (h *TodoHandler) UpdateTodoHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req models.UpdateTodoRequest
	if err := bindRequest(c, &req); err != nil {
		h.badRequest(c, err)
		return
	}

	if _, err := h.todoService.UpdateTodo(c.Request.Context(), id, req); err != nil {
		h.handleError(c, err, nil)
		return
	}
	h.renderPage(c, http.StatusOK, nil)
}

// DeleteTodoHandler はTodoを削除します。
func (h *TodoHandler) DeleteTodoHandler(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.todoService.DeleteTodo(c.Request.Context(), id); err != nil {
		h.handleError(c, err, nil)
		return
	}
	h.renderPage(c, http.StatusOK, nil)
}

// MethodOverrideHandler はHTMLフォームの _method フィールドに従って更新または削除を行います。
func (h *TodoHandler) MethodOverrideHandler(c *gin.Context) {
	switch strings.ToUpper(c.PostForm("_method")) {
	case http.MethodPatch, http.MethodPut:
		h.UpdateTodoHandler(c)
	case http.MethodDelete:
		h.DeleteTodoHandler(c)
	default:
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	}
}

// parseID はパスのIDを読み取ります。数値でないIDは存在しないTodoとして扱います。
func (h *TodoHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.renderPage(c, http.StatusNotFound, func(p views.Page) views.Page {
			return p.WithFlash("Todo not found")
		})
		return 0, false
	}
	return id, true
}

// bindRequest はリクエストボディを読み取ります。空のJSONボディは未入力のリクエストとして扱います。
func bindRequest(c *gin.Context, obj any) error {
	if err := c.ShouldBind(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *TodoHandler) handleError(c *gin.Context, err error, old map[string]string) {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.renderPage(c, http.StatusUnprocessableEntity, func(p views.Page) views.Page {
			return p.WithErrors(vErr.Fields, old)
		})
	case errors.Is(err, repositories.ErrTodoNotFound):
		h.renderPage(c, http.StatusNotFound, func(p views.Page) views.Page {
			return p.WithFlash("Todo not found")
		})
	default:
		h.logger.Error("todo operation failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (h *TodoHandler) badRequest(c *gin.Context, err error) {
	h.logger.Debug("invalid request payload", "err", err)
	h.renderPage(c, http.StatusBadRequest, func(p views.Page) views.Page {
		return p.WithFlash("Invalid request payload")
	})
}

// renderPage は最新の一覧を読み直し、decorate を適用したページを返します。
func (h *TodoHandler) renderPage(c *gin.Context, status int, decorate func(views.Page) views.Page) {
	todos, err := h.todoService.ListTodos(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to fetch todos", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch todos"})
		return
	}

	page := views.BuildPage(todos, authStateFrom(c))
	if decorate != nil {
		page = decorate(page)
	}

	c.Negotiate(status, gin.Negotiate{
		Offered:  []string{gin.MIMEHTML, gin.MIMEJSON},
		HTMLName: views.TemplateName,
		Data:     page,
	})
}

// authStateFrom は認証ミドルウェアが設定したユーザー情報を読み取ります。
func authStateFrom(c *gin.Context) views.AuthState {
	userID, ok := c.Get("user_id")
	if !ok {
		return views.AuthState{}
	}
	id, ok := userID.(int)
	if !ok {
		return views.AuthState{}
	}
	return views.AuthState{User: &views.AuthUser{
		ID:    id,
		Email: c.GetString("user_email"),
		Role:  c.GetString("user_role"),
	}}
}
