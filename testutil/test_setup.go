// Package testutil はハンドラーやリポジトリのテストで使う共通のセットアップを提供します。
package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"go-todo-web/internal/config"
	"go-todo-web/internal/database"
	"go-todo-web/internal/events"
	"go-todo-web/internal/logging"
	"go-todo-web/internal/routes"
	"go-todo-web/internal/views"
)

// TestJWTSecret はテスト用ルーターで使うJWTの署名鍵です。
const TestJWTSecret = "test-secret"

// Clock はテスト用の時計です。Now を呼ぶたびに1秒進みます。
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	frozen bool
}

// NewClock は start から始まる時計を作成します。
func NewClock(start time.Time) *Clock {
	return &Clock{now: start.UTC()}
}

// Now は現在時刻を返し、固定されていなければ1秒進めます。
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	if !c.frozen {
		c.now = c.now.Add(time.Second)
	}
	return now
}

// Freeze は時計を止めます。以降の Now は同じ時刻を返します。
func (c *Clock) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

// OpenTestDB はマイグレーション済みのインメモリSQLiteを開きます。
func OpenTestDB(t *testing.T) (*sql.DB, database.Dialect) {
	t.Helper()

	cfg := config.Default()
	cfg.DBDriver = "sqlite3"
	cfg.DBDSN = ":memory:"

	ctx := context.Background()
	db, dialect, err := database.InitDB(ctx, cfg)
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(ctx, db, dialect), "Failed to migrate test database")
	return db, dialect
}

// SetupTestRouter はテスト用のGinルーターをセットアップします。認証は TestJWTSecret で有効になります。
func SetupTestRouter(t *testing.T) (*sql.DB, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, dialect := OpenTestDB(t)

	cfg := config.Default()
	cfg.GinMode = gin.TestMode
	cfg.JWTSecret = TestJWTSecret
	cfg.MetricsEnabled = true

	router, err := routes.SetupRouter(routes.Deps{
		DB:        db,
		Dialect:   dialect,
		Config:    cfg,
		Logger:    logging.NewWithWriter(io.Discard, "debug", "text"),
		Publisher: events.NopPublisher{},
		Clock:     NewClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)).Now,
	})
	require.NoError(t, err)
	return db, router
}

// PerformJSON は Accept: application/json でリクエストを送り、ページモデルをデコードします。
func PerformJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, views.Page) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var page views.Page
	if strings.HasPrefix(resp.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page), "response should be a page model: %s", resp.Body.String())
	}
	return resp, page
}

// PerformForm はブラウザのフォーム送信と同じ形式でリクエストを送ります。
func PerformForm(t *testing.T, router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

// CreateTestTodo はテスト用のTODOを作成し、作成後のページモデルを返します。
func CreateTestTodo(t *testing.T, router *gin.Engine, title string) views.Page {
	t.Helper()

	resp, page := PerformJSON(t, router, http.MethodPost, "/todos", map[string]interface{}{"title": title})
	require.Equal(t, http.StatusCreated, resp.Code, "TODO作成に失敗しました: %s", resp.Body.String())
	return page
}

// FindTodoID はページモデルからタイトルに一致するTodoのIDを探します。
func FindTodoID(t *testing.T, page views.Page, title string) int64 {
	t.Helper()
	for _, todo := range page.Todos {
		if todo.Title == title {
			return todo.ID
		}
	}
	t.Fatalf("todo %q not found in page", title)
	return 0
}
