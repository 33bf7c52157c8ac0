// Package routesはroutingを行います。
package routes

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go-todo-web/internal/config"
	"go-todo-web/internal/database"
	"go-todo-web/internal/events"
	"go-todo-web/internal/handlers"
	"go-todo-web/internal/logging"
	"go-todo-web/internal/metrics"
	"go-todo-web/internal/repositories"
	"go-todo-web/internal/services"
	"go-todo-web/internal/views"
)

// Deps はルーターの組み立てに必要な依存関係です。
type Deps struct {
	DB        *sql.DB
	Dialect   database.Dialect
	Config    *config.Config
	Logger    *log.Logger
	Publisher events.Publisher

	// Clock が設定されている場合、Todoの日時はこの関数から取得します。
	Clock func() time.Time
}

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
func SetupRouter(deps Deps) (*gin.Engine, error) {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(logging.RequestLogger(logger))

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
		r.Use(m.Middleware())
	}

	// CORS対策
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.AllowCredentials = true
	if err := corsConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid CORS configuration: %w", err)
	}
	r.Use(cors.New(corsConfig))

	if cfg.AuthEnabled() {
		jwtService, err := services.NewJWTService(cfg.JWTSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to create JWT service: %w", err)
		}
		r.Use(OptionalAuth(jwtService))
	}

	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// リポジトリ
	todoRepo := repositories.NewTodoRepository(deps.DB, deps.Dialect)
	if deps.Clock != nil {
		todoRepo.SetClock(deps.Clock)
	}

	// サービス
	todoService := services.NewTodoService(todoRepo, deps.Publisher, logger)
	if m != nil {
		todoService.SetRecorder(m)
	}

	// ハンドラー
	todoHandler := handlers.NewTodoHandler(todoService, logger)

	// ルーティング
	r.GET("/", todoHandler.IndexHandler)
	r.POST("/todos", todoHandler.CreateTodoHandler)
	r.PATCH("/todos/:id", todoHandler.UpdateTodoHandler)
	r.DELETE("/todos/:id", todoHandler.DeleteTodoHandler)
	r.POST("/todos/:id", todoHandler.MethodOverrideHandler)

	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return r, nil
}
