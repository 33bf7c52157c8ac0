// Package database はDB接続の初期化、SQL方言の差異吸収、スキーマ作成を行います。
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"go-todo-web/internal/config"
)

// GetDSN は設定からドライバーごとの接続文字列 (DSN) を構築します。
// DB_DSN が指定されている場合はそれをそのまま使用します。
func GetDSN(cfg *config.Config) string {
	if cfg.DBDSN != "" {
		return cfg.DBDSN
	}
	switch cfg.DBDriver {
	case "postgres":
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.DBUser, cfg.DBPass),
			Host:     fmt.Sprintf("%s:%s", cfg.DBHost, cfg.DBPort),
			Path:     cfg.DBName,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	default:
		// parseTime=true で DATETIME を time.Time として読み取る
		// clientFoundRows=true で RowsAffected を「変更行数」ではなく「一致行数」にする
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC&clientFoundRows=true", cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	}
}

// InitDB はデータベース接続を初期化し、疎通確認を行います。
func InitDB(ctx context.Context, cfg *config.Config) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(cfg.DBDriver)
	if err != nil {
		return nil, Dialect{}, err
	}

	db, err := sql.Open(dialect.Driver, GetDSN(cfg))
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("failed to open database connection: %w", err)
	}

	if dialect.Driver == "sqlite3" {
		// :memory: は接続ごとに別DBになるため、接続を1本に固定する
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, Dialect{}, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, dialect, nil
}

// Migrate は todos テーブルが存在しない場合に作成します。
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if _, err := db.ExecContext(ctx, dialect.CreateTodosTable); err != nil {
		return fmt.Errorf("failed to create todos table: %w", err)
	}
	return nil
}
