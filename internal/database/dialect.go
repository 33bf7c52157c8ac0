package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect はドライバーごとのSQLの差異を表します。
type Dialect struct {
	Driver string

	// UseReturning が true の場合、INSERT は LastInsertId ではなく RETURNING id で採番値を取得します。
	UseReturning bool

	CreateTodosTable string
}

var dialects = map[string]Dialect{
	"mysql": {
		Driver: "mysql",
		CreateTodosTable: `
			CREATE TABLE IF NOT EXISTS todos (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				title VARCHAR(255) NOT NULL,
				completed BOOLEAN NOT NULL DEFAULT FALSE,
				created_at DATETIME(6) NOT NULL,
				updated_at DATETIME(6) NOT NULL,
				INDEX idx_todos_listing (completed, created_at)
			)`,
	},
	"postgres": {
		Driver:       "postgres",
		UseReturning: true,
		CreateTodosTable: `
			CREATE TABLE IF NOT EXISTS todos (
				id BIGSERIAL PRIMARY KEY,
				title VARCHAR(255) NOT NULL,
				completed BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)`,
	},
	"sqlite3": {
		Driver: "sqlite3",
		CreateTodosTable: `
			CREATE TABLE IF NOT EXISTS todos (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				title TEXT NOT NULL,
				completed BOOLEAN NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL,
				updated_at TIMESTAMP NOT NULL
			)`,
	},
}

// DialectFor はドライバー名に対応する Dialect を返します。
func DialectFor(driver string) (Dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return Dialect{}, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return d, nil
}

// Rebind は ? プレースホルダーをドライバーの形式に変換します。
// PostgreSQL では $1, $2, ... に置き換えます。
func (d Dialect) Rebind(query string) string {
	if d.Driver != "postgres" {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
