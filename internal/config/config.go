// Package config は環境変数と .env ファイルからアプリケーション設定を読み込みます。
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config はアプリケーション全体の設定値を保持します。
type Config struct {
	Port    string
	GinMode string

	// DB接続設定
	DBDriver string
	DBUser   string
	DBPass   string
	DBHost   string
	DBPort   string
	DBName   string
	DBDSN    string // 指定された場合は他のDB設定より優先されます

	// JWT_SECRET が空の場合、認証状態は常にゲストとして扱います。
	JWTSecret string

	CORSAllowOrigins []string

	LogLevel  string
	LogFormat string

	MetricsEnabled bool

	KafkaBroker string
	KafkaTopic  string

	ShutdownTimeout time.Duration
}

var supportedDrivers = map[string]bool{
	"mysql":    true,
	"postgres": true,
	"sqlite3":  true,
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "todos")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("KAFKA_TOPIC", "todo-events")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
}

// Load は .env ファイル (存在する場合) と環境変数から設定を読み込みます。
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// .env が無い環境 (コンテナ等) では環境変数のみを使う
		if err := godotenv.Load(f); err != nil {
			log.Debug("env file not loaded", "file", f, "err", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default は環境変数を参照せずにデフォルト値のみで設定を作成します。テストで使用します。
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port:             v.GetString("PORT"),
		GinMode:          v.GetString("GIN_MODE"),
		DBDriver:         strings.ToLower(v.GetString("DB_DRIVER")),
		DBUser:           v.GetString("DB_USER"),
		DBPass:           v.GetString("DB_PASS"),
		DBHost:           v.GetString("DB_HOST"),
		DBPort:           v.GetString("DB_PORT"),
		DBName:           v.GetString("DB_NAME"),
		DBDSN:            v.GetString("DB_DSN"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		CORSAllowOrigins: splitList(v.GetString("CORS_ALLOW_ORIGINS")),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
		MetricsEnabled:   v.GetBool("METRICS_ENABLED"),
		KafkaBroker:      v.GetString("KAFKA_BROKER"),
		KafkaTopic:       v.GetString("KAFKA_TOPIC"),
		ShutdownTimeout:  v.GetDuration("SHUTDOWN_TIMEOUT"),
	}
}

// Validate は設定値の整合性を確認します。
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is not configured")
	}
	if !supportedDrivers[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER %q (use mysql, postgres or sqlite3)", c.DBDriver)
	}
	if c.DBDriver == "sqlite3" && c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required for sqlite3")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if len(c.CORSAllowOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOW_ORIGINS is not configured")
	}
	for _, origin := range c.CORSAllowOrigins {
		if !validOrigin(origin) {
			return fmt.Errorf("invalid CORS origin %q (use '*' or an http:// or https:// origin)", origin)
		}
	}
	return nil
}

func validOrigin(origin string) bool {
	return origin == "*" || strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://")
}

// AuthEnabled はJWTによる認証状態の判定が有効かどうかを返します。
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// splitList はカンマ区切りの文字列をスライスに変換します。
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
