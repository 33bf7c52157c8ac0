// Package requestid はリクエストIDの生成とcontextへの格納を扱います。
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header はリクエストIDを受け渡すHTTPヘッダー名です。
const Header = "X-Request-ID"

type contextKey struct{}

// New は新しいリクエストIDを生成します。
func New() string {
	return uuid.New().String()
}

// WithRequestID はリクエストIDを格納したcontextを返します。
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext はcontextからリクエストIDを取り出します。無い場合は空文字列です。
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

// Valid は外部から渡されたIDを採用してよいか判定します。UUID形式のみ受け付けます。
func Valid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
