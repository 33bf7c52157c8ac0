package models

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError は入力値の検証エラーです。フィールド名ごとにエラー内容を保持します。
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError は単一フィールドの ValidationError を作成します。
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
