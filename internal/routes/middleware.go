package routes

import (
	"strings"

	"github.com/gin-gonic/gin"

	"go-todo-web/internal/requestid"
	"go-todo-web/internal/services"
)

// TokenCookie は認証トークンを保持するCookie名です。
const TokenCookie = "token"

// OptionalAuth はJWTトークンを検証し、ユーザー情報をコンテキストに設定するミドルウェアです。
// トークンがない、または無効な場合はゲストとして処理を続けます。
func OptionalAuth(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		c.Set("user_id", int(claims.UserID))
		c.Set("user_email", claims.Email)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// bearerToken は Authorization ヘッダー、なければCookieからトークンを取り出します。
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return ""
		}
		return header[len("Bearer "):]
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// RequestID はリクエストIDを採番し、レスポンスヘッダーとコンテキストに設定するミドルウェアです。
// 受け取ったIDがUUIDとして正しい場合はそれを引き継ぎます。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestid.Header)
		if !requestid.Valid(id) {
			id = requestid.New()
		}

		c.Set("request_id", id)
		c.Header(requestid.Header, id)
		c.Request = c.Request.WithContext(requestid.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
