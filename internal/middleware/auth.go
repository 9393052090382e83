// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/contactman/internal/auth"
	"github.com/hitoshi/contactman/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// TokenVerifier はベアラートークンの検証に必要なインターフェース。
// auth.Verifierの部分集合として定義する。
type TokenVerifier interface {
	Authorize(authHeader string) auth.Decision
}

// NewAuthMiddleware はAuthorizationヘッダーのベアラートークンを検証し、
// 認証済みユーザーIDをリクエストコンテキストに注入するミドルウェアを返す。
// 判定がDenyのリクエストには401を返し、後続のハンドラーは実行しない。
func NewAuthMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := verifier.Authorize(r.Header.Get("Authorization"))
			if decision.Effect != auth.EffectAllow {
				slog.Warn("request denied",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			// 外側のログミドルウェアにユーザーIDを引き渡す
			if holder, ok := r.Context().Value(loggedUserIDKey).(*loggedUserID); ok {
				holder.value = decision.UserID
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, decision.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext はリクエストコンテキストから認証済みユーザーIDを取り出す。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// WithUserID はユーザーIDを格納したコンテキストを返す。テストでの利用を想定している。
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
