// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/todoman/internal/auth"
	"github.com/hitoshi/todoman/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// authUserContextKey はリクエストコンテキストに認証済みプリンシパルを格納するためのキー。
var authUserContextKey = contextKey("auth_user")

// NewAuthMiddleware はAuthorizationヘッダーのBearerトークンを検証し、
// 認証済みプリンシパルをリクエストコンテキストに注入するミドルウェアを返す。
// プリンシパルは必ず検証済みトークンから構築され、リクエストボディの値は使用しない。
// 未認証リクエストには401 Unauthorizedを返す。
func NewAuthMiddleware(verifier auth.TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			authUser, err := verifier.VerifyToken(auth.StripBearerPrefix(header))
			if err != nil {
				slog.Warn("token verification failed",
					slog.String("error", err.Error()),
				)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authUserContextKey, *authUser)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewAdminOnlyMiddleware はADMIN権限を要求するミドルウェアを返す。
// 認証ミドルウェアの後段に配置すること。権限が無い場合は403を返す。
func NewAdminOnlyMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authUser, err := AuthUserFromContext(r.Context())
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if authUser.Role != model.UserRoleAdmin {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuthUserFromContext はリクエストコンテキストから認証済みプリンシパルを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func AuthUserFromContext(ctx context.Context) (model.AuthUser, error) {
	authUser, ok := ctx.Value(authUserContextKey).(model.AuthUser)
	if !ok {
		return model.AuthUser{}, fmt.Errorf("auth user not found in context")
	}
	return authUser, nil
}

// ContextWithAuthUser はコンテキストに認証済みプリンシパルを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithAuthUser(ctx context.Context, authUser model.AuthUser) context.Context {
	return context.WithValue(ctx, authUserContextKey, authUser)
}
