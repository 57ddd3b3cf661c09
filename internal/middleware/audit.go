package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxAuditBodyBytes は監査ログに記録するリクエストボディの上限サイズ。
const maxAuditBodyBytes = 4 * 1024

// NewAdminAuditMiddleware は管理者APIの呼び出しを監査ログに記録するミドルウェアを返す。
// 実行ユーザーID、時刻、URL、リクエストボディを構造化ログとして出力する。
// 認証ミドルウェアの後段に配置すること。
func NewAdminAuditMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body []byte
			if r.Body != nil {
				limited := io.LimitReader(r.Body, maxAuditBodyBytes)
				body, _ = io.ReadAll(limited)
				// ハンドラーが読めるようボディを復元する
				r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))
			}

			attrs := []any{
				slog.Time("at", time.Now()),
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.String("request_body", string(body)),
			}
			if authUser, err := AuthUserFromContext(r.Context()); err == nil {
				attrs = append(attrs, slog.Int64("user_id", authUser.ID))
			}
			logger.Info("admin_api_call", attrs...)

			next.ServeHTTP(w, r)
		})
	}
}
