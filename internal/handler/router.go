package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/todoman/internal/auth"
	"github.com/hitoshi/todoman/internal/metrics"
	"github.com/hitoshi/todoman/internal/middleware"
)

// DBPinger はヘルスチェックで使用するデータベース疎通確認のインターフェース。
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     auth.TokenVerifier
	RateLimiter       *middleware.RateLimiter
	CORSAllowedOrigin string
	Logger            *slog.Logger
	Metrics           metrics.MetricsCollector
	Gatherer          prometheus.Gatherer

	// ヘルスチェック
	DB DBPinger

	// サービス層
	AuthService    AuthServiceInterface
	TodoService    TodoServiceInterface
	CommentService CommentServiceInterface
	ManagerService ManagerServiceInterface
	UserService    UserServiceInterface
	AdminUsers     AdminUserServiceInterface
	AdminComments  AdminCommentServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Metrics → Logging
//
// 認証ルート（/auth/*）とヘルスチェックは認証ミドルウェアの外に配置する。
// 管理者ルート（/admin/*）はADMIN権限チェックと監査ログを追加で通過する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	authHandler := NewAuthHandler(deps.AuthService)
	todoHandler := NewTodoHandler(deps.TodoService)
	commentHandler := NewCommentHandler(deps.CommentService)
	managerHandler := NewManagerHandler(deps.ManagerService)
	userHandler := NewUserHandler(deps.UserService)
	adminHandler := NewAdminHandler(deps.AdminUsers, deps.AdminComments)

	// --- 認証不要のルート ---

	r.Get("/health", newHealthHandler(deps.DB))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	r.Route("/auth", func(r chi.Router) {
		// サインアップのみ接続元IP単位のレート制限を追加
		r.With(deps.RateLimiter.SignupMiddleware).Post("/signup", authHandler.Signup)
		r.Post("/signin", authHandler.Signin)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier))
		r.Use(deps.RateLimiter.GeneralMiddleware)

		// Todo管理
		r.Route("/todos", func(r chi.Router) {
			r.Post("/", todoHandler.SaveTodo)
			r.Get("/", todoHandler.GetTodos)

			r.Route("/{todoId}", func(r chi.Router) {
				r.Get("/", todoHandler.GetTodo)

				// コメント
				r.Route("/comments", func(r chi.Router) {
					r.Post("/", commentHandler.SaveComment)
					r.Get("/", commentHandler.GetComments)
				})

				// マネージャー
				r.Route("/managers", func(r chi.Router) {
					r.Post("/", managerHandler.SaveManager)
					r.Get("/", managerHandler.GetManagers)
					r.Delete("/{managerId}", managerHandler.DeleteManager)
				})
			})
		})

		// ユーザー管理
		r.Route("/users", func(r chi.Router) {
			r.Put("/", userHandler.ChangePassword)
			r.Get("/{userId}", userHandler.GetUser)
		})

		// 管理者API: ADMIN権限チェックと監査ログを追加
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.NewAdminOnlyMiddleware())
			r.Use(middleware.NewAdminAuditMiddleware(deps.Logger))

			r.Patch("/users/{userId}", adminHandler.ChangeUserRole)
			r.Delete("/comments/{commentId}", adminHandler.DeleteComment)
		})
	})

	return r
}

// newHealthHandler はデータベース疎通を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(db DBPinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
